package utils

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// RenderMarkdown prints markdown content to stdout with syntax highlighting.
// Fenced code blocks are highlighted with the language from the fence info
// string; everything else is rendered as plain markdown.
func RenderMarkdown(content string, theme string) error {
	return RenderMarkdownWithContext(context.Background(), content, theme)
}

// RenderMarkdownWithContext renders markdown with cancellation support,
// checking the context between lines so long exports can be interrupted.
func RenderMarkdownWithContext(ctx context.Context, content string, theme string) error {
	lines := strings.Split(content, "\n")

	inCodeBlock := false
	language := "markdown"

	for i, line := range lines {
		select {
		case <-ctx.Done():
			fmt.Printf("\n\nOutput interrupted...\n")
			return ctx.Err()
		default:
		}

		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			if inCodeBlock {
				language = strings.TrimSpace(strings.TrimPrefix(line, "```"))
				if language == "" {
					language = "text"
				}
			} else {
				language = "markdown"
			}
			fmt.Println(line)
			continue
		}

		highlightAs := "markdown"
		if inCodeBlock {
			highlightAs = language
		}

		var buf bytes.Buffer
		if err := quick.Highlight(&buf, line+"\n", highlightAs, "terminal256", theme); err != nil {
			// Unknown language, fall back to plain output
			fmt.Println(line)
			continue
		}
		fmt.Print(buf.String())

		// Check for cancellation more frequently for responsive interruption
		if i%5 == 0 {
			select {
			case <-ctx.Done():
				fmt.Printf("\n\nOutput interrupted...\n")
				return ctx.Err()
			default:
			}
		}
	}

	return nil
}
