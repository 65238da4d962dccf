package utils

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chatspace/chatspace/constants/lipgloss"
)

// InputPromptWithContext prompts the user with context cancellation support.
func InputPromptWithContext(ctx context.Context, reader *bufio.Reader) (string, error) {
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		fmt.Print(lipgloss.BlueSky.Render("> "))

		userInput, err := reader.ReadString('\n')

		if err != nil {
			if err == io.EOF {
				errChan <- nil
			} else {
				errChan <- fmt.Errorf("error reading input: %w", err)
			}
			return
		}

		inputChan <- strings.TrimSpace(userInput)
	}()

	select {
	case <-ctx.Done():
		fmt.Println() // newline for clean exit
		return "", ctx.Err()
	case err := <-errChan:
		return "", err
	case input := <-inputChan:
		return input, nil
	}
}

// ConfirmPrompt asks the user to confirm a destructive action on subject.
// Returns true only on an explicit "y" or "yes".
func ConfirmPrompt(subject string, reader *bufio.Reader) (bool, error) {
	fmt.Printf("%s %s (y/N): ", lipgloss.Yellow.Render("Delete"), subject)

	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("error reading confirmation: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
