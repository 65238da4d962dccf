package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/chatspace/chatspace/chat"
	"github.com/chatspace/chatspace/constants/lipgloss"
	"github.com/chatspace/chatspace/index"
)

// indexCmd: chatspace index
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the conversation search index",
}

// indexRebuildCmd rebuilds the sqlite index from the JSON files on disk.
var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the search index from stored conversations",
	Long: `The 'rebuild' command drops the sqlite search index and repopulates it from
the conversation files on disk. The JSON files are authoritative; use this
command after restoring a workspace from backup or when search results look
stale.`,
	Run: func(cmd *cobra.Command, args []string) {
		var force bool
		var stats bool

		// Parse flags
		force, _ = cmd.Flags().GetBool("force")
		stats, _ = cmd.Flags().GetBool("stats")

		handleIndexRebuildCommand(force, stats, cmd)
	},
}

func handleIndexRebuildCommand(force bool, showStats bool, cmd *cobra.Command) {
	deps := handleRootCommand(cmd)
	if deps == nil {
		return
	}

	ix, err := index.Open(deps.indexPath())
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error opening index: %v", err)))
		return
	}
	defer ix.Close()

	// Show index statistics if requested
	if showStats {
		conversations, messages, err := ix.Count()
		if err != nil {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: Could not show statistics: %v", err)))
			return
		}
		fmt.Println(lipgloss.Info.Render("Index Statistics:"))
		fmt.Printf("  Indexed Conversations: %d\n", conversations)
		fmt.Printf("  Indexed Messages: %d\n", messages)

		// Only show stats, skip the actual rebuild
		return
	}

	// Confirm rebuild (if not forced)
	if !force {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Are you sure you want to rebuild the entire search index? (y/N): ")
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println(lipgloss.Yellow.Render("Index rebuild cancelled."))
			return
		}
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true)

	spinnerInstance, _ := spinner.Start("Rebuilding search index...")

	indexed, err := rebuildIndex(deps, ix)

	spinnerInstance.Stop()
	fmt.Print("\r")

	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error rebuilding index: %v", err)))
		return
	}

	fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✓ Search index rebuilt (%d conversations indexed)!", indexed)))
}

// rebuildIndex repopulates the index from every conversation on disk.
func rebuildIndex(deps *RootDependencies, ix *index.Index) (int, error) {
	if err := ix.Reset(); err != nil {
		return 0, err
	}

	projects, err := deps.Store.ListProjects()
	if err != nil {
		return 0, err
	}

	indexed := 0
	for _, project := range projects {
		conversations, err := deps.Store.ListConversations(project.Name)
		if err != nil {
			continue
		}

		for _, conv := range conversations {
			data, err := deps.Store.LoadConversation(project.Name, conv.ID)
			if err != nil {
				continue // Skip corrupted files
			}

			texts := make([]string, 0, len(data.Messages))
			for _, msg := range data.Messages {
				texts = append(texts, chat.MessageText(msg))
			}

			if err := ix.IndexConversation(project.Name, conv, texts); err != nil {
				return indexed, err
			}
			indexed++
		}
	}

	return indexed, nil
}

func init() {
	// Define command-specific flags
	indexRebuildCmd.Flags().BoolP("force", "f", false, "Force index rebuild without confirmation")
	indexRebuildCmd.Flags().BoolP("stats", "s", false, "Show index statistics instead of rebuilding")

	indexCmd.AddCommand(indexRebuildCmd)
	rootCmd.AddCommand(indexCmd)
}
