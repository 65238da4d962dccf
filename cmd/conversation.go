package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chatspace/chatspace/chat"
	"github.com/chatspace/chatspace/constants/lipgloss"
	"github.com/chatspace/chatspace/index"
	"github.com/chatspace/chatspace/utils"
)

// convCmd: chatspace conv
var convCmd = &cobra.Command{
	Use:   "conv",
	Short: "Manage conversations within a project",
}

// projectFlag reads the required --project flag.
func projectFlag(cmd *cobra.Command) (string, error) {
	project, _ := cmd.Flags().GetString("project")
	if project == "" {
		return "", fmt.Errorf("--project is required")
	}
	return project, nil
}

var convNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}
		project, err := projectFlag(cmd)
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		conv, err := deps.Store.CreateConversation(project, name)
		if err != nil {
			return err
		}

		fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✔️ Created conversation %s", conv.ID)))
		return nil
	},
}

var convListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations, most recently updated first",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}
		project, err := projectFlag(cmd)
		if err != nil {
			return err
		}

		conversations, err := deps.Store.ListConversations(project)
		if err != nil {
			return err
		}

		if len(conversations) == 0 {
			fmt.Println(lipgloss.Yellow.Render("No conversations found."))
			return nil
		}

		for _, conv := range conversations {
			name := conv.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("%-10s %-32s %4d messages  updated %s\n",
				conv.ID, name, conv.MessageCount, conv.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var convShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a conversation's messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}
		project, err := projectFlag(cmd)
		if err != nil {
			return err
		}

		data, err := deps.Store.LoadConversation(project, args[0])
		if err != nil {
			return err
		}

		for _, msg := range data.Messages {
			fmt.Println(lipgloss.BlueSky.Render(chat.Label(msg.Role) + ":"))
			fmt.Println(msg.Content)
			fmt.Println()
		}

		if len(data.Todos) > 0 {
			fmt.Println(lipgloss.Info.Render("Todos:"))
			for i, todo := range data.Todos {
				mark := " "
				if todo.Done {
					mark = "x"
				}
				fmt.Printf("  %d. [%s] %s\n", i+1, mark, todo.Content)
			}
		}
		return nil
	},
}

var convRenameCmd = &cobra.Command{
	Use:   "rename [id] [name]",
	Short: "Set the display name of a conversation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}
		project, err := projectFlag(cmd)
		if err != nil {
			return err
		}

		if err := deps.Store.RenameConversation(project, args[0], args[1]); err != nil {
			return err
		}
		fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✔️ Renamed %s to %q", args[0], args[1])))
		return nil
	},
}

var convDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}
		project, err := projectFlag(cmd)
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			reader := bufio.NewReader(os.Stdin)
			accepted, err := utils.ConfirmPrompt(fmt.Sprintf("conversation %s", args[0]), reader)
			if err != nil {
				return err
			}
			if !accepted {
				fmt.Println(lipgloss.Yellow.Render("Delete cancelled."))
				return nil
			}
		}

		if err := deps.Store.DeleteConversation(project, args[0]); err != nil {
			return err
		}

		// Keep the search index in sync; a stale entry is harmless but noisy
		if deps.Config.EnableIndex {
			if ix, err := index.Open(deps.indexPath()); err == nil {
				_ = ix.RemoveConversation(project, args[0])
				ix.Close()
			}
		}

		fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✔️ Deleted conversation %s", args[0])))
		return nil
	},
}

var convSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search conversations by name or message content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}
		project, err := projectFlag(cmd)
		if err != nil {
			return err
		}

		query := args[0]

		if deps.Config.EnableIndex {
			ix, err := index.Open(deps.indexPath())
			if err == nil {
				defer ix.Close()
				hits, err := ix.Search(project, query)
				if err == nil {
					if len(hits) == 0 {
						fmt.Println(lipgloss.Yellow.Render("No matches."))
						return nil
					}
					for _, hit := range hits {
						name := hit.Name
						if name == "" {
							name = "(unnamed)"
						}
						fmt.Printf("%-10s %-32s %s\n", hit.ConversationID, name, lipgloss.Gray.Render(hit.Snippet))
					}
					return nil
				}
			}
			// Index unavailable, fall back to a linear scan
		}

		results, err := deps.Store.SearchConversations(project, query)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println(lipgloss.Yellow.Render("No matches."))
			return nil
		}
		for _, conv := range results {
			name := conv.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("%-10s %-32s %4d messages\n", conv.ID, name, conv.MessageCount)
		}
		return nil
	},
}

var convExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a conversation as markdown or JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}
		project, err := projectFlag(cmd)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		var content string
		switch format {
		case "markdown", "md", "":
			content, err = deps.Store.ExportMarkdown(project, args[0])
		case "json":
			var raw []byte
			raw, err = deps.Store.ExportJSON(project, args[0])
			content = string(raw)
		default:
			return fmt.Errorf("unknown export format %q (markdown, json)", format)
		}
		if err != nil {
			return err
		}

		if output != "" {
			if err := os.WriteFile(output, []byte(content), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✔️ Exported to %s", output)))
			return nil
		}

		if format == "json" {
			fmt.Println(content)
			return nil
		}
		return utils.RenderMarkdown(content, deps.Config.Theme)
	},
}

// convLogCmd: interactive message append loop
var convLogCmd = &cobra.Command{
	Use:   "log [id]",
	Short: "Interactively append messages to a conversation",
	Long: `The 'log' subcommand opens an interactive loop that appends user messages
to a conversation. Each line becomes a message; slash commands control the
session (/help for the list). Intended for capturing conversation transcripts
produced outside chatspace.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}
		project, err := projectFlag(cmd)
		if err != nil {
			return err
		}
		return handleLogCommand(deps, project, args[0])
	},
}

func handleLogCommand(deps *RootDependencies, project string, id string) error {
	// Create a context with cancel function
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if _, err := deps.Store.LoadConversation(project, id); err != nil {
		return err
	}

	// Sync the session's messages into the search index on the way out
	defer syncConversationIndex(deps, project, id)

	reader := bufio.NewReader(os.Stdin)
	role := chat.RoleUser

	logOptionsBox := lipgloss.BoxStyle.Render("/help  Help for log subcommand")
	fmt.Println(logOptionsBox)

	for {
		select {
		case <-ctx.Done():
			return nil

		default:
			userInput, err := utils.InputPromptWithContext(ctx, reader)

			if err != nil {
				if errors.Is(err, context.Canceled) {
					fmt.Println(lipgloss.Yellow.Render("\n🔄 Exiting..."))
					return nil
				}
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				continue
			}

			if userInput == "" {
				fmt.Print("\r")
				continue
			}

			handled, exit, newRole := findLogSubCommand(userInput, role, deps, project, id)
			if newRole != "" {
				role = newRole
			}
			if handled {
				continue
			}
			if exit {
				return nil
			}

			msg := chat.NewMessage(role, userInput)
			if err := deps.Store.AppendMessages(project, id, msg); err != nil {
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				continue
			}
		}
	}
}

// syncConversationIndex reindexes one conversation. Failures are ignored;
// the JSON files stay authoritative and a rebuild recovers the index.
func syncConversationIndex(deps *RootDependencies, project string, id string) {
	if !deps.Config.EnableIndex {
		return
	}

	data, err := deps.Store.LoadConversation(project, id)
	if err != nil {
		return
	}

	ix, err := index.Open(deps.indexPath())
	if err != nil {
		return
	}
	defer ix.Close()

	summary, err := deps.Store.ListConversations(project)
	if err != nil {
		return
	}
	for _, conv := range summary {
		if conv.ID != id {
			continue
		}
		texts := make([]string, 0, len(data.Messages))
		for _, msg := range data.Messages {
			texts = append(texts, chat.MessageText(msg))
		}
		_ = ix.IndexConversation(project, conv, texts)
		return
	}
}

// findLogSubCommand dispatches slash commands inside the log loop.
// Returns (handled, exit, newRole).
func findLogSubCommand(command string, role string, deps *RootDependencies, project string, id string) (bool, bool, string) {
	switch command {
	case "/help":
		helps := "/clear  Clear screen\n/exit  Exit from log mode\n/role <user|assistant|system|tool>  Switch message role\n/todos  List todos of this conversation\n/todo <text>  Add a todo"
		styledHelps := lipgloss.BoxStyle.Render(helps)
		fmt.Println(styledHelps)
		return true, false, ""
	case "/clear":
		fmt.Print("\033[2J\033[H")
		return true, false, ""
	case "/exit":
		return false, true, ""
	case "/todos":
		todos, err := deps.Store.ListTodos(project, id)
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			return true, false, ""
		}
		if len(todos) == 0 {
			fmt.Println(lipgloss.Yellow.Render("No todos."))
			return true, false, ""
		}
		for i, todo := range todos {
			mark := " "
			if todo.Done {
				mark = "x"
			}
			fmt.Printf("  %d. [%s] %s\n", i+1, mark, todo.Content)
		}
		return true, false, ""
	default:
		if strings.HasPrefix(command, "/role ") {
			newRole := strings.TrimSpace(strings.TrimPrefix(command, "/role "))
			switch newRole {
			case chat.RoleUser, chat.RoleAssistant, chat.RoleSystem, chat.RoleTool:
				fmt.Printf("Message role set to: %s\n", newRole)
				return true, false, newRole
			default:
				fmt.Println("Invalid role. Use 'user', 'assistant', 'system', or 'tool'.")
				return true, false, ""
			}
		}
		if strings.HasPrefix(command, "/todo ") {
			content := strings.TrimSpace(strings.TrimPrefix(command, "/todo "))
			if err := deps.Store.AddTodo(project, id, content); err != nil {
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			} else {
				fmt.Println(lipgloss.Green.Render("✔️ Todo added."))
			}
			return true, false, ""
		}
		return false, false, ""
	}
}

func init() {
	convCmd.PersistentFlags().StringP("project", "p", "", "Project name (required)")

	convNewCmd.Flags().String("name", "", "Display name for the conversation")
	convDeleteCmd.Flags().BoolP("force", "f", false, "Delete without confirmation")
	convExportCmd.Flags().String("format", "markdown", "Export format: markdown or json")
	convExportCmd.Flags().StringP("output", "o", "", "Write the export to a file instead of stdout")

	convCmd.AddCommand(convNewCmd)
	convCmd.AddCommand(convListCmd)
	convCmd.AddCommand(convShowCmd)
	convCmd.AddCommand(convLogCmd)
	convCmd.AddCommand(convRenameCmd)
	convCmd.AddCommand(convSearchCmd)
	convCmd.AddCommand(convExportCmd)
	convCmd.AddCommand(convDeleteCmd)

	rootCmd.AddCommand(convCmd)
}
