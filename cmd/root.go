package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chatspace/chatspace/chat"
	"github.com/chatspace/chatspace/config"
	"github.com/chatspace/chatspace/constants/lipgloss"
	"github.com/chatspace/chatspace/workspace"
)

// RootDependencies holds the resolved dependencies shared by subcommands.
type RootDependencies struct {
	Config *config.Config
	Store  *workspace.Store[chat.Message]
	Cwd    string
}

// rootCmd: chatspace
var rootCmd = &cobra.Command{
	Use:   "chatspace",
	Short: "Manage AI chat workspaces: projects, conversations and project files.",
	Long: `chatspace manages AI chat workspaces on local disk. A workspace holds named
projects; each project holds sequentially numbered conversations (messages and
todo items), a project-scoped virtual file system, and a test-harness
configuration record for the external test runner.`,
	Run: func(cmd *cobra.Command, args []string) {
		if version, _ := cmd.Flags().GetBool("version"); version {
			fmt.Println(config.DefaultConfig.Version)
			return
		}
		_ = cmd.Help()
	},
}

func init() {
	config.InitFlags(rootCmd)
}

// handleRootCommand resolves configuration and opens the workspace store.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		return nil
	}

	cfg := config.LoadConfigWithCache(cmd, cwd)

	store, err := workspace.NewStore[chat.Message](cfg.WorkspaceRoot)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error opening workspace: %v", err)))
		return nil
	}
	store.MessageText = chat.MessageText

	return &RootDependencies{
		Config: cfg,
		Store:  store,
		Cwd:    cwd,
	}
}

// indexPath returns the location of the sqlite search index database.
func (deps *RootDependencies) indexPath() string {
	return filepath.Join(deps.Store.Root, "index.db")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}
