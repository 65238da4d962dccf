package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chatspace/chatspace/stats"
)

// statsCmd: chatspace stats
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show workspace-wide statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}

		workspaceStats, err := stats.Collect(deps.Store)
		if err != nil {
			return err
		}

		workspaceStats.Display()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
