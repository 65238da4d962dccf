package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chatspace/chatspace/constants/lipgloss"
	"github.com/chatspace/chatspace/harness"
)

// harnessCmd: chatspace harness
var harnessCmd = &cobra.Command{
	Use:   "harness",
	Short: "Inspect the test-runner configuration",
}

var harnessShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective test-runner configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}

		config, err := harness.Load(deps.Cwd)
		if err != nil {
			return err
		}

		raw, err := json.MarshalIndent(config, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	},
}

var harnessCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the test-runner configuration and apply its setup files",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}

		config, err := harness.Load(deps.Cwd)
		if err != nil {
			return err
		}

		applied, err := config.ApplySetup(deps.Cwd)
		if err != nil {
			return err
		}

		info := fmt.Sprintf("Environment: %s\nTimeouts: %d ms test / %d ms hook\nCoverage: %s (%s)",
			config.Environment, config.TestTimeoutMs, config.HookTimeoutMs,
			config.Coverage.Provider, strings.Join(config.Coverage.Reporters, ", "))
		if len(applied) > 0 {
			info += "\nSetup applied: " + strings.Join(applied, ", ")
		}

		fmt.Println(lipgloss.BoxStyle.Render(info))
		fmt.Println(lipgloss.Green.Render("✔️ Harness configuration is valid."))
		return nil
	},
}

func init() {
	harnessCmd.AddCommand(harnessShowCmd)
	harnessCmd.AddCommand(harnessCheckCmd)

	rootCmd.AddCommand(harnessCmd)
}
