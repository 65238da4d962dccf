package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/chatspace/chatspace/constants/lipgloss"
	"github.com/chatspace/chatspace/workspace"
)

// fsCmd: chatspace fs
var fsCmd = &cobra.Command{
	Use:   "fs",
	Short: "Manage a project's virtual file system",
}

var fsWriteCmd = &cobra.Command{
	Use:   "write [path] [content]",
	Short: "Write content to a virtual file",
	Long: `Write content to a path in the project's virtual file system. With a single
argument and --from, the content is read from a real file instead.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}
		project, err := projectFlag(cmd)
		if err != nil {
			return err
		}

		var content string
		from, _ := cmd.Flags().GetString("from")
		switch {
		case from != "":
			raw, err := os.ReadFile(from)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", from, err)
			}
			content = string(raw)
		case len(args) == 2:
			content = args[1]
		default:
			return fmt.Errorf("content argument or --from is required")
		}

		if err := deps.Store.WriteFile(project, args[0], content); err != nil {
			return err
		}
		fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✔️ Wrote %s", args[0])))
		return nil
	},
}

var fsCatCmd = &cobra.Command{
	Use:   "cat [path]",
	Short: "Print the content of a virtual file",
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

		content, err := deps.Store.ReadFile(project, args[0])
		if err != nil {
			return err
		}
		fmt.Print(content)
		return nil
	},
}

var fsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List virtual files of a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}
		project, err := projectFlag(cmd)
		if err != nil {
			return err
		}

		paths, err := deps.Store.ListFiles(project)
		if err != nil {
			return err
		}

		if len(paths) == 0 {
			fmt.Println(lipgloss.Yellow.Render("No files."))
			return nil
		}
		for _, path := range paths {
			fmt.Println(path)
		}
		return nil
	},
}

var fsRmCmd = &cobra.Command{
	Use:   "rm [path]",
	Short: "Remove a virtual file",
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

		if err := deps.Store.RemoveFile(project, args[0]); err != nil {
			return err
		}
		fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✔️ Removed %s", args[0])))
		return nil
	},
}

var fsImportCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Import files from a real directory into the virtual file system",
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

		spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100).WithRemoveWhenDone(true)
		spinnerImport, _ := spinner.Start("Importing files...")

		imported, err := deps.Store.ImportDir(project, args[0])

		spinnerImport.Stop()
		fmt.Print("\r")

		if err != nil {
			return err
		}

		fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✔️ Imported %d files", len(imported))))
		for _, path := range imported {
			fmt.Println("  " + path)
		}
		return nil
	},
}

var fsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show virtual file changes since the last snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}
		project, err := projectFlag(cmd)
		if err != nil {
			return err
		}

		snapshot, _ := cmd.Flags().GetBool("snapshot")
		if snapshot {
			taken, err := deps.Store.Snapshot(project)
			if err != nil {
				return err
			}
			fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✔️ Snapshot taken (%d files)", len(taken.Files))))
			return nil
		}

		diff, err := deps.Store.DiffSnapshot(project)
		if err != nil {
			if errors.Is(err, workspace.ErrSnapshotNotFound) {
				fmt.Println(lipgloss.Yellow.Render("No snapshot yet. Run 'chatspace fs status --snapshot' first."))
				return nil
			}
			return err
		}

		if diff.IsClean() {
			fmt.Println(lipgloss.Green.Render("No changes since last snapshot."))
			return nil
		}

		for _, path := range diff.Added {
			fmt.Println(lipgloss.Green.Render("A " + path))
		}
		for _, path := range diff.Modified {
			fmt.Println(lipgloss.Yellow.Render("M " + path))
		}
		for _, path := range diff.Removed {
			fmt.Println(lipgloss.Red.Render("D " + path))
		}
		return nil
	},
}

func init() {
	fsCmd.PersistentFlags().StringP("project", "p", "", "Project name (required)")

	fsWriteCmd.Flags().String("from", "", "Read content from a real file")
	fsStatusCmd.Flags().Bool("snapshot", false, "Take a new snapshot instead of diffing")

	fsCmd.AddCommand(fsWriteCmd)
	fsCmd.AddCommand(fsCatCmd)
	fsCmd.AddCommand(fsLsCmd)
	fsCmd.AddCommand(fsRmCmd)
	fsCmd.AddCommand(fsImportCmd)
	fsCmd.AddCommand(fsStatusCmd)

	rootCmd.AddCommand(fsCmd)
}
