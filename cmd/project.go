package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chatspace/chatspace/constants/lipgloss"
	"github.com/chatspace/chatspace/utils"
)

// projectCmd: chatspace project
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage workspace projects",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}

		model, _ := cmd.Flags().GetString("model")
		if model == "" {
			model = deps.Config.DefaultModel
		}

		project, err := deps.Store.CreateProject(args[0], model)
		if err != nil {
			return err
		}

		fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✔️ Created project %q at %s", project.Name, project.Path)))
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}

		projects, err := deps.Store.ListProjects()
		if err != nil {
			return err
		}

		if len(projects) == 0 {
			fmt.Println(lipgloss.Yellow.Render("No projects found."))
			return nil
		}

		for _, project := range projects {
			line := fmt.Sprintf("%-24s %3d conversations  created %s",
				project.Name, project.ConversationsCount, project.CreatedAt.Format("2006-01-02 15:04"))
			if project.DefaultModel != "" {
				line += "  model " + project.DefaultModel
			}
			fmt.Println(line)
		}
		return nil
	},
}

var projectInfoCmd = &cobra.Command{
	Use:   "info [name]",
	Short: "Show details of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}

		project, err := deps.Store.GetProject(args[0])
		if err != nil {
			return err
		}

		files, err := deps.Store.ListFiles(project.Name)
		if err != nil {
			return err
		}

		info := fmt.Sprintf("Project: %s\nPath: %s\nCreated: %s\nConversations: %d\nFiles: %d",
			project.Name, project.Path, project.CreatedAt.Format("2006-01-02 15:04:05"),
			project.ConversationsCount, len(files))
		if project.DefaultModel != "" {
			info += "\nDefault model: " + project.DefaultModel
		}

		fmt.Println(lipgloss.BoxStyle.Render(info))
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a project and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return fmt.Errorf("failed to initialize dependencies")
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			reader := bufio.NewReader(os.Stdin)
			accepted, err := utils.ConfirmPrompt(fmt.Sprintf("project %q and all its conversations", args[0]), reader)
			if err != nil {
				return err
			}
			if !accepted {
				fmt.Println(lipgloss.Yellow.Render("Delete cancelled."))
				return nil
			}
		}

		if err := deps.Store.DeleteProject(args[0]); err != nil {
			return err
		}

		fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✔️ Deleted project %q", args[0])))
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().String("model", "", "Default model identifier for the project")
	projectDeleteCmd.Flags().BoolP("force", "f", false, "Delete without confirmation")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectInfoCmd)
	projectCmd.AddCommand(projectDeleteCmd)

	rootCmd.AddCommand(projectCmd)
}
