package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chatspace/chatspace/constants/lipgloss"
)

// todoCmd: chatspace todo
var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage todo items on a conversation",
}

var todoAddCmd = &cobra.Command{
	Use:   "add [conversation-id] [content]",
	Short: "Add a todo item",
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

		if err := deps.Store.AddTodo(project, args[0], args[1]); err != nil {
			return err
		}
		fmt.Println(lipgloss.Green.Render("✔️ Todo added."))
		return nil
	},
}

var todoDoneCmd = &cobra.Command{
	Use:   "done [conversation-id] [number]",
	Short: "Mark a todo item as completed",
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

		position, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid todo number %q", args[1])
		}

		if err := deps.Store.CompleteTodo(project, args[0], position); err != nil {
			return err
		}
		fmt.Println(lipgloss.Green.Render("✔️ Todo completed."))
		return nil
	},
}

var todoListCmd = &cobra.Command{
	Use:   "list [conversation-id]",
	Short: "List todo items of a conversation",
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

		todos, err := deps.Store.ListTodos(project, args[0])
		if err != nil {
			return err
		}

		if len(todos) == 0 {
			fmt.Println(lipgloss.Yellow.Render("No todos."))
			return nil
		}

		for i, todo := range todos {
			mark := " "
			if todo.Done {
				mark = "x"
			}
			fmt.Printf("%d. [%s] %s\n", i+1, mark, todo.Content)
		}
		return nil
	},
}

func init() {
	todoCmd.PersistentFlags().StringP("project", "p", "", "Project name (required)")

	todoCmd.AddCommand(todoAddCmd)
	todoCmd.AddCommand(todoDoneCmd)
	todoCmd.AddCommand(todoListCmd)

	rootCmd.AddCommand(todoCmd)
}
