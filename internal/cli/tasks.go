package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wrk-dev/wrk/internal/api"
	"github.com/wrk-dev/wrk/internal/models"
	"github.com/wrk-dev/wrk/internal/tui"
	"github.com/wrk-dev/wrk/internal/views"
)

func (a *app) tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task", "t"},
		Short:   "Manage tasks",
	}

	var filter api.TaskFilter
	var sprint string
	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := a.client.Tasks.GetAll(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if sprint != "" {
				kept := tasks[:0]
				for _, t := range tasks {
					if t.InSprint(sprint) {
						kept = append(kept, t)
					}
				}
				tasks = kept
			}
			printTasks(cmd.OutOrStdout(), tasks)
			return nil
		},
	}
	list.Flags().StringVar(&filter.ProjectID, "project", "", "Only tasks of this project")
	list.Flags().StringVar(&filter.AssigneeID, "assignee", "", "Only tasks assigned to this user")
	list.Flags().StringVar(&sprint, "sprint", "", "Only tasks of this sprint")

	show := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.client.Tasks.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			assignee := deref(t.AssigneeID)
			if t.Assignee != nil {
				assignee = t.Assignee.Name
			}
			printFields(cmd.OutOrStdout(),
				"Task", t.Title,
				"ID", t.ID,
				"Status", t.Status,
				"Priority", tui.PriorityStyle(t.Priority).Render(t.Priority),
				"Sprint", deref(t.SprintID),
				"Story", deref(t.UserStoryID),
				"Assignee", assignee,
				"Deadline", day(t.Deadline),
			)
			if desc := deref(t.Description); desc != "" {
				printFields(cmd.OutOrStdout(), "Description", desc)
			}
			return nil
		},
	}

	var in views.TaskInput
	var project, createSprint string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Priority = strings.ToUpper(in.Priority)
			form := views.NewCreateTaskForm(a.client, project, createSprint)
			t, err := form.Submit(cmd.Context(), in)
			if err != nil {
				return viewError(form, err)
			}
			success(cmd.OutOrStdout(), "Created task %s (%s)", t.Title, t.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&project, "project", "", "Project ID")
	createCmd.Flags().StringVar(&createSprint, "sprint", "", "Sprint ID")
	createCmd.Flags().StringVar(&in.Title, "title", "", "Task title")
	createCmd.Flags().StringVar(&in.Description, "description", "", "Task description")
	createCmd.Flags().StringVar(&in.AssigneeID, "assignee", "", "Assignee user ID")
	createCmd.Flags().StringVar(&in.UserStoryID, "story", "", "User story ID")
	createCmd.Flags().StringVar(&in.Priority, "priority", "", "LOW, MEDIUM or HIGH (default MEDIUM)")
	_ = createCmd.MarkFlagRequired("project")

	move := &cobra.Command{
		Use:   "move <task-id> <TODO|IN_PROGRESS|DONE|next|prev>",
		Short: "Change a task's board column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.client.Tasks.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			status := strings.ToUpper(args[1])
			switch status {
			case "NEXT":
				status = views.Shift(t.Status, 1)
			case "PREV":
				status = views.Shift(t.Status, -1)
			}

			board := views.NewTaskBoard(a.client, t.ProjectID, "")
			board.SetTasks([]models.Task{*t})
			if err := board.UpdateStatus(cmd.Context(), t.ID, status); err != nil {
				return viewError(board, err)
			}
			success(cmd.OutOrStdout(), "%s → %s", t.Title, status)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Tasks.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Deleted task %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, createCmd, move, deleteCmd)
	return cmd
}

func printTasks(w io.Writer, tasks []models.Task) {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		assignee := "-"
		if t.Assignee != nil {
			assignee = t.Assignee.Name
		} else if t.AssigneeID != nil {
			assignee = *t.AssigneeID
		}
		rows = append(rows, []string{t.ID, t.Title, t.Status, t.Priority, assignee})
	}
	printTable(w, []string{"TASK", "TITLE", "STATUS", "PRIORITY", "ASSIGNEE"}, rows)
}
