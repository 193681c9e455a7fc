package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wrk-dev/wrk/internal/api"
	"github.com/wrk-dev/wrk/internal/models"
	"github.com/wrk-dev/wrk/internal/views"
)

func (a *app) storiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stories",
		Aliases: []string{"story"},
		Short:   "Manage user stories",
	}

	var project string
	var onlyBacklog bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List a project's user stories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := views.NewUserStoryList(a.client, project, nil)
			if err := l.Reload(cmd.Context()); err != nil {
				return viewError(l, err)
			}
			stories := l.Stories
			if onlyBacklog {
				stories = l.Backlog()
			}
			printStories(cmd.OutOrStdout(), stories)
			return nil
		},
	}
	list.Flags().StringVar(&project, "project", "", "Project ID")
	list.Flags().BoolVar(&onlyBacklog, "backlog", false, "Only unplanned stories")
	_ = list.MarkFlagRequired("project")

	show := &cobra.Command{
		Use:   "show <story-id>",
		Short: "Show one user story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.client.UserStories.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printFields(cmd.OutOrStdout(),
				"Story", s.Title,
				"ID", s.ID,
				"Status", s.Status,
				"Priority", s.Priority,
				"Points", intOr(s.StoryPoints, "-"),
				"Sprint", deref(s.SprintID),
				"Description", s.Description,
				"Acceptance", deref(s.Acceptance),
			)
			return nil
		},
	}

	var in views.StoryInput
	var createProject string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Add a story to a project's backlog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Priority = strings.ToUpper(in.Priority)
			form := views.NewCreateUserStoryForm(a.client, createProject)
			s, err := form.Submit(cmd.Context(), in)
			if err != nil {
				return viewError(form, err)
			}
			success(cmd.OutOrStdout(), "Created story %s (%s)", s.Title, s.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&createProject, "project", "", "Project ID")
	createCmd.Flags().StringVar(&in.Title, "title", "", "Story title")
	createCmd.Flags().StringVar(&in.Description, "description", "", "As a ..., I want ..., so that ...")
	createCmd.Flags().StringVar(&in.Acceptance, "acceptance", "", "Acceptance criteria")
	createCmd.Flags().StringVar(&in.Priority, "priority", "", "LOW, MEDIUM or HIGH (default MEDIUM)")
	createCmd.Flags().IntVar(&in.StoryPoints, "points", 0, "Story points")
	_ = createCmd.MarkFlagRequired("project")

	var update api.UpdateUserStoryRequest
	var points int
	updateCmd := &cobra.Command{
		Use:   "update <story-id>",
		Short: "Update story fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("points") {
				update.StoryPoints = &points
			}
			update.Priority = strings.ToUpper(update.Priority)
			s, err := a.client.UserStories.Update(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Updated story %s", s.ID)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&update.Title, "title", "", "Story title")
	updateCmd.Flags().StringVar(&update.Description, "description", "", "Description")
	updateCmd.Flags().StringVar(&update.Acceptance, "acceptance", "", "Acceptance criteria")
	updateCmd.Flags().StringVar(&update.Priority, "priority", "", "LOW, MEDIUM or HIGH")
	updateCmd.Flags().StringVar(&update.Status, "status", "", "BACKLOG, IN_PROGRESS or COMPLETED")
	updateCmd.Flags().StringVar(&update.AssigneeID, "assignee", "", "Assignee user ID")
	updateCmd.Flags().IntVar(&points, "points", 0, "Story points")

	deleteCmd := &cobra.Command{
		Use:   "delete <story-id>",
		Short: "Delete a user story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := views.NewUserStoryList(a.client, "", nil)
			if err := l.Delete(cmd.Context(), args[0]); err != nil {
				return viewError(l, err)
			}
			success(cmd.OutOrStdout(), "Deleted story %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, createCmd, updateCmd, deleteCmd)
	return cmd
}

func printStories(w io.Writer, stories []models.UserStory) {
	rows := make([][]string, 0, len(stories))
	for _, s := range stories {
		rows = append(rows, []string{s.ID, s.Title, s.Status, s.Priority, intOr(s.StoryPoints, "-")})
	}
	printTable(w, []string{"STORY", "TITLE", "STATUS", "PRIORITY", "POINTS"}, rows)
}
