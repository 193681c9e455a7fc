package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wrk-dev/wrk/internal/api"
	"github.com/wrk-dev/wrk/internal/views"
)

func (a *app) sprintsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sprints",
		Aliases: []string{"sprint", "s"},
		Short:   "Manage sprints",
	}

	var project string
	list := &cobra.Command{
		Use:   "list",
		Short: "List sprints, optionally of one project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sprints, err := a.client.Sprints.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(sprints))
			for _, s := range sprints {
				if project != "" && s.ProjectID != project {
					continue
				}
				rows = append(rows, []string{s.ID, s.Name, s.Status, s.ProjectID, day(s.StartDate), day(s.EndDate)})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "STATUS", "PROJECT", "START", "END"}, rows)
			return nil
		},
	}
	list.Flags().StringVar(&project, "project", "", "Only sprints of this project")

	show := &cobra.Command{
		Use:   "show <sprint-id>",
		Short: "Show a sprint with its stories and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := views.NewSprintDetail(a.client, args[0])
			if err := d.Load(cmd.Context()); err != nil {
				return viewError(d, err)
			}
			w := cmd.OutOrStdout()
			s := d.Sprint
			printFields(w,
				"Sprint", s.Name,
				"ID", s.ID,
				"Project", d.Project.Name,
				"Status", s.Status,
				"Dates", day(s.StartDate)+" → "+day(s.EndDate),
			)
			fmt.Fprintln(w)
			printStories(w, s.UserStories)
			printTasks(w, s.Tasks)
			return nil
		},
	}

	var in views.SprintInput
	var createProject, start, end string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Plan a new sprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.StartDate, err = parseDay("start", start); err != nil {
				return err
			}
			if in.EndDate, err = parseDay("end", end); err != nil {
				return err
			}
			form := views.NewCreateSprintForm(a.client, createProject)
			s, err := form.Submit(cmd.Context(), in)
			if err != nil {
				return viewError(form, err)
			}
			success(cmd.OutOrStdout(), "Created sprint %s (%s)", s.Name, s.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&createProject, "project", "", "Project ID")
	createCmd.Flags().StringVar(&in.Name, "name", "", "Sprint name")
	createCmd.Flags().StringVar(&in.Description, "description", "", "Sprint goal")
	createCmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	createCmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	_ = createCmd.MarkFlagRequired("project")

	var update api.UpdateSprintRequest
	var updDescription, updStart, updEnd string
	updateCmd := &cobra.Command{
		Use:   "update <sprint-id>",
		Short: "Update sprint fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			update.Description = optionalString(cmd.Flags().Changed("description"), updDescription)
			if update.StartDate, err = isoFlag("start", updStart); err != nil {
				return err
			}
			if update.EndDate, err = isoFlag("end", updEnd); err != nil {
				return err
			}
			s, err := a.client.Sprints.Update(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Updated sprint %s (%s)", s.ID, s.Status)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&update.Name, "name", "", "Sprint name")
	updateCmd.Flags().StringVar(&updDescription, "description", "", "Sprint goal")
	updateCmd.Flags().StringVar(&update.Status, "status", "", "PLANNING, ACTIVE or COMPLETED")
	updateCmd.Flags().StringVar(&updStart, "start", "", "Start date (YYYY-MM-DD)")
	updateCmd.Flags().StringVar(&updEnd, "end", "", "End date (YYYY-MM-DD)")

	deleteCmd := &cobra.Command{
		Use:   "delete <sprint-id>",
		Short: "Delete a sprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Sprints.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Deleted sprint %s", args[0])
			return nil
		},
	}

	var storyProject string
	addStory := &cobra.Command{
		Use:   "add-story <sprint-id> <story-id>",
		Short: "Move a backlog story into a sprint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := views.NewUserStoryList(a.client, storyProject, nil)
			if err := l.MoveToSprint(cmd.Context(), args[1], args[0]); err != nil {
				return viewError(l, err)
			}
			success(cmd.OutOrStdout(), "Story %s planned into %s; %d stories left in backlog",
				args[1], args[0], len(l.Backlog()))
			return nil
		},
	}
	addStory.Flags().StringVar(&storyProject, "project", "", "Project ID of the story")
	_ = addStory.MarkFlagRequired("project")

	cmd.AddCommand(list, show, createCmd, updateCmd, deleteCmd, addStory)
	return cmd
}
