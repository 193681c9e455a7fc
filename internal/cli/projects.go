package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wrk-dev/wrk/internal/api"
	"github.com/wrk-dev/wrk/internal/models"
	"github.com/wrk-dev/wrk/internal/views"
)

func (a *app) projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "Manage projects",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List projects you own or belong to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := views.NewProjectList(a.client)
			if err := l.Load(cmd.Context()); err != nil {
				return viewError(l, err)
			}
			rows := make([][]string, 0, len(l.Projects))
			for _, p := range l.Projects {
				rows = append(rows, []string{p.ID, p.Name, p.Status, fmt.Sprint(len(p.Members)), day(p.StartDate), day(p.EndDate)})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "STATUS", "MEMBERS", "START", "END"}, rows)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project with its members, sprints and backlog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := views.NewProjectDetail(a.client, args[0])
			if err := d.Load(cmd.Context()); err != nil {
				return viewError(d, err)
			}
			printProject(cmd, d)
			return nil
		},
	}

	var name, description string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project owned by you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := views.NewCreateProjectForm(a.client)
			if !form.CanCreate(a.client.Auth.CurrentUser()) {
				return errors.New("your role cannot create projects")
			}
			p, err := form.Submit(cmd.Context(), name, description)
			if err != nil {
				return viewError(form, err)
			}
			success(cmd.OutOrStdout(), "Created project %s (%s)", p.Name, p.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Project name")
	createCmd.Flags().StringVar(&description, "description", "", "Project description")

	var update api.UpdateProjectRequest
	var updDescription, start, end string
	updateCmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update project fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			update.Description = optionalString(cmd.Flags().Changed("description"), updDescription)
			if update.StartDate, err = isoFlag("start", start); err != nil {
				return err
			}
			if update.EndDate, err = isoFlag("end", end); err != nil {
				return err
			}
			p, err := a.client.Projects.Update(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Updated project %s", p.ID)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&update.Name, "name", "", "Project name")
	updateCmd.Flags().StringVar(&updDescription, "description", "", "Project description")
	updateCmd.Flags().StringVar(&update.Status, "status", "", "ACTIVE, COMPLETED or ARCHIVED")
	updateCmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	updateCmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")

	deleteCmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Projects.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Deleted project %s", args[0])
			return nil
		},
	}

	var member api.AddMemberRequest
	addMember := &cobra.Command{
		Use:   "add-member <project-id>",
		Short: "Add a user to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.client.Projects.AddMember(cmd.Context(), args[0], member)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Added %s as %s", m.UserID, m.Role)
			return nil
		},
	}
	addMember.Flags().StringVar(&member.UserID, "user", "", "User ID")
	addMember.Flags().StringVar(&member.Role, "role", models.RoleTeamDeveloper, "Project role")

	removeMember := &cobra.Command{
		Use:   "remove-member <project-id> <user-id>",
		Short: "Remove a user from a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Projects.RemoveMember(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Removed %s from %s", args[1], args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, createCmd, updateCmd, deleteCmd, addMember, removeMember)
	return cmd
}

func printProject(cmd *cobra.Command, d *views.ProjectDetail) {
	w := cmd.OutOrStdout()
	p := d.Project
	owner := p.OwnerID
	if p.Owner != nil {
		owner = p.Owner.Name
	}
	printFields(w,
		"Project", p.Name,
		"ID", p.ID,
		"Status", p.Status,
		"Owner", owner,
		"Dates", day(p.StartDate)+" → "+day(p.EndDate),
	)
	if desc := deref(p.Description); desc != "" {
		printFields(w, "Description", desc)
	}

	fmt.Fprintln(w)
	members := make([][]string, 0, len(p.Members))
	for _, m := range p.Members {
		name := m.UserID
		if m.User != nil {
			name = m.User.Name
		}
		members = append(members, []string{m.UserID, name, m.Role})
	}
	printTable(w, []string{"MEMBER", "NAME", "ROLE"}, members)

	sprints := make([][]string, 0, len(p.Sprints))
	for _, s := range p.Sprints {
		sprints = append(sprints, []string{s.ID, s.Name, s.Status, day(s.StartDate), day(s.EndDate)})
	}
	printTable(w, []string{"SPRINT", "NAME", "STATUS", "START", "END"}, sprints)

	printStories(w, d.Backlog())
}
