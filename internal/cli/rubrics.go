package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wrk-dev/wrk/internal/views"
)

func (a *app) rubricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rubrics",
		Aliases: []string{"rubric"},
		Short:   "Manage evaluation rubrics",
	}

	var project string
	list := &cobra.Command{
		Use:   "list",
		Short: "List rubrics, optionally of one project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := views.NewRubricManager(a.client, project)
			if err := m.Load(cmd.Context()); err != nil {
				return viewError(m, err)
			}
			rows := make([][]string, 0, len(m.Rubrics))
			for _, r := range m.Rubrics {
				rows = append(rows, []string{r.ID, r.Name, strconv.Itoa(len(r.Criteria)), strconv.Itoa(r.MaxTotal())})
			}
			printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "CRITERIA", "MAX"}, rows)
			return nil
		},
	}
	list.Flags().StringVar(&project, "project", "", "Project ID")

	show := &cobra.Command{
		Use:   "show <rubric-id>",
		Short: "Show a rubric's criteria",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.client.Rubrics.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printFields(w, "Rubric", r.Name, "ID", r.ID, "Max total", strconv.Itoa(r.MaxTotal()))
			if desc := deref(r.Description); desc != "" {
				printFields(w, "Description", desc)
			}
			rows := make([][]string, 0, len(r.Criteria))
			for _, c := range r.Criteria {
				rows = append(rows, []string{c.ID, c.Name, strconv.Itoa(c.MaxScore), strconv.Itoa(c.Weight)})
			}
			printTable(w, []string{"CRITERION", "NAME", "MAX", "WEIGHT"}, rows)
			return nil
		},
	}

	var createProject, name, description string
	var criteria []string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a rubric (teachers only)",
		Long: `Create a rubric. Each --criterion is NAME[:MAX[:WEIGHT]]; MAX defaults
to 10 and WEIGHT to 1.`,
		Example: `  wrk rubrics create --project p1 --name Sprint --criterion Code:10:2 --criterion Docs:5`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := views.NewRubricManager(a.client, createProject)
			m.Draft.Name = name
			m.Draft.Description = description
			for i, spec := range criteria {
				c, err := parseCriterion(spec)
				if err != nil {
					return err
				}
				if i > 0 {
					m.AddCriteria()
				}
				if err := m.UpdateCriteria(i, c); err != nil {
					return err
				}
			}
			if err := m.Create(cmd.Context()); err != nil {
				return viewError(m, err)
			}
			success(cmd.OutOrStdout(), "Created rubric %s; %d rubrics available", name, len(m.Rubrics))
			return nil
		},
	}
	createCmd.Flags().StringVar(&createProject, "project", "", "Project ID")
	createCmd.Flags().StringVar(&name, "name", "", "Rubric name")
	createCmd.Flags().StringVar(&description, "description", "", "Rubric description")
	createCmd.Flags().StringArrayVar(&criteria, "criterion", nil, "Criterion as NAME[:MAX[:WEIGHT]] (repeatable)")

	var deleteProject string
	deleteCmd := &cobra.Command{
		Use:   "delete <rubric-id>",
		Short: "Delete a rubric (teachers only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := views.NewRubricManager(a.client, deleteProject)
			if err := m.Delete(cmd.Context(), args[0]); err != nil {
				return viewError(m, err)
			}
			success(cmd.OutOrStdout(), "Deleted rubric %s", args[0])
			return nil
		},
	}
	deleteCmd.Flags().StringVar(&deleteProject, "project", "", "Project ID")

	cmd.AddCommand(list, show, createCmd, deleteCmd)
	return cmd
}

// parseCriterion reads NAME[:MAX[:WEIGHT]].
func parseCriterion(spec string) (views.CriteriaDraft, error) {
	c := views.NewCriteria()
	parts := strings.Split(spec, ":")
	c.Name = strings.TrimSpace(parts[0])
	if len(parts) > 3 {
		return c, fmt.Errorf("criterion %q: want NAME[:MAX[:WEIGHT]]", spec)
	}
	if len(parts) > 1 {
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return c, fmt.Errorf("criterion %q max score: %w", spec, err)
		}
		c.MaxScore = n
	}
	if len(parts) > 2 {
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return c, fmt.Errorf("criterion %q weight: %w", spec, err)
		}
		c.Weight = n
	}
	return c, nil
}
