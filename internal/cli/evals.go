package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wrk-dev/wrk/internal/models"
	"github.com/wrk-dev/wrk/internal/views"
)

func (a *app) evalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "evals",
		Aliases: []string{"eval", "evaluations"},
		Short:   "Grade tasks, sprints and projects against rubrics",
	}

	var task, sprint, project, student string
	list := &cobra.Command{
		Use:   "list",
		Short: "List evaluations of a task, sprint, project or student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				evals []models.Evaluation
				err   error
			)
			switch {
			case task != "" || sprint != "":
				m := views.NewEvaluationModule(a.client, project, task, sprint)
				if err := m.LoadExisting(ctx); err != nil {
					return viewError(m, err)
				}
				evals = m.Existing
			case project != "":
				evals, err = a.client.Evaluations.GetByProject(ctx, project)
			case student != "":
				evals, err = a.client.Evaluations.GetByStudent(ctx, student)
			default:
				return errors.New("one of --task, --sprint, --project or --student is required")
			}
			if err != nil {
				return err
			}
			printEvaluations(cmd.OutOrStdout(), evals)
			return nil
		},
	}
	list.Flags().StringVar(&task, "task", "", "Task ID")
	list.Flags().StringVar(&sprint, "sprint", "", "Sprint ID")
	list.Flags().StringVar(&project, "project", "", "Project ID (general evaluations)")
	list.Flags().StringVar(&student, "student", "", "Student user ID")

	show := &cobra.Command{
		Use:   "show <evaluation-id>",
		Short: "Show one evaluation with per-criterion scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.client.Evaluations.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			evaluator := e.EvaluatorID
			if e.Evaluator != nil {
				evaluator = e.Evaluator.Name
			}
			printFields(w,
				"Evaluation", e.ID,
				"Target", target(*e),
				"Evaluator", evaluator,
				"Status", e.Status,
				"Score", intOr(e.Score, "-"),
				"Feedback", deref(e.Feedback),
			)
			rows := make([][]string, 0, len(e.Criteria))
			for _, c := range e.Criteria {
				name := c.CriteriaID
				if c.Criteria != nil {
					name = c.Criteria.Name
				}
				rows = append(rows, []string{name, strconv.Itoa(c.Score), deref(c.Comment)})
			}
			printTable(w, []string{"CRITERION", "SCORE", "COMMENT"}, rows)
			return nil
		},
	}

	var evProject, evTask, evSprint, rubric, feedback string
	var scores map[string]int
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Grade a task, sprint or project (teachers only)",
		Long: `Grade against a rubric. Every criterion starts at its maximum score;
override individual criteria with --score CRITERION_ID=N.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m := views.NewEvaluationModule(a.client, evProject, evTask, evSprint)
			if !m.CanEvaluate() {
				return errors.New("only teachers can evaluate")
			}
			if err := m.LoadRubrics(ctx); err != nil {
				return viewError(m, err)
			}
			if !m.SelectRubric(rubric) {
				return fmt.Errorf("rubric %q not found for this project", rubric)
			}
			for id, s := range scores {
				if !m.SetScore(id, s) {
					return fmt.Errorf("rubric %q has no criterion %q", rubric, id)
				}
			}
			m.Feedback = feedback
			total, maxTotal := m.Total(), m.Selected.MaxTotal()
			if err := m.Submit(ctx); err != nil {
				return viewError(m, err)
			}
			success(cmd.OutOrStdout(), "Saved evaluation: %d/%d", total, maxTotal)
			return nil
		},
	}
	createCmd.Flags().StringVar(&evProject, "project", "", "Project ID")
	createCmd.Flags().StringVar(&evTask, "task", "", "Task ID")
	createCmd.Flags().StringVar(&evSprint, "sprint", "", "Sprint ID")
	createCmd.Flags().StringVar(&rubric, "rubric", "", "Rubric ID")
	createCmd.Flags().StringVar(&feedback, "feedback", "", "Written feedback")
	createCmd.Flags().StringToIntVar(&scores, "score", nil, "Criterion score as CRITERION_ID=N (repeatable)")
	_ = createCmd.MarkFlagRequired("project")
	_ = createCmd.MarkFlagRequired("rubric")

	cmd.AddCommand(list, show, createCmd)
	return cmd
}

func target(e models.Evaluation) string {
	switch {
	case e.TaskID != nil:
		return "task " + *e.TaskID
	case e.SprintID != nil:
		return "sprint " + *e.SprintID
	default:
		return "project " + e.ProjectID
	}
}

func printEvaluations(w io.Writer, evals []models.Evaluation) {
	rows := make([][]string, 0, len(evals))
	for _, e := range evals {
		rows = append(rows, []string{e.ID, target(e), e.Status, intOr(e.Score, "-")})
	}
	printTable(w, []string{"EVALUATION", "TARGET", "STATUS", "SCORE"}, rows)
}
