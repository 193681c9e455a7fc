package views

import (
	"context"
	"fmt"

	"github.com/wrk-dev/wrk/internal/api"
	"github.com/wrk-dev/wrk/internal/models"
)

// EvaluationModule grades a task, a sprint, or (with neither set) a whole
// project against a rubric.
type EvaluationModule struct {
	Status
	ProjectID string
	TaskID    string
	SprintID  string

	Rubrics  []models.Rubric
	Selected *models.Rubric
	Scores   map[string]int
	Feedback string
	Existing []models.Evaluation

	client *api.Client
}

func NewEvaluationModule(c *api.Client, projectID, taskID, sprintID string) *EvaluationModule {
	return &EvaluationModule{client: c, ProjectID: projectID, TaskID: taskID, SprintID: sprintID, Scores: map[string]int{}}
}

// CanEvaluate reports whether the session user may grade.
func (m *EvaluationModule) CanEvaluate() bool {
	u := m.client.Auth.CurrentUser()
	return u != nil && u.IsTeacher()
}

// LoadExisting fetches prior evaluations of the task, else of the sprint.
// With neither set there is nothing to fetch.
func (m *EvaluationModule) LoadExisting(ctx context.Context) error {
	if err := m.begin(); err != nil {
		return err
	}
	return m.end("", m.fetchExisting(ctx))
}

func (m *EvaluationModule) fetchExisting(ctx context.Context) error {
	var (
		evals []models.Evaluation
		err   error
	)
	switch {
	case m.TaskID != "":
		evals, err = m.client.Evaluations.GetByTask(ctx, m.TaskID)
	case m.SprintID != "":
		evals, err = m.client.Evaluations.GetBySprint(ctx, m.SprintID)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	m.Existing = evals
	return nil
}

// LoadRubrics fetches the rubrics available to the project.
func (m *EvaluationModule) LoadRubrics(ctx context.Context) error {
	if err := m.begin(); err != nil {
		return err
	}
	rubrics, err := m.client.Rubrics.GetAll(ctx, m.ProjectID)
	if err != nil {
		return m.end("", err)
	}
	m.Rubrics = rubrics
	return m.end("", nil)
}

// SelectRubric picks a loaded rubric and starts every criterion at its
// maximum score. An unknown id clears the selection.
func (m *EvaluationModule) SelectRubric(id string) bool {
	m.Selected = nil
	for i := range m.Rubrics {
		if m.Rubrics[i].ID == id {
			m.Selected = &m.Rubrics[i]
			break
		}
	}
	if m.Selected == nil {
		return false
	}
	m.Scores = make(map[string]int, len(m.Selected.Criteria))
	for _, c := range m.Selected.Criteria {
		m.Scores[c.ID] = c.MaxScore
	}
	return true
}

// SetScore overrides one criterion's score. It reports false, leaving the
// scores untouched, when the id is not a criterion of the selected rubric.
func (m *EvaluationModule) SetScore(criteriaID string, score int) bool {
	if m.Selected == nil {
		return false
	}
	for _, c := range m.Selected.Criteria {
		if c.ID == criteriaID {
			m.Scores[criteriaID] = score
			return true
		}
	}
	return false
}

// Total is the sum of the current scores.
func (m *EvaluationModule) Total() int {
	total := 0
	for _, s := range m.Scores {
		total += s
	}
	return total
}

// Submit posts the evaluation with score = Total(), then clears the form
// and reloads the existing evaluations.
func (m *EvaluationModule) Submit(ctx context.Context) error {
	if m.Selected == nil {
		return m.fail(fmt.Errorf("rubric: %w", ErrRequired))
	}
	user := m.client.Auth.CurrentUser()
	if user == nil {
		return m.fail(api.ErrUnauthenticated)
	}
	if err := m.begin(); err != nil {
		return err
	}

	scores := make([]models.CriteriaScore, 0, len(m.Selected.Criteria))
	for _, c := range m.Selected.Criteria {
		if s, ok := m.Scores[c.ID]; ok {
			scores = append(scores, models.CriteriaScore{CriteriaID: c.ID, Score: s})
		}
	}

	req := api.CreateEvaluationRequest{
		ProjectID:      m.ProjectID,
		TaskID:         optional(m.TaskID),
		SprintID:       optional(m.SprintID),
		EvaluatorID:    user.ID,
		Feedback:       m.Feedback,
		Score:          m.Total(),
		CriteriaScores: scores,
	}
	if err := m.client.Evaluations.Create(ctx, req); err != nil {
		return m.end("Error al guardar evaluación", err)
	}

	m.Selected = nil
	m.Scores = map[string]int{}
	m.Feedback = ""
	return m.end("", m.fetchExisting(ctx))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
