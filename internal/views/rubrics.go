package views

import (
	"context"
	"fmt"

	"github.com/wrk-dev/wrk/internal/api"
	"github.com/wrk-dev/wrk/internal/models"
)

// CriteriaDraft is one editable criterion of a rubric being built.
type CriteriaDraft struct {
	Name        string
	Description string
	MaxScore    int
	Weight      int
}

// NewCriteria returns a blank criterion worth 10 points with weight 1.
func NewCriteria() CriteriaDraft {
	return CriteriaDraft{MaxScore: 10, Weight: 1}
}

// RubricDraft is the create-rubric form.
type RubricDraft struct {
	Name        string
	Description string
	Criteria    []CriteriaDraft
}

func newRubricDraft() RubricDraft {
	return RubricDraft{Criteria: []CriteriaDraft{NewCriteria()}}
}

// RubricManager lists a project's rubrics and lets teachers build or
// delete them. A manager without ProjectID works on every rubric.
type RubricManager struct {
	Status
	ProjectID string
	Rubrics   []models.Rubric
	Draft     RubricDraft

	client *api.Client
}

func NewRubricManager(c *api.Client, projectID string) *RubricManager {
	return &RubricManager{client: c, ProjectID: projectID, Draft: newRubricDraft()}
}

// CanManage reports whether the session user may create and delete rubrics.
func (m *RubricManager) CanManage() bool {
	u := m.client.Auth.CurrentUser()
	return u != nil && u.IsTeacher()
}

func (m *RubricManager) Load(ctx context.Context) error {
	if err := m.begin(); err != nil {
		return err
	}
	return m.end("", m.fetch(ctx))
}

func (m *RubricManager) fetch(ctx context.Context) error {
	rubrics, err := m.client.Rubrics.GetAll(ctx, m.ProjectID)
	if err != nil {
		return err
	}
	m.Rubrics = rubrics
	return nil
}

// AddCriteria appends a default criterion to the draft.
func (m *RubricManager) AddCriteria() {
	m.Draft.Criteria = append(m.Draft.Criteria, NewCriteria())
}

// RemoveCriteria drops the criterion at i.
func (m *RubricManager) RemoveCriteria(i int) error {
	if i < 0 || i >= len(m.Draft.Criteria) {
		return fmt.Errorf("criterion %d out of range", i)
	}
	m.Draft.Criteria = append(m.Draft.Criteria[:i], m.Draft.Criteria[i+1:]...)
	return nil
}

// UpdateCriteria replaces the criterion at i.
func (m *RubricManager) UpdateCriteria(i int, c CriteriaDraft) error {
	if i < 0 || i >= len(m.Draft.Criteria) {
		return fmt.Errorf("criterion %d out of range", i)
	}
	m.Draft.Criteria[i] = c
	return nil
}

// Create submits the draft, then resets it and reloads the list. The
// backend does not echo the new rubric.
func (m *RubricManager) Create(ctx context.Context) error {
	if !m.CanManage() {
		return m.fail(ErrForbidden)
	}
	if err := m.begin(); err != nil {
		return err
	}
	if err := required("name", m.Draft.Name); err != nil {
		return m.end("", err)
	}

	req := api.CreateRubricRequest{
		ProjectID:   m.ProjectID,
		Name:        m.Draft.Name,
		Description: m.Draft.Description,
		Criteria:    make([]api.CriteriaInput, 0, len(m.Draft.Criteria)),
	}
	for i, c := range m.Draft.Criteria {
		if err := required(fmt.Sprintf("criterion %d name", i+1), c.Name); err != nil {
			return m.end("", err)
		}
		req.Criteria = append(req.Criteria, api.CriteriaInput{
			Name:        c.Name,
			Description: c.Description,
			MaxScore:    c.MaxScore,
			Weight:      c.Weight,
		})
	}

	if err := m.client.Rubrics.Create(ctx, req); err != nil {
		return m.end("Error al crear rúbrica", err)
	}
	m.Draft = newRubricDraft()
	return m.end("", m.fetch(ctx))
}

// Delete removes a rubric and reloads the list.
func (m *RubricManager) Delete(ctx context.Context, id string) error {
	if !m.CanManage() {
		return m.fail(ErrForbidden)
	}
	if err := m.begin(); err != nil {
		return err
	}
	if err := m.client.Rubrics.Delete(ctx, id); err != nil {
		return m.end("Error al eliminar", err)
	}
	return m.end("", m.fetch(ctx))
}
