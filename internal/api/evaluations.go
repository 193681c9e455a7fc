package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/wrk-dev/wrk/internal/models"
)

// CreateEvaluationRequest is the body of POST /evaluations. Set TaskID or
// SprintID for a scoped evaluation, neither for a general project one.
type CreateEvaluationRequest struct {
	ProjectID      string                 `json:"projectId"`
	TaskID         *string                `json:"taskId,omitempty"`
	SprintID       *string                `json:"sprintId,omitempty"`
	EvaluatorID    string                 `json:"evaluatorId"`
	Feedback       string                 `json:"feedback"`
	Score          int                    `json:"score"`
	CriteriaScores []models.CriteriaScore `json:"criteriaScores"`
}

// UpdateEvaluationRequest is the body of PUT /evaluations/{id}.
type UpdateEvaluationRequest struct {
	Feedback       string                 `json:"feedback"`
	Score          int                    `json:"score"`
	CriteriaScores []models.CriteriaScore `json:"criteriaScores"`
}

// EvaluationsAPI covers /evaluations. Reads are enveloped; writes answer
// {message} only.
type EvaluationsAPI struct{ c *Client }

func (e *EvaluationsAPI) GetByID(ctx context.Context, id string) (*models.Evaluation, error) {
	eval, err := DoData[models.Evaluation](ctx, e.c, "/evaluations/"+url.PathEscape(id), RequestOptions{})
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

func (e *EvaluationsAPI) GetByTask(ctx context.Context, taskID string) ([]models.Evaluation, error) {
	return DoData[[]models.Evaluation](ctx, e.c, "/evaluations/task/"+url.PathEscape(taskID), RequestOptions{})
}

func (e *EvaluationsAPI) GetBySprint(ctx context.Context, sprintID string) ([]models.Evaluation, error) {
	return DoData[[]models.Evaluation](ctx, e.c, "/evaluations/sprint/"+url.PathEscape(sprintID), RequestOptions{})
}

// GetByProject lists the general (not task- or sprint-scoped) evaluations.
func (e *EvaluationsAPI) GetByProject(ctx context.Context, projectID string) ([]models.Evaluation, error) {
	return DoData[[]models.Evaluation](ctx, e.c, "/evaluations/project/"+url.PathEscape(projectID)+"/general", RequestOptions{})
}

func (e *EvaluationsAPI) GetByStudent(ctx context.Context, studentID string) ([]models.Evaluation, error) {
	return DoData[[]models.Evaluation](ctx, e.c, "/evaluations/student/"+url.PathEscape(studentID), RequestOptions{})
}

func (e *EvaluationsAPI) Create(ctx context.Context, req CreateEvaluationRequest) error {
	_, err := doMessage(ctx, e.c, "/evaluations", RequestOptions{Method: http.MethodPost, Body: req})
	return err
}

func (e *EvaluationsAPI) Update(ctx context.Context, id string, req UpdateEvaluationRequest) error {
	_, err := doMessage(ctx, e.c, "/evaluations/"+url.PathEscape(id), RequestOptions{Method: http.MethodPut, Body: req})
	return err
}
