package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/wrk-dev/wrk/internal/models"
)

// TaskFilter narrows GET /tasks.
type TaskFilter struct {
	ProjectID  string
	AssigneeID string
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	ProjectID   string  `json:"projectId"`
	AssigneeID  string  `json:"assigneeId,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
	Status      string  `json:"status,omitempty"`
	SprintID    string  `json:"sprintId,omitempty"`
	UserStoryID string  `json:"userStoryId,omitempty"`
}

// UpdateTaskRequest is the body of PUT /tasks/{id}; only set fields are sent.
type UpdateTaskRequest struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	AssigneeID  string  `json:"assigneeId,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
	Status      string  `json:"status,omitempty"`
	SprintID    string  `json:"sprintId,omitempty"`
	UserStoryID string  `json:"userStoryId,omitempty"`
}

// EvaluateTaskRequest grades a single task directly.
type EvaluateTaskRequest struct {
	Score          int                    `json:"score"`
	Feedback       string                 `json:"feedback,omitempty"`
	EvaluatorID    string                 `json:"evaluatorId"`
	CriteriaScores []models.CriteriaScore `json:"criteriaScores,omitempty"`
}

// TasksAPI covers /tasks.
type TasksAPI struct{ c *Client }

// GetAll lists tasks. Envelope: {data}.
func (t *TasksAPI) GetAll(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	path := withQuery("/tasks", url.Values{
		"projectId":  {f.ProjectID},
		"assigneeId": {f.AssigneeID},
	})
	return DoData[[]models.Task](ctx, t.c, path, RequestOptions{})
}

// GetByID fetches one task. Envelope: {data}.
func (t *TasksAPI) GetByID(ctx context.Context, id string) (*models.Task, error) {
	task, err := DoData[models.Task](ctx, t.c, "/tasks/"+url.PathEscape(id), RequestOptions{})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Create adds a task. Envelope: {data}.
func (t *TasksAPI) Create(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	task, err := DoData[models.Task](ctx, t.c, "/tasks", RequestOptions{Method: http.MethodPost, Body: req})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Update edits a task and returns the backend's copy. Envelope: {data}.
func (t *TasksAPI) Update(ctx context.Context, id string, req UpdateTaskRequest) (*models.Task, error) {
	task, err := DoData[models.Task](ctx, t.c, "/tasks/"+url.PathEscape(id), RequestOptions{Method: http.MethodPut, Body: req})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes a task. Envelope: {data: {message}}.
func (t *TasksAPI) Delete(ctx context.Context, id string) error {
	_, err := t.c.Request(ctx, "/tasks/"+url.PathEscape(id), RequestOptions{Method: http.MethodDelete})
	return err
}

// Evaluate records a direct grade for a task. Body: {message}.
func (t *TasksAPI) Evaluate(ctx context.Context, id string, req EvaluateTaskRequest) error {
	_, err := doMessage(ctx, t.c, "/tasks/"+url.PathEscape(id)+"/evaluate", RequestOptions{Method: http.MethodPost, Body: req})
	return err
}
