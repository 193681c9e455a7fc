package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/wrk-dev/wrk/internal/models"
)

// CriteriaInput is one criterion in a new rubric.
type CriteriaInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MaxScore    int    `json:"maxScore"`
	Weight      int    `json:"weight"`
}

// CreateRubricRequest is the body of POST /rubrics. A rubric without a
// project is global.
type CreateRubricRequest struct {
	ProjectID   string          `json:"projectId,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Criteria    []CriteriaInput `json:"criteria"`
}

// RubricsAPI covers /rubrics.
type RubricsAPI struct{ c *Client }

// GetAll lists rubrics, scoped to projectID when set. Envelope: {data}.
func (r *RubricsAPI) GetAll(ctx context.Context, projectID string) ([]models.Rubric, error) {
	path := withQuery("/rubrics", url.Values{"projectId": {projectID}})
	return DoData[[]models.Rubric](ctx, r.c, path, RequestOptions{})
}

// GetByID fetches a rubric with its criteria. Envelope: {data}.
func (r *RubricsAPI) GetByID(ctx context.Context, id string) (*models.Rubric, error) {
	rubric, err := DoData[models.Rubric](ctx, r.c, "/rubrics/"+url.PathEscape(id), RequestOptions{})
	if err != nil {
		return nil, err
	}
	return &rubric, nil
}

// Create adds a rubric. The backend answers only {message}, so the new
// rubric must be re-fetched.
func (r *RubricsAPI) Create(ctx context.Context, req CreateRubricRequest) error {
	_, err := doMessage(ctx, r.c, "/rubrics", RequestOptions{Method: http.MethodPost, Body: req})
	return err
}

// Delete removes a rubric. Body: {message}.
func (r *RubricsAPI) Delete(ctx context.Context, id string) error {
	_, err := doMessage(ctx, r.c, "/rubrics/"+url.PathEscape(id), RequestOptions{Method: http.MethodDelete})
	return err
}
