package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/wrk-dev/wrk/internal/models"
)

// CreateSprintRequest is the body of POST /sprints. Dates are RFC 3339.
type CreateSprintRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ProjectID   string  `json:"projectId"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// UpdateSprintRequest is the body of PUT /sprints/{id}.
type UpdateSprintRequest struct {
	Name        string  `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// SprintsAPI covers /sprints. Every endpoint is enveloped.
type SprintsAPI struct{ c *Client }

func (s *SprintsAPI) GetAll(ctx context.Context) ([]models.Sprint, error) {
	return DoData[[]models.Sprint](ctx, s.c, "/sprints", RequestOptions{})
}

func (s *SprintsAPI) GetByID(ctx context.Context, id string) (*models.Sprint, error) {
	sprint, err := DoData[models.Sprint](ctx, s.c, "/sprints/"+url.PathEscape(id), RequestOptions{})
	if err != nil {
		return nil, err
	}
	return &sprint, nil
}

func (s *SprintsAPI) Create(ctx context.Context, req CreateSprintRequest) (*models.Sprint, error) {
	sprint, err := DoData[models.Sprint](ctx, s.c, "/sprints", RequestOptions{Method: http.MethodPost, Body: req})
	if err != nil {
		return nil, err
	}
	return &sprint, nil
}

func (s *SprintsAPI) Update(ctx context.Context, id string, req UpdateSprintRequest) (*models.Sprint, error) {
	sprint, err := DoData[models.Sprint](ctx, s.c, "/sprints/"+url.PathEscape(id), RequestOptions{Method: http.MethodPut, Body: req})
	if err != nil {
		return nil, err
	}
	return &sprint, nil
}

func (s *SprintsAPI) Delete(ctx context.Context, id string) error {
	_, err := s.c.Request(ctx, "/sprints/"+url.PathEscape(id), RequestOptions{Method: http.MethodDelete})
	return err
}

// AddStory plans a user story into the sprint and returns the updated story.
func (s *SprintsAPI) AddStory(ctx context.Context, sprintID, storyID string) (*models.UserStory, error) {
	body := map[string]string{"userStoryId": storyID}
	story, err := DoData[models.UserStory](ctx, s.c, "/sprints/"+url.PathEscape(sprintID)+"/add-story", RequestOptions{Method: http.MethodPost, Body: body})
	if err != nil {
		return nil, err
	}
	return &story, nil
}
