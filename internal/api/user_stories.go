package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/wrk-dev/wrk/internal/models"
)

// CreateUserStoryRequest is the body of POST /user-stories.
type CreateUserStoryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Acceptance  string `json:"acceptance,omitempty"`
	ProjectID   string `json:"projectId"`
	AssigneeID  string `json:"assigneeId,omitempty"`
	Priority    string `json:"priority,omitempty"`
	StoryPoints int    `json:"storyPoints"`
	Status      string `json:"status,omitempty"`
}

// UpdateUserStoryRequest is the body of PUT /user-stories/{id}.
type UpdateUserStoryRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Acceptance  string `json:"acceptance,omitempty"`
	Priority    string `json:"priority,omitempty"`
	StoryPoints *int   `json:"storyPoints,omitempty"`
	AssigneeID  string `json:"assigneeId,omitempty"`
	SprintID    string `json:"sprintId,omitempty"`
	Status      string `json:"status,omitempty"`
}

// UserStoriesAPI covers /user-stories.
type UserStoriesAPI struct{ c *Client }

// GetAll lists every story. Envelope: {data}.
func (u *UserStoriesAPI) GetAll(ctx context.Context) ([]models.UserStory, error) {
	return DoData[[]models.UserStory](ctx, u.c, "/user-stories", RequestOptions{})
}

// GetByID fetches one story. Envelope: {data}.
func (u *UserStoriesAPI) GetByID(ctx context.Context, id string) (*models.UserStory, error) {
	story, err := DoData[models.UserStory](ctx, u.c, "/user-stories/"+url.PathEscape(id), RequestOptions{})
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// Create adds a story. Envelope: {data}.
func (u *UserStoriesAPI) Create(ctx context.Context, req CreateUserStoryRequest) (*models.UserStory, error) {
	story, err := DoData[models.UserStory](ctx, u.c, "/user-stories", RequestOptions{Method: http.MethodPost, Body: req})
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// Update edits a story. Envelope: {data}.
func (u *UserStoriesAPI) Update(ctx context.Context, id string, req UpdateUserStoryRequest) (*models.UserStory, error) {
	story, err := DoData[models.UserStory](ctx, u.c, "/user-stories/"+url.PathEscape(id), RequestOptions{Method: http.MethodPut, Body: req})
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// Delete removes a story. The backend answers {message} or 204.
func (u *UserStoriesAPI) Delete(ctx context.Context, id string) error {
	_, err := doMessage(ctx, u.c, "/user-stories/"+url.PathEscape(id), RequestOptions{Method: http.MethodDelete})
	return err
}
