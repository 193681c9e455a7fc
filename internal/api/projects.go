package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/wrk-dev/wrk/internal/models"
)

// CreateProjectRequest is the body of POST /projects. An empty OwnerID is
// filled from the session.
type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	OwnerID     string  `json:"ownerId"`
	Status      string  `json:"status,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
}

// UpdateProjectRequest is the body of PUT /projects/{id}.
type UpdateProjectRequest struct {
	Name        string  `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
}

// AddMemberRequest adds a user to a project, or changes the role of an
// existing member.
type AddMemberRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// ProjectsAPI covers /projects and project membership.
type ProjectsAPI struct{ c *Client }

// GetAll lists projects, restricted to those owned by or shared with
// memberID when it is set. This endpoint is NOT enveloped: the body is a
// bare array.
func (p *ProjectsAPI) GetAll(ctx context.Context, memberID string) ([]models.Project, error) {
	path := withQuery("/projects", url.Values{"memberId": {memberID}})
	return Do[[]models.Project](ctx, p.c, path, RequestOptions{})
}

// GetByID fetches a project with its relations. Envelope: {data}.
func (p *ProjectsAPI) GetByID(ctx context.Context, id string) (*models.Project, error) {
	project, err := DoData[models.Project](ctx, p.c, "/projects/"+url.PathEscape(id), RequestOptions{})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Create opens a project owned by the current user unless OwnerID is set.
// Without a session it fails with ErrUnauthenticated and sends nothing.
// Envelope: {data}.
func (p *ProjectsAPI) Create(ctx context.Context, req CreateProjectRequest) (*models.Project, error) {
	user, err := p.c.requireUser()
	if err != nil {
		return nil, err
	}
	if req.OwnerID == "" {
		req.OwnerID = user.ID
	}

	project, err := DoData[models.Project](ctx, p.c, "/projects", RequestOptions{Method: http.MethodPost, Body: req})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Update edits a project. Envelope: {data}.
func (p *ProjectsAPI) Update(ctx context.Context, id string, req UpdateProjectRequest) (*models.Project, error) {
	project, err := DoData[models.Project](ctx, p.c, "/projects/"+url.PathEscape(id), RequestOptions{Method: http.MethodPut, Body: req})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes a project. Envelope: {data: {message}}.
func (p *ProjectsAPI) Delete(ctx context.Context, id string) error {
	_, err := p.c.Request(ctx, "/projects/"+url.PathEscape(id), RequestOptions{Method: http.MethodDelete})
	return err
}

// AddMember adds or re-roles a member. Envelope: {data, message?}.
func (p *ProjectsAPI) AddMember(ctx context.Context, projectID string, req AddMemberRequest) (*models.ProjectMember, error) {
	member, err := DoData[models.ProjectMember](ctx, p.c, "/projects/"+url.PathEscape(projectID)+"/members", RequestOptions{Method: http.MethodPost, Body: req})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// RemoveMember drops a user from a project. Body: {message}.
func (p *ProjectsAPI) RemoveMember(ctx context.Context, projectID, userID string) error {
	path := "/projects/" + url.PathEscape(projectID) + "/members/" + url.PathEscape(userID)
	_, err := doMessage(ctx, p.c, path, RequestOptions{Method: http.MethodDelete})
	return err
}
