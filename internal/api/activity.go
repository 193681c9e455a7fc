package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/wrk-dev/wrk/internal/models"
)

// CreateRetroItemRequest is the body of POST /retrospectives.
type CreateRetroItemRequest struct {
	SprintID string `json:"sprintId"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	UserID   string `json:"userId"`
}

// RetrospectivesAPI covers /retrospectives.
type RetrospectivesAPI struct{ c *Client }

// GetBySprint lists the retrospective notes of a sprint. Envelope: {data}.
func (r *RetrospectivesAPI) GetBySprint(ctx context.Context, sprintID string) ([]models.RetrospectiveItem, error) {
	return DoData[[]models.RetrospectiveItem](ctx, r.c, "/retrospectives/"+url.PathEscape(sprintID), RequestOptions{})
}

// Create adds a note as the current user unless UserID is set.
func (r *RetrospectivesAPI) Create(ctx context.Context, req CreateRetroItemRequest) (*models.RetrospectiveItem, error) {
	if req.UserID == "" {
		user, err := r.c.requireUser()
		if err != nil {
			return nil, err
		}
		req.UserID = user.ID
	}
	item, err := DoData[models.RetrospectiveItem](ctx, r.c, "/retrospectives", RequestOptions{Method: http.MethodPost, Body: req})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes a note. Body: {message}.
func (r *RetrospectivesAPI) Delete(ctx context.Context, id string) error {
	_, err := doMessage(ctx, r.c, "/retrospectives/"+url.PathEscape(id), RequestOptions{Method: http.MethodDelete})
	return err
}

// NotificationsAPI covers /notifications for the session user.
type NotificationsAPI struct{ c *Client }

// GetAll returns the latest notifications. Envelope: {data}.
func (n *NotificationsAPI) GetAll(ctx context.Context) ([]models.Notification, error) {
	return DoData[[]models.Notification](ctx, n.c, "/notifications", RequestOptions{})
}

// MarkRead flags a notification as read. Envelope: {data}.
func (n *NotificationsAPI) MarkRead(ctx context.Context, id string) (*models.Notification, error) {
	note, err := DoData[models.Notification](ctx, n.c, "/notifications/"+url.PathEscape(id)+"/read", RequestOptions{Method: http.MethodPut})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// DocumentsAPI covers /documents.
type DocumentsAPI struct{ c *Client }

// GetByProject lists a project's documents. Envelope: {data}.
func (d *DocumentsAPI) GetByProject(ctx context.Context, projectID string) ([]models.Document, error) {
	return DoData[[]models.Document](ctx, d.c, "/documents/"+url.PathEscape(projectID), RequestOptions{})
}

// Upload sends content as a multipart form file named filename.
// Envelope: {data}.
func (d *DocumentsAPI) Upload(ctx context.Context, projectID, filename string, content io.Reader) (*models.Document, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("projectId", projectID); err != nil {
		return nil, fmt.Errorf("api: writing form: %w", err)
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("api: writing form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("api: copying %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("api: closing form: %w", err)
	}

	raw, err := d.c.RequestRaw(ctx, "/documents", RawOptions{
		Method:      http.MethodPost,
		Body:        &buf,
		ContentType: w.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}

	var env Envelope[models.Document]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("api: decoding /documents: %w", err)
	}
	return &env.Data, nil
}

// Delete removes a document. Body: {message}.
func (d *DocumentsAPI) Delete(ctx context.Context, id string) error {
	_, err := doMessage(ctx, d.c, "/documents/"+url.PathEscape(id), RequestOptions{Method: http.MethodDelete})
	return err
}

// MetricsAPI covers the read-only /metrics reports.
type MetricsAPI struct{ c *Client }

func (m *MetricsAPI) Burndown(ctx context.Context, sprintID string) (*models.Burndown, error) {
	b, err := DoData[models.Burndown](ctx, m.c, "/metrics/sprints/"+url.PathEscape(sprintID)+"/burndown", RequestOptions{})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (m *MetricsAPI) Velocity(ctx context.Context, projectID string) ([]models.VelocityPoint, error) {
	return DoData[[]models.VelocityPoint](ctx, m.c, "/metrics/projects/"+url.PathEscape(projectID)+"/velocity", RequestOptions{})
}

func (m *MetricsAPI) Contribution(ctx context.Context, projectID string) ([]models.Contribution, error) {
	return DoData[[]models.Contribution](ctx, m.c, "/metrics/projects/"+url.PathEscape(projectID)+"/contribution", RequestOptions{})
}

// ExportCSV returns the project task export. The body is text/csv, not JSON.
func (m *MetricsAPI) ExportCSV(ctx context.Context, projectID string) ([]byte, error) {
	return m.c.RequestRaw(ctx, "/metrics/export/projects/"+url.PathEscape(projectID), RawOptions{})
}
