package models

import "time"

// Retrospective item kinds.
const (
	RetroGood   = "GOOD"
	RetroBad    = "BAD"
	RetroAction = "ACTION"
)

// RetrospectiveItem is one sticky note on a sprint retrospective.
type RetrospectiveItem struct {
	ID        string     `json:"id"`
	SprintID  string     `json:"sprintId"`
	Type      string     `json:"type"`
	Content   string     `json:"content"`
	UserID    string     `json:"userId"`
	User      *User      `json:"user,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Notification is a per-user inbox entry.
type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	Read      bool       `json:"read"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Document is uploaded project material.
type Document struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"projectId"`
	Name       string     `json:"name"`
	URL        string     `json:"url"`
	Type       string     `json:"type"`
	Size       *int       `json:"size,omitempty"`
	Version    int        `json:"version"`
	ParentID   *string    `json:"parentId,omitempty"`
	UploadedAt *time.Time `json:"uploadedAt,omitempty"`
}
