package models

import "time"

// Project status values.
const (
	ProjectActive    = "ACTIVE"
	ProjectCompleted = "COMPLETED"
	ProjectArchived  = "ARCHIVED"
)

// Project is a course project with its preloaded relations.
type Project struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Status      string          `json:"status"`
	StartDate   *time.Time      `json:"startDate,omitempty"`
	EndDate     *time.Time      `json:"endDate,omitempty"`
	OwnerID     string          `json:"ownerId"`
	Owner       *User           `json:"owner,omitempty"`
	Members     []ProjectMember `json:"members,omitempty"`
	Sprints     []Sprint        `json:"sprints,omitempty"`
	UserStories []UserStory     `json:"userStories,omitempty"`
	Tasks       []Task          `json:"tasks,omitempty"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

// ProjectMember links a user to a project with a project-scoped role.
type ProjectMember struct {
	ID        string     `json:"id"`
	ProjectID string     `json:"projectId"`
	UserID    string     `json:"userId"`
	Role      string     `json:"role"`
	JoinedAt  *time.Time `json:"joinedAt,omitempty"`
	User      *User      `json:"user,omitempty"`
}
