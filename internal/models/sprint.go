package models

import "time"

// Sprint status values.
const (
	SprintPlanning  = "PLANNING"
	SprintActive    = "ACTIVE"
	SprintCompleted = "COMPLETED"
)

// User story status values.
const (
	StoryBacklog    = "BACKLOG"
	StoryInProgress = "IN_PROGRESS"
	StoryCompleted  = "COMPLETED"
)

// Task status values, in board order.
const (
	TaskTodo       = "TODO"
	TaskInProgress = "IN_PROGRESS"
	TaskDone       = "DONE"
)

// Priority values shared by stories and tasks.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// Sprint is a time-boxed iteration of a project.
type Sprint struct {
	ID          string      `json:"id"`
	ProjectID   string      `json:"projectId"`
	Name        string      `json:"name"`
	Description *string     `json:"description,omitempty"`
	StartDate   *time.Time  `json:"startDate,omitempty"`
	EndDate     *time.Time  `json:"endDate,omitempty"`
	Status      string      `json:"status"`
	Project     *Project    `json:"project,omitempty"`
	UserStories []UserStory `json:"userStories,omitempty"`
	Tasks       []Task      `json:"tasks,omitempty"`
	CreatedAt   *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time  `json:"updatedAt,omitempty"`
}

// UserStory is a backlog item, optionally planned into a sprint.
type UserStory struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Acceptance  *string    `json:"acceptance,omitempty"`
	Priority    string     `json:"priority"`
	StoryPoints *int       `json:"storyPoints,omitempty"`
	Status      string     `json:"status"`
	AssigneeID  *string    `json:"assigneeId,omitempty"`
	Assignee    *User      `json:"assignee,omitempty"`
	SprintID    *string    `json:"sprintId,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// InBacklog reports whether the story is unplanned.
func (s UserStory) InBacklog() bool {
	return s.Status == StoryBacklog && (s.SprintID == nil || *s.SprintID == "")
}

// Task is a unit of work shown on the board.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	UserStoryID *string    `json:"userStoryId,omitempty"`
	SprintID    *string    `json:"sprintId,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	AssigneeID  *string    `json:"assigneeId,omitempty"`
	Assignee    *User      `json:"assignee,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// InSprint reports whether the task is planned into the given sprint.
func (t Task) InSprint(sprintID string) bool {
	return t.SprintID != nil && *t.SprintID == sprintID
}
