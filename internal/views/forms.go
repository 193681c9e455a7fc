package views

import (
	"context"
	"fmt"
	"time"

	"github.com/wrk-dev/wrk/internal/api"
	"github.com/wrk-dev/wrk/internal/models"
)

func isoDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// SprintInput holds the create-sprint form fields.
type SprintInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

// CreateSprintForm adds a sprint to a project.
type CreateSprintForm struct {
	Status
	ProjectID string
	OnCreated func(*models.Sprint)

	client *api.Client
}

func NewCreateSprintForm(c *api.Client, projectID string) *CreateSprintForm {
	return &CreateSprintForm{client: c, ProjectID: projectID}
}

func (f *CreateSprintForm) Submit(ctx context.Context, in SprintInput) (*models.Sprint, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}
	if err := required("name", in.Name); err != nil {
		return nil, f.end("", err)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, f.end("", fmt.Errorf("start and end date: %w", ErrRequired))
	}

	s, err := f.client.Sprints.Create(ctx, api.CreateSprintRequest{
		Name:        in.Name,
		Description: &in.Description,
		ProjectID:   f.ProjectID,
		StartDate:   isoDate(in.StartDate),
		EndDate:     isoDate(in.EndDate),
		Status:      models.SprintPlanning,
	})
	if err != nil {
		return nil, f.end("", err)
	}
	_ = f.end("", nil)
	if f.OnCreated != nil {
		f.OnCreated(s)
	}
	return s, nil
}

// TaskInput holds the create-task form fields. Empty optional ids are
// omitted from the request.
type TaskInput struct {
	Title       string
	Description string
	AssigneeID  string
	UserStoryID string
	Priority    string
}

// CreateTaskForm adds a task to a project, inside SprintID when set.
type CreateTaskForm struct {
	Status
	ProjectID string
	SprintID  string
	OnCreated func(*models.Task)

	client *api.Client
}

func NewCreateTaskForm(c *api.Client, projectID, sprintID string) *CreateTaskForm {
	return &CreateTaskForm{client: c, ProjectID: projectID, SprintID: sprintID}
}

func (f *CreateTaskForm) Submit(ctx context.Context, in TaskInput) (*models.Task, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}
	if err := required("title", in.Title); err != nil {
		return nil, f.end("", err)
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}

	t, err := f.client.Tasks.Create(ctx, api.CreateTaskRequest{
		Title:       in.Title,
		Description: in.Description,
		ProjectID:   f.ProjectID,
		SprintID:    f.SprintID,
		UserStoryID: in.UserStoryID,
		AssigneeID:  in.AssigneeID,
		Priority:    in.Priority,
		Status:      models.TaskTodo,
	})
	if err != nil {
		return nil, f.end("", err)
	}
	_ = f.end("", nil)
	if f.OnCreated != nil {
		f.OnCreated(t)
	}
	return t, nil
}

// StoryInput holds the create-story form fields.
type StoryInput struct {
	Title       string
	Description string
	Acceptance  string
	Priority    string
	StoryPoints int
}

// CreateUserStoryForm adds a story to a project's backlog.
type CreateUserStoryForm struct {
	Status
	ProjectID string
	OnCreated func(*models.UserStory)

	client *api.Client
}

func NewCreateUserStoryForm(c *api.Client, projectID string) *CreateUserStoryForm {
	return &CreateUserStoryForm{client: c, ProjectID: projectID}
}

func (f *CreateUserStoryForm) Submit(ctx context.Context, in StoryInput) (*models.UserStory, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}
	if err := required("title", in.Title); err != nil {
		return nil, f.end("", err)
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}

	s, err := f.client.UserStories.Create(ctx, api.CreateUserStoryRequest{
		Title:       in.Title,
		Description: in.Description,
		Acceptance:  in.Acceptance,
		Priority:    in.Priority,
		StoryPoints: in.StoryPoints,
		ProjectID:   f.ProjectID,
		Status:      models.StoryBacklog,
	})
	if err != nil {
		return nil, f.end("", err)
	}
	_ = f.end("", nil)
	if f.OnCreated != nil {
		f.OnCreated(s)
	}
	return s, nil
}
