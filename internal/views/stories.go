package views

import (
	"context"

	"github.com/wrk-dev/wrk/internal/api"
	"github.com/wrk-dev/wrk/internal/models"
)

func backlog(stories []models.UserStory) []models.UserStory {
	var out []models.UserStory
	for _, s := range stories {
		if s.InBacklog() {
			out = append(out, s)
		}
	}
	return out
}

// UserStoryList is a project's backlog with delete and plan actions.
type UserStoryList struct {
	Status
	ProjectID string
	Stories   []models.UserStory

	client *api.Client
}

// NewUserStoryList starts from stories already loaded with the project.
func NewUserStoryList(c *api.Client, projectID string, initial []models.UserStory) *UserStoryList {
	return &UserStoryList{client: c, ProjectID: projectID, Stories: initial}
}

// Backlog returns stories in BACKLOG status that are not in any sprint.
func (l *UserStoryList) Backlog() []models.UserStory {
	return backlog(l.Stories)
}

// Reload re-fetches the project's stories.
func (l *UserStoryList) Reload(ctx context.Context) error {
	if err := l.begin(); err != nil {
		return err
	}
	return l.end("", l.fetch(ctx))
}

func (l *UserStoryList) fetch(ctx context.Context) error {
	p, err := l.client.Projects.GetByID(ctx, l.ProjectID)
	if err != nil {
		return err
	}
	l.Stories = p.UserStories
	return nil
}

// Delete removes a story and drops it from the local list.
func (l *UserStoryList) Delete(ctx context.Context, id string) error {
	if err := l.begin(); err != nil {
		return err
	}
	if err := l.client.UserStories.Delete(ctx, id); err != nil {
		return l.end("Error al eliminar", err)
	}
	kept := make([]models.UserStory, 0, len(l.Stories))
	for _, s := range l.Stories {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	l.Stories = kept
	return l.end("", nil)
}

// MoveToSprint plans a story into a sprint and reloads. An empty sprintID
// is ignored.
func (l *UserStoryList) MoveToSprint(ctx context.Context, storyID, sprintID string) error {
	if sprintID == "" {
		return nil
	}
	if err := l.begin(); err != nil {
		return err
	}
	if _, err := l.client.Sprints.AddStory(ctx, sprintID, storyID); err != nil {
		return l.end("Error al mover", err)
	}
	return l.end("", l.fetch(ctx))
}
