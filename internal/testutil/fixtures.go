package testutil

import (
	"testing"

	"github.com/google/uuid"

	"github.com/wrk-dev/wrk/internal/models"
	"github.com/wrk-dev/wrk/internal/session"
)

// Seed functions store entities directly, bypassing the HTTP routes. An
// empty ID is generated.

func (b *Backend) SeedProject(p models.Project) models.Project {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.projects.put(p.ID, p)
	return p
}

func (b *Backend) SeedSprint(s models.Sprint) models.Sprint {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = models.SprintPlanning
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sprints.put(s.ID, s)
	return s
}

func (b *Backend) SeedStory(s models.UserStory) models.UserStory {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = models.StoryBacklog
	}
	if s.Priority == "" {
		s.Priority = models.PriorityMedium
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stories.put(s.ID, s)
	return s
}

func (b *Backend) SeedTask(t models.Task) models.Task {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = models.TaskTodo
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasks.put(t.ID, t)
	return t
}

func (b *Backend) SeedRubric(r models.Rubric) models.Rubric {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	for i := range r.Criteria {
		if r.Criteria[i].ID == "" {
			r.Criteria[i].ID = uuid.NewString()
		}
		r.Criteria[i].RubricID = r.ID
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rubrics.put(r.ID, r)
	return r
}

func (b *Backend) SeedEvaluation(e models.Evaluation) models.Evaluation {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.evaluations.put(e.ID, e)
	return e
}

func (b *Backend) SeedNotification(n models.Notification) models.Notification {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notifications.put(n.ID, n)
	return n
}

// Task returns the stored copy of a task.
func (b *Backend) Task(id string) (models.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tasks.get(id)
}

// Story returns the stored copy of a user story.
func (b *Backend) Story(id string) (models.UserStory, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stories.get(id)
}

// Rubrics returns every stored rubric.
func (b *Backend) Rubrics() []models.Rubric {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rubrics.all(nil)
}

// Evaluations returns every stored evaluation.
func (b *Backend) Evaluations() []models.Evaluation {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.evaluations.all(nil)
}

// NewSession returns a Session over in-memory storage.
func NewSession(t *testing.T) *session.Session {
	t.Helper()
	return session.New(session.NewMemoryStorage())
}

// LoggedIn returns a Session holding a valid token for a fresh user with
// the given role.
func (b *Backend) LoggedIn(t *testing.T, role string) (*session.Session, models.User) {
	t.Helper()
	u := b.AddUser("Test "+role, uuid.NewString()+"@example.com", "secret", role)
	sess := NewSession(t)
	if err := sess.Login(b.Token(u), u); err != nil {
		t.Fatalf("storing session: %v", err)
	}
	return sess, u
}
