package views

import (
	"context"

	"github.com/wrk-dev/wrk/internal/api"
	"github.com/wrk-dev/wrk/internal/models"
)

// ProjectList shows the projects the current user owns or belongs to.
type ProjectList struct {
	Status
	Projects []models.Project

	client *api.Client
}

func NewProjectList(c *api.Client) *ProjectList {
	return &ProjectList{client: c}
}

// Load fetches the user's projects. Without a session the list is empty
// and no request is made.
func (l *ProjectList) Load(ctx context.Context) error {
	if err := l.begin(); err != nil {
		return err
	}
	user := l.client.Auth.CurrentUser()
	if user == nil {
		l.Projects = nil
		return l.end("", nil)
	}

	projects, err := l.client.Projects.GetAll(ctx, user.ID)
	if err != nil {
		return l.end("", err)
	}
	l.Projects = projects
	return l.end("", nil)
}

// CreateProjectForm opens a new project owned by the current user.
type CreateProjectForm struct {
	Status
	// OnCreated runs after a successful create, typically reloading the
	// owning ProjectList.
	OnCreated func(*models.Project)

	client *api.Client
}

func NewCreateProjectForm(c *api.Client) *CreateProjectForm {
	return &CreateProjectForm{client: c}
}

// CanCreate reports whether u may see the create action.
func (f *CreateProjectForm) CanCreate(u *models.User) bool {
	return u != nil && u.CanCreateProjects()
}

func (f *CreateProjectForm) Submit(ctx context.Context, name, description string) (*models.Project, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}
	if err := required("name", name); err != nil {
		return nil, f.end("", err)
	}
	user := f.client.Auth.CurrentUser()
	if user == nil {
		return nil, f.end("", api.ErrUnauthenticated)
	}

	p, err := f.client.Projects.Create(ctx, api.CreateProjectRequest{
		Name:        name,
		Description: &description,
		OwnerID:     user.ID,
		Status:      models.ProjectActive,
	})
	if err != nil {
		return nil, f.end("", err)
	}
	_ = f.end("", nil)
	if f.OnCreated != nil {
		f.OnCreated(p)
	}
	return p, nil
}

// ProjectDetail is a single project with its sprints, stories and members.
type ProjectDetail struct {
	Status
	ID      string
	Project *models.Project

	client *api.Client
}

func NewProjectDetail(c *api.Client, id string) *ProjectDetail {
	return &ProjectDetail{client: c, ID: id}
}

func (d *ProjectDetail) Load(ctx context.Context) error {
	if err := d.begin(); err != nil {
		return err
	}
	p, err := d.client.Projects.GetByID(ctx, d.ID)
	if err != nil {
		return d.end("", err)
	}
	d.Project = p
	return d.end("", nil)
}

// Backlog returns the project's unplanned stories.
func (d *ProjectDetail) Backlog() []models.UserStory {
	if d.Project == nil {
		return nil
	}
	return backlog(d.Project.UserStories)
}

// SprintDetail loads a sprint and then its parent project.
type SprintDetail struct {
	Status
	ID      string
	Sprint  *models.Sprint
	Project *models.Project

	client *api.Client
}

func NewSprintDetail(c *api.Client, id string) *SprintDetail {
	return &SprintDetail{client: c, ID: id}
}

// Load fetches sequentially; the project lookup needs the sprint's
// projectId, so a failed sprint fetch skips it.
func (d *SprintDetail) Load(ctx context.Context) error {
	if err := d.begin(); err != nil {
		return err
	}
	s, err := d.client.Sprints.GetByID(ctx, d.ID)
	if err != nil {
		return d.end("", err)
	}
	d.Sprint = s

	p, err := d.client.Projects.GetByID(ctx, s.ProjectID)
	if err != nil {
		return d.end("", err)
	}
	d.Project = p
	return d.end("", nil)
}
