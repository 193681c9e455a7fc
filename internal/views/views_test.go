package views_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/wrk-dev/wrk/internal/api"
	"github.com/wrk-dev/wrk/internal/models"
	"github.com/wrk-dev/wrk/internal/testutil"
	"github.com/wrk-dev/wrk/internal/views"
)

func anonymous(t *testing.T) (*testutil.Backend, *api.Client) {
	t.Helper()
	b := testutil.NewBackend(t)
	return b, api.New(b.URL(), testutil.NewSession(t))
}

func signedIn(t *testing.T, role string) (*testutil.Backend, *api.Client, models.User) {
	t.Helper()
	b := testutil.NewBackend(t)
	sess, u := b.LoggedIn(t, role)
	return b, api.New(b.URL(), sess), u
}

func TestAuthForm_RegisterThenLogin(t *testing.T) {
	_, c := anonymous(t)
	ctx := context.Background()
	f := views.NewAuthForm(c, views.ModeRegister)

	if err := f.SubmitRegister(ctx, "Ana", "", "pw"); !errors.Is(err, views.ErrRequired) {
		t.Fatalf("SubmitRegister(no email) error = %v, want ErrRequired", err)
	}
	if f.Message() == "" {
		t.Error("missing field left no inline error")
	}

	if err := f.SubmitRegister(ctx, "Ana", "ana@example.com", "pw"); err != nil {
		t.Fatalf("SubmitRegister() error = %v", err)
	}
	if f.Mode != views.ModeLogin || f.Notice != views.MsgRegistered {
		t.Errorf("after register: mode %q notice %q", f.Mode, f.Notice)
	}
	if f.Message() != "" {
		t.Errorf("error not cleared: %q", f.Message())
	}
	if c.Session().Authenticated() {
		t.Fatal("registration must not sign in")
	}

	if _, err := f.SubmitLogin(ctx, "ana@example.com", "nope"); err == nil {
		t.Fatal("SubmitLogin(bad password) succeeded")
	}
	if f.Message() != "Email o contraseña incorrectos" {
		t.Errorf("Message() = %q", f.Message())
	}

	u, err := f.SubmitLogin(ctx, "ana@example.com", "pw")
	if err != nil {
		t.Fatalf("SubmitLogin() error = %v", err)
	}
	if u.Email != "ana@example.com" || !c.Session().Authenticated() {
		t.Errorf("login did not establish session for %+v", u)
	}
	if f.Loading() {
		t.Error("Loading() still true after completion")
	}
}

func TestBusyGuard(t *testing.T) {
	b, c, _ := signedIn(t, models.RoleStudent)
	release := make(chan struct{})
	entered := make(chan struct{})
	b.Handle(http.MethodGet, "/projects", func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	list := views.NewProjectList(c)
	done := make(chan error, 1)
	go func() { done <- list.Load(context.Background()) }()
	<-entered

	if !list.Loading() {
		t.Error("Loading() = false during request")
	}
	if err := list.Load(context.Background()); !errors.Is(err, views.ErrBusy) {
		t.Errorf("second Load() error = %v, want ErrBusy", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Load() error = %v", err)
	}

	n := 0
	for _, r := range b.Requests() {
		if r.Path == "/projects" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("backend saw %d project requests, want 1", n)
	}
}

func TestDashboard(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		b, c := anonymous(t)
		d := views.NewDashboard(c)
		if err := d.Load(context.Background()); !errors.Is(err, api.ErrUnauthenticated) {
			t.Fatalf("Load() error = %v, want ErrUnauthenticated", err)
		}
		if len(b.Requests()) != 0 {
			t.Error("request sent without session")
		}
	})

	shapes := map[string]string{
		"envelope": `{"data":[{"id":"u1","name":"Ana"},{"id":"u2","name":"Bo"}]}`,
		"bare":     `[{"id":"u1","name":"Ana"},{"id":"u2","name":"Bo"}]`,
	}
	for name, body := range shapes {
		t.Run(name, func(t *testing.T) {
			b, c, _ := signedIn(t, models.RoleAdmin)
			b.Reply(http.MethodGet, "/users", http.StatusOK, body)

			d := views.NewDashboard(c)
			if err := d.Load(context.Background()); err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(d.Users) != 2 || d.Users[1].Name != "Bo" {
				t.Errorf("Users = %+v", d.Users)
			}
			if d.User == nil {
				t.Error("User not set")
			}
		})
	}

	t.Run("other shape", func(t *testing.T) {
		b, c, _ := signedIn(t, models.RoleAdmin)
		b.Reply(http.MethodGet, "/users", http.StatusOK, `{"users":[]}`)
		d := views.NewDashboard(c)
		if err := d.Load(context.Background()); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(d.Users) != 0 {
			t.Errorf("Users = %+v, want none", d.Users)
		}
	})
}

func TestProjectList(t *testing.T) {
	t.Run("unauthenticated is empty without request", func(t *testing.T) {
		b, c := anonymous(t)
		l := views.NewProjectList(c)
		if err := l.Load(context.Background()); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(l.Projects) != 0 || len(b.Requests()) != 0 {
			t.Errorf("projects %d, requests %d", len(l.Projects), len(b.Requests()))
		}
	})

	t.Run("member projects", func(t *testing.T) {
		b, c, u := signedIn(t, models.RoleStudent)
		b.SeedProject(models.Project{Name: "Mine", OwnerID: u.ID})
		b.SeedProject(models.Project{Name: "Theirs", OwnerID: "someone"})

		l := views.NewProjectList(c)
		if err := l.Load(context.Background()); err != nil {
			t.Fatal(err)
		}
		if len(l.Projects) != 1 || l.Projects[0].Name != "Mine" {
			t.Errorf("Projects = %+v", l.Projects)
		}
		if got := b.LastRequest(t).Query.Get("memberId"); got != u.ID {
			t.Errorf("memberId = %q", got)
		}
	})
}

func TestCreateProjectForm(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		b, c := anonymous(t)
		f := views.NewCreateProjectForm(c)
		_, err := f.Submit(context.Background(), "X", "")
		if !errors.Is(err, api.ErrUnauthenticated) {
			t.Fatalf("Submit() error = %v", err)
		}
		if f.Message() != views.MsgUnauthenticated {
			t.Errorf("Message() = %q", f.Message())
		}
		if len(b.Requests()) != 0 {
			t.Error("request sent without session")
		}
	})

	t.Run("creates and reloads owner", func(t *testing.T) {
		_, c, u := signedIn(t, models.RoleScrumMaster)
		list := views.NewProjectList(c)
		f := views.NewCreateProjectForm(c)
		f.OnCreated = func(*models.Project) {
			if err := list.Load(context.Background()); err != nil {
				t.Errorf("reload: %v", err)
			}
		}

		if !f.CanCreate(c.Auth.CurrentUser()) {
			t.Fatal("scrum master cannot create")
		}
		p, err := f.Submit(context.Background(), "Wrk", "Capstone")
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if p.OwnerID != u.ID || p.Status != models.ProjectActive {
			t.Errorf("project = %+v", p)
		}
		if len(list.Projects) != 1 {
			t.Errorf("reloaded list = %+v", list.Projects)
		}
	})

	t.Run("role gate", func(t *testing.T) {
		_, c := anonymous(t)
		f := views.NewCreateProjectForm(c)
		roles := map[string]bool{
			models.RoleAdmin:         true,
			models.RoleTeacher:       true,
			models.RoleScrumMaster:   true,
			models.RoleStudent:       false,
			models.RoleTeamDeveloper: false,
		}
		for role, want := range roles {
			if got := f.CanCreate(&models.User{Role: role}); got != want {
				t.Errorf("CanCreate(%s) = %v, want %v", role, got, want)
			}
		}
		if f.CanCreate(nil) {
			t.Error("CanCreate(nil) = true")
		}
	})
}

func TestSprintDetail_Sequential(t *testing.T) {
	b, c, _ := signedIn(t, models.RoleStudent)
	p := b.SeedProject(models.Project{Name: "Wrk", OwnerID: "o"})
	s := b.SeedSprint(models.Sprint{ProjectID: p.ID, Name: "S1"})
	b.Reset()

	d := views.NewSprintDetail(c, s.ID)
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d.Sprint.Name != "S1" || d.Project.Name != "Wrk" {
		t.Errorf("loaded %+v / %+v", d.Sprint, d.Project)
	}
	reqs := b.Requests()
	if len(reqs) != 2 || reqs[0].Path != "/sprints/"+s.ID || reqs[1].Path != "/projects/"+p.ID {
		t.Errorf("requests = %+v", reqs)
	}

	missing := views.NewSprintDetail(c, "nope")
	b.Reset()
	if err := missing.Load(context.Background()); err == nil {
		t.Fatal("Load(missing) succeeded")
	}
	if len(b.Requests()) != 1 {
		t.Errorf("project fetched after failed sprint fetch")
	}
	if missing.Message() != "Sprint no encontrado" {
		t.Errorf("Message() = %q", missing.Message())
	}
}

func TestTaskBoard(t *testing.T) {
	b, c, _ := signedIn(t, models.RoleTeamDeveloper)
	sprint := "s1"
	other := "s2"
	a := b.SeedTask(models.Task{ProjectID: "p1", SprintID: &sprint, Title: "A"})
	b.SeedTask(models.Task{ProjectID: "p1", SprintID: &other, Title: "B"})
	b.SeedTask(models.Task{ProjectID: "p1", SprintID: &sprint, Title: "C", Status: models.TaskDone})
	ctx := context.Background()

	board := views.NewTaskBoard(c, "p1", sprint)
	if err := board.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if len(board.Tasks()) != 2 {
		t.Fatalf("Tasks = %d, want sprint's 2", len(board.Tasks()))
	}
	if len(board.Column(models.TaskTodo)) != 1 || len(board.Column(models.TaskDone)) != 1 {
		t.Errorf("columns: todo %d done %d", len(board.Column(models.TaskTodo)), len(board.Column(models.TaskDone)))
	}

	// Changing another task behind the board's back must not show up: only
	// the moved task is patched.
	if _, err := c.Tasks.Update(ctx, board.Tasks()[1].ID, api.UpdateTaskRequest{Title: "C renamed"}); err != nil {
		t.Fatal(err)
	}
	if err := board.UpdateStatus(ctx, a.ID, models.TaskInProgress); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if board.Tasks()[0].Status != models.TaskInProgress {
		t.Errorf("moved task status = %q", board.Tasks()[0].Status)
	}
	if board.Tasks()[1].Title != "C" {
		t.Errorf("unrelated task refreshed: %q", board.Tasks()[1].Title)
	}
	if stored, _ := b.Task(a.ID); stored.Status != models.TaskInProgress {
		t.Errorf("backend status = %q", stored.Status)
	}

	if err := board.UpdateStatus(ctx, a.ID, "BLOCKED"); err == nil {
		t.Error("UpdateStatus(unknown) succeeded")
	}

	b.Reply(http.MethodPut, "/tasks/"+a.ID, http.StatusInternalServerError, `{"error":"db down"}`)
	if err := board.UpdateStatus(ctx, a.ID, models.TaskDone); err == nil {
		t.Fatal("UpdateStatus() succeeded against failing backend")
	}
	if board.Tasks()[0].Status != models.TaskInProgress {
		t.Error("failed update patched local state")
	}
	if board.Message() != "Error al actualizar estado: db down" {
		t.Errorf("Message() = %q", board.Message())
	}
}

func TestShift(t *testing.T) {
	tests := []struct {
		status string
		offset int
		want   string
	}{
		{models.TaskTodo, 1, models.TaskInProgress},
		{models.TaskInProgress, 1, models.TaskDone},
		{models.TaskDone, 1, models.TaskDone},
		{models.TaskTodo, -1, models.TaskTodo},
		{models.TaskDone, -2, models.TaskTodo},
		{"OTHER", 1, "OTHER"},
	}
	for _, tt := range tests {
		if got := views.Shift(tt.status, tt.offset); got != tt.want {
			t.Errorf("Shift(%s, %d) = %s, want %s", tt.status, tt.offset, got, tt.want)
		}
	}
}

func TestUserStoryList(t *testing.T) {
	b, c, _ := signedIn(t, models.RoleScrumMaster)
	ctx := context.Background()
	p := b.SeedProject(models.Project{Name: "Wrk", OwnerID: "o"})
	s := b.SeedSprint(models.Sprint{ProjectID: p.ID, Name: "S1"})
	planned := s.ID
	one := b.SeedStory(models.UserStory{ProjectID: p.ID, Title: "one"})
	two := b.SeedStory(models.UserStory{ProjectID: p.ID, Title: "two"})
	b.SeedStory(models.UserStory{ProjectID: p.ID, Title: "planned", SprintID: &planned})
	b.SeedStory(models.UserStory{ProjectID: p.ID, Title: "started", Status: models.StoryInProgress})

	detail := views.NewProjectDetail(c, p.ID)
	if err := detail.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if n := len(detail.Backlog()); n != 2 {
		t.Fatalf("Backlog() = %d, want 2", n)
	}

	var before []string
	for _, st := range detail.Project.UserStories {
		before = append(before, st.ID)
	}
	list := views.NewUserStoryList(c, p.ID, detail.Project.UserStories)
	if err := list.Delete(ctx, one.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(list.Stories) != 3 {
		t.Errorf("Stories after delete = %d", len(list.Stories))
	}
	for i, st := range detail.Project.UserStories {
		if st.ID != before[i] {
			t.Fatalf("Delete() modified the project detail: story %d = %s, want %s", i, st.ID, before[i])
		}
	}

	if err := list.MoveToSprint(ctx, two.ID, ""); err != nil {
		t.Fatal(err)
	}
	b.Reset()
	if err := list.MoveToSprint(ctx, two.ID, s.ID); err != nil {
		t.Fatalf("MoveToSprint() error = %v", err)
	}
	if len(list.Backlog()) != 0 {
		t.Errorf("Backlog() after move = %+v", list.Backlog())
	}
	if reqs := b.Requests(); len(reqs) != 2 || reqs[1].Path != "/projects/"+p.ID {
		t.Errorf("move did not reload: %+v", reqs)
	}

	if err := list.Delete(ctx, "missing"); err == nil {
		t.Fatal("Delete(missing) succeeded")
	}
	if list.Message() != "Error al eliminar: User story no encontrado" {
		t.Errorf("Message() = %q", list.Message())
	}
}

func TestCreateForms(t *testing.T) {
	b, c, _ := signedIn(t, models.RoleScrumMaster)
	ctx := context.Background()

	sf := views.NewCreateSprintForm(c, "p1")
	if _, err := sf.Submit(ctx, views.SprintInput{Name: "S1"}); !errors.Is(err, views.ErrRequired) {
		t.Errorf("sprint without dates error = %v", err)
	}
	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.FixedZone("CLT", -3*3600))
	created := 0
	sf.OnCreated = func(*models.Sprint) { created++ }
	sprint, err := sf.Submit(ctx, views.SprintInput{Name: "S1", StartDate: start, EndDate: start.AddDate(0, 0, 14)})
	if err != nil {
		t.Fatalf("sprint Submit() error = %v", err)
	}
	var body map[string]any
	b.LastRequest(t).JSON(t, &body)
	if body["startDate"] != "2025-03-03T12:00:00Z" || body["status"] != models.SprintPlanning {
		t.Errorf("sprint body = %v", body)
	}
	if created != 1 {
		t.Errorf("OnCreated ran %d times", created)
	}

	tf := views.NewCreateTaskForm(c, "p1", sprint.ID)
	task, err := tf.Submit(ctx, views.TaskInput{Title: "Wire login"})
	if err != nil {
		t.Fatalf("task Submit() error = %v", err)
	}
	body = nil
	b.LastRequest(t).JSON(t, &body)
	if body["status"] != models.TaskTodo || body["priority"] != models.PriorityMedium || body["sprintId"] != sprint.ID {
		t.Errorf("task body = %v", body)
	}
	if _, ok := body["assigneeId"]; ok {
		t.Error("empty assigneeId was sent")
	}
	if !task.InSprint(sprint.ID) {
		t.Errorf("task not in sprint: %+v", task)
	}

	uf := views.NewCreateUserStoryForm(c, "p1")
	if _, err := uf.Submit(ctx, views.StoryInput{}); !errors.Is(err, views.ErrRequired) {
		t.Errorf("story without title error = %v", err)
	}
	story, err := uf.Submit(ctx, views.StoryInput{Title: "Login", Description: "As a user", StoryPoints: 3})
	if err != nil {
		t.Fatalf("story Submit() error = %v", err)
	}
	if !story.InBacklog() || story.Priority != models.PriorityMedium {
		t.Errorf("story = %+v", story)
	}
}

func TestRubricManager(t *testing.T) {
	t.Run("students cannot manage", func(t *testing.T) {
		b, c, _ := signedIn(t, models.RoleStudent)
		m := views.NewRubricManager(c, "p1")
		m.Draft.Name = "X"
		if err := m.Create(context.Background()); !errors.Is(err, views.ErrForbidden) {
			t.Errorf("Create() error = %v", err)
		}
		if len(b.Requests()) != 0 {
			t.Error("request sent")
		}
	})

	b, c, _ := signedIn(t, models.RoleTeacher)
	ctx := context.Background()
	m := views.NewRubricManager(c, "p1")

	if len(m.Draft.Criteria) != 1 || m.Draft.Criteria[0] != views.NewCriteria() {
		t.Fatalf("initial draft = %+v", m.Draft)
	}
	if c0 := views.NewCriteria(); c0.MaxScore != 10 || c0.Weight != 1 {
		t.Errorf("NewCriteria() = %+v", c0)
	}

	m.AddCriteria()
	m.AddCriteria()
	if err := m.RemoveCriteria(2); err != nil {
		t.Fatal(err)
	}
	if err := m.RemoveCriteria(5); err == nil {
		t.Error("RemoveCriteria(out of range) succeeded")
	}
	m.Draft.Name = "Entrega"
	_ = m.UpdateCriteria(0, views.CriteriaDraft{Name: "Tests", MaxScore: 6, Weight: 2})
	_ = m.UpdateCriteria(1, views.CriteriaDraft{Name: "Docs", MaxScore: 4, Weight: 1})

	if err := m.Create(ctx); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(m.Rubrics) != 1 || len(m.Rubrics[0].Criteria) != 2 {
		t.Fatalf("Rubrics after create = %+v", m.Rubrics)
	}
	if m.Draft.Name != "" || len(m.Draft.Criteria) != 1 {
		t.Errorf("draft not reset: %+v", m.Draft)
	}

	if err := m.Delete(ctx, m.Rubrics[0].ID); err != nil {
		t.Fatal(err)
	}
	if len(m.Rubrics) != 0 || len(b.Rubrics()) != 0 {
		t.Errorf("rubric survived delete")
	}
}

func TestEvaluationModule(t *testing.T) {
	b, c, teacher := signedIn(t, models.RoleTeacher)
	ctx := context.Background()
	r := b.SeedRubric(models.Rubric{Name: "Sprint review", Criteria: []models.Criteria{
		{Name: "Scope", MaxScore: 10, Weight: 1},
		{Name: "Demo", MaxScore: 5, Weight: 1},
	}})

	m := views.NewEvaluationModule(c, "p1", "", "s1")
	if !m.CanEvaluate() {
		t.Fatal("teacher cannot evaluate")
	}
	if err := m.Submit(ctx); !errors.Is(err, views.ErrRequired) {
		t.Errorf("Submit() without rubric error = %v", err)
	}
	if err := m.LoadRubrics(ctx); err != nil {
		t.Fatal(err)
	}
	if m.SelectRubric("nope") {
		t.Error("SelectRubric(unknown) = true")
	}
	if !m.SelectRubric(r.ID) {
		t.Fatal("SelectRubric() = false")
	}
	if m.Total() != 15 {
		t.Errorf("initial Total() = %d, want max 15", m.Total())
	}
	if !m.SetScore(r.Criteria[1].ID, 2) {
		t.Fatal("SetScore() rejected a rubric criterion")
	}
	if m.SetScore("unknown", 7) {
		t.Error("SetScore(unknown) = true")
	}
	if m.Total() != 12 {
		t.Errorf("Total() = %d, want 12", m.Total())
	}
	m.Feedback = "Good demo"

	if err := m.Submit(ctx); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	var body struct {
		ProjectID      string                 `json:"projectId"`
		TaskID         *string                `json:"taskId"`
		SprintID       *string                `json:"sprintId"`
		EvaluatorID    string                 `json:"evaluatorId"`
		Score          int                    `json:"score"`
		CriteriaScores []models.CriteriaScore `json:"criteriaScores"`
	}
	var post testutil.Request
	for _, req := range b.Requests() {
		if req.Method == http.MethodPost && req.Path == "/evaluations" {
			post = req
		}
	}
	post.JSON(t, &body)
	if body.Score != 12 || body.EvaluatorID != teacher.ID || body.TaskID != nil || body.SprintID == nil || *body.SprintID != "s1" {
		t.Errorf("evaluation body = %+v", body)
	}
	if len(body.CriteriaScores) != 2 || body.CriteriaScores[0].Score != 10 {
		t.Errorf("criteriaScores = %+v", body.CriteriaScores)
	}

	if len(m.Existing) != 1 || *m.Existing[0].Score != 12 {
		t.Errorf("Existing after submit = %+v", m.Existing)
	}
	if m.Selected != nil || m.Feedback != "" {
		t.Error("form not cleared after submit")
	}
}
