package api_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/wrk-dev/wrk/internal/api"
	"github.com/wrk-dev/wrk/internal/models"
	"github.com/wrk-dev/wrk/internal/testutil"
)

func loggedInClient(t *testing.T, role string) (*testutil.Backend, *api.Client, models.User) {
	t.Helper()
	b := testutil.NewBackend(t)
	sess, u := b.LoggedIn(t, role)
	return b, api.New(b.URL(), sess), u
}

func TestProjects_CreateWithoutSessionSendsNothing(t *testing.T) {
	b := testutil.NewBackend(t)
	c := api.New(b.URL(), testutil.NewSession(t))

	_, err := c.Projects.Create(context.Background(), api.CreateProjectRequest{Name: "X"})
	if !errors.Is(err, api.ErrUnauthenticated) {
		t.Fatalf("Create() error = %v, want ErrUnauthenticated", err)
	}
	if n := len(b.Requests()); n != 0 {
		t.Errorf("backend received %d requests, want 0", n)
	}
}

func TestProjects_Lifecycle(t *testing.T) {
	b, c, owner := loggedInClient(t, models.RoleScrumMaster)
	ctx := context.Background()
	dev := b.AddUser("Dev", "dev@example.com", "pw", models.RoleTeamDeveloper)

	desc := "Capstone"
	p, err := c.Projects.Create(ctx, api.CreateProjectRequest{Name: "Wrk", Description: &desc, Status: models.ProjectActive})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.OwnerID != owner.ID {
		t.Errorf("OwnerID = %q, want session user %q", p.OwnerID, owner.ID)
	}

	var sent map[string]any
	b.LastRequest(t).JSON(t, &sent)
	if sent["ownerId"] != owner.ID || sent["name"] != "Wrk" || sent["status"] != "ACTIVE" {
		t.Errorf("create body = %v", sent)
	}

	member, err := c.Projects.AddMember(ctx, p.ID, api.AddMemberRequest{UserID: dev.ID, Role: models.RoleTeamDeveloper})
	if err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	if member.UserID != dev.ID {
		t.Errorf("member = %+v", member)
	}

	mine, err := c.Projects.GetAll(ctx, dev.ID)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(mine) != 1 || mine[0].ID != p.ID {
		t.Errorf("GetAll(member) = %+v", mine)
	}

	updated, err := c.Projects.Update(ctx, p.ID, api.UpdateProjectRequest{Status: models.ProjectCompleted})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Status != models.ProjectCompleted || updated.Name != "Wrk" {
		t.Errorf("Update() = %+v", updated)
	}

	if err := c.Projects.RemoveMember(ctx, p.ID, dev.ID); err != nil {
		t.Fatalf("RemoveMember() error = %v", err)
	}
	if mine, _ := c.Projects.GetAll(ctx, dev.ID); len(mine) != 0 {
		t.Errorf("GetAll after removal = %+v", mine)
	}

	if err := c.Projects.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	_, err = c.Projects.GetByID(ctx, p.ID)
	var reqErr *api.RequestError
	if !errors.As(err, &reqErr) || reqErr.Status != http.StatusNotFound || reqErr.Message != "Proyecto no encontrado" {
		t.Errorf("GetByID(deleted) error = %v", err)
	}
}

func TestProjects_GetAllWithoutMember(t *testing.T) {
	b, c, _ := loggedInClient(t, models.RoleAdmin)
	b.SeedProject(models.Project{Name: "A", OwnerID: "x"})
	b.SeedProject(models.Project{Name: "B", OwnerID: "y"})

	all, err := c.Projects.GetAll(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("len = %d, want 2", len(all))
	}
	if q := b.LastRequest(t).Query; len(q) != 0 {
		t.Errorf("query = %v, want none", q)
	}
}

func TestTasks_UpdateReturnsInnerData(t *testing.T) {
	b, c, _ := loggedInClient(t, models.RoleStudent)
	task := b.SeedTask(models.Task{ProjectID: "p1", Title: "Write docs"})

	got, err := c.Tasks.Update(context.Background(), task.ID, api.UpdateTaskRequest{Status: models.TaskDone})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.ID != task.ID || got.Status != models.TaskDone || got.Title != "Write docs" {
		t.Errorf("Update() = %+v", got)
	}

	req := b.LastRequest(t)
	if req.Method != http.MethodPut || req.Path != "/tasks/"+task.ID {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
	if string(req.Body) != `{"status":"DONE"}` {
		t.Errorf("body = %s, want only status", req.Body)
	}
}

func TestTasks_FilterAndEvaluate(t *testing.T) {
	b, c, teacher := loggedInClient(t, models.RoleTeacher)
	ctx := context.Background()
	dev := "dev-1"
	b.SeedTask(models.Task{ProjectID: "p1", Title: "A", AssigneeID: &dev})
	b.SeedTask(models.Task{ProjectID: "p1", Title: "B"})
	b.SeedTask(models.Task{ProjectID: "p2", Title: "C", AssigneeID: &dev})

	tasks, err := c.Tasks.GetAll(ctx, api.TaskFilter{ProjectID: "p1", AssigneeID: dev})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Title != "A" {
		t.Fatalf("GetAll(filter) = %+v", tasks)
	}

	if err := c.Tasks.Evaluate(ctx, tasks[0].ID, api.EvaluateTaskRequest{Score: 8, EvaluatorID: teacher.ID}); err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	evals, err := c.Evaluations.GetByStudent(ctx, dev)
	if err != nil {
		t.Fatal(err)
	}
	if len(evals) != 1 || evals[0].Score == nil || *evals[0].Score != 8 {
		t.Errorf("GetByStudent() = %+v", evals)
	}
}

func TestUserStories_Delete(t *testing.T) {
	t.Run("no content", func(t *testing.T) {
		b, c, _ := loggedInClient(t, models.RoleStudent)
		s := b.SeedStory(models.UserStory{ProjectID: "p1", Title: "Login"})

		if err := c.UserStories.Delete(context.Background(), s.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, ok := b.Story(s.ID); ok {
			t.Error("story still stored")
		}
	})

	t.Run("message body", func(t *testing.T) {
		b, c, _ := loggedInClient(t, models.RoleStudent)
		b.Reply(http.MethodDelete, "/user-stories/s1", http.StatusOK, `{"message":"User story eliminado"}`)

		if err := c.UserStories.Delete(context.Background(), "s1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
	})
}

func TestUserStories_CreateAndPlan(t *testing.T) {
	b, c, _ := loggedInClient(t, models.RoleScrumMaster)
	ctx := context.Background()
	sprint := b.SeedSprint(models.Sprint{ProjectID: "p1", Name: "S1"})

	story, err := c.UserStories.Create(ctx, api.CreateUserStoryRequest{ProjectID: "p1", Title: "Login", Description: "As a user", StoryPoints: 5})
	if err != nil {
		t.Fatal(err)
	}
	if story.Status != models.StoryBacklog || story.Priority != models.PriorityMedium {
		t.Errorf("defaults = %s/%s", story.Status, story.Priority)
	}

	planned, err := c.Sprints.AddStory(ctx, sprint.ID, story.ID)
	if err != nil {
		t.Fatalf("AddStory() error = %v", err)
	}
	if planned.SprintID == nil || *planned.SprintID != sprint.ID {
		t.Errorf("SprintID = %v", planned.SprintID)
	}
	var body map[string]string
	b.LastRequest(t).JSON(t, &body)
	if body["userStoryId"] != story.ID {
		t.Errorf("add-story body = %v", body)
	}

	if _, err := c.Sprints.AddStory(ctx, sprint.ID, story.ID); err == nil || err.Error() != "La historia ya está en el sprint" {
		t.Errorf("second AddStory() error = %v", err)
	}

	got, err := c.Sprints.GetByID(ctx, sprint.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.UserStories) != 1 {
		t.Errorf("sprint stories = %d, want 1", len(got.UserStories))
	}

	points := 8
	updated, err := c.UserStories.Update(ctx, story.ID, api.UpdateUserStoryRequest{StoryPoints: &points})
	if err != nil {
		t.Fatal(err)
	}
	if updated.StoryPoints == nil || *updated.StoryPoints != 8 || updated.Title != "Login" {
		t.Errorf("Update() = %+v", updated)
	}
}

func TestSprints_CRUD(t *testing.T) {
	_, c, _ := loggedInClient(t, models.RoleScrumMaster)
	ctx := context.Background()

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	s, err := c.Sprints.Create(ctx, api.CreateSprintRequest{Name: "S1", ProjectID: "p1", StartDate: &start})
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != models.SprintPlanning {
		t.Errorf("Status = %q, want PLANNING", s.Status)
	}
	if s.StartDate == nil || s.StartDate.Day() != 1 {
		t.Errorf("StartDate = %v", s.StartDate)
	}

	s, err = c.Sprints.Update(ctx, s.ID, api.UpdateSprintRequest{Status: models.SprintActive})
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != models.SprintActive {
		t.Errorf("Status = %q", s.Status)
	}

	all, err := c.Sprints.GetAll(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("GetAll() = %v, %v", all, err)
	}
	if err := c.Sprints.Delete(ctx, s.ID); err != nil {
		t.Fatal(err)
	}
	if all, _ := c.Sprints.GetAll(ctx); len(all) != 0 {
		t.Errorf("after delete = %+v", all)
	}
}

func TestRubricsAndEvaluations(t *testing.T) {
	b, c, teacher := loggedInClient(t, models.RoleTeacher)
	ctx := context.Background()

	err := c.Rubrics.Create(ctx, api.CreateRubricRequest{
		ProjectID: "p1",
		Name:      "Code quality",
		Criteria: []api.CriteriaInput{
			{Name: "Tests", MaxScore: 10, Weight: 1},
			{Name: "Style", MaxScore: 5, Weight: 1},
		},
	})
	if err != nil {
		t.Fatalf("Rubrics.Create() error = %v", err)
	}
	b.SeedRubric(models.Rubric{Name: "Global"})

	rubrics, err := c.Rubrics.GetAll(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rubrics) != 2 {
		t.Fatalf("GetAll(p1) = %d rubrics, want project plus global", len(rubrics))
	}
	if q := b.LastRequest(t).Query.Get("projectId"); q != "p1" {
		t.Errorf("projectId query = %q", q)
	}

	rubric, err := c.Rubrics.GetByID(ctx, rubrics[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if rubric.MaxTotal() != 15 {
		t.Errorf("MaxTotal() = %d, want 15", rubric.MaxTotal())
	}

	sprintID := "s1"
	err = c.Evaluations.Create(ctx, api.CreateEvaluationRequest{
		ProjectID:   "p1",
		SprintID:    &sprintID,
		EvaluatorID: teacher.ID,
		Feedback:    "Solid",
		Score:       13,
		CriteriaScores: []models.CriteriaScore{
			{CriteriaID: rubric.Criteria[0].ID, Score: 9},
			{CriteriaID: rubric.Criteria[1].ID, Score: 4},
		},
	})
	if err != nil {
		t.Fatalf("Evaluations.Create() error = %v", err)
	}
	if err := c.Evaluations.Create(ctx, api.CreateEvaluationRequest{ProjectID: "p1", EvaluatorID: teacher.ID, Score: 7}); err != nil {
		t.Fatal(err)
	}

	bySprint, err := c.Evaluations.GetBySprint(ctx, sprintID)
	if err != nil || len(bySprint) != 1 {
		t.Fatalf("GetBySprint() = %v, %v", bySprint, err)
	}
	if len(bySprint[0].Criteria) != 2 {
		t.Errorf("criteria = %+v", bySprint[0].Criteria)
	}
	general, err := c.Evaluations.GetByProject(ctx, "p1")
	if err != nil || len(general) != 1 || *general[0].Score != 7 {
		t.Fatalf("GetByProject() = %+v, %v", general, err)
	}
	if p := b.LastRequest(t).Path; p != "/evaluations/project/p1/general" {
		t.Errorf("path = %q", p)
	}

	if err := c.Evaluations.Update(ctx, general[0].ID, api.UpdateEvaluationRequest{Feedback: "Better", Score: 9}); err != nil {
		t.Fatal(err)
	}
	ev, err := c.Evaluations.GetByID(ctx, general[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if *ev.Score != 9 || *ev.Feedback != "Better" {
		t.Errorf("after Update() = %+v", ev)
	}

	if byTask, err := c.Evaluations.GetByTask(ctx, "none"); err != nil || len(byTask) != 0 {
		t.Errorf("GetByTask(none) = %v, %v", byTask, err)
	}

	if err := c.Rubrics.Delete(ctx, rubric.ID); err != nil {
		t.Fatal(err)
	}
}

func TestRetrospectivesAndNotifications(t *testing.T) {
	b, c, u := loggedInClient(t, models.RoleStudent)
	ctx := context.Background()

	item, err := c.Retrospectives.Create(ctx, api.CreateRetroItemRequest{SprintID: "s1", Type: models.RetroGood, Content: "Pairing"})
	if err != nil {
		t.Fatal(err)
	}
	if item.UserID != u.ID {
		t.Errorf("UserID = %q, want session user", item.UserID)
	}
	items, err := c.Retrospectives.GetBySprint(ctx, "s1")
	if err != nil || len(items) != 1 {
		t.Fatalf("GetBySprint() = %v, %v", items, err)
	}
	if err := c.Retrospectives.Delete(ctx, item.ID); err != nil {
		t.Fatal(err)
	}

	mine := b.SeedNotification(models.Notification{UserID: u.ID, Title: "Assigned"})
	b.SeedNotification(models.Notification{UserID: "someone-else", Title: "Other"})

	notes, err := c.Notifications.GetAll(ctx)
	if err != nil || len(notes) != 1 {
		t.Fatalf("GetAll() = %v, %v", notes, err)
	}
	read, err := c.Notifications.MarkRead(ctx, mine.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !read.Read {
		t.Error("MarkRead() did not mark")
	}
}

func TestDocuments_Upload(t *testing.T) {
	b, c, _ := loggedInClient(t, models.RoleStudent)
	ctx := context.Background()

	doc, err := c.Documents.Upload(ctx, "p1", "notes.md", strings.NewReader("# notes"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.Name != "notes.md" || doc.ProjectID != "p1" || doc.Version != 1 {
		t.Errorf("Upload() = %+v", doc)
	}
	req := b.LastRequest(t)
	if ct := req.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/form-data; boundary=") {
		t.Errorf("Content-Type = %q", ct)
	}
	if req.Header.Get("Authorization") == "" {
		t.Error("upload sent without token")
	}

	docs, err := c.Documents.GetByProject(ctx, "p1")
	if err != nil || len(docs) != 1 {
		t.Fatalf("GetByProject() = %v, %v", docs, err)
	}
	if err := c.Documents.Delete(ctx, doc.ID); err != nil {
		t.Fatal(err)
	}
}

func TestMetrics(t *testing.T) {
	b, c, _ := loggedInClient(t, models.RoleTeacher)
	ctx := context.Background()
	dev := b.AddUser("Dev", "dev@example.com", "pw", models.RoleTeamDeveloper)

	p := b.SeedProject(models.Project{Name: "Wrk", OwnerID: dev.ID})
	start := time.Now().Add(-48 * time.Hour).UTC()
	end := start.Add(96 * time.Hour)
	s := b.SeedSprint(models.Sprint{ProjectID: p.ID, Name: "S1", StartDate: &start, EndDate: &end})
	five, three := 5, 3
	b.SeedStory(models.UserStory{ProjectID: p.ID, SprintID: &s.ID, StoryPoints: &five, Status: models.StoryCompleted})
	b.SeedStory(models.UserStory{ProjectID: p.ID, SprintID: &s.ID, StoryPoints: &three})
	b.SeedTask(models.Task{ProjectID: p.ID, SprintID: &s.ID, Title: "Build", Status: models.TaskDone, AssigneeID: &dev.ID})

	burn, err := c.Metrics.Burndown(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if burn.TotalPoints != 8 || len(burn.Series) != 5 {
		t.Errorf("Burndown() = %d points, %d days", burn.TotalPoints, len(burn.Series))
	}
	if burn.Series[len(burn.Series)-1].Actual != nil {
		t.Error("future day has an actual value")
	}

	vel, err := c.Metrics.Velocity(ctx, p.ID)
	if err != nil || len(vel) != 1 {
		t.Fatalf("Velocity() = %v, %v", vel, err)
	}
	if vel[0].Committed != 8 || vel[0].Completed != 5 {
		t.Errorf("Velocity() = %+v", vel[0])
	}

	contrib, err := c.Metrics.Contribution(ctx, p.ID)
	if err != nil || len(contrib) != 1 || contrib[0].Count != 1 || contrib[0].User.ID != dev.ID {
		t.Errorf("Contribution() = %+v, %v", contrib, err)
	}

	csv, err := c.Metrics.ExportCSV(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := "Sprint,Task,Assignee,Status,Priority\nS1,Build,Dev,DONE,MEDIUM\n"
	if string(csv) != want {
		t.Errorf("ExportCSV() = %q, want %q", csv, want)
	}
}

func TestUsers_Admin(t *testing.T) {
	_, c, _ := loggedInClient(t, models.RoleAdmin)
	ctx := context.Background()

	u, err := c.Users.Create(ctx, api.CreateUserRequest{Name: "Cy", Email: "cy@x", Password: "pw", Role: models.RoleStudent})
	if err != nil {
		t.Fatal(err)
	}
	u, err = c.Users.Update(ctx, u.ID, api.UpdateUserRequest{Name: "Cyrus"})
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != "Cyrus" || u.Email != "cy@x" {
		t.Errorf("Update() = %+v", u)
	}
	got, err := c.Users.GetByID(ctx, u.ID)
	if err != nil || got.Name != "Cyrus" {
		t.Fatalf("GetByID() = %+v, %v", got, err)
	}
	if err := c.Users.Delete(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Users.GetByID(ctx, u.ID); api.StatusOf(err) != http.StatusNotFound {
		t.Errorf("GetByID(deleted) error = %v", err)
	}
}
