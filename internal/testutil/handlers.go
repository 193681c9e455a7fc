package testutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wrk-dev/wrk/internal/models"
)

func (b *Backend) mountResources(r chi.Router) {
	r.Get("/users", listAll(b, b.users))
	r.Get("/users/{id}", getByID(b, b.users, "Usuario no encontrado"))
	r.Post("/users", b.createUser)
	r.Put("/users/{id}", updateByID(b, b.users, "Usuario no encontrado"))
	r.Delete("/users/{id}", deleteByID(b, b.users, "Usuario no encontrado", nestedMessage("Usuario eliminado")))

	r.Get("/projects", b.listProjects)
	r.Get("/projects/{id}", b.getProject)
	r.Post("/projects", b.createProject)
	r.Put("/projects/{id}", updateByID(b, b.projects, "Proyecto no encontrado"))
	r.Delete("/projects/{id}", deleteByID(b, b.projects, "Proyecto no encontrado", nestedMessage("Proyecto eliminado")))
	r.Post("/projects/{id}/members", b.addMember)
	r.Delete("/projects/{id}/members/{userId}", b.removeMember)

	r.Get("/sprints", listAll(b, b.sprints))
	r.Get("/sprints/{id}", b.getSprint)
	r.Post("/sprints", b.createSprint)
	r.Put("/sprints/{id}", updateByID(b, b.sprints, "Sprint no encontrado"))
	r.Delete("/sprints/{id}", deleteByID(b, b.sprints, "Sprint no encontrado", nestedMessage("Sprint eliminado")))
	r.Post("/sprints/{id}/add-story", b.addStoryToSprint)

	r.Get("/user-stories", listAll(b, b.stories))
	r.Get("/user-stories/{id}", getByID(b, b.stories, "User story no encontrado"))
	r.Post("/user-stories", b.createStory)
	r.Put("/user-stories/{id}", updateByID(b, b.stories, "User story no encontrado"))
	// Answers 204; the {message} variant is covered with Reply.
	r.Delete("/user-stories/{id}", deleteByID(b, b.stories, "User story no encontrado", func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusNoContent)
	}))

	r.Get("/tasks", b.listTasks)
	r.Get("/tasks/{id}", getByID(b, b.tasks, "Tarea no encontrada"))
	r.Post("/tasks", b.createTask)
	r.Put("/tasks/{id}", updateByID(b, b.tasks, "Tarea no encontrada"))
	r.Delete("/tasks/{id}", deleteByID(b, b.tasks, "Tarea no encontrada", nestedMessage("Tarea eliminada")))
	r.Post("/tasks/{id}/evaluate", b.evaluateTask)

	r.Get("/rubrics", b.listRubrics)
	r.Get("/rubrics/{id}", getByID(b, b.rubrics, "Rúbrica no encontrada"))
	r.Post("/rubrics", b.createRubric)
	r.Delete("/rubrics/{id}", deleteByID(b, b.rubrics, "Rúbrica no encontrada", plainMessage("Rúbrica eliminada")))

	r.Get("/evaluations/{id}", getByID(b, b.evaluations, "Evaluación no encontrada"))
	r.Post("/evaluations", b.createEvaluation)
	r.Put("/evaluations/{id}", b.updateEvaluation)
	r.Get("/evaluations/task/{id}", b.listEvaluations(func(e models.Evaluation, id string) bool {
		return e.TaskID != nil && *e.TaskID == id
	}))
	r.Get("/evaluations/sprint/{id}", b.listEvaluations(func(e models.Evaluation, id string) bool {
		return e.SprintID != nil && *e.SprintID == id
	}))
	r.Get("/evaluations/project/{id}/general", b.listEvaluations(func(e models.Evaluation, id string) bool {
		return e.ProjectID == id && e.TaskID == nil && e.SprintID == nil
	}))
	r.Get("/evaluations/student/{id}", b.studentEvaluations)

	r.Get("/retrospectives/{id}", b.listRetro)
	r.Post("/retrospectives", b.createRetro)
	r.Delete("/retrospectives/{id}", deleteByID(b, b.retros, "Item no encontrado", plainMessage("Item eliminado")))

	r.Get("/notifications", b.listNotifications)
	r.Put("/notifications/{id}/read", b.markRead)

	r.Get("/documents/{id}", b.listDocuments)
	r.Post("/documents", b.uploadDocument)
	r.Delete("/documents/{id}", deleteByID(b, b.documents, "Document not found", plainMessage("Document deleted")))

	r.Get("/metrics/sprints/{id}/burndown", b.burndown)
	r.Get("/metrics/projects/{id}/velocity", b.velocity)
	r.Get("/metrics/projects/{id}/contribution", b.contribution)
	r.Get("/metrics/export/projects/{id}", b.exportCSV)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func nestedMessage(msg string) func(http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		writeData(w, http.StatusOK, map[string]string{"message": msg})
	}
}

func plainMessage(msg string) func(http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		writeMessage(w, http.StatusOK, msg)
	}
}

func listAll[T any](b *Backend, t *table[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		rows := t.all(nil)
		b.mu.Unlock()
		writeData(w, http.StatusOK, rows)
	}
}

func getByID[T any](b *Backend, t *table[T], notFound string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		v, ok := t.get(chi.URLParam(r, "id"))
		b.mu.Unlock()
		if !ok {
			writeError(w, http.StatusNotFound, notFound)
			return
		}
		writeData(w, http.StatusOK, v)
	}
}

// updateByID decodes the body over the stored row, so only the fields
// present in the request change.
func updateByID[T any](b *Backend, t *table[T], notFound string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		v, ok := t.get(id)
		if !ok {
			writeError(w, http.StatusNotFound, notFound)
			return
		}
		if err := json.Unmarshal(body, &v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		t.put(id, v)
		writeData(w, http.StatusOK, v)
	}
}

func deleteByID[T any](b *Backend, t *table[T], notFound string, reply func(http.ResponseWriter)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		ok := t.del(chi.URLParam(r, "id"))
		b.mu.Unlock()
		if !ok {
			writeError(w, http.StatusNotFound, notFound)
			return
		}
		reply(w)
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Nombre, email y contraseña requeridos")
		return
	}

	u, err := b.addAccount(req.Name, req.Email, req.Password, req.Role)
	if errors.Is(err, errEmailTaken) {
		writeError(w, http.StatusBadRequest, "El email ya está registrado")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error al registrar usuario")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Usuario registrado exitosamente",
		"user":    u,
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email y contraseña requeridos")
		return
	}

	b.mu.Lock()
	acct, ok := b.accounts[req.Email]
	b.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Email o contraseña incorrectos")
		return
	}

	u := acct.user
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Inicio de sesión exitoso",
		"token":   b.Token(u),
		"user": map[string]string{
			"id":    u.ID,
			"email": u.Email,
			"name":  u.Name,
			"role":  u.Role,
		},
	})
}

func (b *Backend) createUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if !decode(w, r, &req) {
		return
	}
	u, err := b.addAccount(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "El email ya está registrado")
		return
	}
	writeData(w, http.StatusCreated, u)
}

func isMember(p models.Project, userID string) bool {
	if p.OwnerID == userID {
		return true
	}
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func (b *Backend) listProjects(w http.ResponseWriter, r *http.Request) {
	memberID := r.URL.Query().Get("memberId")

	b.mu.Lock()
	rows := b.projects.all(func(p models.Project) bool {
		return memberID == "" || isMember(p, memberID)
	})
	b.mu.Unlock()

	// Unlike every other collection, projects are listed without an envelope.
	writeJSON(w, http.StatusOK, rows)
}

func (b *Backend) getProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.projects.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Proyecto no encontrado")
		return
	}
	if owner, ok := b.users.get(p.OwnerID); ok {
		p.Owner = &owner
	}
	p.Sprints = b.sprints.all(func(s models.Sprint) bool { return s.ProjectID == id })
	p.UserStories = b.stories.all(func(s models.UserStory) bool { return s.ProjectID == id })
	p.Tasks = b.tasks.all(func(t models.Task) bool { return t.ProjectID == id })
	writeData(w, http.StatusOK, p)
}

func (b *Backend) createProject(w http.ResponseWriter, r *http.Request) {
	var p models.Project
	if !decode(w, r, &p) {
		return
	}
	if p.Name == "" || p.OwnerID == "" {
		writeError(w, http.StatusBadRequest, "Nombre y propietario requeridos")
		return
	}
	p.ID = uuid.NewString()
	if p.Status == "" {
		p.Status = models.ProjectActive
	}

	b.mu.Lock()
	b.projects.put(p.ID, p)
	b.mu.Unlock()
	writeData(w, http.StatusCreated, p)
}

func (b *Backend) addMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
		Role   string `json:"role"`
	}
	if !decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.projects.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Proyecto no encontrado")
		return
	}
	u, ok := b.users.get(req.UserID)
	if !ok {
		writeError(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	for i, m := range p.Members {
		if m.UserID == req.UserID {
			p.Members[i].Role = req.Role
			b.projects.put(id, p)
			writeJSON(w, http.StatusOK, map[string]any{"data": p.Members[i], "message": "Rol actualizado"})
			return
		}
	}

	now := time.Now().UTC()
	m := models.ProjectMember{ID: uuid.NewString(), ProjectID: id, UserID: u.ID, Role: req.Role, JoinedAt: &now, User: &u}
	p.Members = append(p.Members, m)
	b.projects.put(id, p)
	writeJSON(w, http.StatusCreated, map[string]any{"data": m, "message": "Miembro agregado"})
}

func (b *Backend) removeMember(w http.ResponseWriter, r *http.Request) {
	id, userID := chi.URLParam(r, "id"), chi.URLParam(r, "userId")

	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.projects.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Proyecto no encontrado")
		return
	}
	for i, m := range p.Members {
		if m.UserID == userID {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			b.projects.put(id, p)
			writeMessage(w, http.StatusOK, "Miembro eliminado")
			return
		}
	}
	writeError(w, http.StatusNotFound, "Miembro no encontrado")
}

func (b *Backend) getSprint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sprints.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Sprint no encontrado")
		return
	}
	s.UserStories = b.stories.all(func(u models.UserStory) bool { return u.SprintID != nil && *u.SprintID == id })
	s.Tasks = b.tasks.all(func(t models.Task) bool { return t.InSprint(id) })
	writeData(w, http.StatusOK, s)
}

func (b *Backend) createSprint(w http.ResponseWriter, r *http.Request) {
	var s models.Sprint
	if !decode(w, r, &s) {
		return
	}
	if s.Name == "" || s.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "Nombre y proyecto requeridos")
		return
	}
	s.ID = uuid.NewString()
	if s.Status == "" {
		s.Status = models.SprintPlanning
	}

	b.mu.Lock()
	b.sprints.put(s.ID, s)
	b.mu.Unlock()
	writeData(w, http.StatusCreated, s)
}

func (b *Backend) addStoryToSprint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserStoryID string `json:"userStoryId"`
	}
	if !decode(w, r, &req) {
		return
	}
	sprintID := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	story, ok := b.stories.get(req.UserStoryID)
	if !ok {
		writeError(w, http.StatusNotFound, "Historia no encontrada")
		return
	}
	if story.SprintID != nil && *story.SprintID == sprintID {
		writeError(w, http.StatusBadRequest, "La historia ya está en el sprint")
		return
	}
	story.SprintID = &sprintID
	b.stories.put(story.ID, story)
	writeData(w, http.StatusCreated, story)
}

func (b *Backend) createStory(w http.ResponseWriter, r *http.Request) {
	var s models.UserStory
	if !decode(w, r, &s) {
		return
	}
	if s.Title == "" || s.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "Título y proyecto requeridos")
		return
	}
	s.ID = uuid.NewString()
	if s.Status == "" {
		s.Status = models.StoryBacklog
	}
	if s.Priority == "" {
		s.Priority = models.PriorityMedium
	}

	b.mu.Lock()
	b.stories.put(s.ID, s)
	b.mu.Unlock()
	writeData(w, http.StatusCreated, s)
}

func (b *Backend) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	projectID, assigneeID := q.Get("projectId"), q.Get("assigneeId")

	b.mu.Lock()
	rows := b.tasks.all(func(t models.Task) bool {
		if projectID != "" && t.ProjectID != projectID {
			return false
		}
		return assigneeID == "" || (t.AssigneeID != nil && *t.AssigneeID == assigneeID)
	})
	b.mu.Unlock()
	writeData(w, http.StatusOK, rows)
}

func (b *Backend) createTask(w http.ResponseWriter, r *http.Request) {
	var t models.Task
	if !decode(w, r, &t) {
		return
	}
	if t.Title == "" || t.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "Título y proyecto requeridos")
		return
	}
	t.ID = uuid.NewString()
	if t.Status == "" {
		t.Status = models.TaskTodo
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}

	b.mu.Lock()
	b.tasks.put(t.ID, t)
	b.mu.Unlock()
	writeData(w, http.StatusCreated, t)
}

type evaluationBody struct {
	ProjectID      string                 `json:"projectId"`
	TaskID         *string                `json:"taskId"`
	SprintID       *string                `json:"sprintId"`
	EvaluatorID    string                 `json:"evaluatorId"`
	Feedback       string                 `json:"feedback"`
	Score          int                    `json:"score"`
	CriteriaScores []models.CriteriaScore `json:"criteriaScores"`
}

func (e evaluationBody) apply(ev *models.Evaluation) {
	score := e.Score
	ev.Score = &score
	ev.Feedback = strPtr(e.Feedback)
	ev.Status = "COMPLETED"
	ev.Criteria = ev.Criteria[:0]
	for _, cs := range e.CriteriaScores {
		ev.Criteria = append(ev.Criteria, models.EvaluationCriteria{
			ID:           uuid.NewString(),
			EvaluationID: ev.ID,
			CriteriaID:   cs.CriteriaID,
			Score:        cs.Score,
		})
	}
}

func (b *Backend) evaluateTask(w http.ResponseWriter, r *http.Request) {
	var req evaluationBody
	if !decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tasks.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Tarea no encontrada")
		return
	}
	ev := models.Evaluation{ID: uuid.NewString(), ProjectID: t.ProjectID, TaskID: &t.ID, EvaluatorID: req.EvaluatorID}
	req.apply(&ev)
	b.evaluations.put(ev.ID, ev)
	writeMessage(w, http.StatusCreated, "Tarea evaluada")
}

func (b *Backend) listRubrics(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("projectId")

	b.mu.Lock()
	rows := b.rubrics.all(func(rb models.Rubric) bool {
		return projectID == "" || rb.ProjectID == nil || *rb.ProjectID == projectID
	})
	b.mu.Unlock()
	writeData(w, http.StatusOK, rows)
}

func (b *Backend) createRubric(w http.ResponseWriter, r *http.Request) {
	var rb models.Rubric
	if !decode(w, r, &rb) {
		return
	}
	if rb.Name == "" {
		writeError(w, http.StatusBadRequest, "Nombre requerido")
		return
	}
	rb.ID = uuid.NewString()
	for i := range rb.Criteria {
		rb.Criteria[i].ID = uuid.NewString()
		rb.Criteria[i].RubricID = rb.ID
	}

	b.mu.Lock()
	b.rubrics.put(rb.ID, rb)
	b.mu.Unlock()
	// The created rubric is not echoed back.
	writeMessage(w, http.StatusCreated, "Rúbrica creada exitosamente")
}

func (b *Backend) listEvaluations(match func(models.Evaluation, string) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		b.mu.Lock()
		rows := b.evaluations.all(func(e models.Evaluation) bool { return match(e, id) })
		b.mu.Unlock()
		writeData(w, http.StatusOK, rows)
	}
}

func (b *Backend) studentEvaluations(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	rows := b.evaluations.all(func(e models.Evaluation) bool {
		if e.TaskID == nil {
			return false
		}
		t, ok := b.tasks.get(*e.TaskID)
		return ok && t.AssigneeID != nil && *t.AssigneeID == studentID
	})
	writeData(w, http.StatusOK, rows)
}

func (b *Backend) createEvaluation(w http.ResponseWriter, r *http.Request) {
	var req evaluationBody
	if !decode(w, r, &req) {
		return
	}
	if req.ProjectID == "" || req.EvaluatorID == "" {
		writeError(w, http.StatusBadRequest, "Proyecto y evaluador requeridos")
		return
	}
	ev := models.Evaluation{
		ID:          uuid.NewString(),
		ProjectID:   req.ProjectID,
		TaskID:      req.TaskID,
		SprintID:    req.SprintID,
		EvaluatorID: req.EvaluatorID,
	}
	req.apply(&ev)

	b.mu.Lock()
	b.evaluations.put(ev.ID, ev)
	b.mu.Unlock()
	writeMessage(w, http.StatusCreated, "Evaluación creada")
}

func (b *Backend) updateEvaluation(w http.ResponseWriter, r *http.Request) {
	var req evaluationBody
	if !decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	ev, ok := b.evaluations.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Evaluación no encontrada")
		return
	}
	req.apply(&ev)
	b.evaluations.put(id, ev)
	writeMessage(w, http.StatusOK, "Evaluación actualizada")
}

func (b *Backend) listRetro(w http.ResponseWriter, r *http.Request) {
	sprintID := chi.URLParam(r, "id")
	b.mu.Lock()
	rows := b.retros.all(func(i models.RetrospectiveItem) bool { return i.SprintID == sprintID })
	b.mu.Unlock()
	writeData(w, http.StatusOK, rows)
}

func (b *Backend) createRetro(w http.ResponseWriter, r *http.Request) {
	var item models.RetrospectiveItem
	if !decode(w, r, &item) {
		return
	}
	if item.SprintID == "" || item.Type == "" || item.Content == "" {
		writeError(w, http.StatusBadRequest, "Sprint, tipo y contenido requeridos")
		return
	}
	now := time.Now().UTC()
	item.ID = uuid.NewString()
	item.CreatedAt = &now

	b.mu.Lock()
	b.retros.put(item.ID, item)
	b.mu.Unlock()
	writeData(w, http.StatusCreated, item)
}

func (b *Backend) listNotifications(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	b.mu.Lock()
	rows := b.notifications.all(func(n models.Notification) bool { return n.UserID == userID })
	b.mu.Unlock()
	writeData(w, http.StatusOK, rows)
}

func (b *Backend) markRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	n, ok := b.notifications.get(id)
	if !ok || n.UserID != callerID(r) {
		writeError(w, http.StatusNotFound, "Notificación no encontrada")
		return
	}
	n.Read = true
	b.notifications.put(id, n)
	writeData(w, http.StatusOK, n)
}

func (b *Backend) listDocuments(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	b.mu.Lock()
	rows := b.documents.all(func(d models.Document) bool { return d.ProjectID == projectID })
	b.mu.Unlock()
	writeData(w, http.StatusOK, rows)
}

func (b *Backend) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	_, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	projectID := r.FormValue("projectId")
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "Project ID required")
		return
	}

	id := uuid.NewString()
	size := int(header.Size / 1024)
	now := time.Now().UTC()
	doc := models.Document{
		ID:         id,
		ProjectID:  projectID,
		Name:       header.Filename,
		URL:        fmt.Sprintf("/uploads/%s_%s", id, header.Filename),
		Type:       "FILE",
		Size:       &size,
		Version:    1,
		UploadedAt: &now,
	}

	b.mu.Lock()
	b.documents.put(id, doc)
	b.mu.Unlock()
	writeData(w, http.StatusCreated, doc)
}

func (b *Backend) burndown(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sprints.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Sprint not found")
		return
	}
	stories := b.stories.all(func(u models.UserStory) bool { return u.SprintID != nil && *u.SprintID == id })

	total := 0
	for _, st := range stories {
		if st.StoryPoints != nil {
			total += *st.StoryPoints
		}
	}

	series := []models.BurndownPoint{}
	if s.StartDate != nil && s.EndDate != nil {
		days := int(s.EndDate.Sub(*s.StartDate).Hours() / 24)
		step := 0.0
		if days > 0 {
			step = float64(total) / float64(days)
		}
		now := time.Now()
		for i := 0; i <= days; i++ {
			date := s.StartDate.Add(24 * time.Hour * time.Duration(i))
			point := models.BurndownPoint{
				Day:   i + 1,
				Date:  date.Format("2006-01-02"),
				Ideal: math.Max(0, float64(total)-step*float64(i)),
			}
			if !date.After(now) {
				burned := 0
				for _, st := range stories {
					if st.CompletedAt != nil && !st.CompletedAt.After(date) && st.StoryPoints != nil {
						burned += *st.StoryPoints
					}
				}
				remaining := total - burned
				point.Actual = &remaining
			}
			series = append(series, point)
		}
	}
	writeData(w, http.StatusOK, models.Burndown{TotalPoints: total, Series: series})
}

func (b *Backend) velocity(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	points := []models.VelocityPoint{}
	for _, s := range b.sprints.all(func(s models.Sprint) bool { return s.ProjectID == projectID }) {
		v := models.VelocityPoint{Name: s.Name}
		for _, st := range b.stories.all(func(u models.UserStory) bool { return u.SprintID != nil && *u.SprintID == s.ID }) {
			if st.StoryPoints == nil {
				continue
			}
			v.Committed += *st.StoryPoints
			if st.Status == models.StoryCompleted {
				v.Completed += *st.StoryPoints
			}
		}
		points = append(points, v)
	}
	writeData(w, http.StatusOK, points)
}

func (b *Backend) contribution(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	counts := make(map[string]int)
	var order []string
	for _, t := range b.tasks.all(func(t models.Task) bool { return t.ProjectID == projectID }) {
		if t.Status != models.TaskDone || t.AssigneeID == nil {
			continue
		}
		if _, seen := counts[*t.AssigneeID]; !seen {
			order = append(order, *t.AssigneeID)
		}
		counts[*t.AssigneeID]++
	}

	out := []models.Contribution{}
	for _, userID := range order {
		u, _ := b.users.get(userID)
		out = append(out, models.Contribution{User: u, Count: counts[userID]})
	}
	writeData(w, http.StatusOK, out)
}

func (b *Backend) exportCSV(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.projects.get(projectID); !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	var sb strings.Builder
	sb.WriteString("Sprint,Task,Assignee,Status,Priority\n")
	for _, s := range b.sprints.all(func(s models.Sprint) bool { return s.ProjectID == projectID }) {
		for _, t := range b.tasks.all(func(t models.Task) bool { return t.InSprint(s.ID) }) {
			assignee := "Unassigned"
			if t.AssigneeID != nil {
				if u, ok := b.users.get(*t.AssigneeID); ok {
					assignee = u.Name
				}
			}
			fmt.Fprintf(&sb, "%s,%s,%s,%s,%s\n", s.Name, t.Title, assignee, t.Status, t.Priority)
		}
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"project-%s.csv\"", projectID))
	_, _ = io.WriteString(w, sb.String())
}
