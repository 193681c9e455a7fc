package views

import (
	"context"
	"fmt"
	"sync"

	"github.com/wrk-dev/wrk/internal/api"
	"github.com/wrk-dev/wrk/internal/models"
)

// Column is one status lane of the task board.
type Column struct {
	Status string
	Title  string
}

// Columns are the board lanes in workflow order.
var Columns = []Column{
	{Status: models.TaskTodo, Title: "Por hacer"},
	{Status: models.TaskInProgress, Title: "En progreso"},
	{Status: models.TaskDone, Title: "Finalizado"},
}

// ColumnIndex returns the lane of status, or -1.
func ColumnIndex(status string) int {
	for i, c := range Columns {
		if c.Status == status {
			return i
		}
	}
	return -1
}

// TaskBoard is a kanban view of a project's tasks, optionally narrowed to
// one sprint. Its task list may be read while a load or move is in flight.
type TaskBoard struct {
	Status
	ProjectID string
	SprintID  string

	tasksMu sync.RWMutex
	tasks   []models.Task

	client *api.Client
}

func NewTaskBoard(c *api.Client, projectID, sprintID string) *TaskBoard {
	return &TaskBoard{client: c, ProjectID: projectID, SprintID: sprintID}
}

// Load fetches every project task and keeps those of SprintID when set.
func (b *TaskBoard) Load(ctx context.Context) error {
	if err := b.begin(); err != nil {
		return err
	}
	tasks, err := b.client.Tasks.GetAll(ctx, api.TaskFilter{ProjectID: b.ProjectID})
	if err != nil {
		return b.end("", err)
	}
	if b.SprintID != "" {
		filtered := tasks[:0]
		for _, t := range tasks {
			if t.InSprint(b.SprintID) {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}
	b.SetTasks(tasks)
	return b.end("", nil)
}

// Tasks returns a copy of the loaded tasks.
func (b *TaskBoard) Tasks() []models.Task {
	b.tasksMu.RLock()
	defer b.tasksMu.RUnlock()
	return append([]models.Task(nil), b.tasks...)
}

// SetTasks replaces the board contents without fetching.
func (b *TaskBoard) SetTasks(tasks []models.Task) {
	b.tasksMu.Lock()
	b.tasks = tasks
	b.tasksMu.Unlock()
}

// Column returns the tasks whose status is status, in load order.
func (b *TaskBoard) Column(status string) []models.Task {
	b.tasksMu.RLock()
	defer b.tasksMu.RUnlock()
	var out []models.Task
	for _, t := range b.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// UpdateStatus moves a task to another lane. On success only that task's
// status is patched locally; the rest of the board is left as loaded.
func (b *TaskBoard) UpdateStatus(ctx context.Context, taskID, status string) error {
	if ColumnIndex(status) < 0 {
		return b.fail(fmt.Errorf("unknown task status %q", status))
	}
	if err := b.begin(); err != nil {
		return err
	}
	if _, err := b.client.Tasks.Update(ctx, taskID, api.UpdateTaskRequest{Status: status}); err != nil {
		return b.end("Error al actualizar estado", err)
	}
	b.tasksMu.Lock()
	for i := range b.tasks {
		if b.tasks[i].ID == taskID {
			b.tasks[i].Status = status
			break
		}
	}
	b.tasksMu.Unlock()
	return b.end("", nil)
}

// Shift returns the status offset lanes away from status, clamped to the
// board.
func Shift(status string, offset int) string {
	i := ColumnIndex(status)
	if i < 0 {
		return status
	}
	i += offset
	switch {
	case i < 0:
		i = 0
	case i >= len(Columns):
		i = len(Columns) - 1
	}
	return Columns[i].Status
}
