package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wrk-dev/wrk/internal/models"
	"github.com/wrk-dev/wrk/internal/views"
)

// BoardModel is the Bubble Tea model over a views.TaskBoard. The board's
// tasks are only read while no command is running against it.
type BoardModel struct {
	ctx     context.Context
	board   *views.TaskBoard
	keys    KeyMap
	spinner spinner.Model

	col, row int
	busy     bool
	loaded   bool
	notice   string
	quitting bool
}

// NewBoardModel creates a BoardModel. Init triggers the first load.
func NewBoardModel(ctx context.Context, board *views.TaskBoard) BoardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = WarningStyle

	return BoardModel{
		ctx:     ctx,
		board:   board,
		keys:    DefaultKeyMap,
		spinner: sp,
		busy:    true,
	}
}

func (m BoardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m BoardModel) load() tea.Cmd {
	board, ctx := m.board, m.ctx
	return func() tea.Msg {
		return boardLoadedMsg{err: board.Load(ctx)}
	}
}

func (m BoardModel) move(taskID, status string) tea.Cmd {
	board, ctx := m.board, m.ctx
	return func() tea.Msg {
		return taskMovedMsg{taskID: taskID, status: status, err: board.UpdateStatus(ctx, taskID, status)}
	}
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case boardLoadedMsg:
		m.busy = false
		m.loaded = true
		m.notice = ""
		if msg.err != nil {
			m.notice = ErrorStyle.Render(m.board.Message())
		}
		m.clamp()
		return m, nil

	case taskMovedMsg:
		m.busy = false
		if msg.err != nil {
			m.notice = ErrorStyle.Render(m.board.Message())
			return m, nil
		}
		m.notice = SuccessStyle.Render(fmt.Sprintf("moved to %s", msg.status))
		// Follow the task into its new lane.
		m.col = views.ColumnIndex(msg.status)
		for i, t := range m.board.Column(msg.status) {
			if t.ID == msg.taskID {
				m.row = i
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m BoardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
		m.clamp()
	case key.Matches(msg, m.keys.Right):
		if m.col < len(views.Columns)-1 {
			m.col++
		}
		m.clamp()
	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		if m.row < len(m.currentColumn())-1 {
			m.row++
		}
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Ahead):
		task, ok := m.Selected()
		if !ok {
			return m, nil
		}
		offset := 1
		if key.Matches(msg, m.keys.Back) {
			offset = -1
		}
		next := views.Shift(task.Status, offset)
		if next == task.Status {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.move(task.ID, next))
	case key.Matches(msg, m.keys.Reload):
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.load())
	}
	return m, nil
}

func (m BoardModel) currentColumn() []models.Task {
	return m.board.Column(views.Columns[m.col].Status)
}

func (m *BoardModel) clamp() {
	n := len(m.currentColumn())
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

// Selected returns the task under the cursor.
func (m BoardModel) Selected() (models.Task, bool) {
	col := m.currentColumn()
	if m.row < 0 || m.row >= len(col) {
		return models.Task{}, false
	}
	return col[m.row], true
}

func (m BoardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Tablero Kanban"))
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString(m.spinner.View() + " Cargando tablero...\n")
		return b.String()
	}

	lanes := make([]string, 0, len(views.Columns))
	for i, c := range views.Columns {
		style := ColumnStyle
		if i == m.col {
			style = ActiveColumnStyle
		}
		lanes = append(lanes, style.Render(m.renderLane(i, c)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, lanes...))
	b.WriteString("\n")

	status := m.notice
	if m.busy {
		status = m.spinner.View() + " working..."
	}
	if status != "" {
		b.WriteString(status + "\n")
	}
	b.WriteString(StatusBarStyle.Render(m.help()))
	return b.String()
}

func (m BoardModel) renderLane(index int, c views.Column) string {
	tasks := m.board.Column(c.Status)
	lines := []string{TitleStyle.Render(fmt.Sprintf("%s (%d)", c.Title, len(tasks)))}
	if len(tasks) == 0 {
		lines = append(lines, DimStyle.Render("(vacío)"))
	}
	for i, t := range tasks {
		line := fmt.Sprintf("%s %s", PriorityStyle(t.Priority).Render("●"), t.Title)
		if index == m.col && i == m.row {
			line = SelectedStyle.Render("> " + t.Title)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m BoardModel) help() string {
	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, k := range m.keys.ShortHelp() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
