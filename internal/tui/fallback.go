package tui

import (
	"fmt"
	"io"

	"github.com/wrk-dev/wrk/internal/views"
)

// RenderStatic writes a loaded board as plain text, one lane after another.
// It is used when stdout is not a terminal.
func RenderStatic(w io.Writer, board *views.TaskBoard) error {
	for _, c := range views.Columns {
		tasks := board.Column(c.Status)
		if _, err := fmt.Fprintf(w, "%s (%d)\n", c.Title, len(tasks)); err != nil {
			return err
		}
		for _, t := range tasks {
			if _, err := fmt.Fprintf(w, "  - [%s] %s  %s\n", t.Priority, t.Title, t.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
