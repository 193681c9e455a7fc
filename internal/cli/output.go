package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wrk-dev/wrk/internal/tui"
)

// printTable renders rows under headers with the board's palette.
func printTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, tui.DimStyle.Render("(none)"))
		return
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tui.DimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tui.HeaderStyle
			}
			return tui.CellStyle
		})
	fmt.Fprintln(w, t)
}

// printFields renders label/value pairs, one per line.
func printFields(w io.Writer, pairs ...string) {
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(w, "%s %s\n", tui.TitleStyle.Render(pairs[i]+":"), pairs[i+1])
	}
}

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, tui.SuccessStyle.Render(fmt.Sprintf(format, args...)))
}

// inlineError prints a view's inline message and unwraps to the cause.
type inlineError struct {
	msg string
	err error
}

func (e *inlineError) Error() string { return e.msg }
func (e *inlineError) Unwrap() error { return e.err }

// viewError prefers the view's inline message, which is what the user
// would have seen next to the form.
func viewError(v interface{ Message() string }, err error) error {
	if err == nil {
		return nil
	}
	if msg := v.Message(); msg != "" {
		return &inlineError{msg: msg, err: err}
	}
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOr(p *int, def string) string {
	if p == nil {
		return def
	}
	return strconv.Itoa(*p)
}

func day(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// parseDay parses a YYYY-MM-DD flag. Empty input yields the zero time.
func parseDay(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: want YYYY-MM-DD: %w", flag, err)
	}
	return t, nil
}

// isoFlag converts an optional YYYY-MM-DD flag to an RFC3339 string.
func isoFlag(flag, value string) (*string, error) {
	t, err := parseDay(flag, value)
	if err != nil || t.IsZero() {
		return nil, err
	}
	s := t.UTC().Format(time.RFC3339)
	return &s, nil
}

// optionalString returns nil unless the flag was set on the command line.
func optionalString(changed bool, value string) *string {
	if !changed {
		return nil
	}
	return &value
}
