package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAppendAndReadAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".wrk")
	l, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	events := []LogEvent{
		{Event: EventLogin, UserID: "u1", Email: "a@x.com"},
		{Event: EventMutation, Method: "PUT", Path: "/tasks/t9", Status: 200},
		{Event: EventRequestFailed, Method: "GET", Path: "/projects/p1", Status: 404, Error: "Proyecto no encontrado"},
	}
	for _, e := range events {
		if err := l.Append(e); err != nil {
			t.Fatalf("Append(%s): %v", e.Event, err)
		}
	}

	got, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("ReadAll returned %d events, want %d", len(got), len(events))
	}
	for i, e := range got {
		if e.Event != events[i].Event {
			t.Errorf("event[%d] = %q, want %q", i, e.Event, events[i].Event)
		}
		if e.Time.IsZero() {
			t.Errorf("event[%d] has zero time", i)
		}
	}
	if got[2].Status != 404 || got[2].Error == "" {
		t.Errorf("failure event lost fields: %+v", got[2])
	}
}

func TestAppendKeepsExplicitTime(t *testing.T) {
	l, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := l.Append(LogEvent{Time: ts, Event: EventLogout}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, _ := l.ReadAll()
	if len(got) != 1 || !got[0].Time.Equal(ts) {
		t.Errorf("ReadAll = %+v, want time %v", got, ts)
	}
}

func TestReadAllMissingFile(t *testing.T) {
	l, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	got, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll on missing file: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ReadAll = %d events, want 0", len(got))
	}
}

func TestReadAllRejectsCorruptLine(t *testing.T) {
	dir := t.TempDir()
	l, _ := NewLogger(dir)
	if err := os.WriteFile(l.Path(), []byte("{\"event\":\"login\"}\nnot-json\n"), 0600); err != nil {
		t.Fatalf("seed log: %v", err)
	}
	if _, err := l.ReadAll(); err == nil {
		t.Error("ReadAll should fail on a corrupt line")
	}
}

func TestNewDiagnostic(t *testing.T) {
	if _, err := NewDiagnostic("info", false); err != nil {
		t.Errorf("disabled logger: %v", err)
	}
	if _, err := NewDiagnostic("debug", true); err != nil {
		t.Errorf("debug logger: %v", err)
	}
	if _, err := NewDiagnostic("loud", true); err == nil {
		t.Error("expected error for unknown level")
	}
}
