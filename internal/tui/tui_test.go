package tui

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handiism/fplsync/internal/config"
)

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModel_SelectOrder(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Playlists = []string{"Gone", "Rock"}
	m := NewModel(settings, "")

	m = update(t, m, NamesMsg{Names: []string{"Jazz", "Pop", "Rock"}})
	if !reflect.DeepEqual(m.selected, []string{"Rock"}) {
		t.Fatalf("selected = %q, want only known names", m.selected)
	}

	// Tick Pop then Jazz; Rock stays first.
	m = update(t, m, key("j"), key(" "), key("k"), key(" "))
	want := []string{"Rock", "Pop", "Jazz"}
	if !reflect.DeepEqual(m.selected, want) {
		t.Errorf("selected = %q, want %q", m.selected, want)
	}

	// Unticking Rock moves the others up.
	m = update(t, m, key("j"), key("j"), key(" "))
	want = []string{"Pop", "Jazz"}
	if !reflect.DeepEqual(m.selected, want) {
		t.Errorf("selected = %q, want %q", m.selected, want)
	}

	view := m.View()
	if !strings.Contains(view, "[1] Pop") || !strings.Contains(view, "[2] Jazz") {
		t.Errorf("View() does not number the selection:\n%s", view)
	}
}

func TestModel_Options(t *testing.T) {
	m := NewModel(config.DefaultSettings(), "")
	m = update(t, m, NamesMsg{Names: []string{"A"}}, key("s"), key("n"))
	if !m.shuffle || !m.dryRun {
		t.Errorf("shuffle = %v, dryRun = %v; want both set", m.shuffle, m.dryRun)
	}

	// Enter without a selection stays put.
	m = update(t, m, key("enter"))
	if m.state != StateSelect {
		t.Errorf("state = %v, want StateSelect", m.state)
	}
}

func TestModel_NamesError(t *testing.T) {
	m := NewModel(config.DefaultSettings(), "")
	m = update(t, m, NamesMsg{Err: errors.New("no index")})
	if m.state != StateError || !strings.Contains(m.View(), "no index") {
		t.Errorf("state = %v, view:\n%s", m.state, m.View())
	}
}

func TestModel_LogsAreCapped(t *testing.T) {
	m := NewModel(config.DefaultSettings(), "")
	for i := 0; i < maxLogLines+5; i++ {
		m = update(t, m, LogMsg{Line: "line"})
	}
	if len(m.logs) != maxLogLines {
		t.Errorf("len(logs) = %d, want %d", len(m.logs), maxLogLines)
	}
}

func TestModel_Confirm(t *testing.T) {
	m := NewModel(config.DefaultSettings(), "")
	reply := make(chan bool, 1)

	m = update(t, m, ConfirmMsg{Prompt: "Continue?", Reply: reply})
	if m.state != StateConfirm || !strings.Contains(m.View(), "Continue? [y/N]") {
		t.Fatalf("state = %v, view:\n%s", m.state, m.View())
	}

	m = update(t, m, key("y"))
	if got := <-reply; !got {
		t.Error("reply = false, want true")
	}
	if m.state != StateTransferring {
		t.Errorf("state = %v, want StateTransferring", m.state)
	}
}

func TestLineWriter(t *testing.T) {
	var lines []string
	w := newLineWriter(func(msg tea.Msg) {
		lines = append(lines, msg.(LogMsg).Line)
	})

	for _, chunk := range []string{"first li", "ne\r\n\n  \nsecond\nthi", "rd"} {
		if _, err := w.Write([]byte(chunk)); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"first line", "second"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}
}
