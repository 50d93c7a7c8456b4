package dashboard

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/contactbook/internal/store"
)

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var out []byte
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 'A' || s[j] > 'Z') && (s[j] < 'a' || s[j] > 'z') {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
		} else {
			out = append(out, s[i])
			i++
		}
	}
	return string(out)
}

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(stripANSI(s), sub)
}

// seededStore returns a store holding the given name/phone/email triples.
func seededStore(t *testing.T, rows ...[3]string) *store.Store {
	t.Helper()
	s := store.New()
	for _, r := range rows {
		if err := s.Add(r[0], r[1], r[2]); err != nil {
			t.Fatalf("Add(%q): %v", r[0], err)
		}
	}
	return s
}

// tempPath returns a contacts file path inside a fresh temp dir.
func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "contacts.txt")
}

// runes builds a key message typing s.
func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send applies msgs in order and returns the resulting model.
func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}
