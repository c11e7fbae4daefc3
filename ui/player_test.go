package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgnsrekt/storytime/playback"
)

func writeStory(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "story.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewPlayerLoadsStory(t *testing.T) {
	path := writeStory(t, "The dragon slept. The knight tiptoed past.")
	m, err := NewPlayer(path, "mock", playback.DefaultConfig(), 0)
	if err != nil {
		t.Fatal(err)
	}
	defer m.shutdown()

	if m.story.Title != "story" {
		t.Errorf("title = %q, want %q", m.story.Title, "story")
	}
	if m.story.WordCount() != 7 {
		t.Errorf("word count = %d, want 7", m.story.WordCount())
	}
}

func TestNewPlayerRejectsEmptyStory(t *testing.T) {
	path := writeStory(t, "   \n ")
	if _, err := NewPlayer(path, "mock", playback.DefaultConfig(), 0); err == nil {
		t.Fatal("expected error for empty story")
	}
}

func TestRenderContentWithoutSession(t *testing.T) {
	path := writeStory(t, "A short tale.")
	m, err := NewPlayer(path, "mock", playback.DefaultConfig(), 0)
	if err != nil {
		t.Fatal(err)
	}
	defer m.shutdown()

	m.width = 80
	if got := m.renderContent(); !strings.Contains(got, "A short tale.") {
		t.Errorf("content missing story text: %q", got)
	}
}

func TestQuitKeyStopsSession(t *testing.T) {
	path := writeStory(t, "A short tale.")
	m, err := NewPlayer(path, "mock", playback.DefaultConfig(), 0)
	if err != nil {
		t.Fatal(err)
	}

	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit the program")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{45 * time.Second, "0:45"},
		{90 * time.Second, "1:30"},
		{10 * time.Minute, "10:00"},
	}
	for _, tc := range tests {
		if got := formatDuration(tc.d); got != tc.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestClampFraction(t *testing.T) {
	if got := clampFraction(-0.5); got != 0 {
		t.Errorf("clampFraction(-0.5) = %v", got)
	}
	if got := clampFraction(1.5); got != 1 {
		t.Errorf("clampFraction(1.5) = %v", got)
	}
	if got := clampFraction(0.3); got != 0.3 {
		t.Errorf("clampFraction(0.3) = %v", got)
	}
}
