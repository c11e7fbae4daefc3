package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgnsrekt/storytime/playback"
)

// NewProgram builds the bubbletea program for the story at path.
// durationSeconds, when positive, overrides the story file's narration
// budget.
func NewProgram(path, engineName string, cfg playback.Config, durationSeconds int) (*tea.Program, error) {
	model, err := NewPlayer(path, engineName, cfg, durationSeconds)
	if err != nil {
		return nil, err
	}
	return tea.NewProgram(model, tea.WithAltScreen()), nil
}
