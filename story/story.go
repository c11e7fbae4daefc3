// Package story defines the story document model and loads story files
// from disk.
package story

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Story is one narrated story document. Duration is the narration
// budget in whole seconds, as story files store it.
type Story struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Content     string    `yaml:"content"`
	Date        time.Time `yaml:"date"`
	Duration    int       `yaml:"duration"`
	Type        string    `yaml:"type"`
	KidNames    []string  `yaml:"kid_names"`
}

// Load reads a story from path. A .yaml or .yml file is decoded as a
// full story document; any other extension is treated as plain story
// text with the title derived from the file name.
func Load(path string) (Story, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Story{}, fmt.Errorf("could not expand path: %w", err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return Story{}, err
	}

	var s Story
	switch strings.ToLower(filepath.Ext(expanded)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Story{}, fmt.Errorf("could not parse story file: %w", err)
		}
	default:
		s.Content = string(data)
		s.Title = strings.TrimSuffix(filepath.Base(expanded), filepath.Ext(expanded))
	}

	s.normalize()
	return s, nil
}

// normalize applies NFC so sentence boundaries and rune-indexed
// highlighting are stable regardless of how the file was authored.
func (s *Story) normalize() {
	s.Title = norm.NFC.String(strings.TrimSpace(s.Title))
	s.Description = norm.NFC.String(strings.TrimSpace(s.Description))
	s.Content = norm.NFC.String(strings.TrimSpace(s.Content))
	s.Type = strings.TrimSpace(s.Type)
	for i, n := range s.KidNames {
		s.KidNames[i] = norm.NFC.String(strings.TrimSpace(n))
	}
}

// TargetDuration returns the story's narration budget, defaulting to
// 45 seconds when the document does not set one.
func (s Story) TargetDuration() time.Duration {
	if s.Duration > 0 {
		return time.Duration(s.Duration) * time.Second
	}
	return 45 * time.Second
}

// WordCount returns the number of words in the story content.
func (s Story) WordCount() int {
	return len(strings.Fields(s.Content))
}
