package story

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAMLStory(t *testing.T) {
	path := writeFile(t, "moonlake.yaml", `
id: moonlake-1
title: "Moonlake Adventure"
description: "A calm night voyage"
content: "On a calm night, Alex folded a paper boat."
duration: 45
type: "Bedtime Adventure"
kid_names:
  - Alex
  - Jamie
`)

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.ID != "moonlake-1" {
		t.Errorf("id = %q", s.ID)
	}
	if s.Title != "Moonlake Adventure" {
		t.Errorf("title = %q", s.Title)
	}
	if s.Duration != 45 {
		t.Errorf("duration = %d, want 45", s.Duration)
	}
	if s.TargetDuration() != 45*time.Second {
		t.Errorf("target duration = %v, want 45s", s.TargetDuration())
	}
	if len(s.KidNames) != 2 || s.KidNames[0] != "Alex" {
		t.Errorf("kid names = %v", s.KidNames)
	}
}

func TestLoadPlainTextStory(t *testing.T) {
	path := writeFile(t, "dragon.txt", "The dragon slept. The knight tiptoed past.\n")

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Title != "dragon" {
		t.Errorf("title = %q, want file-derived %q", s.Title, "dragon")
	}
	if s.Content != "The dragon slept. The knight tiptoed past." {
		t.Errorf("content = %q", s.Content)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeFile(t, "broken.yaml", "title: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNormalizeTrimsWhitespace(t *testing.T) {
	path := writeFile(t, "padded.txt", "  \n  Once upon a time.  \n")
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Content != "Once upon a time." {
		t.Errorf("content = %q, want trimmed", s.Content)
	}
}

func TestTargetDurationDefault(t *testing.T) {
	if got := (Story{}).TargetDuration(); got != 45*time.Second {
		t.Errorf("default target = %v, want 45s", got)
	}
	if got := (Story{Duration: 60}).TargetDuration(); got != time.Minute {
		t.Errorf("target = %v, want 1m", got)
	}
}

func TestWordCount(t *testing.T) {
	s := Story{Content: "one two  three\nfour"}
	if got := s.WordCount(); got != 4 {
		t.Errorf("word count = %d, want 4", got)
	}
}
