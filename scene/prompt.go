package scene

import (
	"fmt"
	"strings"

	"github.com/dgnsrekt/storytime/story"
)

// Style selects the visual treatment named in a prompt.
type Style string

// AgeBand selects the audience named in a prompt.
type AgeBand string

// Palette selects the color treatment named in a prompt.
type Palette string

const (
	StyleIllustration Style = "illustration"
	StyleSketch       Style = "sketch"
	StyleAnimation    Style = "animation"

	Ages3to5 AgeBand = "ages 3-5"
	Ages4to7 AgeBand = "ages 4-7"
	Ages6to9 AgeBand = "ages 6-9"

	PaletteWarm         Palette = "warm"
	PalettePastel       Palette = "pastel"
	PaletteHighContrast Palette = "high-contrast"
)

// PromptComposer builds illustration prompts from story metadata and
// scene text.
type PromptComposer struct {
	Style            Style
	AgeBand          AgeBand
	Palette          Palette
	IncludeTitle     bool
	IncludeType      bool
	IncludeKidNames  bool
	ExtraDescriptors []string
}

// DefaultComposer returns the storybook prompt composer.
func DefaultComposer() PromptComposer {
	return PromptComposer{
		Style:           StyleIllustration,
		AgeBand:         Ages4to7,
		Palette:         PaletteWarm,
		IncludeTitle:    true,
		IncludeType:     true,
		IncludeKidNames: true,
	}
}

// Compose builds the prompt for one scene. sceneIndex is 1-based.
func (p PromptComposer) Compose(s story.Story, sceneText string, sceneIndex int) string {
	title := strings.TrimSpace(s.Title)
	storyType := strings.TrimSpace(s.Type)
	names := strings.Join(s.KidNames, ", ")

	var lines []string
	lines = append(lines, fmt.Sprintf("Storybook %s for %s.", p.Style, p.AgeBand))
	if p.IncludeTitle && title != "" {
		lines = append(lines, fmt.Sprintf("Title motif: %s.", title))
	}
	if p.IncludeType && storyType != "" {
		lines = append(lines, fmt.Sprintf("Theme: %s.", storyType))
	}
	if p.IncludeKidNames && names != "" {
		lines = append(lines, fmt.Sprintf("Main child names to feature gently: %s.", names))
	}
	lines = append(lines, fmt.Sprintf("Scene: %s.", sceneText))
	lines = append(lines, p.paletteLine())
	lines = append(lines, "Readable for kids, no small text, avoid scary imagery, wholesome vibes.")
	if len(p.ExtraDescriptors) > 0 {
		lines = append(lines, strings.Join(p.ExtraDescriptors, ", "))
	}
	lines = append(lines, fmt.Sprintf("Scene index: #%d.", sceneIndex))
	return strings.Join(lines, " ")
}

func (p PromptComposer) paletteLine() string {
	switch p.Palette {
	case PalettePastel:
		return "Pastel palette, gentle lighting, rounded shapes, friendly faces, uncluttered backgrounds."
	case PaletteHighContrast:
		return "High-contrast palette, clear silhouettes, bold shapes, excellent readability."
	default:
		return "Warm palette, soft lighting, clean shapes, friendly faces, simple backgrounds."
	}
}
