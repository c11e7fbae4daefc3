// Package scene groups story sentences into bounded illustration
// scenes and composes a descriptive prompt for each one. Everything
// here is pure and deterministic; the playback core never depends on
// it.
package scene

import (
	"unicode/utf8"

	"github.com/dgnsrekt/storytime/playback/sentence"
	"github.com/dgnsrekt/storytime/story"
)

// Scene is one bounded group of consecutive sentences with its
// generated illustration prompt. Index is 1-based.
type Scene struct {
	Index  int
	Text   string
	Prompt string
}

// Options bound scene extraction.
type Options struct {
	// MaxScenes caps how many scenes are produced.
	MaxScenes int
	// MinChars is the preferred lower bound on scene length. A chunk
	// under it absorbs one extra sentence even past MaxSentences.
	MinChars int
	// MaxChars is the upper bound respected while joining sentences.
	MaxChars int
	// MaxSentences is how many sentences a scene normally joins.
	MaxSentences int
}

// DefaultOptions returns the extraction bounds tuned for storybook
// illustration prompts.
func DefaultOptions() Options {
	return Options{
		MaxScenes:    12,
		MinChars:     120,
		MaxChars:     320,
		MaxSentences: 4,
	}
}

// Extractor turns story content into illustration scenes.
type Extractor struct {
	opts     Options
	composer PromptComposer
}

// NewExtractor creates an extractor with the given bounds and prompt
// composer.
func NewExtractor(opts Options, composer PromptComposer) *Extractor {
	if opts.MaxScenes <= 0 {
		opts.MaxScenes = 12
	}
	if opts.MaxSentences <= 0 {
		opts.MaxSentences = 1
	}
	return &Extractor{opts: opts, composer: composer}
}

// Extract segments the story's content and greedily groups consecutive
// sentences left to right. Each group joins sentences while it stays
// within MaxChars and MaxSentences; a group still under MinChars then
// absorbs one look-ahead sentence even though that exceeds the
// per-group sentence cap.
func (e *Extractor) Extract(s story.Story) []Scene {
	sentences := sentence.Segment(s.Content)
	groups := e.group(sentences)

	scenes := make([]Scene, 0, len(groups))
	for i, text := range groups {
		scenes = append(scenes, Scene{
			Index:  i + 1,
			Text:   text,
			Prompt: e.composer.Compose(s, text, i+1),
		})
	}
	return scenes
}

func (e *Extractor) group(sentences []string) []string {
	if len(sentences) == 0 {
		return nil
	}

	var groups []string
	i := 0
	for i < len(sentences) && len(groups) < e.opts.MaxScenes {
		chunk := sentences[i]
		joined := 1
		for i+joined < len(sentences) && joined < e.opts.MaxSentences &&
			utf8.RuneCountInString(chunk)+1+utf8.RuneCountInString(sentences[i+joined]) <= e.opts.MaxChars {
			chunk += " " + sentences[i+joined]
			joined++
		}
		// Look-ahead merge: a short chunk takes one more sentence even
		// past the sentence cap.
		if utf8.RuneCountInString(chunk) < e.opts.MinChars && i+joined < len(sentences) {
			chunk += " " + sentences[i+joined]
			joined++
		}
		groups = append(groups, chunk)
		i += joined
	}
	return groups
}
