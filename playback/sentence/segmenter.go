// Package sentence provides sentence segmentation for narration and
// scene extraction.
package sentence

import (
	"strings"
)

// terminator reports whether r ends a sentence.
func terminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Segment splits text into an ordered sequence of trimmed, non-empty
// sentences. A sentence is a maximal run of non-terminator runes,
// optionally followed by a single terminator. Calling Segment twice on
// the same text yields identical output.
//
// Degenerate input (empty text, or text with no terminators) yields
// either an empty slice or the whole text as one sentence. Callers that
// require at least one sentence must fall back to the full text
// themselves; SegmentOrWhole does that.
func Segment(text string) []string {
	var sentences []string
	var b strings.Builder

	flush := func() {
		s := strings.TrimSpace(b.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}

	for _, r := range text {
		if terminator(r) {
			// A terminator only attaches to a non-empty run; stray
			// terminators ("Hi!!" after the first bang) are dropped.
			if b.Len() > 0 {
				b.WriteRune(r)
				flush()
			}
			continue
		}
		b.WriteRune(r)
	}
	flush()

	return sentences
}

// SegmentOrWhole segments text, substituting the whole text as a single
// sentence when segmentation yields nothing. The result is never empty,
// so callers can always compute a start index into it.
func SegmentOrWhole(text string) []string {
	if s := Segment(text); len(s) > 0 {
		return s
	}
	return []string{text}
}

// Join reassembles sentences into a single utterance string.
func Join(sentences []string) string {
	return strings.Join(sentences, " ")
}
