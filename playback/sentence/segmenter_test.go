package sentence_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dgnsrekt/storytime/playback/sentence"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple sentences",
			text: "A. B. C. D.",
			want: []string{"A.", "B.", "C.", "D."},
		},
		{
			name: "mixed terminators",
			text: "Hello there! How are you? I am fine.",
			want: []string{"Hello there!", "How are you?", "I am fine."},
		},
		{
			name: "trailing text without terminator",
			text: "First sentence. And then some",
			want: []string{"First sentence.", "And then some"},
		},
		{
			name: "no terminators at all",
			text: "once upon a time without any punctuation",
			want: []string{"once upon a time without any punctuation"},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "whitespace only",
			text: "   \n\t  ",
			want: nil,
		},
		{
			name: "repeated terminators",
			text: "Wow!! Really?",
			want: []string{"Wow!", "Really?"},
		},
		{
			name: "punctuation only",
			text: "?!..",
			want: nil,
		},
		{
			name: "newlines between sentences",
			text: "One day, Alex sailed away.\nThe sea was calm!\n",
			want: []string{"One day, Alex sailed away.", "The sea was calm!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sentence.Segment(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Segment(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

// Segmentation must be deterministic and non-empty for any text with a
// non-whitespace character.
func TestSegmentDeterministic(t *testing.T) {
	inputs := []string{
		"A. B. C. D.",
		"no punctuation here",
		"Tabs\tand\nnewlines. Second!",
		"x",
	}

	for _, text := range inputs {
		first := sentence.Segment(text)
		second := sentence.Segment(text)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Segment(%q) not deterministic: %#v vs %#v", text, first, second)
		}
		if strings.TrimSpace(text) != "" && len(first) == 0 {
			t.Errorf("Segment(%q) empty for non-whitespace input", text)
		}
	}
}

// Joining the segments with single spaces reproduces text that already
// uses single-space-separated sentences.
func TestSegmentRoundTrip(t *testing.T) {
	inputs := []string{
		"A. B. C. D.",
		"Hello there! How are you? I am fine.",
		"One sentence only.",
	}

	for _, text := range inputs {
		got := sentence.Join(sentence.Segment(text))
		if got != text {
			t.Errorf("Join(Segment(%q)) = %q", text, got)
		}
	}
}

func TestSegmentOrWhole(t *testing.T) {
	if got := sentence.SegmentOrWhole("A. B."); !reflect.DeepEqual(got, []string{"A.", "B."}) {
		t.Errorf("SegmentOrWhole = %#v", got)
	}

	// Empty text still yields exactly one (empty) sentence so callers
	// can always compute a start index.
	got := sentence.SegmentOrWhole("")
	if len(got) != 1 || got[0] != "" {
		t.Errorf("SegmentOrWhole(\"\") = %#v, want one empty sentence", got)
	}
}
