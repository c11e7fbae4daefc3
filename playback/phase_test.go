package playback

import "testing"

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseIdle, "idle"},
		{PhasePlaying, "playing"},
		{PhasePaused, "paused"},
		{PhaseSeeking, "seeking"},
		{PhaseFinished, "finished"},
		{Phase(99), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.phase.String(); got != tc.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tc.phase, got, tc.want)
		}
	}
}

func TestPhaseCanTransition(t *testing.T) {
	allowed := []struct{ from, to Phase }{
		{PhaseIdle, PhasePlaying},
		{PhaseIdle, PhaseSeeking},
		{PhasePlaying, PhasePaused},
		{PhasePlaying, PhaseSeeking},
		{PhasePlaying, PhaseFinished},
		{PhasePaused, PhasePlaying},
		{PhasePaused, PhaseSeeking},
		{PhaseSeeking, PhasePlaying},
		{PhaseSeeking, PhasePaused},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransition(tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to Phase }{
		{PhaseIdle, PhasePaused},
		{PhaseIdle, PhaseFinished},
		{PhasePaused, PhaseFinished},
		{PhaseSeeking, PhaseFinished},
		{PhaseSeeking, PhaseIdle},
		{PhaseFinished, PhasePlaying},
		{PhaseFinished, PhaseIdle},
		{PhaseFinished, PhaseSeeking},
	}
	for _, tc := range denied {
		if tc.from.CanTransition(tc.to) {
			t.Errorf("%s -> %s should be denied", tc.from, tc.to)
		}
	}
}

func TestPhaseTerminal(t *testing.T) {
	for _, p := range []Phase{PhaseIdle, PhasePlaying, PhasePaused, PhaseSeeking} {
		if p.Terminal() {
			t.Errorf("%s should not be terminal", p)
		}
	}
	if !PhaseFinished.Terminal() {
		t.Error("finished should be terminal")
	}
}
