package playback

// Phase represents the current phase of a playback session.
type Phase int

const (
	// PhaseIdle indicates the session exists but nothing is armed.
	PhaseIdle Phase = iota
	// PhasePlaying indicates the clock is armed and the engine is speaking.
	PhasePlaying
	// PhasePaused indicates the clock is disarmed and elapsed is frozen.
	PhasePaused
	// PhaseSeeking indicates a scrub gesture is in progress; elapsed
	// follows the gesture directly.
	PhaseSeeking
	// PhaseFinished is terminal: elapsed equals the target duration and
	// everything is disarmed.
	PhaseFinished
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseSeeking:
		return "seeking"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// transitions maps each phase to the phases it may legally enter. The
// controller consults this table before every phase change; events that
// would violate it are dropped.
var transitions = map[Phase][]Phase{
	PhaseIdle:     {PhasePlaying, PhaseSeeking},
	PhasePlaying:  {PhasePaused, PhaseSeeking, PhaseFinished},
	PhasePaused:   {PhasePlaying, PhaseSeeking},
	PhaseSeeking:  {PhasePlaying, PhasePaused},
	PhaseFinished: nil,
}

// CanTransition reports whether moving from p to next is legal.
func (p Phase) CanTransition(next Phase) bool {
	for _, allowed := range transitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the phase admits no further transitions.
func (p Phase) Terminal() bool {
	return len(transitions[p]) == 0
}
