package playback

import "time"

// Engine defines the capability contract for narration engines.
//
// Engines are asynchronous: Speak returns as soon as the utterance has
// been submitted, and progress/completion are reported through the
// EventSink the engine was constructed with. Every Speak call first
// stops any in-flight utterance, so at most one utterance is active per
// session. A stopped utterance must never report completion.
type Engine interface {
	// Speak starts narrating text at the given rate and pitch. If the
	// underlying service is unavailable, Speak is a no-op and no events
	// ever arrive; the controller's clock deadline is then the only
	// guarantee of termination.
	Speak(text string, rate, pitch float64) error

	// Pause suspends the current utterance, retaining its position.
	Pause() error

	// Resume continues a paused utterance.
	Resume() error

	// Stop discards the current utterance. No further events for it may
	// be emitted after Stop returns.
	Stop() error

	// IsSpeaking reports whether an utterance is actively being spoken.
	IsSpeaking() bool

	// IsPaused reports whether an utterance is suspended and resumable.
	IsPaused() bool

	// Shutdown releases engine resources. The engine is unusable after.
	Shutdown() error
}

// EngineEventKind tags events emitted by a narration engine.
type EngineEventKind int

const (
	// EngineProgress reports how far through the current utterance the
	// engine has spoken, as a fraction in [0, 1].
	EngineProgress EngineEventKind = iota
	// EngineDone reports that the current utterance finished naturally.
	EngineDone
)

// EngineEvent is a single asynchronous notification from an engine.
type EngineEvent struct {
	Kind     EngineEventKind
	Fraction float64 // meaningful for EngineProgress only
}

// EventSink receives engine events. Implementations must be safe to
// call from the engine's own goroutines; the controller's sink hands
// events off to its owning goroutine rather than mutating state in
// place.
type EventSink func(EngineEvent)

// Passage is the immutable input to a playback session: the full text
// and the target duration the narration should roughly fill.
type Passage struct {
	Text           string
	TargetDuration time.Duration
}
