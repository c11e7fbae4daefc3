package playback

import "errors"

// Common errors for the playback system.
var (
	// Controller errors
	ErrEngineNotSet   = errors.New("playback engine is not set")
	ErrAlreadyStarted = errors.New("playback controller already started")
	ErrDismissed      = errors.New("playback session has been dismissed")

	// Engine errors
	ErrEngineUnavailable = errors.New("narration engine is not available")
	ErrEngineShutdown    = errors.New("narration engine has been shut down")
	ErrNotSpeaking       = errors.New("no utterance is being spoken")
	ErrNotPaused         = errors.New("no utterance is paused")

	// Content errors
	ErrNoContent = errors.New("passage has no content")

	// Configuration errors
	ErrUnknownEngine = errors.New("unknown narration engine")
	ErrInvalidConfig = errors.New("invalid playback configuration")
)
