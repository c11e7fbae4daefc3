// Package noop provides the do-nothing narration engine used when no
// real engine is available. Speak accepts every utterance and emits no
// events, so a session driven by this engine terminates only through
// the playback clock's deadline.
package noop

import "sync"

// Engine silently accepts all operations.
type Engine struct {
	mu       sync.Mutex
	speaking bool
	paused   bool
}

// New creates a noop engine.
func New() *Engine {
	return &Engine{}
}

// Speak pretends to narrate. No progress or completion events follow.
func (e *Engine) Speak(text string, rate, pitch float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speaking = true
	e.paused = false
	return nil
}

// Pause suspends the pretend utterance.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.speaking {
		e.paused = true
	}
	return nil
}

// Resume continues the pretend utterance.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = false
	return nil
}

// Stop discards the pretend utterance.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speaking = false
	e.paused = false
	return nil
}

// IsSpeaking reports whether a pretend utterance is active.
func (e *Engine) IsSpeaking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speaking && !e.paused
}

// IsPaused reports whether the pretend utterance is suspended.
func (e *Engine) IsPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Shutdown releases nothing.
func (e *Engine) Shutdown() error {
	return e.Stop()
}
