// Package mock provides a silent narration engine that simulates
// speech pace. It is the default engine and the scripted stand-in for
// tests.
package mock

import (
	"strings"
	"sync"
	"time"

	"github.com/dgnsrekt/storytime/playback"
)

// Engine simulates narration without producing audio: it emits progress
// events at a configurable words-per-minute pace and a completion event
// when the simulated utterance ends.
type Engine struct {
	cfg  playback.MockConfig
	sink playback.EventSink

	mu        sync.Mutex
	speaking  bool
	paused    bool
	shutdown  bool
	cancel    chan struct{}
	resume    chan struct{}
	speakCnt  int
	failSpeak bool
}

// New creates a mock engine delivering events to sink.
func New(cfg playback.MockConfig, sink playback.EventSink) *Engine {
	if cfg.WordsPerMinute <= 0 {
		cfg.WordsPerMinute = 150
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = 100 * time.Millisecond
	}
	return &Engine{cfg: cfg, sink: sink}
}

// Speak starts a simulated utterance, stopping any in-flight one first.
func (e *Engine) Speak(text string, rate, pitch float64) error {
	if err := e.Stop(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shutdown {
		return playback.ErrEngineShutdown
	}
	e.speakCnt++
	if e.failSpeak {
		// Unavailable-service mode: Speak is a no-op and no events
		// will ever arrive.
		return nil
	}

	cancel := make(chan struct{})
	resume := make(chan struct{}, 1)
	e.cancel = cancel
	e.resume = resume
	e.speaking = true
	e.paused = false

	go e.narrate(text, rate, cancel, resume)
	return nil
}

// narrate emits progress fractions until the estimated duration has
// passed, then a completion event. A stopped utterance emits nothing
// further, not even completion.
func (e *Engine) narrate(text string, rate float64, cancel chan struct{}, resume chan struct{}) {
	total := e.estimateDuration(text, rate)
	step := e.cfg.ProgressInterval
	if step > total {
		step = total
	}

	ticker := time.NewTicker(step)
	defer ticker.Stop()

	var spoken time.Duration
	for spoken < total {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			e.mu.Lock()
			paused := e.paused
			e.mu.Unlock()
			if paused {
				select {
				case <-cancel:
					return
				case <-resume:
				}
				continue
			}
			spoken += step
			fraction := float64(spoken) / float64(total)
			if fraction > 1 {
				fraction = 1
			}
			e.sink(playback.EngineEvent{Kind: playback.EngineProgress, Fraction: fraction})
		}
	}

	e.mu.Lock()
	current := e.cancel == cancel
	if current {
		e.speaking = false
		e.paused = false
		e.cancel = nil
	}
	e.mu.Unlock()

	// A Stop that raced the final tick wins: stopped utterances never
	// report completion.
	if current {
		e.sink(playback.EngineEvent{Kind: playback.EngineDone})
	}
}

// Pause suspends the simulated utterance.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.speaking {
		return playback.ErrNotSpeaking
	}
	e.paused = true
	return nil
}

// Resume continues a paused utterance.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.paused {
		return playback.ErrNotPaused
	}
	e.paused = false
	select {
	case e.resume <- struct{}{}:
	default:
	}
	return nil
}

// Stop discards the current utterance, if any.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		close(e.cancel)
		e.cancel = nil
	}
	e.speaking = false
	e.paused = false
	return nil
}

// IsSpeaking reports whether a simulated utterance is active.
func (e *Engine) IsSpeaking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speaking && !e.paused
}

// IsPaused reports whether the utterance is suspended.
func (e *Engine) IsPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Shutdown stops the engine for good.
func (e *Engine) Shutdown() error {
	if err := e.Stop(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdown = true
	return nil
}

// Test controls.

// SetUnavailable makes subsequent Speak calls no-ops that emit no
// events, simulating an unavailable narration service.
func (e *Engine) SetUnavailable(unavailable bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failSpeak = unavailable
}

// SpeakCount returns how many times Speak has been called.
func (e *Engine) SpeakCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speakCnt
}

// estimateDuration derives a simulated utterance length from word count
// and rate. Rate 1.0 is the configured words-per-minute; lower rates
// speak slower.
func (e *Engine) estimateDuration(text string, rate float64) time.Duration {
	words := len(strings.Fields(text))
	if words == 0 {
		words = 1
	}
	if rate <= 0 {
		rate = 1.0
	}
	wpm := float64(e.cfg.WordsPerMinute) * rate
	seconds := float64(words) * 60.0 / wpm
	d := time.Duration(seconds * float64(time.Second))
	if d < e.cfg.ProgressInterval {
		d = e.cfg.ProgressInterval
	}
	return d
}
