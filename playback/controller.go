// Package playback coordinates narrated story playback: it owns the
// single source of truth for elapsed time and keeps the narration
// engine, the playback clock, and user scrub gestures in sync.
package playback

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/storytime/playback/sentence"
)

// eventKind tags the events the controller consumes. All four sources
// (gestures, clock, engine progress, engine completion) are normalized
// to this one type before they reach the transition function.
type eventKind int

const (
	evPlay eventKind = iota
	evPause
	evSeekBegin
	evSeekUpdate
	evSeekEnd
	evTick
	evDeadline
	evProgress
	evDone
	evDismiss
)

func (k eventKind) String() string {
	switch k {
	case evPlay:
		return "play"
	case evPause:
		return "pause"
	case evSeekBegin:
		return "seek_begin"
	case evSeekUpdate:
		return "seek_update"
	case evSeekEnd:
		return "seek_end"
	case evTick:
		return "tick"
	case evDeadline:
		return "deadline"
	case evProgress:
		return "progress"
	case evDone:
		return "done"
	case evDismiss:
		return "dismiss"
	default:
		return "unknown"
	}
}

type event struct {
	kind     eventKind
	fraction float64
}

// Snapshot is the read-only projection of a playback session exposed to
// the presentation layer.
type Snapshot struct {
	Elapsed        time.Duration
	Target         time.Duration
	Phase          Phase
	ActiveSentence int     // index into Sentences, or -1
	Progress       float64 // Elapsed/Target in [0, 1]
}

// Remaining returns the time left before the target duration.
func (s Snapshot) Remaining() time.Duration {
	if s.Elapsed >= s.Target {
		return 0
	}
	return s.Target - s.Elapsed
}

// Controller owns the playback session state machine. All mutations to
// session state happen on its single event loop goroutine; public
// methods only enqueue events. The controller owns its engine and clock
// for the session's lifetime and tears both down on every exit path.
type Controller struct {
	passage   Passage
	sentences []string
	cfg       Config

	engine Engine
	clock  *Clock

	events chan event
	done   chan struct{}

	dismissOnce sync.Once
	startOnce   sync.Once
	started     bool

	// Session state. Owned by the event loop; never touched elsewhere.
	elapsed         time.Duration
	phase           Phase
	active          int
	resumeAfterSeek bool
	utteranceStart  time.Duration

	// Published projection.
	mu       sync.RWMutex
	snap     Snapshot
	onChange func(Snapshot)
}

// NewController creates a controller for the given passage. The text is
// segmented exactly once; if segmentation yields nothing the whole text
// is substituted as a single fallback sentence, so a start index can
// always be computed.
func NewController(passage Passage, cfg Config) *Controller {
	if passage.TargetDuration < time.Second {
		log.Warn("target duration too small, clamping", "target", passage.TargetDuration)
		passage.TargetDuration = time.Second
	}

	c := &Controller{
		passage:   passage,
		sentences: sentence.SegmentOrWhole(passage.Text),
		cfg:       cfg,
		events:    make(chan event, 64),
		done:      make(chan struct{}),
		phase:     PhaseIdle,
		active:    -1,
	}
	c.clock = NewClock(cfg.TickInterval,
		func() { c.send(event{kind: evTick}) },
		func() { c.send(event{kind: evDeadline}) },
	)
	c.snap = c.projection()
	return c
}

// SetEngine attaches the narration engine. Must be called before Start.
func (c *Controller) SetEngine(engine Engine) {
	c.engine = engine
}

// Sentences returns the segmented passage. The slice must not be
// modified.
func (c *Controller) Sentences() []string {
	return c.sentences
}

// Target returns the passage's target duration.
func (c *Controller) Target() time.Duration {
	return c.passage.TargetDuration
}

// OnChange registers a callback invoked from the event loop after each
// applied transition. Must be set before Start.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.onChange = fn
}

// Start launches the event loop. It returns ErrEngineNotSet if no
// engine has been attached.
func (c *Controller) Start() error {
	if c.engine == nil {
		return ErrEngineNotSet
	}
	var first bool
	c.startOnce.Do(func() {
		first = true
		c.started = true
		go c.run()
	})
	if !first {
		return ErrAlreadyStarted
	}
	return nil
}

// Gestures. These enqueue events and return immediately; invalid
// gestures for the current phase are dropped by the transition
// function.

// Play starts or resumes narration.
func (c *Controller) Play() { c.send(event{kind: evPlay}) }

// Pause suspends narration, freezing elapsed time.
func (c *Controller) Pause() { c.send(event{kind: evPause}) }

// SeekBegin enters scrubbing: narration stops and the clock disarms
// until SeekEnd.
func (c *Controller) SeekBegin() { c.send(event{kind: evSeekBegin}) }

// SeekUpdate moves elapsed to fraction*target. Fractions outside [0, 1]
// are clamped. Updates are O(1) and touch neither engine nor clock, so
// rapid scrub gestures stay cheap.
func (c *Controller) SeekUpdate(fraction float64) {
	c.send(event{kind: evSeekUpdate, fraction: fraction})
}

// SeekEnd leaves scrubbing, resuming narration from the new position if
// playback was active when the scrub began.
func (c *Controller) SeekEnd() { c.send(event{kind: evSeekEnd}) }

// Deliver is the EventSink for the attached engine: it hands engine
// events off to the controller's event loop.
func (c *Controller) Deliver(ev EngineEvent) {
	switch ev.Kind {
	case EngineProgress:
		c.send(event{kind: evProgress, fraction: ev.Fraction})
	case EngineDone:
		c.send(event{kind: evDone})
	}
}

// Snapshot returns the current read-only projection.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Dismiss ends the session: the engine is stopped and the clock
// disarmed regardless of phase, including mid-scrub. Dismiss blocks
// until teardown has completed and is safe to call more than once.
func (c *Controller) Dismiss() {
	c.dismissOnce.Do(func() {
		if !c.started {
			// Loop never ran; tear down directly.
			c.teardown()
			close(c.done)
			return
		}
		select {
		case c.events <- event{kind: evDismiss}:
		case <-c.done:
		}
	})
	<-c.done
}

// Done is closed once the session has been dismissed and torn down.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// send enqueues an event unless the session is already dismissed.
func (c *Controller) send(ev event) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

// run is the event loop: the only writer of session state.
func (c *Controller) run() {
	defer func() {
		c.teardown()
		close(c.done)
	}()

	for ev := range c.events {
		if ev.kind == evDismiss {
			return
		}
		c.apply(ev)
	}
}

func (c *Controller) teardown() {
	c.clock.Disarm()
	if c.engine != nil {
		if err := c.engine.Stop(); err != nil {
			log.Debug("engine stop on teardown", "err", err)
		}
		if err := c.engine.Shutdown(); err != nil {
			log.Debug("engine shutdown on teardown", "err", err)
		}
	}
}

// apply is the transition function. It alone mutates elapsed, phase,
// the active sentence, and the resume flag.
func (c *Controller) apply(ev event) {
	if c.phase.Terminal() {
		return
	}

	before := c.phase
	switch ev.kind {
	case evPlay:
		c.applyPlay()
	case evPause:
		c.applyPause()
	case evSeekBegin:
		c.applySeekBegin()
	case evSeekUpdate:
		c.applySeekUpdate(ev.fraction)
	case evSeekEnd:
		c.applySeekEnd()
	case evTick:
		c.applyTick()
	case evDeadline:
		c.applyDeadline()
	case evProgress:
		c.applyProgress(ev.fraction)
	case evDone:
		c.applyDone()
	}

	if c.phase != before {
		log.Debug("playback transition", "from", before, "to", c.phase,
			"event", ev.kind, "elapsed", c.elapsed)
	}
	c.publish()
}

func (c *Controller) applyPlay() {
	switch c.phase {
	case PhaseIdle:
		c.startNarration()
	case PhasePaused:
		// Resume the held utterance if the engine still has one;
		// otherwise restart from the sentence implied by elapsed. Some
		// engines cannot resume an utterance that already finished.
		if c.engine.IsPaused() {
			if err := c.engine.Resume(); err != nil {
				log.Warn("engine resume failed, restarting narration", "err", err)
				c.startNarration()
			}
		} else {
			c.startNarration()
		}
	default:
		return
	}
	c.clock.Arm(c.passage.TargetDuration - c.elapsed)
	c.phase = PhasePlaying
}

func (c *Controller) applyPause() {
	if c.phase != PhasePlaying {
		return
	}
	if err := c.engine.Pause(); err != nil {
		log.Debug("engine pause", "err", err)
	}
	c.clock.Disarm()
	c.phase = PhasePaused
}

func (c *Controller) applySeekBegin() {
	if !c.phase.CanTransition(PhaseSeeking) {
		return
	}
	c.resumeAfterSeek = c.phase == PhasePlaying
	if err := c.engine.Stop(); err != nil {
		log.Debug("engine stop on seek", "err", err)
	}
	c.clock.Disarm()
	c.phase = PhaseSeeking
}

func (c *Controller) applySeekUpdate(fraction float64) {
	if c.phase != PhaseSeeking {
		return
	}
	// Out-of-range gestures are clamped, never an error.
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	c.elapsed = time.Duration(fraction * float64(c.passage.TargetDuration))
	c.active = c.sentenceIndexAt(c.elapsed)
}

func (c *Controller) applySeekEnd() {
	if c.phase != PhaseSeeking {
		return
	}
	if c.resumeAfterSeek {
		c.startNarration()
		c.clock.Arm(c.passage.TargetDuration - c.elapsed)
		c.phase = PhasePlaying
	} else {
		c.active = c.sentenceIndexAt(c.elapsed)
		c.phase = PhasePaused
	}
	c.resumeAfterSeek = false
}

func (c *Controller) applyTick() {
	if c.phase != PhasePlaying {
		return
	}
	if c.elapsed >= c.passage.TargetDuration {
		c.finish()
	}
}

// applyDeadline fires when the armed duration has fully passed in wall
// time. It guarantees termination even when the engine never reports
// anything, or narrates past the target budget.
func (c *Controller) applyDeadline() {
	if c.phase != PhasePlaying {
		return
	}
	c.finish()
}

func (c *Controller) applyProgress(fraction float64) {
	if c.phase != PhasePlaying {
		return
	}
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}

	// The utterance is "remaining sentences joined", so its fraction
	// maps linearly across the remaining time budget.
	budget := c.passage.TargetDuration - c.utteranceStart
	next := c.utteranceStart + time.Duration(fraction*float64(budget))

	// Elapsed is monotonic while playing.
	if next < c.elapsed {
		return
	}
	// Suppress sub-threshold updates to avoid UI churn.
	if next-c.elapsed <= c.cfg.UpdateThreshold && next < c.passage.TargetDuration {
		return
	}
	c.elapsed = next
	c.active = c.sentenceIndexAt(c.elapsed)
}

func (c *Controller) applyDone() {
	if c.phase != PhasePlaying {
		return
	}
	c.finish()
}

// finish transitions to the terminal Finished phase.
func (c *Controller) finish() {
	if err := c.engine.Stop(); err != nil {
		log.Debug("engine stop on finish", "err", err)
	}
	c.clock.Disarm()
	c.elapsed = c.passage.TargetDuration
	c.active = -1
	c.phase = PhaseFinished
}

// startNarration computes the sentence implied by elapsed, snaps
// elapsed to that sentence's start so speech and clock agree, and
// submits the remaining sentences as one utterance.
func (c *Controller) startNarration() {
	idx := c.sentenceIndexAt(c.elapsed)
	n := len(c.sentences)
	c.elapsed = time.Duration(float64(idx) / float64(n) * float64(c.passage.TargetDuration))
	c.utteranceStart = c.elapsed
	c.active = idx

	text := sentence.Join(c.sentences[idx:])
	if err := c.engine.Speak(text, c.cfg.Rate, c.cfg.Pitch); err != nil {
		// Degrades to silent playback; the clock deadline still
		// guarantees termination.
		log.Warn("engine speak failed", "err", err)
	}
}

// sentenceIndexAt maps elapsed time to a sentence index proportionally.
// Sentences are not equal-duration, so this is a known approximation;
// it affects sync tightness only, never the elapsed bounds.
func (c *Controller) sentenceIndexAt(elapsed time.Duration) int {
	n := len(c.sentences)
	idx := int(float64(n) * float64(elapsed) / float64(c.passage.TargetDuration))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// projection builds the read-only snapshot from session state.
func (c *Controller) projection() Snapshot {
	progress := float64(c.elapsed) / float64(c.passage.TargetDuration)
	if progress > 1 {
		progress = 1
	}
	return Snapshot{
		Elapsed:        c.elapsed,
		Target:         c.passage.TargetDuration,
		Phase:          c.phase,
		ActiveSentence: c.active,
		Progress:       progress,
	}
}

func (c *Controller) publish() {
	snap := c.projection()
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
	if c.onChange != nil {
		c.onChange(snap)
	}
}
