// Package piper provides a narration engine backed by the piper
// text-to-speech binary. Piper synthesizes raw 16-bit PCM which is
// played through an oto audio context; utterance progress is derived
// from how much of the PCM stream has been consumed.
package piper

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/storytime/playback"
)

const (
	channels     = 1
	bytesPerSamp = 2 // signed 16-bit little endian
	pollInterval = 50 * time.Millisecond
)

// Engine narrates by shelling out to piper and playing the resulting
// PCM. One utterance is active at a time; Speak cancels the previous
// one before synthesizing.
type Engine struct {
	cfg    playback.PiperConfig
	sink   playback.EventSink
	binary string
	otoCtx *oto.Context

	// Progress events are throttled so dense PCM consumption does not
	// flood the controller.
	limiter *rate.Limiter

	mu       sync.Mutex
	current  *utterance
	shutdown bool
}

// utterance tracks one in-flight piper narration.
type utterance struct {
	cancel   context.CancelFunc
	done     chan struct{}
	mu       sync.Mutex
	player   *oto.Player
	stopped  bool
	paused   bool
	speaking bool
}

// New creates a piper engine delivering events to sink. It fails with
// ErrEngineUnavailable when the piper binary cannot be found, and with
// an audio error when no output device is usable.
func New(cfg playback.PiperConfig, sink playback.EventSink) (*Engine, error) {
	binary, err := exec.LookPath(cfg.Binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found in PATH", playback.ErrEngineUnavailable, cfg.Binary)
	}

	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 22050
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create audio context: %w", err)
	}
	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("audio context initialization timeout")
	}

	return &Engine{
		cfg:     cfg,
		sink:    sink,
		binary:  binary,
		otoCtx:  otoCtx,
		limiter: rate.NewLimiter(rate.Limit(20), 1),
	}, nil
}

// Speak synthesizes text and starts playback. It returns once the
// utterance has been submitted; synthesis and playback continue on
// their own goroutine, reporting through the event sink.
func (e *Engine) Speak(text string, rateParam, pitch float64) error {
	if err := e.Stop(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shutdown {
		return playback.ErrEngineShutdown
	}

	ctx, cancel := context.WithCancel(context.Background())
	u := &utterance{
		cancel:   cancel,
		done:     make(chan struct{}),
		speaking: true,
	}
	e.current = u

	go e.narrate(ctx, u, text, rateParam)
	return nil
}

// narrate runs synthesis then playback for one utterance.
func (e *Engine) narrate(ctx context.Context, u *utterance, text string, rateParam float64) {
	defer close(u.done)

	pcm, err := e.synthesize(ctx, text, rateParam)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn("piper synthesis failed", "err", err)
		}
		u.finish()
		return
	}
	if len(pcm) == 0 {
		u.finish()
		if !u.wasStopped() {
			e.sink(playback.EngineEvent{Kind: playback.EngineDone})
		}
		return
	}

	reader := bytes.NewReader(pcm)
	total := len(pcm)

	u.mu.Lock()
	if u.stopped {
		u.mu.Unlock()
		return
	}
	player := e.otoCtx.NewPlayer(reader)
	u.player = player
	u.mu.Unlock()

	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			consumed := total - reader.Len() - int(player.BufferedSize())
			if consumed < 0 {
				consumed = 0
			}
			fraction := float64(consumed) / float64(total)
			if e.limiter.Allow() && !u.wasStopped() {
				e.sink(playback.EngineEvent{Kind: playback.EngineProgress, Fraction: fraction})
			}
			if reader.Len() == 0 && !player.IsPlaying() {
				u.finish()
				if !u.wasStopped() {
					e.sink(playback.EngineEvent{Kind: playback.EngineDone})
				}
				return
			}
		}
	}
}

// synthesize runs piper and returns the raw PCM it writes to stdout.
func (e *Engine) synthesize(ctx context.Context, text string, rateParam float64) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.binary, e.args(rateParam)...)
	cmd.Stdin = strings.NewReader(text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	log.Debug("piper subprocess finished", "duration", time.Since(start),
		"bytes", stdout.Len(), "err", err)
	if err != nil {
		return nil, fmt.Errorf("piper failed: %w: %s", err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// args builds the piper command line. The narration rate maps to
// piper's length scale: slower rates stretch phoneme lengths.
func (e *Engine) args(rateParam float64) []string {
	args := []string{"--output-raw"}
	if e.cfg.ModelPath != "" {
		args = append(args, "--model", e.cfg.ModelPath)
	} else if e.cfg.Model != "" {
		args = append(args, "--model", e.cfg.Model)
	}
	if rateParam > 0 {
		args = append(args, "--length-scale", fmt.Sprintf("%.2f", 1.0/rateParam))
	}
	return args
}

// Pause suspends audio output.
func (e *Engine) Pause() error {
	e.mu.Lock()
	u := e.current
	e.mu.Unlock()
	if u == nil {
		return playback.ErrNotSpeaking
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.player != nil {
		u.player.Pause()
	}
	u.paused = true
	return nil
}

// Resume continues paused audio output.
func (e *Engine) Resume() error {
	e.mu.Lock()
	u := e.current
	e.mu.Unlock()
	if u == nil || !u.isPaused() {
		return playback.ErrNotPaused
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.player != nil {
		u.player.Play()
	}
	u.paused = false
	return nil
}

// Stop cancels the current utterance and waits for its goroutine to
// exit, guaranteeing no events are emitted after Stop returns.
func (e *Engine) Stop() error {
	e.mu.Lock()
	u := e.current
	e.current = nil
	e.mu.Unlock()
	if u == nil {
		return nil
	}

	u.mu.Lock()
	u.stopped = true
	if u.player != nil {
		u.player.Pause()
		_ = u.player.Close()
		u.player = nil
	}
	u.mu.Unlock()

	u.cancel()
	<-u.done
	return nil
}

// IsSpeaking reports whether an utterance is actively playing.
func (e *Engine) IsSpeaking() bool {
	e.mu.Lock()
	u := e.current
	e.mu.Unlock()
	return u != nil && u.isSpeaking() && !u.isPaused()
}

// IsPaused reports whether the current utterance is suspended.
func (e *Engine) IsPaused() bool {
	e.mu.Lock()
	u := e.current
	e.mu.Unlock()
	return u != nil && u.isPaused()
}

// Shutdown stops playback and releases the audio context reference.
func (e *Engine) Shutdown() error {
	if err := e.Stop(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	// oto contexts have no Close in v3; dropping the reference is all
	// the cleanup available.
	e.shutdown = true
	return nil
}

func (u *utterance) finish() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.speaking = false
	if u.player != nil {
		_ = u.player.Close()
		u.player = nil
	}
}

func (u *utterance) wasStopped() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.stopped
}

func (u *utterance) isPaused() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.paused
}

func (u *utterance) isSpeaking() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.speaking
}
