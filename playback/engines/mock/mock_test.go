package mock

import (
	"testing"
	"time"

	"github.com/dgnsrekt/storytime/playback"
)

func fastConfig() playback.MockConfig {
	return playback.MockConfig{
		WordsPerMinute:   60000,
		ProgressInterval: 5 * time.Millisecond,
	}
}

func collectEvents() (playback.EventSink, chan playback.EngineEvent) {
	ch := make(chan playback.EngineEvent, 128)
	return func(ev playback.EngineEvent) { ch <- ev }, ch
}

func waitForDone(t *testing.T, ch chan playback.EngineEvent, timeout time.Duration) []playback.EngineEvent {
	t.Helper()
	var events []playback.EngineEvent
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-ch:
			events = append(events, ev)
			if ev.Kind == playback.EngineDone {
				return events
			}
		case <-deadline:
			t.Fatalf("no completion event after %v (got %d events)", timeout, len(events))
		}
	}
}

func TestSpeakEmitsProgressThenDone(t *testing.T) {
	sink, ch := collectEvents()
	e := New(fastConfig(), sink)
	defer e.Shutdown()

	if err := e.Speak("once upon a time", 1.0, 1.3); err != nil {
		t.Fatal(err)
	}

	events := waitForDone(t, ch, 2*time.Second)
	last := events[len(events)-1]
	if last.Kind != playback.EngineDone {
		t.Fatalf("last event = %v, want done", last.Kind)
	}
	for _, ev := range events[:len(events)-1] {
		if ev.Kind != playback.EngineProgress {
			t.Errorf("unexpected event kind %v before done", ev.Kind)
		}
		if ev.Fraction < 0 || ev.Fraction > 1 {
			t.Errorf("fraction %v out of range", ev.Fraction)
		}
	}
}

func TestProgressFractionsNondecreasing(t *testing.T) {
	sink, ch := collectEvents()
	e := New(fastConfig(), sink)
	defer e.Shutdown()

	if err := e.Speak("the quick brown fox jumps over the lazy dog", 1.0, 1.0); err != nil {
		t.Fatal(err)
	}

	events := waitForDone(t, ch, 2*time.Second)
	prev := -1.0
	for _, ev := range events {
		if ev.Kind != playback.EngineProgress {
			continue
		}
		if ev.Fraction < prev {
			t.Fatalf("fraction went backwards: %v after %v", ev.Fraction, prev)
		}
		prev = ev.Fraction
	}
}

func TestStopSuppressesCompletion(t *testing.T) {
	sink, ch := collectEvents()
	cfg := playback.MockConfig{
		WordsPerMinute:   10,
		ProgressInterval: 20 * time.Millisecond,
	}
	e := New(cfg, sink)
	defer e.Shutdown()

	if err := e.Speak("a long slow utterance with many words to speak", 0.5, 1.3); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := e.Stop(); err != nil {
		t.Fatal(err)
	}

	// Drain anything already in flight, then verify silence.
	time.Sleep(100 * time.Millisecond)
	for {
		select {
		case ev := <-ch:
			if ev.Kind == playback.EngineDone {
				t.Fatal("stopped utterance reported completion")
			}
		default:
			return
		}
	}
}

func TestPauseHaltsProgress(t *testing.T) {
	sink, ch := collectEvents()
	cfg := playback.MockConfig{
		WordsPerMinute:   30,
		ProgressInterval: 10 * time.Millisecond,
	}
	e := New(cfg, sink)
	defer e.Shutdown()

	if err := e.Speak("pause me somewhere in the middle of this", 1.0, 1.0); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	if err := e.Pause(); err != nil {
		t.Fatal(err)
	}
	if !e.IsPaused() {
		t.Error("engine should report paused")
	}
	if e.IsSpeaking() {
		t.Error("paused engine should not report speaking")
	}

	// Let in-flight events drain, then the stream must go quiet.
	time.Sleep(50 * time.Millisecond)
	for len(ch) > 0 {
		<-ch
	}
	time.Sleep(100 * time.Millisecond)
	if n := len(ch); n != 0 {
		t.Fatalf("got %d events while paused, want 0", n)
	}

	if err := e.Resume(); err != nil {
		t.Fatal(err)
	}
	waitForDone(t, ch, 5*time.Second)
}

func TestPauseWithoutUtterance(t *testing.T) {
	sink, _ := collectEvents()
	e := New(fastConfig(), sink)
	if err := e.Pause(); err == nil {
		t.Error("pause with no utterance should fail")
	}
	if err := e.Resume(); err == nil {
		t.Error("resume without pause should fail")
	}
}

func TestUnavailableSpeakIsSilentNoop(t *testing.T) {
	sink, ch := collectEvents()
	e := New(fastConfig(), sink)
	defer e.Shutdown()
	e.SetUnavailable(true)

	if err := e.Speak("nobody will hear this", 0.5, 1.3); err != nil {
		t.Fatal(err)
	}
	if got := e.SpeakCount(); got != 1 {
		t.Errorf("SpeakCount() = %d, want 1", got)
	}

	time.Sleep(100 * time.Millisecond)
	if n := len(ch); n != 0 {
		t.Fatalf("unavailable engine emitted %d events, want 0", n)
	}
}

func TestSpeakReplacesInFlightUtterance(t *testing.T) {
	sink, ch := collectEvents()
	e := New(fastConfig(), sink)
	defer e.Shutdown()

	// A very low rate stretches the first utterance well past the test.
	if err := e.Speak("first utterance that will be replaced shortly", 0.001, 1.0); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	// The replacement implicitly stops the first; exactly one completion
	// may follow.
	if err := e.Speak("second", 1.0, 1.0); err != nil {
		t.Fatal(err)
	}

	events := waitForDone(t, ch, 2*time.Second)
	done := 0
	for _, ev := range events {
		if ev.Kind == playback.EngineDone {
			done++
		}
	}
	if done != 1 {
		t.Fatalf("got %d completion events, want 1", done)
	}
}

func TestSpeakAfterShutdown(t *testing.T) {
	sink, _ := collectEvents()
	e := New(fastConfig(), sink)
	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if err := e.Speak("too late", 1.0, 1.0); err == nil {
		t.Error("speak after shutdown should fail")
	}
}

func TestEstimateDuration(t *testing.T) {
	e := New(playback.MockConfig{WordsPerMinute: 120, ProgressInterval: 10 * time.Millisecond}, func(playback.EngineEvent) {})

	// 120 wpm at rate 1.0 is two words per second.
	if got := e.estimateDuration("one two three four", 1.0); got != 2*time.Second {
		t.Errorf("estimateDuration = %v, want 2s", got)
	}
	// Half rate doubles the duration.
	if got := e.estimateDuration("one two three four", 0.5); got != 4*time.Second {
		t.Errorf("estimateDuration at rate 0.5 = %v, want 4s", got)
	}
	// Empty text still yields a minimal utterance.
	if got := e.estimateDuration("", 1.0); got <= 0 {
		t.Errorf("estimateDuration for empty text = %v, want > 0", got)
	}
}
