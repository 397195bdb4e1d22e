package attention

import (
	"errors"
	"testing"
	"time"

	"github.com/gazekeeper/gazekeeper/pkg/signal"
)

// fakeClock drives the monitor deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestMonitor(threshold time.Duration, sink Sink) (*Monitor, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	m := New(Config{AwayThreshold: threshold}, sink)
	m.now = clock.Now
	return m, clock
}

func TestMonitor_LookingFramesNeverTouchSink(t *testing.T) {
	sink := signal.NewMock()
	m, clock := newTestMonitor(500*time.Millisecond, sink)

	for i := 0; i < 100; i++ {
		u := m.Observe(true, true)
		if u.Status != StatusLooking {
			t.Fatalf("frame %d: status = %v, want looking", i, u.Status)
		}
		if u.Elapsed != 0 {
			t.Fatalf("frame %d: elapsed = %v, want 0", i, u.Elapsed)
		}
		clock.Advance(10 * time.Second)
	}

	if sink.TriggerCount() != 0 {
		t.Errorf("sink triggered %d times, want 0", sink.TriggerCount())
	}
	if m.InEpisode() {
		t.Error("monitor in episode after looking frames")
	}
}

func TestMonitor_SingleTriggerPerEpisode(t *testing.T) {
	sink := signal.NewMock()
	m, clock := newTestMonitor(500*time.Millisecond, sink)

	// Away episode: frames every 200ms. The threshold crosses on the
	// frame at 600ms elapsed, and only that frame may fire.
	steps := []struct {
		advance       time.Duration
		wantTriggered bool
	}{
		{0, false},                      // episode starts, elapsed 0
		{200 * time.Millisecond, false}, // 200ms
		{200 * time.Millisecond, false}, // 400ms
		{200 * time.Millisecond, true},  // 600ms >= 500ms, fires
		{200 * time.Millisecond, false}, // 800ms, already sent
		{5 * time.Second, false},        // long after, still silent
	}

	for i, step := range steps {
		clock.Advance(step.advance)
		u := m.Observe(false, true)
		if u.Triggered != step.wantTriggered {
			t.Errorf("frame %d: triggered = %v, want %v", i, u.Triggered, step.wantTriggered)
		}
		if u.Status != StatusAway {
			t.Errorf("frame %d: status = %v, want away", i, u.Status)
		}
	}

	if sink.TriggerCount() != 1 {
		t.Errorf("sink triggered %d times, want exactly 1", sink.TriggerCount())
	}
}

func TestMonitor_ExactThresholdBoundaryFires(t *testing.T) {
	sink := signal.NewMock()
	m, clock := newTestMonitor(500*time.Millisecond, sink)

	m.Observe(false, true) // episode starts
	clock.Advance(500 * time.Millisecond)
	u := m.Observe(false, true)

	if !u.Triggered {
		t.Error("elapsed == threshold did not fire; debounce must be >=")
	}
}

func TestMonitor_LookingResetsEpisode(t *testing.T) {
	sink := signal.NewMock()
	m, clock := newTestMonitor(500*time.Millisecond, sink)

	// First episode fires.
	m.Observe(false, true)
	clock.Advance(time.Second)
	m.Observe(false, true)
	if sink.TriggerCount() != 1 {
		t.Fatalf("first episode: %d triggers, want 1", sink.TriggerCount())
	}

	// A single looking frame clears everything.
	clock.Advance(100 * time.Millisecond)
	m.Observe(true, true)
	if m.InEpisode() {
		t.Error("episode survived a looking frame")
	}
	if m.SignalSent() {
		t.Error("sent flag survived a looking frame")
	}

	// A fresh episode triggers independently.
	clock.Advance(100 * time.Millisecond)
	m.Observe(false, true)
	clock.Advance(time.Second)
	u := m.Observe(false, true)
	if !u.Triggered {
		t.Error("second episode did not trigger")
	}
	if sink.TriggerCount() != 2 {
		t.Errorf("total triggers = %d, want 2", sink.TriggerCount())
	}
}

func TestMonitor_NoFaceCountsTowardTimer(t *testing.T) {
	sink := signal.NewMock()
	m, clock := newTestMonitor(500*time.Millisecond, sink)

	// Episode interleaves away and no-face frames; the timer baseline
	// is the episode start, regardless of which kind began it.
	u := m.Observe(false, false)
	if u.Status != StatusNoFace {
		t.Errorf("status = %v, want no-face", u.Status)
	}

	clock.Advance(300 * time.Millisecond)
	u = m.Observe(false, true)
	if u.Status != StatusAway || u.Triggered {
		t.Errorf("mid-episode: status=%v triggered=%v", u.Status, u.Triggered)
	}

	clock.Advance(300 * time.Millisecond)
	u = m.Observe(false, false)
	if !u.Triggered {
		t.Error("no-face frame at 600ms elapsed did not trigger")
	}
	if u.Status != StatusNoFace {
		t.Errorf("status = %v, want no-face", u.Status)
	}
	if sink.TriggerCount() != 1 {
		t.Errorf("triggers = %d, want 1", sink.TriggerCount())
	}
}

func TestMonitor_EpisodeBaselineIsNotSlidingWindow(t *testing.T) {
	sink := signal.NewMock()
	m, clock := newTestMonitor(500*time.Millisecond, sink)

	// Per-frame gaps stay well under the threshold; only the cumulative
	// time since the episode began matters.
	m.Observe(false, true)
	fired := false
	for i := 0; i < 10; i++ {
		clock.Advance(100 * time.Millisecond)
		if m.Observe(false, true).Triggered {
			fired = true
			// 100ms * 5 = 500ms cumulative
			if want := 5; i+1 != want {
				t.Errorf("fired after %d frames, want %d", i+1, want)
			}
		}
	}
	if !fired {
		t.Fatal("never fired")
	}
}

func TestMonitor_FailedWriteStillCountsAsSent(t *testing.T) {
	sink := signal.NewMock()
	sink.TriggerFunc = func() error { return errors.New("device unplugged") }
	m, clock := newTestMonitor(500*time.Millisecond, sink)

	m.Observe(false, true)
	clock.Advance(time.Second)
	u := m.Observe(false, true)
	if !u.Triggered {
		t.Fatal("threshold crossing did not attempt the trigger")
	}
	if !m.SignalSent() {
		t.Error("failed write cleared the sent flag; no retry is allowed within an episode")
	}

	// No second attempt for this episode.
	clock.Advance(time.Second)
	if m.Observe(false, true).Triggered {
		t.Error("retried within the same episode")
	}
	if sink.TriggerCount() != 1 {
		t.Errorf("trigger attempts = %d, want 1", sink.TriggerCount())
	}
}

func TestMonitor_NoopSinkRunsFullTimerLogic(t *testing.T) {
	m, clock := newTestMonitor(500*time.Millisecond, signal.NewNoopSink())

	m.Observe(false, false)
	clock.Advance(time.Second)
	u := m.Observe(false, false)

	if !u.Triggered {
		t.Error("timer logic did not run against the no-op sink")
	}
	if !m.SignalSent() {
		t.Error("sent flag did not transition with the no-op sink")
	}
}

func TestMonitor_MixedFrameSequence(t *testing.T) {
	// Frames [true, false, false, false] at t=0, 0.2, 0.4, 0.7 with a
	// 0.5s threshold: the episode starts at 0.2, so the trigger fires
	// at 0.7 (elapsed 0.5) and nowhere else.
	sink := signal.NewMock()
	m, clock := newTestMonitor(500*time.Millisecond, sink)

	frames := []struct {
		at       time.Duration
		looking  bool
		wantFire bool
	}{
		{0, true, false},
		{200 * time.Millisecond, false, false},
		{400 * time.Millisecond, false, false},
		{700 * time.Millisecond, false, true},
	}

	start := clock.Now()
	for i, f := range frames {
		clock.t = start.Add(f.at)
		u := m.Observe(f.looking, true)
		if u.Triggered != f.wantFire {
			t.Errorf("frame %d (t=%v): triggered = %v, want %v", i, f.at, u.Triggered, f.wantFire)
		}
	}
	if sink.TriggerCount() != 1 {
		t.Errorf("triggers = %d, want 1", sink.TriggerCount())
	}
}
