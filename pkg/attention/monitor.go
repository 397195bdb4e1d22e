// Package attention tracks looking/away transitions across frames and
// fires an external trigger after a sustained away interval.
package attention

import (
	"time"

	"github.com/gazekeeper/gazekeeper/internal/log"
)

// Status labels the monitor's view of the current frame.
type Status int

const (
	// StatusLooking means the classifier reported an on-screen gaze.
	StatusLooking Status = iota

	// StatusAway means a face was visible but the gaze was off-screen.
	StatusAway

	// StatusNoFace means no face was found. Timer-wise identical to
	// StatusAway; only the label differs.
	StatusNoFace
)

func (s Status) String() string {
	switch s {
	case StatusLooking:
		return "looking"
	case StatusAway:
		return "away"
	case StatusNoFace:
		return "no-face"
	default:
		return "unknown"
	}
}

// Sink receives the away trigger. Satisfied by pkg/signal sinks.
type Sink interface {
	Trigger() error
}

// Config holds the monitor's tunable parameters
type Config struct {
	// AwayThreshold is the minimum continuous away time before the
	// sink fires. Measured from the instant the episode began, not a
	// sliding window.
	AwayThreshold time.Duration
}

// DefaultConfig returns the recommended configuration
func DefaultConfig() Config {
	return Config{
		AwayThreshold: 500 * time.Millisecond,
	}
}

// Update is the monitor's output for one frame.
type Update struct {
	Status    Status
	Elapsed   time.Duration // time into the current away-episode, 0 while looking
	Triggered bool          // true on the single frame that fired the sink
}

// Monitor is the attention state machine, evaluated once per frame.
// It guarantees at most one trigger per continuous away-episode.
// Not safe for concurrent use; the frame loop owns it.
type Monitor struct {
	config Config
	sink   Sink
	now    func() time.Time

	awayStart    time.Time // zero while looking
	signalSent   bool
	triggerCount int
}

// New creates a monitor in the looking baseline state.
func New(cfg Config, sink Sink) *Monitor {
	return &Monitor{
		config: cfg,
		sink:   sink,
		now:    time.Now,
	}
}

// Observe feeds one frame's classification into the state machine.
// faceVisible=false forces the decision to "not looking" regardless
// of the looking argument.
func (m *Monitor) Observe(looking, faceVisible bool) Update {
	now := m.now()

	if looking && faceVisible {
		if !m.awayStart.IsZero() {
			log.Info("attention restored", "away", now.Sub(m.awayStart))
		}
		m.awayStart = time.Time{}
		m.signalSent = false
		return Update{Status: StatusLooking}
	}

	if m.awayStart.IsZero() {
		m.awayStart = now
		m.signalSent = false
		log.Info("started looking away")
	}

	elapsed := now.Sub(m.awayStart)
	triggered := false
	if elapsed >= m.config.AwayThreshold && !m.signalSent {
		log.Info("away threshold crossed", "elapsed", elapsed)
		if err := m.sink.Trigger(); err != nil {
			// A failed write still counts as sent for this episode;
			// there is no retry until the user looks back.
			log.Error("trigger failed", "error", err)
		}
		m.signalSent = true
		m.triggerCount++
		triggered = true
	}

	status := StatusAway
	if !faceVisible {
		status = StatusNoFace
	}
	return Update{Status: status, Elapsed: elapsed, Triggered: triggered}
}

// InEpisode reports whether an away-episode is in progress.
func (m *Monitor) InEpisode() bool {
	return !m.awayStart.IsZero()
}

// SignalSent reports whether the current episode has already fired.
func (m *Monitor) SignalSent() bool {
	return m.signalSent
}

// TriggerCount returns how many times the sink has fired this session.
func (m *Monitor) TriggerCount() int {
	return m.triggerCount
}
