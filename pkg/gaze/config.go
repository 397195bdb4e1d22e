// Package gaze turns face-mesh landmarks into a per-frame answer to one
// question: is the user looking at the screen?
package gaze

// Policy selects how a frame's landmarks are judged.
type Policy int

const (
	// PolicyOffset compares each iris against its own eye-socket center.
	// A forward gaze keeps the iris within a few pixels of the center;
	// the thresholds absorb landmark jitter.
	PolicyOffset Policy = iota

	// PolicyZone checks that both irises fall inside a fixed central
	// rectangle of the frame. This tests iris screen position, not gaze
	// direction: a tilted head can read as "away" while the user is
	// fixating the screen, and vice versa. Kept as a cruder alternative
	// mode, documented limitation and all.
	PolicyZone
)

func (p Policy) String() string {
	switch p {
	case PolicyOffset:
		return "offset"
	case PolicyZone:
		return "zone"
	default:
		return "unknown"
	}
}

// Config holds all tunable parameters for gaze classification
type Config struct {
	Policy Policy

	// PolicyOffset thresholds, in pixels of iris displacement
	HorizontalThreshold int // |dx| must stay under this
	VerticalThreshold   int // |dy| must stay under this

	// PolicyZone margin as a fraction of frame width/height per side.
	// 0.3 leaves the central 60% of the frame as the attention zone.
	ZoneMargin float64
}

// DefaultConfig returns the recommended configuration
func DefaultConfig() Config {
	return Config{
		Policy:              PolicyOffset,
		HorizontalThreshold: 4,
		VerticalThreshold:   2,
		ZoneMargin:          0.3,
	}
}

// RelaxedConfig widens the vertical threshold for users who sit below
// or above their camera, where a forward gaze carries a constant dy.
func RelaxedConfig() Config {
	cfg := DefaultConfig()
	cfg.VerticalThreshold = 4
	return cfg
}

// ZoneConfig switches to zone containment with the default margin.
func ZoneConfig() Config {
	cfg := DefaultConfig()
	cfg.Policy = PolicyZone
	return cfg
}
