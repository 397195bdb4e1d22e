package gaze

import (
	"image"

	"github.com/gazekeeper/gazekeeper/pkg/debug"
	"github.com/gazekeeper/gazekeeper/pkg/facemesh"
)

// Reading is the classifier's view of a single frame: the extracted eye
// geometry plus the on-screen decision. Everything is derived, nothing
// survives past the frame.
type Reading struct {
	LeftEye   image.Point
	RightEye  image.Point
	LeftIris  image.Point
	RightIris image.Point

	Left  Offset // left iris relative to left eye center
	Right Offset // right iris relative to right eye center

	Looking bool
}

// Classifier decides per frame whether the gaze is on-screen.
// It is not safe for concurrent use; the frame loop owns it.
type Classifier struct {
	config Config

	// PolicyZone: computed from the first frame's dimensions, then
	// frozen for the rest of the session even if frame size changes.
	zone    image.Rectangle
	hasZone bool
}

// NewClassifier creates a classifier with the given configuration.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{config: cfg}
}

// Config returns the classifier's configuration.
func (c *Classifier) Config() Config {
	return c.config
}

// Classify extracts eye geometry from the mesh and decides whether the
// gaze is on-screen for this frame. The caller must not invoke Classify
// for no-face frames; those are "not looking" unconditionally.
func (c *Classifier) Classify(mesh *facemesh.Mesh, width, height int) Reading {
	r := Reading{
		LeftEye:   EyeCenter(mesh, facemesh.LeftEye, width, height),
		RightEye:  EyeCenter(mesh, facemesh.RightEye, width, height),
		LeftIris:  IrisCenter(mesh, facemesh.LeftIris, width, height),
		RightIris: IrisCenter(mesh, facemesh.RightIris, width, height),
	}
	r.Left = offsetBetween(r.LeftEye, r.LeftIris)
	r.Right = offsetBetween(r.RightEye, r.RightIris)

	switch c.config.Policy {
	case PolicyZone:
		r.Looking = c.inZone(r.LeftIris, width, height) && c.inZone(r.RightIris, width, height)
	default:
		r.Looking = c.centered(r.Left) && c.centered(r.Right)
	}

	debug.GazeLog("gaze: left=(%d,%d) right=(%d,%d) looking=%v\n",
		r.Left.DX, r.Left.DY, r.Right.DX, r.Right.DY, r.Looking)
	return r
}

// centered reports whether an iris sits close enough to its eye center.
func (c *Classifier) centered(o Offset) bool {
	return abs(o.DX) < c.config.HorizontalThreshold &&
		abs(o.DY) < c.config.VerticalThreshold
}

// inZone reports whether a point falls inside the attention zone,
// bounds inclusive. The zone is fixed on first use.
func (c *Classifier) inZone(p image.Point, width, height int) bool {
	zone := c.AttentionZone(width, height)
	return p.X >= zone.Min.X && p.X <= zone.Max.X &&
		p.Y >= zone.Min.Y && p.Y <= zone.Max.Y
}

// AttentionZone returns the central attention rectangle, computing it
// from the given frame dimensions on first call and caching it after.
func (c *Classifier) AttentionZone(width, height int) image.Rectangle {
	if !c.hasZone {
		marginW := int(float64(width) * c.config.ZoneMargin)
		marginH := int(float64(height) * c.config.ZoneMargin)
		c.zone = image.Rect(marginW, marginH, width-marginW, height-marginH)
		c.hasZone = true
	}
	return c.zone
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
