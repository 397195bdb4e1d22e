package capture

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/gazekeeper/gazekeeper/pkg/attention"
	"github.com/gazekeeper/gazekeeper/pkg/gaze"
)

// Overlay colors. gocv takes RGBA and converts to the Mat's order.
var (
	colorEye     = color.RGBA{R: 255, G: 255, B: 0, A: 0} // yellow eye rings
	colorIris    = color.RGBA{R: 0, G: 0, B: 255, A: 0}   // blue iris dots
	colorGood    = color.RGBA{R: 0, G: 255, B: 0, A: 0}   // green when looking
	colorBad     = color.RGBA{R: 255, G: 0, B: 0, A: 0}   // red when away
	statusOrigin = image.Pt(10, 30)
)

// DrawReading marks eye centers, iris centers, and the offset lines
// between them.
func DrawReading(img *gocv.Mat, r gaze.Reading) {
	gocv.Circle(img, r.LeftEye, 8, colorEye, 2)
	gocv.Circle(img, r.RightEye, 8, colorEye, 2)
	gocv.Circle(img, r.LeftIris, 5, colorIris, -1)
	gocv.Circle(img, r.RightIris, 5, colorIris, -1)
	gocv.Line(img, r.LeftEye, r.LeftIris, colorGood, 2)
	gocv.Line(img, r.RightEye, r.RightIris, colorGood, 2)
}

// DrawZone outlines the attention zone, green while looking.
func DrawZone(img *gocv.Mat, zone image.Rectangle, looking bool) {
	c := colorBad
	if looking {
		c = colorGood
	}
	gocv.Rectangle(img, zone, c, 2)
}

// DrawStatus renders the per-frame status banner.
func DrawStatus(img *gocv.Mat, u attention.Update) {
	var text string
	c := colorBad
	switch u.Status {
	case attention.StatusLooking:
		text = "Looking at screen"
		c = colorGood
	case attention.StatusNoFace:
		text = fmt.Sprintf("No face: %.1fs", u.Elapsed.Seconds())
	default:
		text = fmt.Sprintf("Not looking: %.1fs", u.Elapsed.Seconds())
	}
	gocv.PutText(img, text, statusOrigin, gocv.FontHersheySimplex, 1, c, 2)
}
