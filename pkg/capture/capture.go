// Package capture owns the webcam device: opening it with backend
// fallback, per-frame reads, and the preview overlay.
package capture

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"gocv.io/x/gocv"

	"github.com/gazekeeper/gazekeeper/internal/log"
)

// probeRange is how many device indices to try when the configured
// index fails to open.
const probeRange = 5

// ErrFrameRead is returned when a capture call fails. A single failed
// read ends the session; there is no retry-then-continue policy.
var ErrFrameRead = errors.New("could not read frame from camera")

// Camera wraps a gocv VideoCapture for frame-at-a-time reads.
type Camera struct {
	cap   *gocv.VideoCapture
	index int
}

// preferredAPI picks the capture backend that behaves best per platform.
func preferredAPI() gocv.VideoCaptureAPI {
	switch runtime.GOOS {
	case "windows":
		return gocv.VideoCaptureDshow
	case "darwin":
		return gocv.VideoCaptureAVFoundation
	default:
		return gocv.VideoCaptureV4L2
	}
}

// Open opens the capture device at the given index, trying the
// platform-preferred backend first and the default backend second.
// When both fail it probes indices 0..4 and reports which of them
// would work, then returns an error: picking a different device is
// the user's call, not ours.
func Open(index int) (*Camera, error) {
	cap, err := gocv.OpenVideoCaptureWithAPI(index, preferredAPI())
	if err != nil || !cap.IsOpened() {
		if cap != nil {
			cap.Close()
		}
		log.Warn("preferred backend failed, trying default", "index", index)
		cap, err = gocv.OpenVideoCapture(index)
	}
	if err != nil || !cap.IsOpened() {
		if cap != nil {
			cap.Close()
		}
		probe(index)
		return nil, fmt.Errorf("could not open camera at index %d", index)
	}

	// Original capture geometry; drivers may round, that is fine.
	cap.Set(gocv.VideoCaptureFrameWidth, 640)
	cap.Set(gocv.VideoCaptureFrameHeight, 480)

	// Give the sensor time to warm up before the first read.
	time.Sleep(time.Second)

	log.Info("camera opened", "index", index)
	return &Camera{cap: cap, index: index}, nil
}

// probe reports which nearby device indices can be opened, so the user
// can fix their configuration.
func probe(failed int) {
	for i := 0; i < probeRange; i++ {
		if i == failed {
			continue
		}
		test, err := gocv.OpenVideoCapture(i)
		if err != nil || !test.IsOpened() {
			if test != nil {
				test.Close()
			}
			continue
		}
		test.Close()
		log.Info("found working camera, update CAMERA_INDEX", "index", i)
	}
}

// Read captures the next frame into dst, mirrored horizontally so the
// preview behaves like a mirror.
func (c *Camera) Read(dst *gocv.Mat) error {
	if ok := c.cap.Read(dst); !ok || dst.Empty() {
		return ErrFrameRead
	}
	gocv.Flip(*dst, dst, 1)
	return nil
}

// Close releases the capture device.
func (c *Camera) Close() error {
	log.Info("releasing camera", "index", c.index)
	return c.cap.Close()
}
