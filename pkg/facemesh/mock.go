package facemesh

import (
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Mock implements Provider for testing.
// All methods can be customized via function fields.
type Mock struct {
	// DetectFunc is called when Detect is invoked.
	// If nil, returns (nil, nil): no face.
	DetectFunc func(frame gocv.Mat) (*Mesh, error)

	// CloseFunc is called when Close is invoked.
	// If nil, returns nil.
	CloseFunc func() error

	// Tracking
	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method string
	Time   time.Time
}

// NewMock creates a mock provider that reports no face.
func NewMock() *Mock {
	return &Mock{}
}

// NewMockWithMesh creates a mock provider that always returns the given mesh.
func NewMockWithMesh(mesh *Mesh) *Mock {
	return &Mock{
		DetectFunc: func(gocv.Mat) (*Mesh, error) {
			return mesh, nil
		},
	}
}

// Detect implements Provider.
func (m *Mock) Detect(frame gocv.Mat) (*Mesh, error) {
	m.record("Detect")
	if m.DetectFunc != nil {
		return m.DetectFunc(frame)
	}
	return nil, nil
}

// Close implements Provider.
func (m *Mock) Close() error {
	m.record("Close")
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Calls returns a copy of the recorded invocations.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *Mock) record(method string) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Method: method, Time: time.Now()})
	m.mu.Unlock()
}

// SyntheticMesh builds a full-size mesh where the eye and iris index sets
// each collapse onto a single normalized point, so their pixel means are
// exactly the given centers. Handy for deterministic classifier tests.
func SyntheticMesh(leftEye, rightEye, leftIris, rightIris Landmark) *Mesh {
	mesh := &Mesh{Points: make([]Landmark, NumLandmarks)}
	for _, idx := range LeftEye {
		mesh.Points[idx] = leftEye
	}
	for _, idx := range RightEye {
		mesh.Points[idx] = rightEye
	}
	for _, idx := range LeftIris {
		mesh.Points[idx] = leftIris
	}
	for _, idx := range RightIris {
		mesh.Points[idx] = rightIris
	}
	return mesh
}
