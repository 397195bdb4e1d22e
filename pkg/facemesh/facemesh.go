// Package facemesh provides face landmark detection for gaze tracking.
//
// The landmark model is treated as a black box: a frame goes in, a set of
// named normalized 2D points comes out, or nothing when no face is visible.
// Landmark numbering follows the MediaPipe Face Mesh convention so the
// published index tables apply directly.
package facemesh

// NumLandmarks is the size of a full attention-mesh output
// (468 face points plus 10 iris points).
const NumLandmarks = 478

// Eye and iris landmark indices, MediaPipe Face Mesh numbering.
var (
	LeftEye   = []int{362, 385, 387, 263, 373, 380}
	RightEye  = []int{33, 160, 158, 133, 153, 144}
	LeftIris  = []int{474, 475, 476, 477}
	RightIris = []int{469, 470, 471, 472}
)

// Landmark is a single model-predicted point, normalized to [0,1]
// of frame width/height.
type Landmark struct {
	X float64
	Y float64
}

// Mesh holds one detected face's landmark set for a single frame.
// Meshes are ephemeral: recomputed every frame, never cached.
type Mesh struct {
	Points []Landmark
}

// At returns the landmark at the given mesh index.
func (m *Mesh) At(idx int) Landmark {
	return m.Points[idx]
}

// Valid reports whether the mesh covers the iris indices needed for gaze.
func (m *Mesh) Valid() bool {
	return m != nil && len(m.Points) >= NumLandmarks
}

// Config holds detector configuration.
type Config struct {
	FaceModelPath    string  // Path to the YuNet face locator ONNX model
	MeshModelPath    string  // Path to the attention-mesh landmark ONNX model
	ConfidenceThresh float64 // Minimum face score (default 0.4)
	InputSize        int     // Landmark model input edge in pixels
}

// DefaultConfig returns production defaults for the attention mesh.
func DefaultConfig() Config {
	return Config{
		FaceModelPath:    "models/face_detection_yunet.onnx",
		MeshModelPath:    "models/face_landmarks_with_attention.onnx",
		ConfidenceThresh: 0.4,
		InputSize:        192,
	}
}
