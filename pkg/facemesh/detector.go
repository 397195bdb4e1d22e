package facemesh

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/gazekeeper/gazekeeper/pkg/debug"
)

// Provider is the interface for landmark detection backends.
type Provider interface {
	// Detect finds at most one face in the frame and returns its mesh.
	// A (nil, nil) return means no face was found.
	Detect(frame gocv.Mat) (*Mesh, error)

	// Close releases resources
	Close() error
}

// Detector locates a face with OpenCV's FaceDetectorYN and runs the
// attention-mesh landmark net on the face crop.
type Detector struct {
	locator gocv.FaceDetectorYN
	mesh    gocv.Net
	config  Config
	mu      sync.Mutex // Protects inference
}

// NewDetector creates a landmark detector from the configured ONNX models.
func NewDetector(cfg Config) (*Detector, error) {
	for _, path := range []string{cfg.FaceModelPath, cfg.MeshModelPath} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("model file not found: %s", path)
		}
	}

	locator := gocv.NewFaceDetectorYNWithParams(
		cfg.FaceModelPath,
		"", // No config file needed for ONNX
		image.Pt(320, 320),
		float32(cfg.ConfidenceThresh),
		0.3,  // NMS threshold
		5000, // Top K
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	mesh := gocv.ReadNetFromONNX(cfg.MeshModelPath)
	if mesh.Empty() {
		locator.Close()
		return nil, fmt.Errorf("failed to load mesh model: %s", cfg.MeshModelPath)
	}

	return &Detector{
		locator: locator,
		mesh:    mesh,
		config:  cfg,
	}, nil
}

// Detect finds the most prominent face in the frame and returns its mesh.
func (d *Detector) Detect(frame gocv.Mat) (*Mesh, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if frame.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	roi, ok := d.locateFace(frame)
	if !ok {
		return nil, nil
	}

	mesh, err := d.meshForROI(frame, roi)
	if err != nil {
		return nil, err
	}

	debug.GazeLog("facemesh: %d landmarks in roi %v\n", len(mesh.Points), roi)
	return mesh, nil
}

// locateFace runs the YuNet locator and returns the highest-scoring
// face box, padded so the mesh model sees the whole head.
func (d *Detector) locateFace(frame gocv.Mat) (image.Rectangle, bool) {
	d.locator.SetInputSize(image.Pt(frame.Cols(), frame.Rows()))

	faces := gocv.NewMat()
	defer faces.Close()
	d.locator.Detect(frame, &faces)

	best := -1
	bestScore := float32(0)
	for r := 0; r < faces.Rows(); r++ {
		// YuNet row: x, y, w, h, 10 landmark floats, score
		if score := faces.GetFloatAt(r, 14); score > bestScore {
			bestScore = score
			best = r
		}
	}
	if best < 0 {
		return image.Rectangle{}, false
	}

	x := float64(faces.GetFloatAt(best, 0))
	y := float64(faces.GetFloatAt(best, 1))
	w := float64(faces.GetFloatAt(best, 2))
	h := float64(faces.GetFloatAt(best, 3))

	// Pad the box by 25% per side; the mesh model expects a loose crop.
	padX, padY := w*0.25, h*0.25
	roi := image.Rect(
		int(x-padX), int(y-padY),
		int(x+w+padX), int(y+h+padY),
	).Intersect(image.Rect(0, 0, frame.Cols(), frame.Rows()))

	if roi.Empty() {
		return image.Rectangle{}, false
	}
	return roi, true
}

// meshForROI runs the landmark net on the crop and maps the points back
// into full-frame normalized coordinates.
func (d *Detector) meshForROI(frame gocv.Mat, roi image.Rectangle) (*Mesh, error) {
	crop := frame.Region(roi)
	defer crop.Close()

	edge := d.config.InputSize
	input := gocv.NewMat()
	defer input.Close()
	gocv.Resize(crop, &input, image.Pt(edge, edge), 0, 0, gocv.InterpolationLinear)

	blob := gocv.BlobFromImage(input, 1.0/255.0, image.Pt(edge, edge),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mesh.SetInput(blob, "")
	out := d.mesh.Forward("")
	defer out.Close()

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read mesh output: %w", err)
	}
	if len(data) < NumLandmarks*3 {
		return nil, fmt.Errorf("unexpected mesh output size %d", len(data))
	}

	frameW := float64(frame.Cols())
	frameH := float64(frame.Rows())
	roiW := float64(roi.Dx())
	roiH := float64(roi.Dy())

	points := make([]Landmark, NumLandmarks)
	for i := 0; i < NumLandmarks; i++ {
		// Model output is x,y,z triples in input-pixel scale.
		cx := float64(data[i*3]) / float64(edge)
		cy := float64(data[i*3+1]) / float64(edge)
		points[i] = Landmark{
			X: (float64(roi.Min.X) + cx*roiW) / frameW,
			Y: (float64(roi.Min.Y) + cy*roiH) / frameH,
		}
	}

	return &Mesh{Points: points}, nil
}

// Close releases the detector resources
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.locator.Close()
	return d.mesh.Close()
}
