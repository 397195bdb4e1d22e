package gaze

import (
	"image"

	"github.com/gazekeeper/gazekeeper/pkg/facemesh"
)

// Offset is the iris displacement from its eye-socket center, in pixels.
type Offset struct {
	DX int
	DY int
}

// EyeCenter returns the mean pixel position of the eye-socket landmarks
// at the given indices. Coordinates are truncated to integer pixels.
// The caller must have validated that the mesh covers the indices.
func EyeCenter(mesh *facemesh.Mesh, indices []int, width, height int) image.Point {
	return centerOf(mesh, indices, width, height)
}

// IrisCenter returns the mean pixel position of the iris landmarks
// at the given indices.
func IrisCenter(mesh *facemesh.Mesh, indices []int, width, height int) image.Point {
	return centerOf(mesh, indices, width, height)
}

func centerOf(mesh *facemesh.Mesh, indices []int, width, height int) image.Point {
	var sumX, sumY float64
	for _, idx := range indices {
		p := mesh.At(idx)
		sumX += p.X * float64(width)
		sumY += p.Y * float64(height)
	}
	n := float64(len(indices))
	return image.Pt(int(sumX/n), int(sumY/n))
}

// offsetBetween returns iris center minus eye center.
func offsetBetween(eye, iris image.Point) Offset {
	return Offset{DX: iris.X - eye.X, DY: iris.Y - eye.Y}
}
