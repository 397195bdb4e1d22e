package gaze

import (
	"image"
	"testing"

	"github.com/gazekeeper/gazekeeper/pkg/facemesh"
)

func meshWith(points map[int]facemesh.Landmark) *facemesh.Mesh {
	mesh := &facemesh.Mesh{Points: make([]facemesh.Landmark, facemesh.NumLandmarks)}
	for idx, p := range points {
		mesh.Points[idx] = p
	}
	return mesh
}

func TestEyeCenter_PixelScaledMean(t *testing.T) {
	tests := []struct {
		name    string
		indices []int
		points  map[int]facemesh.Landmark
		width   int
		height  int
		want    image.Point
	}{
		{
			name:    "all landmarks on one point",
			indices: facemesh.LeftEye,
			points: map[int]facemesh.Landmark{
				362: {X: 0.5, Y: 0.5}, 385: {X: 0.5, Y: 0.5}, 387: {X: 0.5, Y: 0.5},
				263: {X: 0.5, Y: 0.5}, 373: {X: 0.5, Y: 0.5}, 380: {X: 0.5, Y: 0.5},
			},
			width:  640,
			height: 480,
			want:   image.Pt(320, 240),
		},
		{
			name:    "mean over two distinct columns",
			indices: []int{0, 1},
			points: map[int]facemesh.Landmark{
				0: {X: 0.1, Y: 0.2},
				1: {X: 0.3, Y: 0.4},
			},
			width:  100,
			height: 100,
			// mean x = (10+30)/2 = 20, mean y = (20+40)/2 = 30
			want: image.Pt(20, 30),
		},
		{
			name:    "fractional mean truncates toward zero",
			indices: []int{0, 1, 2},
			points: map[int]facemesh.Landmark{
				0: {X: 0.10, Y: 0.10},
				1: {X: 0.11, Y: 0.11},
				2: {X: 0.11, Y: 0.12},
			},
			width:  100,
			height: 100,
			// mean x = 32/3 = 10.67 -> 10, mean y = 33/3 = 11
			want: image.Pt(10, 11),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EyeCenter(meshWith(tc.points), tc.indices, tc.width, tc.height)
			if got != tc.want {
				t.Errorf("EyeCenter = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIrisCenter_MatchesEyeCenterMath(t *testing.T) {
	points := map[int]facemesh.Landmark{
		474: {X: 0.25, Y: 0.5},
		475: {X: 0.26, Y: 0.5},
		476: {X: 0.25, Y: 0.52},
		477: {X: 0.26, Y: 0.52},
	}
	mesh := meshWith(points)

	got := IrisCenter(mesh, facemesh.LeftIris, 400, 400)
	// mean x = (100+104+100+104)/4 = 102, mean y = (200+200+208+208)/4 = 204
	want := image.Pt(102, 204)
	if got != want {
		t.Errorf("IrisCenter = %v, want %v", got, want)
	}

	if eye := EyeCenter(mesh, facemesh.LeftIris, 400, 400); eye != got {
		t.Errorf("EyeCenter and IrisCenter disagree on identical input: %v vs %v", eye, got)
	}
}

func TestOffsetBetween(t *testing.T) {
	got := offsetBetween(image.Pt(100, 100), image.Pt(97, 103))
	if got.DX != -3 || got.DY != 3 {
		t.Errorf("offset = (%d,%d), want (-3,3)", got.DX, got.DY)
	}
}
