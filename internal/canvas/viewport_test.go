package canvas

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps*math.Max(1, math.Abs(a))
}

func TestZoomKeepsFocalPointFixed(t *testing.T) {
	tests := []struct {
		name           string
		panX, panY     float64
		focalX, focalY float64
		factors        []float64
	}{
		{"in at origin", 0, 0, 0, 0, []float64{2}},
		{"in off center", 37, -12, 420, 310, []float64{1.1, 1.1, 1.1}},
		{"out past min", 5, 5, 100, 80, []float64{0.01}},
		{"in past max", -200, 40, 640, 360, []float64{3, 3, 3}},
		{"mixed", 10, 20, 15, 25, []float64{0.5, 4, 0.25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewport()
			v.Pan(tt.panX, tt.panY)

			for _, f := range tt.factors {
				before := v.ToWorld(tt.focalX, tt.focalY)
				v.Zoom(tt.focalX, tt.focalY, f)
				after := v.ToWorld(tt.focalX, tt.focalY)

				if !near(before.X, after.X) || !near(before.Y, after.Y) {
					t.Fatalf("factor %v moved focal world point %+v -> %+v", f, before, after)
				}
				if s := v.Scale(); s < MinScale || s > MaxScale {
					t.Fatalf("scale %v escaped clamp", s)
				}
			}
		})
	}
}

func TestScaleIsClamped(t *testing.T) {
	v := NewViewport()
	v.Zoom(0, 0, 1000)
	if v.Scale() != MaxScale {
		t.Fatalf("scale = %v, want %v", v.Scale(), MaxScale)
	}
	v.Zoom(0, 0, 1e-6)
	if v.Scale() != MinScale {
		t.Fatalf("scale = %v, want %v", v.Scale(), MinScale)
	}
}

func TestPanIsScreenSpace(t *testing.T) {
	v := NewViewport()
	v.Zoom(0, 0, 2)
	v.Pan(10, -4)

	if off := v.Offset(); off.X != 10 || off.Y != -4 {
		t.Fatalf("offset = %+v", off)
	}

	w := v.ToWorld(30, 16)
	if w.X != 10 || w.Y != 10 {
		t.Fatalf("ToWorld = %+v, want {10 10}", w)
	}

	s := v.ToScreen(w.X, w.Y)
	if s.X != 30 || s.Y != 16 {
		t.Fatalf("ToScreen round trip = %+v", s)
	}
}

func TestWheelAndReset(t *testing.T) {
	v := NewViewport()
	v.Wheel(50, 50, -100)
	if !near(v.Scale(), 1.1) {
		t.Fatalf("scale after wheel = %v, want 1.1", v.Scale())
	}

	v.Reset()
	if v.Scale() != 1 || v.Offset() != (Point{}) {
		t.Fatalf("reset left %v %+v", v.Scale(), v.Offset())
	}
}
