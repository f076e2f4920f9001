// Package canvas maps between screen pixels and whiteboard world space.
package canvas

import "math"

const (
	MinScale = 0.1
	MaxScale = 5.0

	// wheelBase is the zoom factor applied per 100 units of wheel delta.
	wheelBase = 1.1
)

// Point is a pair of coordinates, in screen or world space depending on
// where it came from.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is a scale plus a screen-space offset. The zero value is not
// usable; call NewViewport.
type Viewport struct {
	scale   float64
	offsetX float64
	offsetY float64
}

func NewViewport() *Viewport {
	return &Viewport{scale: 1}
}

func (v *Viewport) Scale() float64 {
	return v.scale
}

func (v *Viewport) Offset() Point {
	return Point{X: v.offsetX, Y: v.offsetY}
}

// ToWorld converts a screen position into world coordinates.
func (v *Viewport) ToWorld(screenX, screenY float64) Point {
	return Point{
		X: (screenX - v.offsetX) / v.scale,
		Y: (screenY - v.offsetY) / v.scale,
	}
}

// ToScreen is the inverse of ToWorld.
func (v *Viewport) ToScreen(worldX, worldY float64) Point {
	return Point{
		X: worldX*v.scale + v.offsetX,
		Y: worldY*v.scale + v.offsetY,
	}
}

// Zoom multiplies the scale by factor, clamped to [MinScale, MaxScale],
// keeping the world point under the focal screen position in place.
func (v *Viewport) Zoom(focalX, focalY, factor float64) {
	next := clamp(v.scale*factor, MinScale, MaxScale)
	ratio := next / v.scale

	v.offsetX = focalX - (focalX-v.offsetX)*ratio
	v.offsetY = focalY - (focalY-v.offsetY)*ratio
	v.scale = next
}

// Wheel zooms around the focal point for a mouse wheel delta, where a
// positive delta zooms out.
func (v *Viewport) Wheel(focalX, focalY, deltaY float64) {
	v.Zoom(focalX, focalY, math.Pow(wheelBase, -deltaY/100))
}

// Pan shifts the view by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.offsetX += dx
	v.offsetY += dy
}

func (v *Viewport) Reset() {
	v.scale = 1
	v.offsetX = 0
	v.offsetY = 0
}

func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return lo
	}
	return math.Min(math.Max(x, lo), hi)
}
