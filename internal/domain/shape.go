package domain

import (
	"errors"
	"fmt"
)

// Tool is the drawing primitive a shape was produced with.
type Tool string

const (
	ToolPen      Tool = "pen"
	ToolEraser   Tool = "eraser"
	ToolLine     Tool = "line"
	ToolRect     Tool = "rect"
	ToolCircle   Tool = "circle"
	ToolTriangle Tool = "triangle"
)

var (
	ErrUnderflow   = errors.New("shape log underflow")
	ErrInvalidTool = errors.New("invalid tool")
)

// IsSegment reports whether shapes of this tool are freehand segments that
// belong to a stroke.
func (t Tool) IsSegment() bool {
	return t == ToolPen || t == ToolEraser
}

// Destructive reports whether the shape erases what was drawn before it.
func (t Tool) Destructive() bool {
	return t == ToolEraser
}

func (t Tool) Valid() bool {
	switch t {
	case ToolPen, ToolEraser, ToolLine, ToolRect, ToolCircle, ToolTriangle:
		return true
	}
	return false
}

// Shape is one immutable whiteboard primitive in world coordinates.
type Shape struct {
	Tool  Tool    `json:"tool"`
	Color string  `json:"color"`
	X0    float64 `json:"x0"`
	Y0    float64 `json:"y0"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
}

func NewShape(tool Tool, color string, x0, y0, x1, y1 float64) (Shape, error) {
	if !tool.Valid() {
		return Shape{}, fmt.Errorf("%w: %q", ErrInvalidTool, tool)
	}

	return Shape{
		Tool:  tool,
		Color: color,
		X0:    x0,
		Y0:    y0,
		X1:    x1,
		Y1:    y1,
	}, nil
}

// ShapeLog is the ordered record of every shape drawn in a room. It is not
// safe for concurrent use; the owner serializes access.
type ShapeLog struct {
	shapes []Shape
}

func NewShapeLog() *ShapeLog {
	return &ShapeLog{
		shapes: make([]Shape, 0, 256),
	}
}

// Append adds s to the end of the log and returns the new length.
func (l *ShapeLog) Append(s Shape) int {
	l.shapes = append(l.shapes, s)
	return len(l.shapes)
}

func (l *ShapeLog) Len() int {
	return len(l.shapes)
}

// LastN returns a copy of the last n shapes without removing them.
func (l *ShapeLog) LastN(n int) ([]Shape, error) {
	if n < 0 || n > len(l.shapes) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrUnderflow, n, len(l.shapes))
	}

	out := make([]Shape, n)
	copy(out, l.shapes[len(l.shapes)-n:])
	return out, nil
}

// PopLastN removes the last n shapes and returns them in append order.
// The log never truncates silently: callers clamp n first.
func (l *ShapeLog) PopLastN(n int) ([]Shape, error) {
	out, err := l.LastN(n)
	if err != nil {
		return nil, err
	}

	clear(l.shapes[len(l.shapes)-n:])
	l.shapes = l.shapes[:len(l.shapes)-n]
	return out, nil
}

// Clear empties the log. Stroke history over this log must be reset by the
// caller as well.
func (l *ShapeLog) Clear() {
	clear(l.shapes)
	l.shapes = l.shapes[:0]
}

// Snapshot returns a copy of the whole log in append order.
func (l *ShapeLog) Snapshot() []Shape {
	out := make([]Shape, len(l.shapes))
	copy(out, l.shapes)
	return out
}
