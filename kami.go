package kami

import "math"

// Vec2 is a 2D vector used for pointer positions and sizes.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a widget position. X and Y are planar world coordinates; Z is the
// stacking depth, which doubles as the overlap priority.
type Vec3 struct {
	X, Y, Z float64
}

// XY drops the depth component.
func (v Vec3) XY() Vec2 {
	return Vec2{X: v.X, Y: v.Y}
}

// Rect is an axis-aligned rectangle anchored at its minimum corner.
type Rect struct {
	X, Y, Width, Height float64
}

// RectFromCenter returns the rectangle of the given size centred on (cx, cy).
func RectFromCenter(cx, cy float64, size Vec2) Rect {
	return Rect{
		X:      cx - size.X/2,
		Y:      cy - size.Y/2,
		Width:  size.X,
		Height: size.Y,
	}
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Range is a half-open [Min, Max) interval.
type Range struct {
	Min, Max float64
}

func (r Range) valid() bool {
	return r.Max > r.Min && !math.IsInf(r.Min, 0) && !math.IsInf(r.Max, 0)
}

// SpawnArea bounds the random positions given to widgets created by rules.
type SpawnArea struct {
	X, Y Range
	// Z sets both the draw depth and the overlap priority of the new widget.
	Z Range
}

// DefaultWidgetSize is the fixed size shared by every widget.
var DefaultWidgetSize = Vec2{X: 100, Y: 100}

// DefaultSpawnArea places new widgets near the origin at a random depth.
var DefaultSpawnArea = SpawnArea{
	X: Range{Min: -100, Max: 100},
	Y: Range{Min: -100, Max: 100},
	Z: Range{Min: 0, Max: 500},
}

// FrameInput is the pointer state for one tick. Pointer is already in world
// coordinates.
type FrameInput struct {
	Pointer Vec2
	// Pressed is true on the tick the primary button went down.
	Pressed bool
	// Released is true on the tick the primary button came up.
	Released bool
}
