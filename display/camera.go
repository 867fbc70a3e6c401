package display

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/kami"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Zoom limits applied by ZoomAt and SetZoom.
const (
	MinZoom = 0.5
	MaxZoom = 40.0
)

// DefaultBounds is the world-space rectangle the camera centre is kept in.
var DefaultBounds = kami.Rect{X: -2000, Y: -2000, Width: 4000, Height: 4000}

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera maps world space to the screen: a centre position, a zoom factor
// and the viewport it renders into. Y grows downward in both spaces.
type Camera struct {
	// X and Y are the world-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport kami.Rect
	// Bounds limits X and Y. A zero Bounds disables clamping.
	Bounds kami.Rect

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool

	scrollTween *scrollAnim
}

// NewCamera creates a camera centred on the origin with DefaultBounds.
func NewCamera(viewport kami.Rect) *Camera {
	return &Camera{
		Zoom:     1.0,
		Viewport: viewport,
		Bounds:   DefaultBounds,
		dirty:    true,
	}
}

// SetViewport changes the screen rectangle, for example after a resize.
func (c *Camera) SetViewport(viewport kami.Rect) {
	if c.Viewport != viewport {
		c.Viewport = viewport
		c.dirty = true
	}
}

// ScrollTo animates the camera to the given world position over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// Pan moves the camera by a screen-space delta, so content follows the
// pointer at any zoom. It cancels a running ScrollTo.
func (c *Camera) Pan(dsx, dsy float64) {
	c.scrollTween = nil
	c.X -= dsx / c.Zoom
	c.Y -= dsy / c.Zoom
	c.clampToBounds()
	c.dirty = true
}

// SetZoom sets the zoom, clamped to [MinZoom, MaxZoom].
func (c *Camera) SetZoom(z float64) {
	c.Zoom = clampZoom(z)
	c.dirty = true
}

// ZoomAt multiplies the zoom by factor while keeping the world point under
// screen position (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float64) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.Zoom = clampZoom(c.Zoom * factor)
	c.dirty = true

	// Re-centre so (wx, wy) lands back on (sx, sy).
	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	c.X = wx - (sx-cx)/c.Zoom
	c.Y = wy - (sy-cy)/c.Zoom
	c.clampToBounds()
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Max(MinZoom, math.Min(z, MaxZoom))
}

// Update advances the scroll animation and applies bounds clamping.
func (c *Camera) Update(dt float32) {
	prevX, prevY := c.X, c.Y

	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	c.clampToBounds()

	if c.X != prevX || c.Y != prevY {
		c.dirty = true
	}
}

// clampToBounds keeps the camera centre inside Bounds.
func (c *Camera) clampToBounds() {
	if c.Bounds == (kami.Rect{}) {
		return
	}
	c.X = math.Max(c.Bounds.X, math.Min(c.X, c.Bounds.X+c.Bounds.Width))
	c.Y = math.Max(c.Bounds.Y, math.Min(c.Y, c.Bounds.Y+c.Bounds.Height))
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = Translate(cx, cy) * Scale(zoom) * Translate(-X, -Y)
// where cx, cy = viewport center.
func (c *Camera) computeViewMatrix() [6]float64 {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	z := c.Zoom

	c.viewMatrix = [6]float64{z, 0, 0, z, cx - z*c.X, cy - z*c.Y}
	c.invViewMatrix = invertAffine(c.viewMatrix)
	return c.viewMatrix
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	c.computeViewMatrix()
	sx, sy = transformPoint(c.viewMatrix, wx, wy)
	return
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.computeViewMatrix()
	wx, wy = transformPoint(c.invViewMatrix, sx, sy)
	return
}

// VisibleBounds returns the world-space rectangle covered by the viewport.
func (c *Camera) VisibleBounds() kami.Rect {
	x0, y0 := c.ScreenToWorld(c.Viewport.X, c.Viewport.Y)
	x1, y1 := c.ScreenToWorld(c.Viewport.X+c.Viewport.Width, c.Viewport.Y+c.Viewport.Height)
	return kami.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// geoM returns the view matrix as an ebiten.GeoM.
func (c *Camera) geoM() ebiten.GeoM {
	m := c.computeViewMatrix()
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}
