package display

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/kami"
	"github.com/tanema/gween/ease"
)

// zoomStep is the zoom factor applied per wheel notch.
const zoomStep = 1.1

// homeScrollSeconds is how long the Home key takes to re-centre the camera.
const homeScrollSeconds = 0.4

// pointerSnapshot is the raw device state for one frame, in screen space.
type pointerSnapshot struct {
	x, y    float64
	primary bool // left button held
	pan     bool // right button held
	wheel   float64
	home    bool // Home key went down this frame
}

// readPointer samples the mouse and keyboard through ebiten.
func readPointer() pointerSnapshot {
	mx, my := ebiten.CursorPosition()
	_, wy := ebiten.Wheel()
	return pointerSnapshot{
		x:       float64(mx),
		y:       float64(my),
		primary: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		pan:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		wheel:   wy,
		home:    inpututil.IsKeyJustPressed(ebiten.KeyHome),
	}
}

// Input turns held-button state into the per-frame edges the engine wants,
// and drives the camera from the secondary button, the wheel and the Home
// key.
type Input struct {
	primaryDown bool

	panning    bool
	panX, panY float64
}

// Poll reads the devices, updates cam and returns the frame's input with
// the pointer in world space.
func (in *Input) Poll(cam *Camera) kami.FrameInput {
	return in.apply(cam, readPointer())
}

func (in *Input) apply(cam *Camera, s pointerSnapshot) kami.FrameInput {
	// Camera first, so the pointer is converted with this frame's view.
	switch {
	case s.pan && !in.panning:
		in.panning = true
	case s.pan:
		cam.Pan(s.x-in.panX, s.y-in.panY)
	default:
		in.panning = false
	}
	in.panX, in.panY = s.x, s.y

	if s.wheel != 0 {
		cam.ZoomAt(s.x, s.y, math.Pow(zoomStep, s.wheel))
	}
	if s.home {
		cam.ScrollTo(0, 0, homeScrollSeconds, ease.OutCubic)
	}

	wx, wy := cam.ScreenToWorld(s.x, s.y)
	fi := kami.FrameInput{
		Pointer:  kami.Vec2{X: wx, Y: wy},
		Pressed:  s.primary && !in.primaryDown,
		Released: !s.primary && in.primaryDown,
	}
	in.primaryDown = s.primary
	return fi
}
