package kami

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in an input script.
type scriptStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// script is the top-level JSON structure for an input script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// pointerSample is one frame of synthetic primary-button input in world
// coordinates.
type pointerSample struct {
	x, y float64
	down bool
}

// ScriptRunner replays pointer input one frame at a time, for headless runs
// and tests. Coordinates are world coordinates.
//
// Supported actions: "press", "move", "release" and "click" at (x, y);
// "drag" from (fromX, fromY) to (toX, toY) over frames (minimum 2); and
// "wait" for frames, holding the current pointer state.
type ScriptRunner struct {
	samples []pointerSample
	cursor  int
	down    bool
}

// LoadScript parses a JSON input script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: no steps")
	}
	r := &ScriptRunner{}
	for i, st := range s.Steps {
		if err := r.expand(st); err != nil {
			return nil, fmt.Errorf("parse input script: step %d: %w", i, err)
		}
	}
	return r, nil
}

// NewScript returns an empty runner to be filled with Press, Move, Release,
// Click, Drag and Wait.
func NewScript() *ScriptRunner {
	return &ScriptRunner{}
}

func (r *ScriptRunner) expand(st scriptStep) error {
	switch st.Action {
	case "press":
		r.Press(st.X, st.Y)
	case "move":
		r.Move(st.X, st.Y)
	case "release":
		r.Release(st.X, st.Y)
	case "click":
		r.Click(st.X, st.Y)
	case "drag":
		r.Drag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		r.Wait(st.Frames)
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// last returns the most recently queued sample, or a released pointer at the
// origin.
func (r *ScriptRunner) last() pointerSample {
	if len(r.samples) == 0 {
		return pointerSample{}
	}
	return r.samples[len(r.samples)-1]
}

// Press queues a frame with the button going down at (x, y).
func (r *ScriptRunner) Press(x, y float64) *ScriptRunner {
	r.samples = append(r.samples, pointerSample{x: x, y: y, down: true})
	return r
}

// Move queues a frame with the pointer at (x, y) and the button unchanged.
func (r *ScriptRunner) Move(x, y float64) *ScriptRunner {
	r.samples = append(r.samples, pointerSample{x: x, y: y, down: r.last().down})
	return r
}

// Release queues a frame with the button coming up at (x, y).
func (r *ScriptRunner) Release(x, y float64) *ScriptRunner {
	r.samples = append(r.samples, pointerSample{x: x, y: y, down: false})
	return r
}

// Click queues a press followed by a release at (x, y). Consumes two frames.
func (r *ScriptRunner) Click(x, y float64) *ScriptRunner {
	return r.Press(x, y).Release(x, y)
}

// Drag queues a press at (fromX, fromY), linearly interpolated moves over
// frames-2 intermediate frames, and a release at (toX, toY).
func (r *ScriptRunner) Drag(fromX, fromY, toX, toY float64, frames int) *ScriptRunner {
	if frames < 2 {
		frames = 2
	}
	r.Press(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		r.Move(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	return r.Release(toX, toY)
}

// Wait queues frames idle frames that repeat the last pointer state.
func (r *ScriptRunner) Wait(frames int) *ScriptRunner {
	l := r.last()
	for i := 0; i < frames; i++ {
		r.samples = append(r.samples, l)
	}
	return r
}

// Len returns the number of frames the script produces.
func (r *ScriptRunner) Len() int {
	return len(r.samples)
}

// Done reports whether every frame has been consumed.
func (r *ScriptRunner) Done() bool {
	return r.cursor >= len(r.samples)
}

// Next returns the input for the next frame. Press and release edges are
// derived from the change in button state since the previous frame.
func (r *ScriptRunner) Next() (FrameInput, bool) {
	if r.Done() {
		return FrameInput{}, false
	}
	s := r.samples[r.cursor]
	r.cursor++

	in := FrameInput{
		Pointer:  Vec2{X: s.x, Y: s.y},
		Pressed:  s.down && !r.down,
		Released: !s.down && r.down,
	}
	r.down = s.down
	return in, true
}
