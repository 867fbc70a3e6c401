package display

import (
	"testing"
)

func TestInputPrimaryEdges(t *testing.T) {
	cam := testCamera()
	var in Input

	steps := []struct {
		down              bool
		pressed, released bool
	}{
		{false, false, false},
		{true, true, false},
		{true, false, false},
		{false, false, true},
		{false, false, false},
	}
	for i, st := range steps {
		fi := in.apply(cam, pointerSnapshot{x: 400, y: 300, primary: st.down})
		if fi.Pressed != st.pressed || fi.Released != st.released {
			t.Errorf("frame %d: pressed=%v released=%v, want %v %v", i, fi.Pressed, fi.Released, st.pressed, st.released)
		}
	}
}

func TestInputPointerInWorldSpace(t *testing.T) {
	cam := testCamera()
	cam.X, cam.Y = 100, 100
	cam.SetZoom(2)
	var in Input

	fi := in.apply(cam, pointerSnapshot{x: 500, y: 300})
	if !approxEqual(fi.Pointer.X, 150, epsilon) || !approxEqual(fi.Pointer.Y, 100, epsilon) {
		t.Errorf("pointer = %v, want (150, 100)", fi.Pointer)
	}
}

func TestInputRightDragPans(t *testing.T) {
	cam := testCamera()
	var in Input

	in.apply(cam, pointerSnapshot{x: 100, y: 100, pan: true})
	in.apply(cam, pointerSnapshot{x: 150, y: 80, pan: true})
	if !approxEqual(cam.X, -50, epsilon) || !approxEqual(cam.Y, 20, epsilon) {
		t.Errorf("cam = (%v,%v), want (-50,20)", cam.X, cam.Y)
	}

	in.apply(cam, pointerSnapshot{x: 300, y: 300})
	in.apply(cam, pointerSnapshot{x: 400, y: 400})
	if !approxEqual(cam.X, -50, epsilon) {
		t.Error("moving without the pan button should not pan")
	}
}

func TestInputPanDoesNotPress(t *testing.T) {
	cam := testCamera()
	var in Input
	fi := in.apply(cam, pointerSnapshot{pan: true})
	if fi.Pressed || fi.Released {
		t.Error("the pan button should not produce primary edges")
	}
}

func TestInputWheelZooms(t *testing.T) {
	cam := testCamera()
	var in Input
	in.apply(cam, pointerSnapshot{x: 400, y: 300, wheel: 1})
	if !approxEqual(cam.Zoom, zoomStep, epsilon) {
		t.Errorf("Zoom = %v, want %v", cam.Zoom, zoomStep)
	}
	in.apply(cam, pointerSnapshot{x: 400, y: 300, wheel: -1})
	if !approxEqual(cam.Zoom, 1, 1e-9) {
		t.Errorf("Zoom = %v, want 1", cam.Zoom)
	}
}

func TestInputHomeScrolls(t *testing.T) {
	cam := testCamera()
	cam.X, cam.Y = 500, 500
	var in Input
	in.apply(cam, pointerSnapshot{home: true})
	if !cam.Scrolling() {
		t.Fatal("Home should start a scroll")
	}
	for i := 0; i < 60 && cam.Scrolling(); i++ {
		cam.Update(1.0 / 60)
	}
	if !approxEqual(cam.X, 0, 1) || !approxEqual(cam.Y, 0, 1) {
		t.Errorf("cam = (%v,%v), want ~(0,0)", cam.X, cam.Y)
	}
}
