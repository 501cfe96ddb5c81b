package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, 40, 25)

	// Should be centered on the room
	if cam.X != 20 || cam.Y != 12.5 {
		t.Errorf("expected camera at (20, 12.5), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	// 720/25 = 28.8 is tighter than 1280/40 = 32
	if !near(cam.Scale(), 28.8) {
		t.Errorf("expected fit scale 28.8, got %f", cam.Scale())
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 40, 25)

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(20, 12.5)
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}

	// Whole room fits at zoom 1
	_, top := cam.WorldToScreen(20, 0)
	_, bottom := cam.WorldToScreen(20, 25)
	if !near(top, 0) || !near(bottom, 720) {
		t.Errorf("room should span the viewport height, got %f..%f", top, bottom)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 40, 25)
	cam.SetZoom(2)
	cam.Pan(100, -50)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanClampedToRoom(t *testing.T) {
	cam := New(1280, 720, 40, 25)

	cam.Pan(-1e6, 1e6)
	if cam.X != 0 || cam.Y != 25 {
		t.Errorf("expected center clamped to (0, 25), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 40, 25)

	cam.ZoomBy(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected max zoom %f, got %f", cam.MaxZoom, cam.Zoom)
	}
	cam.ZoomBy(0.0001)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected min zoom %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.Reset()
	if cam.Zoom != 1 || cam.X != 20 {
		t.Errorf("reset failed: zoom %f x %f", cam.Zoom, cam.X)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 40, 25)
	cam.SetZoom(4)

	if !cam.IsVisible(20, 12.5, 0.5) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(0, 0, 0.5) {
		t.Error("corner should be culled at zoom 4")
	}
}

func TestResize(t *testing.T) {
	cam := New(1280, 720, 40, 25)
	cam.Resize(640, 720)

	// Width is now the tighter axis: 640/40 = 16
	if !near(cam.Scale(), 16) {
		t.Errorf("expected scale 16 after resize, got %f", cam.Scale())
	}
}

func TestVisibleWorldBounds(t *testing.T) {
	cam := New(1280, 720, 40, 25)
	cam.SetZoom(2)

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	// 57.6 px/m: 1280/57.6 = 22.2m wide, 720/57.6 = 12.5m tall
	if !near(maxX-minX, 22.22) || !near(maxY-minY, 12.5) {
		t.Errorf("unexpected visible size %fx%f", maxX-minX, maxY-minY)
	}
	if !near((minX+maxX)/2, cam.X) || !near((minY+maxY)/2, cam.Y) {
		t.Errorf("visible area not centered on camera")
	}
}
