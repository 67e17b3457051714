package camera

import (
	"math"
	"testing"
)

func TestNewFitsField(t *testing.T) {
	cam := New(1280, 720, 1920, 1080)

	if cam.X != 960 || cam.Y != 540 {
		t.Errorf("expected camera at (960, 540), got (%f, %f)", cam.X, cam.Y)
	}
	want := float32(1280.0 / 1920.0)
	if math.Abs(float64(cam.Zoom-want)) > 1e-6 {
		t.Errorf("expected fit zoom %f, got %f", want, cam.Zoom)
	}

	x, y, w, h := cam.FieldRect()
	if math.Abs(float64(x)) > 0.01 || math.Abs(float64(y)) > 0.01 ||
		math.Abs(float64(w-1280)) > 0.01 || math.Abs(float64(h-720)) > 0.01 {
		t.Errorf("expected field to fill the viewport, got (%f, %f, %f, %f)", x, y, w, h)
	}
}

func TestFitZoomLetterboxes(t *testing.T) {
	// Square field in a wide window: height limits the zoom.
	cam := New(1600, 800, 400, 400)
	if cam.Zoom != 2 {
		t.Errorf("expected zoom 2, got %f", cam.Zoom)
	}
	x, _, w, _ := cam.FieldRect()
	if x != 400 || w != 800 {
		t.Errorf("expected field centred at x=400 width 800, got x=%f w=%f", x, w)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(1)

	sx, sy := cam.WorldToScreen(cam.X, cam.Y)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(2)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanClampsToField(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(2) // visible area 640x360

	cam.Pan(-1e6, -1e6)
	minX, minY, _, _ := cam.VisibleWorldBounds()
	if math.Abs(float64(minX)) > 0.01 || math.Abs(float64(minY)) > 0.01 {
		t.Errorf("expected view pinned to the top-left corner, got (%f, %f)", minX, minY)
	}

	cam.Pan(1e6, 1e6)
	_, _, maxX, maxY := cam.VisibleWorldBounds()
	if math.Abs(float64(maxX-2560)) > 0.01 || math.Abs(float64(maxY-1440)) > 0.01 {
		t.Errorf("expected view pinned to the bottom-right corner, got (%f, %f)", maxX, maxY)
	}
}

func TestZoomLimits(t *testing.T) {
	cam := New(1280, 720, 1920, 1080)

	cam.ZoomBy(0.01)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to min %f, got %f", cam.MinZoom, cam.Zoom)
	}
	cam.ZoomBy(1000)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to max %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	cam := New(1000, 1000, 1000, 1000)

	wx, wy := cam.ScreenToWorld(500, 500)
	cam.ZoomAt(500, 500, 4)
	ax, ay := cam.ScreenToWorld(500, 500)
	if math.Abs(float64(ax-wx)) > 0.01 || math.Abs(float64(ay-wy)) > 0.01 {
		t.Errorf("expected (%f, %f) under the cursor, got (%f, %f)", wx, wy, ax, ay)
	}
}

func TestResetAfterResize(t *testing.T) {
	cam := New(1280, 720, 1920, 1080)
	cam.SetZoom(4)
	cam.Pan(300, 300)

	cam.Resize(1920, 1080)
	cam.Reset()

	if cam.Zoom != 1 || cam.X != 960 || cam.Y != 540 {
		t.Errorf("expected fitted view at zoom 1, got zoom %f at (%f, %f)", cam.Zoom, cam.X, cam.Y)
	}
}
