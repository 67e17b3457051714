package telemetry

import "testing"

func window(tick int64, std, coverage, mass float64) WindowStats {
	return WindowStats{
		WindowEndTick: tick,
		FieldStats:    FieldStats{Std: std, Coverage: coverage, TotalMass: mass},
	}
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_ContrastBreakthrough(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(window(int64(i*600), 0.05, 0.2, 1000))
	}

	bookmarks := bd.Check(window(3000, 0.2, 0.2, 1000))
	if !hasBookmark(bookmarks, BookmarkContrastBreakthrough) {
		t.Error("expected contrast_breakthrough bookmark")
	}
}

func TestBookmarkDetector_MassCollapse(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(window(int64(i*600), 0.1, 0.3, 5000))
	}

	bookmarks := bd.Check(window(3000, 0.1, 0.3, 2000))
	if !hasBookmark(bookmarks, BookmarkMassCollapse) {
		t.Error("expected mass_collapse bookmark")
	}

	// Peak was reset, so the same level does not fire again
	bookmarks = bd.Check(window(3600, 0.1, 0.3, 2000))
	if hasBookmark(bookmarks, BookmarkMassCollapse) {
		t.Error("expected collapse to fire once")
	}
}

func TestBookmarkDetector_SaturationRisingEdge(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if !hasBookmark(bd.Check(window(600, 0.1, 0.95, 1000)), BookmarkSaturation) {
		t.Fatal("expected saturation on first crossing")
	}
	if hasBookmark(bd.Check(window(1200, 0.1, 0.96, 1000)), BookmarkSaturation) {
		t.Error("expected no saturation while still saturated")
	}
	bd.Check(window(1800, 0.1, 0.5, 1000))
	if !hasBookmark(bd.Check(window(2400, 0.1, 0.92, 1000)), BookmarkSaturation) {
		t.Error("expected saturation after dropping below and crossing again")
	}
}

func TestBookmarkDetector_StableNetwork(t *testing.T) {
	bd := NewBookmarkDetector(10)

	fired := 0
	for i := 0; i < 12; i++ {
		if hasBookmark(bd.Check(window(int64(i*600), 0.1, 0.3, 1000)), BookmarkStableNetwork) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("expected stable_network exactly once, got %d", fired)
	}
}

func TestBookmarkDetector_Reset(t *testing.T) {
	bd := NewBookmarkDetector(5)
	for i := 0; i < 7; i++ {
		bd.Check(window(int64(i*600), 0.1, 0.3, 5000))
	}
	bd.Reset()

	// Without history a mass drop cannot be a collapse
	if hasBookmark(bd.Check(window(600, 0.1, 0.3, 100)), BookmarkMassCollapse) {
		t.Error("expected no collapse right after reset")
	}
}
