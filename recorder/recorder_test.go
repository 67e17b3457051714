package recorder

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/truew1n/Physarum/systems"
)

func TestRecorderWritesEveryNthFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.avi")
	rec, err := New(path, 16, 16, 30, 2, 80)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	f := systems.NewField(16, 16)
	d := systems.NewDisplayBuffer(16, 16)
	for tick := int64(0); tick < 6; tick++ {
		f.Set(int(tick), int(tick), 1)
		systems.ColorizeRange(f, d.Pixels, 0, f.Len(), systems.ColorMono)
		if err := rec.Capture(tick, d.Image()); err != nil {
			t.Fatalf("Capture(%d): %v", tick, err)
		}
	}

	if rec.Frames() != 3 {
		t.Errorf("expected 3 frames (ticks 0, 2, 4), got %d", rec.Frames())
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Errorf("expected a RIFF container, got %q", data[:min(4, len(data))])
	}
}

func TestRecorderNilSafe(t *testing.T) {
	var rec *Recorder
	if err := rec.Capture(0, nil); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if rec.Frames() != 0 || rec.Close() != nil {
		t.Error("expected nil recorder to be a no-op")
	}
}

func TestNewRejectsEmptyFrame(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "x.avi"), 0, 10, 30, 1, 80); err == nil {
		t.Error("expected error for zero width")
	}
}
