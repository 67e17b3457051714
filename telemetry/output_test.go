package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/truew1n/Physarum/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager for empty dir, got %v, %v", om, err)
	}
	// Methods are nil-safe.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := int64(1); i <= 3; i++ {
		s := WindowStats{WindowEndTick: i * 100, Agents: 5}
		s.Mean = float64(i) / 10
		if err := om.WriteTelemetry(s); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.WritePerf(PerfStats{TicksPerSecond: 60}, 100); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	bm := Bookmark{Type: BookmarkSaturation, Tick: 300, Description: "Trail covers 95% of the field"}
	if err := om.WriteBookmark(bm); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var rows []WindowStats
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows under one header, got %d", len(rows))
	}
	if rows[2].WindowEndTick != 300 || rows[2].Mean != 0.3 {
		t.Errorf("unexpected last row %+v", rows[2])
	}

	pf, err := os.Open(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer pf.Close()

	var perf []PerfStatsCSV
	if err := gocsv.UnmarshalFile(pf, &perf); err != nil {
		t.Fatalf("reading perf.csv: %v", err)
	}
	if len(perf) != 1 || perf[0].TicksPerSec != 60 {
		t.Errorf("unexpected perf rows %+v", perf)
	}

	bf, err := os.Open(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer bf.Close()

	var marks []Bookmark
	if err := gocsv.UnmarshalFile(bf, &marks); err != nil {
		t.Fatalf("reading bookmarks.csv: %v", err)
	}
	if len(marks) != 1 || marks[0] != bm {
		t.Errorf("expected %+v, got %+v", bm, marks)
	}
}

func TestOutputManagerWriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	reloaded, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reloading config.yaml: %v", err)
	}
	if reloaded.World.Agents != cfg.World.Agents {
		t.Errorf("expected %d agents, got %d", cfg.World.Agents, reloaded.World.Agents)
	}
}
