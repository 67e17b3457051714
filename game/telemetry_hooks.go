package game

import (
	"log/slog"

	"github.com/truew1n/Physarum/telemetry"
)

// flushTelemetry closes the stats window when it is due and fans the result
// out to the log, the CSV files and the stats callback, then checks for
// bookmarks.
func (g *Game) flushTelemetry() {
	tick := g.pipeline.Tick()
	if !g.collector.ShouldFlush(tick) {
		return
	}

	field := g.pipeline.Field()
	stats := g.collector.Flush(tick, g.pipeline.Agents().Len(), field.Data(), field.TotalMass())
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// LastStats returns the most recently flushed stats window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}
