package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkContrastBreakthrough BookmarkType = "contrast_breakthrough"
	BookmarkMassCollapse         BookmarkType = "mass_collapse"
	BookmarkSaturation           BookmarkType = "saturation"
	BookmarkStableNetwork        BookmarkType = "stable_network"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int64        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// Detection thresholds.
const (
	saturationCoverage = 0.9
	collapseDrop       = 0.5
	stableCV2          = 0.0025 // CV^2 below this means CV < 5%
	stableWindows      = 5
)

// BookmarkDetector detects interesting moments in the trail network.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentMassPeak     float64 // peak total mass in recent history
	saturated          bool    // coverage is above saturationCoverage
	stableWindowsCount int     // consecutive windows with steady coverage and contrast
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable network detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Reset forgets all history, for a reseeded run.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.recentMassPeak = 0
	bd.saturated = false
	bd.stableWindowsCount = 0
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		// Contrast breakthrough: std > 2x rolling average
		if b := bd.checkContrastBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Mass collapse: dropped by half from recent peak
		if b := bd.checkMassCollapse(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Stable network: low variance over 5+ windows
		if b := bd.checkStableNetwork(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Saturation fires on the rising edge, history or not
	if b := bd.checkSaturation(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if stats.TotalMass > bd.recentMassPeak {
		bd.recentMassPeak = stats.TotalMass
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the recorded windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	ordered := make([]WindowStats, 0, bd.historySize)
	ordered = append(ordered, bd.history[bd.historyIdx:]...)
	return append(ordered, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkContrastBreakthrough(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.Std
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.Std > avg*2.0 && stats.Coverage > 0.01 {
		return &Bookmark{
			Type:        BookmarkContrastBreakthrough,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Field std %.3f is %.1fx average (%.3f)", stats.Std, stats.Std/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkMassCollapse(stats WindowStats) *Bookmark {
	if bd.recentMassPeak == 0 {
		return nil
	}

	drop := 1.0 - stats.TotalMass/bd.recentMassPeak
	if drop > collapseDrop {
		// Reset peak after collapse
		oldPeak := bd.recentMassPeak
		bd.recentMassPeak = stats.TotalMass

		return &Bookmark{
			Type:        BookmarkMassCollapse,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Trail mass fell %.0f%% from peak %.0f to %.0f", drop*100, oldPeak, stats.TotalMass),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkSaturation(stats WindowStats) *Bookmark {
	if stats.Coverage < saturationCoverage {
		bd.saturated = false
		return nil
	}
	if bd.saturated {
		return nil
	}
	bd.saturated = true
	return &Bookmark{
		Type:        BookmarkSaturation,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Trail covers %.0f%% of the field", stats.Coverage*100),
	}
}

func (bd *BookmarkDetector) checkStableNetwork(stats WindowStats) *Bookmark {
	if stats.Coverage <= 0 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	// Current window plus the three before it
	recent := append(history[len(history)-3:len(history):len(history)], stats)
	covCV2 := cv2(recent, func(s WindowStats) float64 { return s.Coverage })
	stdCV2 := cv2(recent, func(s WindowStats) float64 { return s.Std })

	if covCV2 < stableCV2 && stdCV2 < stableCV2 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == stableWindows { // trigger exactly once
		return &Bookmark{
			Type:        BookmarkStableNetwork,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Network steady at %.0f%% coverage over %d windows", stats.Coverage*100, stableWindows),
		}
	}

	return nil
}

// cv2 returns the squared coefficient of variation of one stats column.
func cv2(windows []WindowStats, value func(WindowStats) float64) float64 {
	var sum float64
	for _, w := range windows {
		sum += value(w)
	}
	mean := sum / float64(len(windows))
	if mean == 0 {
		return 0
	}
	var v float64
	for _, w := range windows {
		d := value(w) - mean
		v += d * d
	}
	v /= float64(len(windows))
	return v / (mean * mean)
}
