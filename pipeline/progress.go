package pipeline

import (
	"log/slog"
	"sync"
	"time"
)

// Monotonic wraps a ProgressFunc so that reported percentages never decrease
// and stay within [0, 100]. Steps that re-derive work on retry can report
// from zero again; the wrapper clamps to the high-water mark instead of
// showing progress going backwards.
func Monotonic(fn ProgressFunc) ProgressFunc {
	var mu sync.Mutex
	var highWater float64

	return func(percent float64, message string) {
		mu.Lock()
		defer mu.Unlock()

		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
		if percent < highWater {
			percent = highWater
		}
		highWater = percent
		fn(percent, message)
	}
}

// ProgressLogger returns a ProgressFunc that logs progress at most once per
// interval, plus always on completion.
func ProgressLogger(logger *slog.Logger, step string, interval time.Duration) ProgressFunc {
	var mu sync.Mutex
	var last time.Time

	return func(percent float64, message string) {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		if percent < 100 && now.Sub(last) < interval {
			return
		}
		last = now
		logger.Info("step progress", "step", step, "percent", percent, "message", message)
	}
}
