// internal/chart/ticks.go
package chart

import (
	"strconv"
	"time"
)

// EvenTicks returns count evenly spaced tick positions covering [min, max],
// endpoints included. A degenerate domain collapses to a single tick at min.
func EvenTicks(min, max float64, count int) []float64 {
	if count < 2 || max <= min {
		return []float64{min}
	}
	ticks := make([]float64, count)
	step := (max - min) / float64(count-1)
	for i := 0; i < count; i++ {
		ticks[i] = min + step*float64(i)
	}
	// Pin the last tick to the exact domain edge.
	ticks[count-1] = max
	return ticks
}

// FormatTickValue renders a numeric tick label compactly.
func FormatTickValue(v float64) string {
	switch {
	case v >= 1e9 || v <= -1e9:
		return strconv.FormatFloat(v/1e9, 'f', 1, 64) + "G"
	case v >= 1e6 || v <= -1e6:
		return strconv.FormatFloat(v/1e6, 'f', 1, 64) + "M"
	case v >= 1e3 || v <= -1e3:
		return strconv.FormatFloat(v/1e3, 'f', 1, 64) + "k"
	}
	return strconv.FormatFloat(v, 'g', 3, 64)
}

// FormatTimeTick renders an epoch-millisecond x tick as a clock label.
func FormatTimeTick(epochMS int64) string {
	return time.UnixMilli(epochMS).Local().Format("15:04")
}
