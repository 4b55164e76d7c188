package harness

import (
	"math"
	"path/filepath"
)

// Result captures the performance measurements for one script run. Field
// names follow the persisted record shape.
type Result struct {
	Filename     string  `json:"filename"`
	ExecTime     float64 `json:"exec_time"`     // seconds
	PeakMemoryMB float64 `json:"peak_memory"`   // MB
	ResponseTime float64 `json:"response_time"` // milliseconds
	Throughput   float64 `json:"throughput"`    // runs per second, 0 when unmeasurable
}

func buildResult(path string, elapsed, peakMB float64) *Result {
	res := &Result{
		Filename:     filepath.Base(path),
		ExecTime:     elapsed,
		PeakMemoryMB: peakMB,
		ResponseTime: round2(elapsed * 1000),
	}
	if elapsed > 0 {
		res.Throughput = round2(1 / elapsed)
	}
	return res
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
