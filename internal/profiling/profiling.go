package profiling

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Per-frame CPU timings for the render loop phases.

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
	frameStart  time.Time
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("viewer.draw")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
	}
}

// ResetFrame clears current per-frame totals and starts the frame clock.
// Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	clear(frameTotals)
	frameStart = time.Now()
	mu.Unlock()
}

// Snapshot returns a copy of current per-frame totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frameTotals))
	for k, v := range frameTotals {
		out[k] = v
	}
	return out
}

// TopN formats the n largest totals of the current frame, largest first.
// Example: "viewer.draw:4.2ms, viewer.swap:2.1ms"
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, p := range list[:n] {
		parts = append(parts, p.name+":"+formatMs(p.dur))
	}
	return strings.Join(parts, ", ")
}

// ReportSlow logs the frame breakdown at debug level when the frame took
// longer than budget. It returns the frame duration.
func ReportSlow(budget time.Duration) time.Duration {
	mu.Lock()
	start := frameStart
	mu.Unlock()
	if start.IsZero() {
		return 0
	}
	d := time.Since(start)
	if budget > 0 && d > budget {
		slog.Debug("slow frame", "duration", formatMs(d), "top", TopN(3))
	}
	return d
}

// formatMs renders d in milliseconds with one decimal, dropping ".0".
func formatMs(d time.Duration) string {
	tenths := d.Microseconds() / 100
	s := strconv.FormatInt(tenths/10, 10)
	if frac := tenths % 10; frac != 0 {
		s += "." + strconv.FormatInt(frac, 10)
	}
	return s + "ms"
}
