package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatMs(t *testing.T) {
	assert.Equal(t, "4.2ms", formatMs(4200*time.Microsecond))
	assert.Equal(t, "3ms", formatMs(3*time.Millisecond))
	assert.Equal(t, "0ms", formatMs(20*time.Microsecond))
	assert.Equal(t, "12.5ms", formatMs(12550*time.Microsecond))
}

func TestTrackAndTopN(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["viewer.draw"] = 4200 * time.Microsecond
	frameTotals["viewer.swap"] = 2 * time.Millisecond
	frameTotals["viewer.poll"] = 100 * time.Microsecond
	mu.Unlock()

	assert.Equal(t, "viewer.draw:4.2ms, viewer.swap:2ms", TopN(2))
	assert.Len(t, Snapshot(), 3)

	Track("viewer.poll")()
	assert.GreaterOrEqual(t, Snapshot()["viewer.poll"], 100*time.Microsecond)

	ResetFrame()
	assert.Empty(t, Snapshot())
	assert.Equal(t, "", TopN(5))
}

func TestReportSlow(t *testing.T) {
	ResetFrame()
	assert.GreaterOrEqual(t, ReportSlow(time.Nanosecond), time.Duration(0))
}
