package viewer

import (
	"testing"
	"time"

	"scene-viewer/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestFPSLimiterUnlimited(t *testing.T) {
	prev := config.GetFPSLimit()
	t.Cleanup(func() { config.SetFPSLimit(prev) })
	config.SetFPSLimit(0)

	f := NewFPSLimiter()
	start := time.Now()
	for range 100 {
		f.Wait()
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
	assert.True(t, f.next.IsZero())
}

func TestFPSLimiterPaces(t *testing.T) {
	prev := config.GetFPSLimit()
	t.Cleanup(func() { config.SetFPSLimit(prev) })
	config.SetFPSLimit(100)

	f := NewFPSLimiter()
	start := time.Now()
	for range 5 {
		f.Wait()
	}
	// Five 10ms frames.
	assert.GreaterOrEqual(t, time.Since(start), 45*time.Millisecond)
}
