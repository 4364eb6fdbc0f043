package scrape

import (
	"context"
	"math/rand/v2"
	"time"
)

// Jitter sleeps for a random duration in [min, max), returning early if
// the context is cancelled. Listing sites throttle clients that request
// pages at machine cadence.
func Jitter(ctx context.Context, min, max time.Duration) {
	d := min
	if max > min {
		d = min + rand.N(max-min)
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
