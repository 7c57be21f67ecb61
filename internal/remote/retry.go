package remote

import (
	"math"
	"time"
)

// RetryPolicy defines exponential backoff for transient transport errors
// inside a single logical submission. The engine itself never retries a
// record within one drain pass, so MaxAttempts defaults to 1.
type RetryPolicy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// Delay returns the pause before the given retry (1-based), clamped to
// MaxDelay.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	initial := p.InitialDelay
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}
	factor := p.BackoffFactor
	if factor <= 0 {
		factor = 2
	}

	d := time.Duration(float64(initial) * math.Pow(factor, float64(attempt-1)))
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	if d <= 0 {
		d = 500 * time.Millisecond
	}
	return d
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}
