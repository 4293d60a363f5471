package clarity

import (
	"math/rand"
	"time"
)

// RetryConfig holds retry behavior for transient transport failures.
// Only transient failures are retried; the error taxonomy in errors.go
// decides which those are.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts per request.
	MaxAttempts int

	// BackoffBase is the initial backoff duration.
	BackoffBase time.Duration

	// BackoffMultiplier is applied to backoff on each retry.
	BackoffMultiplier float64

	// MaxBackoff caps the maximum backoff duration.
	MaxBackoff time.Duration
}

// DefaultRetryConfig returns sensible retry defaults for API requests.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       500 * time.Millisecond,
		BackoffMultiplier: 2.0,
		MaxBackoff:        10 * time.Second,
	}
}

// backoff returns the jittered wait before the given retry attempt
// (1-based count of completed attempts).
func (c RetryConfig) backoff(completed int) time.Duration {
	d := c.BackoffBase
	for i := 1; i < completed; i++ {
		d = time.Duration(float64(d) * c.BackoffMultiplier)
		if d >= c.MaxBackoff {
			d = c.MaxBackoff
			break
		}
	}
	if d <= 0 {
		return 0
	}
	// Up to 25% jitter to avoid thundering herds from fan-out scripts.
	jitter := time.Duration(rand.Int63n(int64(d)/4 + 1))
	return d + jitter
}
