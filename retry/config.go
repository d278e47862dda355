// Package retry re-runs transient failures with exponential backoff. It is
// category-aware: errors carrying the spindle taxonomy are trusted, anything
// else falls back to network-level heuristics. Server-provided Retry-After
// delays take precedence over the computed backoff when longer.
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Config holds backoff parameters.
type Config struct {
	// MaxAttempts is the total number of attempts, the initial request
	// included. Default is 5.
	MaxAttempts int

	// InitialDelay is the base delay before the first retry. Default is 1s.
	InitialDelay time.Duration

	// MaxDelay caps the delay between attempts. Default is 30s.
	MaxDelay time.Duration

	// Multiplier is the exponential growth factor. Default is 2.0.
	Multiplier float64

	// Jitter randomizes each delay by ±Jitter fraction to avoid thundering
	// herds. Default is 0.1.
	Jitter float64
}

// DefaultConfig returns the standard backoff configuration: 5 attempts,
// 1s initial delay doubling to a 30s cap, 10% jitter.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  5,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Disabled returns a single-attempt configuration.
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// Delay computes the backoff before retry number attempt (0-indexed):
// min(MaxDelay, InitialDelay * Multiplier^attempt), jittered.
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}
	if c.Jitter > 0 {
		delay *= 1.0 + (rand.Float64()*2-1)*c.Jitter
	}
	return time.Duration(delay)
}
