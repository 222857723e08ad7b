// Package backoff computes the delay between full passes over a
// fallback chain: exponential growth with a ceiling and uniform jitter.
package backoff

import (
	"math"
	"math/rand"
	"time"
)

// maxDelay bounds the doubling when no ceiling is configured.
const maxDelay = time.Duration(math.MaxInt64 / 2)

// Policy is a stateless delay function of (attempt, config).
//
// Delay(n) = Base * 2^(n-1), clamped at Ceiling, plus uniform jitter in
// [0, Base); the sum is clamped at Ceiling again. Attempt 1 is the delay
// preceding the second full pass; there is no delay before the first.
type Policy struct {
	Base    time.Duration
	Ceiling time.Duration

	// Jitter returns a value in [0, 1). Nil means rand.Float64.
	// Injectable so tests can pin the delay.
	Jitter func() float64
}

// Delay returns the backoff delay for the given attempt (1-based).
// Never negative; never above Ceiling when one is set.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 || p.Base <= 0 {
		return 0
	}

	ceiling := p.Ceiling
	if ceiling <= 0 || ceiling > maxDelay {
		ceiling = maxDelay
	}

	d := p.Base
	if d > ceiling {
		d = ceiling
	}
	for i := 1; i < attempt && d < ceiling; i++ {
		d *= 2
		if d >= ceiling {
			d = ceiling
		}
	}

	jitter := rand.Float64
	if p.Jitter != nil {
		jitter = p.Jitter
	}
	d += time.Duration(jitter() * float64(p.Base))
	if p.Ceiling > 0 && d > p.Ceiling {
		d = p.Ceiling
	}
	return d
}
