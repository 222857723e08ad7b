package core

import "time"

// Outcome is the terminal result of one resolution. Exactly one of the
// success/failure halves is populated; Err is nil iff Success is true.
type Outcome struct {
	Success bool `json:"success"`

	// Success half
	Raw           string `json:"raw,omitempty"`           // raw payload (element text, response body)
	StrategyIndex int    `json:"strategyIndex,omitempty"` // which strategy won (0-based)

	// Failure half
	Err       *InteractionError `json:"-"`
	Exhausted bool              `json:"exhausted,omitempty"` // attempt/timeout budget consumed

	// Common
	Attempts int           `json:"attempts"` // attempts used across all strategies
	Elapsed  time.Duration `json:"elapsed"`
}

// NewSuccess builds a success Outcome.
func NewSuccess(raw string, strategyIndex, attempts int, elapsed time.Duration) Outcome {
	return Outcome{
		Success:       true,
		Raw:           raw,
		StrategyIndex: strategyIndex,
		Attempts:      attempts,
		Elapsed:       elapsed,
	}
}

// NewFailure builds a failure Outcome.
func NewFailure(err *InteractionError, attempts int, exhausted bool, elapsed time.Duration) Outcome {
	return Outcome{
		Err:       err,
		Exhausted: exhausted,
		Attempts:  attempts,
		Elapsed:   elapsed,
	}
}

// Kind returns the failure kind, or "" for a success Outcome.
func (o Outcome) Kind() ErrorKind {
	if o.Err == nil {
		return ""
	}
	return o.Err.Kind
}
