// Package target holds the data model for logical targets and their
// fallback chains. Pure data structures - the resolver decides how to
// drive them.
package target

import (
	"fmt"
	"time"
)

// Kind tags a strategy variant.
type Kind string

// Strategy kinds.
const (
	UILocator Kind = "ui_locator"
	HTTPCall  Kind = "http_call"
)

// Locator describes one way to find a UI element.
type Locator struct {
	Strategy   string `yaml:"strategy"`   // accessibility id, id, xpath, -android uiautomator
	Expression string `yaml:"expression"` // locator expression for the strategy
	Platform   string `yaml:"platform"`   // android, ios, empty = any
	Action     string `yaml:"action"`     // read (default) or tap
}

// Request describes one HTTP call shape.
type Request struct {
	Method string            `yaml:"method"`
	Path   string            `yaml:"path"`
	Query  map[string]string `yaml:"query"`
}

// Strategy is a single attempt descriptor: exactly one of Locator or
// Request is set, matching Kind. Immutable once constructed.
type Strategy struct {
	Kind    Kind
	Locator *Locator
	Request *Request

	// Timeout overrides the per-attempt probe window for this strategy.
	// Zero means use the target default.
	Timeout time.Duration
}

// Describe returns a human-readable description.
func (s Strategy) Describe() string {
	switch s.Kind {
	case UILocator:
		if s.Locator != nil {
			return fmt.Sprintf("%s=%q", s.Locator.Strategy, s.Locator.Expression)
		}
	case HTTPCall:
		if s.Request != nil {
			return fmt.Sprintf("%s %s", s.Request.Method, s.Request.Path)
		}
	}
	return string(s.Kind)
}

// Target is a named logical thing the engine can resolve: an ordered
// fallback chain of strategies plus its attempt and time budget.
type Target struct {
	Name       string
	Strategies []Strategy // tried in priority order, first success wins

	MaxAttempts int           // bound on attempts across all strategies
	Timeout     time.Duration // wall-clock ceiling for one resolution

	// Backoff shape for the delay between full passes over the chain.
	BackoffBase    time.Duration
	BackoffCeiling time.Duration

	// ProbeWindow bounds a single UI find attempt. Zero means the
	// resolver default.
	ProbeWindow time.Duration
}

// Validate checks the target invariants.
func (t Target) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("target has no name")
	}
	if len(t.Strategies) == 0 {
		return fmt.Errorf("target %q: strategy chain is empty", t.Name)
	}
	if t.MaxAttempts <= 0 {
		return fmt.Errorf("target %q: maxAttempts must be positive", t.Name)
	}
	if t.Timeout <= 0 {
		return fmt.Errorf("target %q: timeout must be positive", t.Name)
	}
	for i, s := range t.Strategies {
		switch s.Kind {
		case UILocator:
			if s.Locator == nil || s.Locator.Expression == "" {
				return fmt.Errorf("target %q: strategy %d has no locator expression", t.Name, i)
			}
		case HTTPCall:
			if s.Request == nil || s.Request.Path == "" {
				return fmt.Errorf("target %q: strategy %d has no request path", t.Name, i)
			}
		default:
			return fmt.Errorf("target %q: strategy %d has unknown kind %q", t.Name, i, s.Kind)
		}
	}
	return nil
}
