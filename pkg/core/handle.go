// Package core defines the shared contracts of the interaction engine:
// outcomes, classified errors, and the opaque target handles.
package core

import (
	"context"
	"time"
)

// ElementRef is a located UI element and the text read from it.
type ElementRef struct {
	ID   string `json:"id"`
	Text string `json:"text,omitempty"`
}

// UIHandle is an opaque driver session supplied per call by the caller.
// The engine never creates or closes handles; it requires exclusive use
// of a handle for the duration of one resolution.
//
// FindElement probes for the locator within the given window and returns
// the element with its text already read. Implementations classify their
// failures: ErrElementNotFound when the locator never matched within the
// window, ErrSessionLost (or any unclassified error) for session trouble.
type UIHandle interface {
	FindElement(ctx context.Context, strategy, expression string, probe time.Duration) (*ElementRef, error)

	// Tap taps a previously located element.
	Tap(ctx context.Context, elementID string) error
}

// HTTPHandle issues one plain request/response exchange. The semantics of
// the exchange are owned by the target API, not by this engine.
type HTTPHandle interface {
	Do(ctx context.Context, method, path string, query map[string]string) (status int, body []byte, err error)
}
