// Package mock provides scripted target handles for testing without a
// real device or API.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/devicelab-dev/interact/pkg/core"
)

// Script configures the behavior for one locator expression.
type Script struct {
	// FailuresBeforeSuccess makes the first N finds fail. 0 = succeed
	// immediately, -1 = always fail.
	FailuresBeforeSuccess int
	// Err is returned while failing. Nil means core.ErrElementNotFound.
	Err error
	// Text is the element text returned on success.
	Text string
	// Delay is added per find attempt.
	Delay time.Duration
}

// UIHandle is a scripted implementation of core.UIHandle. Unknown
// expressions fail with element_not_found.
type UIHandle struct {
	mu      sync.Mutex
	scripts map[string]*Script
	calls   map[string]int
	taps    []string
}

// NewUIHandle creates a handle with per-expression scripts.
func NewUIHandle(scripts map[string]*Script) *UIHandle {
	return &UIHandle{
		scripts: scripts,
		calls:   make(map[string]int),
	}
}

// FindElement implements core.UIHandle.
func (h *UIHandle) FindElement(ctx context.Context, strategy, expression string, probe time.Duration) (*core.ElementRef, error) {
	h.mu.Lock()
	s := h.scripts[expression]
	h.calls[expression]++
	n := h.calls[expression]
	h.mu.Unlock()

	if s == nil {
		return nil, core.ErrElementNotFound.WithDetails(map[string]interface{}{
			"strategy":   strategy,
			"expression": expression,
		})
	}

	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if s.FailuresBeforeSuccess < 0 || n <= s.FailuresBeforeSuccess {
		if s.Err != nil {
			return nil, s.Err
		}
		return nil, core.ErrElementNotFound.WithDetails(map[string]interface{}{
			"expression": expression,
		})
	}

	return &core.ElementRef{ID: "mock-" + expression, Text: s.Text}, nil
}

// Tap implements core.UIHandle.
func (h *UIHandle) Tap(ctx context.Context, elementID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taps = append(h.taps, elementID)
	return nil
}

// Calls returns how many times expression was probed.
func (h *UIHandle) Calls(expression string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[expression]
}

// Taps returns the element IDs tapped so far.
func (h *UIHandle) Taps() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.taps...)
}

// Response configures one scripted HTTP exchange.
type Response struct {
	Status int
	Body   string
	Err    error
}

// HTTPHandle is a scripted implementation of core.HTTPHandle keyed by
// request path. Responses for a path are consumed in order; the last one
// repeats.
type HTTPHandle struct {
	mu        sync.Mutex
	responses map[string][]Response
	calls     map[string]int
}

// NewHTTPHandle creates a handle with per-path response scripts.
func NewHTTPHandle(responses map[string][]Response) *HTTPHandle {
	return &HTTPHandle{
		responses: responses,
		calls:     make(map[string]int),
	}
}

// Do implements core.HTTPHandle.
func (h *HTTPHandle) Do(ctx context.Context, method, path string, query map[string]string) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	h.mu.Lock()
	seq := h.responses[path]
	n := h.calls[path]
	h.calls[path]++
	h.mu.Unlock()

	if len(seq) == 0 {
		return 404, []byte(`{"error":"no script for path"}`), nil
	}
	if n >= len(seq) {
		n = len(seq) - 1
	}
	r := seq[n]
	if r.Err != nil {
		return 0, nil, r.Err
	}
	return r.Status, []byte(r.Body), nil
}

// Calls returns how many times path was requested.
func (h *HTTPHandle) Calls(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[path]
}
