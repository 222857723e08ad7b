// Package session is the facade consumed by test code: one call per
// logical target, returning a validated value or a classified failure.
package session

import (
	"context"
	"log/slog"

	"github.com/devicelab-dev/interact/pkg/core"
	"github.com/devicelab-dev/interact/pkg/extract"
	"github.com/devicelab-dev/interact/pkg/resolver"
	"github.com/devicelab-dev/interact/pkg/target"
)

// Session wraps one resolver over a target registry plus the extraction
// layer. Each Fetch runs independently; the caller guarantees exclusive
// use of the underlying handles for the duration of one call.
type Session struct {
	registry *target.Registry
	resolver *resolver.Resolver
	log      *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for per-outcome records.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// New creates a Session over the registry and target handles.
func New(registry *target.Registry, ui core.UIHandle, http core.HTTPHandle, opts ...Option) *Session {
	s := &Session{
		registry: registry,
		resolver: resolver.New(&resolver.Executor{UI: ui, HTTP: http}),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch resolves the named target and extracts a validated humidity range.
// Any failure propagates with its classification and cause intact.
func (s *Session) Fetch(ctx context.Context, name string) (extract.HumidityRange, error) {
	o, err := s.resolve(ctx, name)
	if err != nil {
		return extract.HumidityRange{}, err
	}
	return extract.Humidity(o)
}

// FetchRaw resolves the named target and returns the raw payload, for
// callers that only need existence or shape checks.
func (s *Session) FetchRaw(ctx context.Context, name string) (string, error) {
	o, err := s.resolve(ctx, name)
	if err != nil {
		return "", err
	}
	return o.Raw, nil
}

// resolve looks up the target, runs the resolver, and emits the one
// structured log record this engine owns per terminal outcome.
func (s *Session) resolve(ctx context.Context, name string) (core.Outcome, error) {
	t, ok := s.registry.Lookup(name)
	if !ok {
		err := core.ErrUnknownTarget.WithDetails(map[string]interface{}{"target": name})
		s.log.Error("target resolution failed",
			"target", name,
			"kind", string(core.KindNotFound),
			"attempts", 0,
		)
		return core.Outcome{}, err
	}

	o := s.resolver.Resolve(ctx, t)

	if o.Success {
		s.log.Info("target resolved",
			"target", name,
			"strategy", o.StrategyIndex,
			"attempts", o.Attempts,
			"elapsed", o.Elapsed,
		)
		return o, nil
	}

	s.log.Error("target resolution failed",
		"target", name,
		"kind", string(o.Kind()),
		"attempts", o.Attempts,
		"exhausted", o.Exhausted,
		"elapsed", o.Elapsed,
	)
	return core.Outcome{}, o.Err
}
