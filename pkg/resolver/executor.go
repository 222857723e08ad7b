// Package resolver drives a target's fallback chain: one executor runs
// single attempts, the resolver orchestrates retries and backoff around it.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/devicelab-dev/interact/pkg/core"
	"github.com/devicelab-dev/interact/pkg/target"
)

// DefaultProbeWindow bounds a single UI find attempt when neither the
// target nor the strategy sets one.
const DefaultProbeWindow = 2 * time.Second

// Executor runs exactly one strategy against a live target handle and
// classifies the outcome. It never retries - retry orchestration belongs
// solely to the Resolver.
type Executor struct {
	UI   core.UIHandle
	HTTP core.HTTPHandle
}

// Execute runs one attempt of s. The returned error is always classified.
// probe bounds a UI find attempt; a per-strategy timeout overrides it.
func (e *Executor) Execute(ctx context.Context, s target.Strategy, probe time.Duration) (string, *core.InteractionError) {
	if err := ctx.Err(); err != nil {
		return "", core.ErrCancelled.WithCause(err)
	}

	switch s.Kind {
	case target.UILocator:
		return e.executeLocator(ctx, s, probe)
	case target.HTTPCall:
		return e.executeCall(ctx, s)
	default:
		return "", core.ErrSessionLost.WithMessage(fmt.Sprintf("unsupported strategy kind: %s", s.Kind))
	}
}

func (e *Executor) executeLocator(ctx context.Context, s target.Strategy, probe time.Duration) (string, *core.InteractionError) {
	if e.UI == nil {
		return "", core.ErrNoHandle.WithDetails(map[string]interface{}{"strategy": s.Describe()})
	}

	if s.Timeout > 0 {
		probe = s.Timeout
	}
	if probe <= 0 {
		probe = DefaultProbeWindow
	}

	ref, err := e.UI.FindElement(ctx, s.Locator.Strategy, s.Locator.Expression, probe)
	if err != nil {
		if ctx.Err() != nil {
			return "", core.ErrCancelled.WithCause(err)
		}
		return "", core.AsInteraction(err).WithDetails(map[string]interface{}{
			"strategy": s.Describe(),
		})
	}

	if s.Locator.Action == "tap" {
		if err := e.UI.Tap(ctx, ref.ID); err != nil {
			if ctx.Err() != nil {
				return "", core.ErrCancelled.WithCause(err)
			}
			return "", core.AsInteraction(err).WithDetails(map[string]interface{}{
				"strategy": s.Describe(),
				"action":   "tap",
			})
		}
	}

	return ref.Text, nil
}

func (e *Executor) executeCall(ctx context.Context, s target.Strategy) (string, *core.InteractionError) {
	if e.HTTP == nil {
		return "", core.ErrNoHandle.WithDetails(map[string]interface{}{"strategy": s.Describe()})
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	status, body, err := e.HTTP.Do(ctx, s.Request.Method, s.Request.Path, s.Request.Query)
	if err != nil {
		if ctx.Err() != nil {
			return "", core.ErrCancelled.WithCause(err)
		}
		return "", core.ErrHTTPTransport.WithCause(err).WithDetails(map[string]interface{}{
			"strategy": s.Describe(),
		})
	}

	if status < 200 || status >= 300 {
		return "", core.ErrHTTPStatus.WithDetails(map[string]interface{}{
			"strategy": s.Describe(),
			"status":   status,
		})
	}

	if !json.Valid(body) {
		return "", core.ErrMalformedResponse.WithDetails(map[string]interface{}{
			"strategy": s.Describe(),
			"body":     truncate(string(body), 200),
		})
	}

	return string(body), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
