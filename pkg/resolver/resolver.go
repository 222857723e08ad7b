package resolver

import (
	"context"
	"time"

	"github.com/devicelab-dev/interact/pkg/backoff"
	"github.com/devicelab-dev/interact/pkg/core"
	"github.com/devicelab-dev/interact/pkg/target"
)

// Resolver drives the fallback chain of one target through the Executor
// until success, timeout, or exhaustion. Strategies are tried in the
// caller-supplied priority order; advancing to the next strategy is
// immediate, retrying the whole chain is backed off.
type Resolver struct {
	exec *Executor

	// Injectable for tests.
	sleep func(context.Context, time.Duration) error
}

// New creates a Resolver over the given executor.
func New(exec *Executor) *Resolver {
	return &Resolver{exec: exec, sleep: sleepCtx}
}

// retryState is owned by one Resolve call and destroyed on termination.
type retryState struct {
	index   int // current strategy index
	attempt int // attempts used so far
	round   int // completed full passes over the chain
	start   time.Time
}

// Resolve runs the target's chain to a terminal Outcome. A caller-supplied
// cancellation always wins over an in-progress attempt or backoff sleep.
func (r *Resolver) Resolve(ctx context.Context, t target.Target) core.Outcome {
	st := retryState{start: time.Now()}

	if err := t.Validate(); err != nil {
		ie := core.NewInteractionError(core.KindSessionError, "invalid_target", "target fails validation").WithCause(err)
		return core.NewFailure(ie, 0, false, time.Since(st.start))
	}

	// Wall-clock ceiling independent of attempt count: slow attempts and
	// backoff sleeps are both cut at the deadline.
	rctx, cancel := context.WithDeadline(ctx, st.start.Add(t.Timeout))
	defer cancel()

	policy := backoff.Policy{Base: t.BackoffBase, Ceiling: t.BackoffCeiling}

	var lastErr *core.InteractionError
	for {
		if ctx.Err() != nil {
			return r.cancelled(ctx, st)
		}

		raw, ierr := r.exec.Execute(rctx, t.Strategies[st.index], t.ProbeWindow)
		st.attempt++
		if ierr == nil {
			return core.NewSuccess(raw, st.index, st.attempt, time.Since(st.start))
		}

		if ierr.Kind == core.KindCancelled {
			if ctx.Err() != nil {
				return r.cancelled(ctx, st)
			}
			// Deadline cut the attempt, not the caller.
			return r.exhausted(st, coalesce(lastErr, ierr))
		}
		lastErr = ierr

		if st.attempt >= t.MaxAttempts || time.Since(st.start) >= t.Timeout {
			return r.exhausted(st, lastErr)
		}

		// A different strategy is not assumed correlated with this
		// failure: advance immediately, back off only on wrap-around.
		if st.index+1 < len(t.Strategies) {
			st.index++
			continue
		}
		st.index = 0
		st.round++
		if err := r.sleep(rctx, policy.Delay(st.round)); err != nil {
			if ctx.Err() != nil {
				return r.cancelled(ctx, st)
			}
			return r.exhausted(st, lastErr)
		}
	}
}

func (r *Resolver) cancelled(ctx context.Context, st retryState) core.Outcome {
	return core.NewFailure(core.ErrCancelled.WithCause(ctx.Err()), st.attempt, false, time.Since(st.start))
}

func (r *Resolver) exhausted(st retryState, lastErr *core.InteractionError) core.Outcome {
	ie := core.ErrExhausted.WithDetails(map[string]interface{}{
		"attempts": st.attempt,
	})
	if lastErr != nil {
		ie = ie.WithCause(lastErr)
	}
	return core.NewFailure(ie, st.attempt, true, time.Since(st.start))
}

func coalesce(a, b *core.InteractionError) *core.InteractionError {
	if a != nil {
		return a
	}
	return b
}

// sleepCtx sleeps for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
