package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devicelab-dev/interact/pkg/core"
	"github.com/devicelab-dev/interact/pkg/driver/mock"
	"github.com/devicelab-dev/interact/pkg/target"
)

func testTarget(strategies ...target.Strategy) target.Target {
	return target.Target{
		Name:        "test-target",
		Strategies:  strategies,
		MaxAttempts: 10,
		Timeout:     5 * time.Second,
		BackoffBase: time.Millisecond,
	}
}

// recordedSleeps replaces the resolver's sleep so tests can assert on
// backoff behavior without real waiting.
func recordSleeps(r *Resolver) *[]time.Duration {
	var sleeps []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return ctx.Err()
	}
	return &sleeps
}

func TestResolve_FirstStrategyWins(t *testing.T) {
	ui := mock.NewUIHandle(map[string]*mock.Script{
		"primary": {Text: "60 - 85"},
	})
	r := New(&Executor{UI: ui})

	o := r.Resolve(context.Background(), testTarget(uiStrategy("primary"), uiStrategy("fallback")))

	if !o.Success {
		t.Fatalf("Resolve() failed: %v", o.Err)
	}
	if o.StrategyIndex != 0 {
		t.Errorf("StrategyIndex = %d, want 0", o.StrategyIndex)
	}
	if o.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", o.Attempts)
	}
	if ui.Calls("fallback") != 0 {
		t.Error("fallback strategy was tried after a success")
	}
}

func TestResolve_FallsBackInPriorityOrder(t *testing.T) {
	// Only strategy k=2 ever succeeds; 0 and 1 must be tried in order.
	ui := mock.NewUIHandle(map[string]*mock.Script{
		"third": {Text: "60 - 85"},
	})
	r := New(&Executor{UI: ui})

	o := r.Resolve(context.Background(), testTarget(
		uiStrategy("first"), uiStrategy("second"), uiStrategy("third")))

	if !o.Success {
		t.Fatalf("Resolve() failed: %v", o.Err)
	}
	if o.StrategyIndex != 2 {
		t.Errorf("StrategyIndex = %d, want 2", o.StrategyIndex)
	}
	if o.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", o.Attempts)
	}
	if ui.Calls("first") != 1 || ui.Calls("second") != 1 {
		t.Errorf("earlier strategies skipped: first=%d second=%d",
			ui.Calls("first"), ui.Calls("second"))
	}
}

func TestResolve_MixedKinds_UIFallsBackToHTTP(t *testing.T) {
	ui := mock.NewUIHandle(nil) // every locator fails
	h := mock.NewHTTPHandle(map[string][]mock.Response{
		"/weather": {{Status: 200, Body: `{"humidity":"60 - 85"}`}},
	})
	r := New(&Executor{UI: ui, HTTP: h})

	o := r.Resolve(context.Background(), testTarget(uiStrategy("humidity"), httpStrategy("/weather")))

	if !o.Success {
		t.Fatalf("Resolve() failed: %v", o.Err)
	}
	if o.StrategyIndex != 1 {
		t.Errorf("StrategyIndex = %d, want 1", o.StrategyIndex)
	}
}

func TestResolve_ExhaustedAfterMaxAttempts(t *testing.T) {
	ui := mock.NewUIHandle(nil)
	r := New(&Executor{UI: ui})
	recordSleeps(r)

	tg := testTarget(uiStrategy("a"), uiStrategy("b"))
	tg.MaxAttempts = 5

	o := r.Resolve(context.Background(), tg)

	if o.Success {
		t.Fatal("Resolve() succeeded, want EXHAUSTED")
	}
	if !o.Exhausted {
		t.Error("Exhausted = false, want true")
	}
	if o.Kind() != core.KindExhausted {
		t.Errorf("Kind = %s, want %s", o.Kind(), core.KindExhausted)
	}
	if o.Attempts != 5 {
		t.Errorf("Attempts = %d, want exactly maxAttempts", o.Attempts)
	}
	// Last underlying cause survives the wrap.
	if !errors.Is(o.Err, core.ErrElementNotFound) {
		t.Error("last cause classification lost in EXHAUSTED wrap")
	}
}

func TestResolve_BackoffOnlyOnWrapAround(t *testing.T) {
	ui := mock.NewUIHandle(nil)
	r := New(&Executor{UI: ui})
	sleeps := recordSleeps(r)

	tg := testTarget(uiStrategy("a"), uiStrategy("b"))
	tg.MaxAttempts = 6 // three full rounds over two strategies

	o := r.Resolve(context.Background(), tg)
	if o.Success {
		t.Fatal("want failure")
	}

	// Two wrap-arounds before the budget runs out; no sleep between
	// strategies within a round.
	if len(*sleeps) != 2 {
		t.Fatalf("sleeps = %d, want 2 (one per wrap-around)", len(*sleeps))
	}
	if (*sleeps)[1] < (*sleeps)[0] {
		t.Errorf("backoff not increasing: %v", *sleeps)
	}
}

func TestResolve_SingleStrategyRetriesWithBackoff(t *testing.T) {
	ui := mock.NewUIHandle(map[string]*mock.Script{
		"flaky": {FailuresBeforeSuccess: 2, Text: "60 - 85"},
	})
	r := New(&Executor{UI: ui})
	sleeps := recordSleeps(r)

	o := r.Resolve(context.Background(), testTarget(uiStrategy("flaky")))

	if !o.Success {
		t.Fatalf("Resolve() failed: %v", o.Err)
	}
	if o.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", o.Attempts)
	}
	if len(*sleeps) != 2 {
		t.Errorf("sleeps = %d, want 2", len(*sleeps))
	}
}

func TestResolve_TimeoutBoundsWallClock(t *testing.T) {
	// Both strategies always fail with SESSION_ERROR; backoff base 1s and
	// a 2s timeout must terminate in ~2-3s, not hang.
	sessionErr := core.ErrSessionLost.WithCause(errors.New("gone"))
	ui := mock.NewUIHandle(map[string]*mock.Script{
		"a": {FailuresBeforeSuccess: -1, Err: sessionErr},
		"b": {FailuresBeforeSuccess: -1, Err: sessionErr},
	})
	r := New(&Executor{UI: ui})

	tg := testTarget(uiStrategy("a"), uiStrategy("b"))
	tg.MaxAttempts = 1000
	tg.Timeout = 2 * time.Second
	tg.BackoffBase = 1 * time.Second
	tg.BackoffCeiling = 4 * time.Second

	start := time.Now()
	o := r.Resolve(context.Background(), tg)
	elapsed := time.Since(start)

	if o.Success || !o.Exhausted {
		t.Fatalf("want EXHAUSTED, got %+v", o)
	}
	if elapsed > 4*time.Second {
		t.Errorf("resolution took %v, want ~2-3s", elapsed)
	}
	if !errors.Is(o.Err, sessionErr) {
		t.Error("last session error lost")
	}
}

func TestResolve_CancellationWinsOverBackoff(t *testing.T) {
	ui := mock.NewUIHandle(nil)
	r := New(&Executor{UI: ui})

	tg := testTarget(uiStrategy("a"))
	tg.MaxAttempts = 1000
	tg.Timeout = time.Minute
	tg.BackoffBase = 10 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	o := r.Resolve(ctx, tg)
	elapsed := time.Since(start)

	if o.Kind() != core.KindCancelled {
		t.Fatalf("Kind = %s, want CANCELLED", o.Kind())
	}
	if o.Exhausted {
		t.Error("cancellation must not report exhaustion")
	}
	if elapsed > 2*time.Second {
		t.Errorf("cancellation took %v, want prompt return", elapsed)
	}
}

func TestResolve_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(&Executor{UI: mock.NewUIHandle(nil)})
	o := r.Resolve(ctx, testTarget(uiStrategy("a")))

	if o.Kind() != core.KindCancelled {
		t.Errorf("Kind = %s, want CANCELLED", o.Kind())
	}
	if o.Attempts != 0 {
		t.Errorf("Attempts = %d, want 0", o.Attempts)
	}
}

func TestResolve_InvalidTarget(t *testing.T) {
	r := New(&Executor{})
	o := r.Resolve(context.Background(), target.Target{Name: "broken"})

	if o.Success {
		t.Fatal("want failure for invalid target")
	}
	if o.Kind() != core.KindSessionError {
		t.Errorf("Kind = %s, want %s", o.Kind(), core.KindSessionError)
	}
}
