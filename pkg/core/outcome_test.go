package core

import (
	"testing"
	"time"
)

func TestNewSuccess(t *testing.T) {
	o := NewSuccess("60 - 85", 1, 2, 300*time.Millisecond)

	if !o.Success {
		t.Error("Success = false, want true")
	}
	if o.Raw != "60 - 85" {
		t.Errorf("Raw = %q, want %q", o.Raw, "60 - 85")
	}
	if o.StrategyIndex != 1 {
		t.Errorf("StrategyIndex = %d, want 1", o.StrategyIndex)
	}
	if o.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", o.Attempts)
	}
	if o.Kind() != "" {
		t.Errorf("Kind() = %s, want empty", o.Kind())
	}
}

func TestNewFailure(t *testing.T) {
	err := ErrExhausted.WithCause(ErrElementNotFound)
	o := NewFailure(err, 5, true, time.Second)

	if o.Success {
		t.Error("Success = true, want false")
	}
	if !o.Exhausted {
		t.Error("Exhausted = false, want true")
	}
	if o.Kind() != KindExhausted {
		t.Errorf("Kind() = %s, want %s", o.Kind(), KindExhausted)
	}
	if o.Attempts != 5 {
		t.Errorf("Attempts = %d, want 5", o.Attempts)
	}
}
