package mock

import (
	"context"
	"testing"
	"time"

	"github.com/devicelab-dev/interact/pkg/core"
)

func TestUIHandle_FailuresBeforeSuccess(t *testing.T) {
	h := NewUIHandle(map[string]*Script{
		"flaky": {FailuresBeforeSuccess: 2, Text: "58 - 92"},
	})

	for i := 0; i < 2; i++ {
		if _, err := h.FindElement(context.Background(), "id", "flaky", time.Second); err == nil {
			t.Fatalf("find %d = nil error, want scripted failure", i)
		}
	}

	ref, err := h.FindElement(context.Background(), "id", "flaky", time.Second)
	if err != nil {
		t.Fatalf("FindElement() error = %v", err)
	}
	if ref.Text != "58 - 92" {
		t.Errorf("Text = %q", ref.Text)
	}
	if h.Calls("flaky") != 3 {
		t.Errorf("Calls = %d, want 3", h.Calls("flaky"))
	}
}

func TestUIHandle_UnknownExpression(t *testing.T) {
	h := NewUIHandle(nil)
	_, err := h.FindElement(context.Background(), "id", "nope", time.Second)
	if core.KindOf(err) != core.KindNotFound {
		t.Errorf("KindOf = %s, want %s", core.KindOf(err), core.KindNotFound)
	}
}

func TestUIHandle_Tap(t *testing.T) {
	h := NewUIHandle(map[string]*Script{"btn": {Text: "OK"}})
	ref, err := h.FindElement(context.Background(), "id", "btn", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Tap(context.Background(), ref.ID); err != nil {
		t.Fatal(err)
	}
	taps := h.Taps()
	if len(taps) != 1 || taps[0] != "mock-btn" {
		t.Errorf("Taps = %v", taps)
	}
}

func TestHTTPHandle_SequenceLastRepeats(t *testing.T) {
	h := NewHTTPHandle(map[string][]Response{
		"/weather": {
			{Status: 503, Body: `{"error":"busy"}`},
			{Status: 200, Body: `{"ok":true}`},
		},
	})

	status, _, _ := h.Do(context.Background(), "GET", "/weather", nil)
	if status != 503 {
		t.Errorf("first status = %d, want 503", status)
	}
	for i := 0; i < 2; i++ {
		status, body, err := h.Do(context.Background(), "GET", "/weather", nil)
		if err != nil || status != 200 || string(body) != `{"ok":true}` {
			t.Errorf("call %d = %d %s %v", i+2, status, body, err)
		}
	}
	if h.Calls("/weather") != 3 {
		t.Errorf("Calls = %d, want 3", h.Calls("/weather"))
	}
}

func TestHTTPHandle_MissingPath(t *testing.T) {
	h := NewHTTPHandle(nil)
	status, _, err := h.Do(context.Background(), "GET", "/missing", nil)
	if err != nil || status != 404 {
		t.Errorf("Do = %d %v, want 404 nil", status, err)
	}
}
