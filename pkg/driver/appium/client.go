// Package appium implements core.UIHandle over an existing Appium
// session via the W3C WebDriver protocol. The engine never creates or
// closes sessions; it attaches to one supplied by the caller.
package appium

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/devicelab-dev/interact/pkg/core"
)

// W3C WebDriver element identifier key (standard constant)
const w3cElementKey = "element-6066-11e4-a52e-4f735466cecf"

// probeInterval is the pause between find attempts within one probe window.
const probeInterval = 200 * time.Millisecond

// Handle attaches to one Appium session and implements core.UIHandle.
type Handle struct {
	serverURL string
	sessionID string
	client    *http.Client
}

// NewHandle creates a handle bound to an existing session.
func NewHandle(serverURL, sessionID string) *Handle {
	return &Handle{
		serverURL: strings.TrimSuffix(serverURL, "/"),
		sessionID: sessionID,
		client: &http.Client{
			Timeout: time.Minute,
		},
	}
}

// FindElement implements core.UIHandle. It polls for the locator within
// the probe window, reading the element text on a hit. A window that
// elapses without a match is classified NOT_FOUND; anything wrong with
// the session or transport is SESSION_ERROR.
func (h *Handle) FindElement(ctx context.Context, strategy, expression string, probe time.Duration) (*core.ElementRef, error) {
	deadline := time.Now().Add(probe)

	for {
		elemID, err := h.findOnce(ctx, strategy, expression)
		if err == nil && elemID != "" {
			text, terr := h.elementText(ctx, elemID)
			if terr != nil {
				return nil, core.ErrSessionLost.WithCause(terr)
			}
			return &core.ElementRef{ID: elemID, Text: text}, nil
		}
		if err != nil && !isNoSuchElement(err) {
			return nil, core.ErrSessionLost.WithCause(err)
		}

		if time.Now().After(deadline) {
			return nil, core.ErrElementNotFound.WithDetails(map[string]interface{}{
				"strategy":   strategy,
				"expression": expression,
				"probe":      probe.String(),
			})
		}

		timer := time.NewTimer(probeInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// Tap implements core.UIHandle using W3C touch actions with element origin.
func (h *Handle) Tap(ctx context.Context, elementID string) error {
	actions := []map[string]interface{}{
		{
			"type":     "pointerMove",
			"duration": 0,
			"x":        0,
			"y":        0,
			"origin":   map[string]interface{}{w3cElementKey: elementID},
		},
		{"type": "pointerDown", "button": 0},
		{"type": "pause", "duration": 50},
		{"type": "pointerUp", "button": 0},
	}
	payload := []map[string]interface{}{
		{
			"type":       "pointer",
			"id":         "finger1",
			"parameters": map[string]interface{}{"pointerType": "touch"},
			"actions":    actions,
		},
	}
	_, err := h.post(ctx, h.sessionPath()+"/actions", map[string]interface{}{"actions": payload})
	if err != nil {
		return core.ErrSessionLost.WithCause(err)
	}
	return nil
}

// findOnce issues a single element find without polling.
func (h *Handle) findOnce(ctx context.Context, strategy, expression string) (string, error) {
	resp, err := h.post(ctx, h.sessionPath()+"/element", map[string]interface{}{
		"using": strategy,
		"value": expression,
	})
	if err != nil {
		return "", err
	}

	value, ok := resp["value"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("no such element")
	}
	id := extractElementID(value)
	if id == "" {
		return "", fmt.Errorf("no such element")
	}
	return id, nil
}

// elementText reads an element's text.
func (h *Handle) elementText(ctx context.Context, elementID string) (string, error) {
	resp, err := h.get(ctx, h.sessionPath()+"/element/"+elementID+"/text")
	if err != nil {
		return "", err
	}
	text, _ := resp["value"].(string)
	return text, nil
}

// HTTP helpers

func (h *Handle) sessionPath() string {
	return "/session/" + h.sessionID
}

func (h *Handle) get(ctx context.Context, path string) (map[string]interface{}, error) {
	return h.request(ctx, "GET", path, nil)
}

func (h *Handle) post(ctx context.Context, path string, body interface{}) (map[string]interface{}, error) {
	return h.request(ctx, "POST", path, body)
}

func (h *Handle) request(ctx context.Context, method, path string, body interface{}) (map[string]interface{}, error) {
	url := h.serverURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for WebDriver error envelope
	if errValue, ok := result["value"].(map[string]interface{}); ok {
		if errMsg, ok := errValue["message"].(string); ok {
			if errType, ok := errValue["error"].(string); ok {
				return result, fmt.Errorf("%s: %s", errType, errMsg)
			}
		}
	}

	return result, nil
}

// isNoSuchElement reports whether the WebDriver error means the locator
// simply did not match, as opposed to session trouble.
func isNoSuchElement(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no such element") ||
		strings.Contains(msg, "element could not be located")
}

func extractElementID(value map[string]interface{}) string {
	// W3C format
	if id, ok := value[w3cElementKey].(string); ok {
		return id
	}
	// Legacy format
	if id, ok := value["ELEMENT"].(string); ok {
		return id
	}
	return ""
}
