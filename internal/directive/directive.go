// Package directive decodes the server's response to a report.
package directive

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformed is returned when the response is not a JSON object.
var ErrMalformed = errors.New("directive: malformed response")

// Spec names a behavior kind and carries its raw parameters.
type Spec struct {
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Set is everything a response can ask for. Nil specs were absent or
// unusable; a zero Wait means no resync.
type Set struct {
	LED       *Spec
	Vibration *Spec
	Wait      time.Duration

	// Dropped records entries that were present but could not be decoded.
	Dropped []error
}

// Empty reports whether the response asked for nothing.
func (s Set) Empty() bool {
	return s.LED == nil && s.Vibration == nil && s.Wait == 0
}

type response struct {
	LED       json.RawMessage `json:"led_behavior"`
	Vibration json.RawMessage `json:"vibration_behavior"`
	Wait      json.RawMessage `json:"wait_ms"`
}

// Parse decodes a response body. Each key is decoded independently so
// one bad entry does not discard the others.
func Parse(body []byte) (Set, error) {
	var s Set
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return s, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var err error
	if s.LED, err = parseSpec("led_behavior", r.LED); err != nil {
		s.Dropped = append(s.Dropped, err)
	}
	if s.Vibration, err = parseSpec("vibration_behavior", r.Vibration); err != nil {
		s.Dropped = append(s.Dropped, err)
	}
	if s.Wait, err = parseWait(r.Wait); err != nil {
		s.Dropped = append(s.Dropped, err)
	}
	return s, nil
}

func absent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func parseSpec(key string, raw json.RawMessage) (*Spec, error) {
	if absent(raw) {
		return nil, nil
	}
	var spec Spec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	if spec.Type == "" {
		return nil, fmt.Errorf("%s: missing type", key)
	}
	return &spec, nil
}

func parseWait(raw json.RawMessage) (time.Duration, error) {
	if absent(raw) {
		return 0, nil
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return 0, fmt.Errorf("wait_ms: %w", err)
	}
	if ms <= 0 {
		return 0, nil
	}
	return time.Duration(ms * float64(time.Millisecond)), nil
}
