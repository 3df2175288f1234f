// Package mqtt mirrors scan reports and node lifecycle events to an MQTT
// broker, with an abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"
)

// TopicPrefix is the root of every topic the node publishes to.
const TopicPrefix = "beacon/scanner"

// ReportTopic is the topic carrying a node's report mirror.
func ReportTopic(deviceID string) string {
	return TopicPrefix + "/" + deviceID + "/report"
}

// SystemTopic is the topic carrying a node's lifecycle events.
func SystemTopic(deviceID string) string {
	return TopicPrefix + "/" + deviceID + "/system"
}

// Publisher publishes to MQTT.
type Publisher interface {
	// PublishReport mirrors a report payload exactly as it was posted
	// upstream. Returns error if publishing fails (should not crash the process).
	PublishReport(payload []byte) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT", "MAINTENANCE"
	Reason     string // e.g., "SIGTERM", "button"
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// SystemPayload is the payload for events that carry no status snapshot,
// such as the broker's last will.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
