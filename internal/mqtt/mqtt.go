// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/sensor-gateway/internal/record"
)

// TopicReadings is the MQTT topic for accepted sensor records.
const TopicReadings = "sensors/esp32/readings"

// TopicSystem is the MQTT topic for gateway lifecycle events.
const TopicSystem = "sensors/esp32/system"

// Publisher publishes gateway output to MQTT.
type Publisher interface {
	// PublishReading sends a normalized sensor record to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishReading(r record.Record) error

	// PublishSystem sends a gateway lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a gateway lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// ReadingPayload is the MQTT message envelope for a sensor record.
type ReadingPayload struct {
	Reading record.Record `json:"reading"`
}

// FormatReadingPayload creates the JSON payload for a sensor record.
func FormatReadingPayload(r record.Record) ([]byte, error) {
	return json.Marshal(ReadingPayload{Reading: r})
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
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
