package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/sensor-gateway/internal/record"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string         `json:"event,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	StartTime     string         `json:"start_time"`
	Timestamp     string         `json:"timestamp"`
	MQTT          MQTTStatus     `json:"mqtt"`
	Store         StoreStatus    `json:"store"`
	Counts        CountsJSON     `json:"counts"`
	Latest        *record.Record `json:"latest,omitempty"`
	Config        ConfigJSON     `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// StoreStatus reports remote store configuration and upload totals.
type StoreStatus struct {
	Configured     bool   `json:"configured"`
	Table          string `json:"table,omitempty"`
	Uploads        int    `json:"uploads"`
	UploadFailures int    `json:"upload_failures"`
}

// CountsJSON is the JSON representation of ingestion counts.
type CountsJSON struct {
	Received int `json:"received"`
	Decoded  int `json:"decoded"`
	Warnings int `json:"warnings"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	HTTPAddr         string `json:"http_addr"`
	Broker           string `json:"broker,omitempty"`
	UploadIntervalMs int64  `json:"upload_interval_ms"`
	PayloadLog       string `json:"payload_log,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Store: StoreStatus{
			Configured:     snap.Config.StoreConfigured,
			Table:          snap.Config.StoreTable,
			Uploads:        snap.Counts.Uploads,
			UploadFailures: snap.Counts.UploadFailures,
		},
		Counts: CountsJSON{
			Received: snap.Counts.Received,
			Decoded:  snap.Counts.Decoded,
			Warnings: snap.Counts.Warnings,
		},
		Config: ConfigJSON{
			HTTPAddr:         snap.Config.HTTPAddr,
			Broker:           snap.Config.Broker,
			UploadIntervalMs: snap.Config.UploadIntervalMs,
			PayloadLog:       snap.Config.PayloadLog,
		},
	}
	if snap.HasLatest {
		latest := snap.Latest
		inner.Latest = &latest
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
