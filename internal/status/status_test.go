package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/sensor-gateway/internal/record"
)

func okRecord(ts string) record.Record {
	ppm := uint32(288)
	percent := 0.0288
	temp := 22.85
	return record.Record{
		ID:                 "test-id",
		Timestamp:          ts,
		MethanePPM:         &ppm,
		MethanePercent:     &percent,
		MethaneTemperature: &temp,
		MethaneFaults:      []string{"No errors detected"},
	}
}

func warnRecord(ts string) record.Record {
	return record.Record{
		ID:           "test-id",
		Timestamp:    ts,
		MethaneError: record.MissingMethaneError,
	}
}

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{HTTPAddr: ":8000", Broker: "tcp://localhost:1883", UploadIntervalMs: 10000}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.HTTPAddr != ":8000" {
		t.Errorf("Config.HTTPAddr: got %q, want %q", snap.Config.HTTPAddr, ":8000")
	}
	if snap.HasLatest {
		t.Error("expected no latest record initially")
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestReplaceAndLatest(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	if _, ok := tr.Latest(); ok {
		t.Fatal("expected no record before first Replace")
	}

	tr.Replace(okRecord("2026-03-14T09:00:00Z"))
	r, ok := tr.Latest()
	if !ok {
		t.Fatal("expected a record after Replace")
	}
	if r.Timestamp != "2026-03-14T09:00:00Z" {
		t.Errorf("Timestamp: got %q", r.Timestamp)
	}

	// A newer record fully replaces the previous one.
	tr.Replace(warnRecord("2026-03-14T09:00:10Z"))
	r, _ = tr.Latest()
	if r.Timestamp != "2026-03-14T09:00:10Z" {
		t.Errorf("Timestamp after replace: got %q", r.Timestamp)
	}
	if r.MethanePPM != nil {
		t.Error("old record fields must not leak into the replacement")
	}

	snap := tr.Snapshot()
	if snap.Counts.Received != 2 {
		t.Errorf("Counts.Received: got %d, want 2", snap.Counts.Received)
	}
	if snap.Counts.Decoded != 1 {
		t.Errorf("Counts.Decoded: got %d, want 1", snap.Counts.Decoded)
	}
	if snap.Counts.Warnings != 1 {
		t.Errorf("Counts.Warnings: got %d, want 1", snap.Counts.Warnings)
	}
}

func TestCountUpload(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.CountUpload(true)
	tr.CountUpload(true)
	tr.CountUpload(false)

	snap := tr.Snapshot()
	if snap.Counts.Uploads != 2 {
		t.Errorf("Uploads: got %d, want 2", snap.Counts.Uploads)
	}
	if snap.Counts.UploadFailures != 1 {
		t.Errorf("UploadFailures: got %d, want 1", snap.Counts.UploadFailures)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
	}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Replace(okRecord("2026-03-14T09:00:00Z"))

	snap1 := tr.Snapshot()

	tr.Replace(warnRecord("2026-03-14T09:00:10Z"))

	// snap1 should still reflect old state
	if snap1.Latest.Timestamp != "2026-03-14T09:00:00Z" {
		t.Error("snapshot should be a copy; Latest was modified")
	}
	if snap1.Counts.Received != 1 {
		t.Error("snapshot should be a copy; Counts were modified")
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Latest:        okRecord("2026-01-01T00:14:50Z"),
		HasLatest:     true,
		Counts:        Counts{Received: 4, Decoded: 3, Warnings: 1, Uploads: 2},
		StartTime:     start,
		Now:           start.Add(15 * time.Minute),
		MQTTConnected: true,
		Config: Config{
			HTTPAddr:         ":8000",
			Broker:           "tcp://localhost:1883",
			UploadIntervalMs: 10000,
			StoreConfigured:  true,
			StoreTable:       "sensor_data",
		},
	}

	data := FormatJSON(snap)

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", parsed.Status.UptimeSeconds)
	}
	if !parsed.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if !parsed.Status.Store.Configured {
		t.Error("expected Store.Configured=true")
	}
	if parsed.Status.Store.Uploads != 2 {
		t.Errorf("Store.Uploads: got %d, want 2", parsed.Status.Store.Uploads)
	}
	if parsed.Status.Counts.Received != 4 {
		t.Errorf("Counts.Received: got %d, want 4", parsed.Status.Counts.Received)
	}
	if parsed.Status.Latest == nil {
		t.Fatal("expected latest record in JSON")
	}
	if parsed.Status.Latest.Timestamp != "2026-01-01T00:14:50Z" {
		t.Errorf("Latest.Timestamp: got %q", parsed.Status.Latest.Timestamp)
	}
	// Event and Reason should be omitted
	if parsed.Status.Event != "" {
		t.Errorf("expected empty Event for web format, got %q", parsed.Status.Event)
	}
}

func TestFormatJSONNoLatest(t *testing.T) {
	snap := Snapshot{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
	}

	data := FormatJSON(snap)

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	inner := raw["status"].(map[string]any)
	if _, exists := inner["latest"]; exists {
		t.Error("latest should be omitted before the first record arrives")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Counts:    Counts{Received: 3, Decoded: 3},
		StartTime: start,
		Now:       start.Add(30 * time.Minute),
		Config:    Config{Broker: "tcp://localhost:1883"},
	}

	data := FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("Event: got %q, want SHUTDOWN", parsed.Status.Event)
	}
	if parsed.Status.Reason != "SIGTERM" {
		t.Errorf("Reason: got %q, want SIGTERM", parsed.Status.Reason)
	}
	if parsed.Status.UptimeSeconds != 1800 {
		t.Errorf("UptimeSeconds: got %d, want 1800", parsed.Status.UptimeSeconds)
	}
}

func TestFormatStatusEventOmitsReasonWhenEmpty(t *testing.T) {
	snap := Snapshot{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
	}

	data := FormatStatusEvent(snap, "STARTUP", "")

	var raw map[string]any
	json.Unmarshal(data, &raw)
	inner := raw["status"].(map[string]any)
	if _, exists := inner["reason"]; exists {
		t.Error("reason should be omitted when empty")
	}
	if inner["event"] != "STARTUP" {
		t.Errorf("event: got %v, want STARTUP", inner["event"])
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	// Writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.Replace(okRecord(time.Now().Format(time.RFC3339Nano)))
			tr.SetMQTTConnected(i%2 == 0)
			tr.CountUpload(i%3 == 0)
		}
	}()

	// Reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = snap.Uptime()
			_, _ = tr.Latest()
		}
	}()

	wg.Wait()
}
