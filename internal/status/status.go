// Package status provides the thread-safe latest-reading slot shared by the
// ingestion handler, the HTTP status page, and the forwarder. Only the most
// recent record is retained; each replace discards the previous one.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/sensor-gateway/internal/record"
)

// Config contains daemon configuration for display.
type Config struct {
	HTTPAddr         string
	Broker           string // MQTT broker URL (empty = disabled)
	UploadIntervalMs int64
	StoreConfigured  bool
	StoreTable       string
	PayloadLog       string
}

// Counts tracks ingestion and upload totals since startup.
type Counts struct {
	Received       int
	Decoded        int // records with a valid methane summary
	Warnings       int // records with a methane decode error
	Uploads        int
	UploadFailures int
}

// Snapshot is a point-in-time view of daemon state. It is a value type and
// stays valid after the lock is released.
type Snapshot struct {
	Latest        record.Record
	HasLatest     bool
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex. The ingestion
// handler is the only writer of the latest record; the forwarder and the
// web server only read snapshots.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Replace installs a new latest record, discarding the previous one, and
// updates the ingestion counters. Always a full-record replace; fields are
// never mutated in place.
func (t *Tracker) Replace(r record.Record) {
	t.mu.Lock()
	t.snap.Latest = r
	t.snap.HasLatest = true
	t.snap.Counts.Received++
	if r.MethaneOK() {
		t.snap.Counts.Decoded++
	} else {
		t.snap.Counts.Warnings++
	}
	t.mu.Unlock()
}

// Latest returns the most recent record and whether one has arrived yet.
func (t *Tracker) Latest() (record.Record, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap.Latest, t.snap.HasLatest
}

// CountUpload records the outcome of a forwarder upload attempt.
func (t *Tracker) CountUpload(ok bool) {
	t.mu.Lock()
	if ok {
		t.snap.Counts.Uploads++
	} else {
		t.snap.Counts.UploadFailures++
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
