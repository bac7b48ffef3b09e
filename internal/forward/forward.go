// Package forward implements the periodic uploader: every interval it reads
// the latest record from the tracker and inserts it into the remote store,
// skipping when nothing new has arrived. Readings superseded between two
// wake-ups are never uploaded; the gateway forwards latest values only.
package forward

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/sensor-gateway/internal/status"
	"github.com/sweeney/sensor-gateway/internal/store"
)

// DefaultInterval is the upload cadence observed from the field deployment.
const DefaultInterval = 10 * time.Second

// Forwarder uploads the latest record on a fixed schedule.
type Forwarder struct {
	store   store.Store
	tracker *status.Tracker

	lastUploaded string // timestamp of the last successfully uploaded record
}

// New creates a Forwarder reading from tracker and writing to s.
func New(s store.Store, tracker *status.Tracker) *Forwarder {
	return &Forwarder{
		store:   s,
		tracker: tracker,
	}
}

// Run uploads on every tick until the context is cancelled. The tick channel
// is injected so tests can drive the loop without wall-clock waits.
func (f *Forwarder) Run(ctx context.Context, tick <-chan time.Time) {
	if f.store == nil {
		log.Printf("forward: store not configured, data will not be uploaded")
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			f.UploadOnce(ctx)
		}
	}
}

// UploadOnce performs a single forwarding cycle: upload the latest record if
// its timestamp differs from the last successful upload. Failures are logged
// and swallowed; they never affect ingestion.
func (f *Forwarder) UploadOnce(ctx context.Context) {
	if f.store == nil {
		return
	}

	rec, ok := f.tracker.Latest()
	if !ok {
		return // no data received yet
	}
	if rec.Timestamp == f.lastUploaded {
		return // nothing new since the last upload
	}

	if err := f.store.Insert(ctx, rec); err != nil {
		log.Printf("forward: upload failed: %v", err)
		f.tracker.CountUpload(false)
		return
	}

	f.lastUploaded = rec.Timestamp
	f.tracker.CountUpload(true)
	log.Printf("forward: uploaded record %s (%s)", rec.ID, rec.Timestamp)
}
