// Package store uploads sensor records to a remote tabular store with a
// Supabase-style REST interface, with abstraction for testing.
package store

import (
	"context"

	"github.com/sweeney/sensor-gateway/internal/record"
)

// Store inserts records into the remote table.
type Store interface {
	// Insert uploads one record. Returns error on failure; the caller logs
	// and drops; upload failures never propagate to ingestion.
	Insert(ctx context.Context, r record.Record) error
}
