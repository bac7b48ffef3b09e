package store

import (
	"context"
	"sync"

	"github.com/sweeney/sensor-gateway/internal/record"
)

// FakeStore records inserted rows for test assertions.
type FakeStore struct {
	mu sync.Mutex

	// Inserted contains all records passed to Insert, in order.
	Inserted []record.Record

	// InsertError, if set, will be returned by Insert.
	InsertError error
}

// NewFakeStore creates a FakeStore for testing.
func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

// Insert records the row unless InsertError is set.
func (f *FakeStore) Insert(_ context.Context, r record.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InsertError != nil {
		return f.InsertError
	}
	f.Inserted = append(f.Inserted, r)
	return nil
}

// InsertedCount returns the number of successful inserts.
func (f *FakeStore) InsertedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Inserted)
}

// Last returns the most recently inserted record.
func (f *FakeStore) Last() (record.Record, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Inserted) == 0 {
		return record.Record{}, false
	}
	return f.Inserted[len(f.Inserted)-1], true
}

// SetInsertError sets the error returned by subsequent Insert calls.
func (f *FakeStore) SetInsertError(err error) {
	f.mu.Lock()
	f.InsertError = err
	f.mu.Unlock()
}
