// Package paylog appends every normalized sensor record to a persistent
// JSON-lines log file, one record per line.
package paylog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sweeney/sensor-gateway/internal/record"
)

// Logger is an append-only record log. Safe for concurrent use.
type Logger struct {
	mu sync.Mutex
	f  *os.File
}

// Open opens (or creates) the log file at path for appending.
func Open(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open payload log: %w", err)
	}
	return &Logger{f: f}, nil
}

// Append writes one record as a single JSON line.
func (l *Logger) Append(r record.Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.f.Write(data); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	return l.f.Close()
}
