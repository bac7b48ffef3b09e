package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sweeney/sensor-gateway/internal/record"
)

func TestRealClientInsert(t *testing.T) {
	var gotPath, gotKey, gotAuth, gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s, want POST", r.Method)
		}
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	c := NewRealClient(ts.URL+"/", "secret-key", "sensor_data")
	rec := record.Record{ID: "abc", Timestamp: "2026-03-14T09:00:00Z"}
	if err := c.Insert(context.Background(), rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if gotPath != "/rest/v1/sensor_data" {
		t.Errorf("path: got %q, want /rest/v1/sensor_data", gotPath)
	}
	if gotKey != "secret-key" {
		t.Errorf("apikey: got %q", gotKey)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("Authorization: got %q", gotAuth)
	}

	// PostgREST bulk-insert shape: an array with one row.
	var rows []record.Record
	if err := json.Unmarshal([]byte(gotBody), &rows); err != nil {
		t.Fatalf("body is not a JSON array: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "abc" {
		t.Errorf("body rows: got %+v", rows)
	}
}

func TestRealClientInsertServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	c := NewRealClient(ts.URL, "bad-key", "sensor_data")
	err := c.Insert(context.Background(), record.Record{ID: "abc"})
	if err == nil {
		t.Fatal("expected error on 401 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error should carry the status: %v", err)
	}
}

func TestRealClientInsertConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // shut down before use

	c := NewRealClient(ts.URL, "key", "sensor_data")
	if err := c.Insert(context.Background(), record.Record{}); err == nil {
		t.Fatal("expected error when the store is unreachable")
	}
}
