package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sweeney/sensor-gateway/internal/record"
)

// RealClient inserts rows over the store's REST interface
// (POST /rest/v1/<table>, one JSON array element per row).
type RealClient struct {
	baseURL string
	key     string
	table   string
	client  *http.Client
}

// NewRealClient creates a client for the given project URL, service key,
// and table name.
func NewRealClient(baseURL, key, table string) *RealClient {
	return &RealClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		table:   table,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Insert uploads one record as a single-row insert.
func (c *RealClient) Insert(ctx context.Context, r record.Record) error {
	body, err := json.Marshal([]record.Record{r})
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	url := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, c.table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", c.table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("insert into %s: %s: %s", c.table, resp.Status, strings.TrimSpace(string(detail)))
	}
	return nil
}
