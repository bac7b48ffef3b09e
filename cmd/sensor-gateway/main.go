// Command sensor-gateway receives ESP32 multi-sensor payloads over HTTP,
// decodes the embedded methane frame, and periodically forwards the latest
// reading to a remote store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/sensor-gateway/internal/forward"
	"github.com/sweeney/sensor-gateway/internal/mqtt"
	"github.com/sweeney/sensor-gateway/internal/paylog"
	"github.com/sweeney/sensor-gateway/internal/status"
	"github.com/sweeney/sensor-gateway/internal/store"
	"github.com/sweeney/sensor-gateway/internal/web"
)

func main() {
	httpAddr := flag.String("http", ":8000", "HTTP listen address")
	broker := flag.String("broker", "", "MQTT broker address (empty to disable)")
	uploadInterval := flag.Duration("upload-interval", forward.DefaultInterval, "Remote store upload interval")
	payloadLog := flag.String("payload-log", "sensor_payloads.log", "Payload log file (empty to disable)")

	flag.Parse()

	if err := run(*httpAddr, *broker, *uploadInterval, *payloadLog); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(httpAddr, broker string, uploadInterval time.Duration, payloadLogPath string) error {
	startTime := time.Now()

	// Remote store is configured from the environment
	storeCfg := readStoreConfig()
	var st store.Store
	if storeCfg != nil {
		st = store.NewRealClient(storeCfg.URL, storeCfg.Key, storeCfg.Table)
	} else {
		log.Printf("store not configured (SUPABASE_URL/SUPABASE_KEY unset), data will not be uploaded")
	}

	// Initialize MQTT
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if broker != "" {
		real, err := mqtt.NewRealPublisher(broker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer real.Close()
		publisher = real
		mqttStatus = real
	}

	// Initialize payload log
	var payLog *paylog.Logger
	if payloadLogPath != "" {
		var err error
		payLog, err = paylog.Open(payloadLogPath)
		if err != nil {
			return fmt.Errorf("init payload log: %w", err)
		}
		defer payLog.Close()
	}

	// Initialize tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(startTime, status.Config{
		HTTPAddr:         httpAddr,
		Broker:           broker,
		UploadIntervalMs: uploadInterval.Milliseconds(),
		StoreConfigured:  storeCfg != nil,
		StoreTable:       storeTable(storeCfg),
		PayloadLog:       payloadLogPath,
	})
	if mqttStatus != nil {
		tracker.SetMQTTConnected(mqttStatus.IsConnected())
	}

	// Publish startup event with full status snapshot
	if publisher != nil {
		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	// Start HTTP server (ingestion + status + live feed)
	srv := web.New(httpAddr, tracker, publisher, payLog)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http server error: %v", err)
		}
	}()
	defer srv.Shutdown(context.Background())
	log.Printf("http server listening on %s", httpAddr)

	// Start forwarder
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fwd := forward.New(st, tracker)
	ticker := time.NewTicker(uploadInterval)
	defer ticker.Stop()
	go fwd.Run(ctx, ticker.C)

	log.Printf("started: http=%s broker=%s upload-interval=%v store-configured=%t",
		httpAddr, broker, uploadInterval, storeCfg != nil)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh
	log.Printf("received %v, shutting down", s)

	if publisher != nil {
		signalName := "UNKNOWN"
		if s == syscall.SIGINT {
			signalName = "SIGINT"
		} else if s == syscall.SIGTERM {
			signalName = "SIGTERM"
		}
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
		snap := tracker.Snapshot()
		event := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "SHUTDOWN",
			Reason:     signalName,
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
		}
		if err := publisher.PublishSystem(event); err != nil {
			log.Printf("failed to publish shutdown event: %v", err)
		} else {
			log.Printf("published shutdown event")
		}
	}

	return nil
}

// Remote store env var names (typically loaded from the unit's environment
// file).
const (
	envStoreURL   = "SUPABASE_URL"
	envStoreKey   = "SUPABASE_KEY"
	envStoreTable = "SUPABASE_TABLE"
)

// defaultStoreTable is the table rows are inserted into when SUPABASE_TABLE
// is unset.
const defaultStoreTable = "sensor_data"

type storeConfig struct {
	URL   string
	Key   string
	Table string
}

// readStoreConfig reads the remote store settings from the environment.
// Returns nil when the store is unconfigured; forwarding is then disabled.
func readStoreConfig() *storeConfig {
	url := os.Getenv(envStoreURL)
	key := os.Getenv(envStoreKey)
	if url == "" || key == "" {
		return nil
	}
	table := os.Getenv(envStoreTable)
	if table == "" {
		table = defaultStoreTable
	}
	return &storeConfig{URL: url, Key: key, Table: table}
}

func storeTable(cfg *storeConfig) string {
	if cfg == nil {
		return ""
	}
	return cfg.Table
}
