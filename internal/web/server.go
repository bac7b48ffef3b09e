// Package web provides the HTTP surface of the gateway: the /data ingestion
// endpoint, the status page, and the live reading feed.
package web

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/sweeney/sensor-gateway/internal/mqtt"
	"github.com/sweeney/sensor-gateway/internal/paylog"
	"github.com/sweeney/sensor-gateway/internal/record"
	"github.com/sweeney/sensor-gateway/internal/status"
)

// publishBacklog bounds how many records can wait for the MQTT dispatcher.
// When full, the oldest queued record is dropped; latest values win.
const publishBacklog = 16

// Server serves ingestion and status over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	publisher  mqtt.Publisher // may be nil (MQTT disabled)
	payLog     *paylog.Logger // may be nil (payload log disabled)
	live       *liveHub
	now        func() time.Time

	// publishCh feeds the single MQTT dispatch goroutine so an ingest
	// burst against a slow broker cannot pile up goroutines.
	publishCh chan record.Record
	stop      chan struct{}
}

// New creates a Server that ingests into the given tracker. publisher and
// payLog are optional; a nil value disables the corresponding output.
func New(addr string, tracker *status.Tracker, publisher mqtt.Publisher, payLog *paylog.Logger) *Server {
	s := &Server{
		tracker:   tracker,
		publisher: publisher,
		payLog:    payLog,
		live:      newLiveHub(),
		now:       time.Now,
		stop:      make(chan struct{}),
	}
	if publisher != nil {
		s.publishCh = make(chan record.Record, publishBacklog)
		go s.publishLoop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/data", s.handleData)
	mux.HandleFunc("/live", s.handleLive)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stop)
	s.live.closeAll()
	return s.httpServer.Shutdown(ctx)
}

// enqueuePublish hands a record to the MQTT dispatcher without ever
// blocking the ingestion handler. A full backlog drops the oldest queued
// record first.
func (s *Server) enqueuePublish(r record.Record) {
	select {
	case s.publishCh <- r:
		return
	default:
	}
	select {
	case <-s.publishCh:
	default:
	}
	select {
	case s.publishCh <- r:
	default:
	}
	log.Printf("ingest: mqtt backlog full, dropped oldest queued record")
}

// publishLoop is the single goroutine forwarding queued records to the
// broker. Publish errors are logged and dropped.
func (s *Server) publishLoop() {
	for {
		select {
		case <-s.stop:
			return
		case r := <-s.publishCh:
			if err := s.publisher.PublishReading(r); err != nil {
				log.Printf("ingest: mqtt publish: %v", err)
			}
		}
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}
