package web

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/sweeney/sensor-gateway/internal/record"
)

// Response is the /data reply: the full normalized record plus an overall
// status. A methane decode failure downgrades status to "warning" but never
// rejects the request; the ancillary fields are still ingested.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	record.Record
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Type errors in the ancillary fields are hard failures at the
	// transport boundary; everything past decoding is soft.
	var p record.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	rec := record.Build(p, s.now())

	if rec.MethaneOK() {
		log.Printf("ingest: record %s methane=%d faults=%d", rec.ID, *rec.MethanePPM, len(rec.MethaneFaults))
	} else {
		log.Printf("ingest: record %s methane error: %s", rec.ID, rec.MethaneError)
	}

	if s.payLog != nil {
		if err := s.payLog.Append(rec); err != nil {
			log.Printf("ingest: payload log: %v", err)
		}
	}

	// The latest slot is the single handoff point to the forwarder.
	s.tracker.Replace(rec)

	// Fire-and-forget outputs: the response never waits on them.
	if s.publisher != nil {
		s.enqueuePublish(rec)
	}
	s.live.broadcast(rec)

	resp := Response{Status: "ok", Message: "Valid data.", Record: rec}
	if !rec.MethaneOK() {
		resp.Status = "warning"
		resp.Message = rec.MethaneError
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("ingest: write response: %v", err)
	}
}
