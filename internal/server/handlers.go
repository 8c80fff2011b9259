package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MichalMlada/ETL-spacex/internal/state"
)

// apiRun is the wire shape of a run. The store types stay tag-free; the
// HTTP layer owns its representation.
type apiRun struct {
	ID          string          `json:"id"`
	Trigger     string          `json:"trigger"`
	Status      string          `json:"status"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Error       string          `json:"error,omitempty"`
	Datasets    []apiDatasetRun `json:"datasets,omitempty"`
}

type apiDatasetRun struct {
	Dataset    string       `json:"dataset"`
	Table      string       `json:"table"`
	Processed  int          `json:"processed"`
	Skipped    int          `json:"skipped"`
	Failed     int          `json:"failed"`
	DurationMS int64        `json:"duration_ms"`
	Status     string       `json:"status"`
	Error      string       `json:"error,omitempty"`
	Failures   []apiFailure `json:"failures,omitempty"`
}

type apiFailure struct {
	Table    string `json:"table"`
	RecordID string `json:"record_id,omitempty"`
	Reason   string `json:"reason"`
}

func (s *Server) routes(r chi.Router) {
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/runs", s.handleListRuns)
	r.Get("/api/runs/{id}", s.handleGetRun)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]apiRun, 0, len(runs))
	for _, run := range runs {
		out = append(out, toAPIRun(run))
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": out})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, state.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toAPIRun(run))
}

func toAPIRun(run *state.Run) apiRun {
	out := apiRun{
		ID:          run.ID,
		Trigger:     run.Trigger,
		Status:      string(run.Status),
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		Error:       run.Error,
	}
	for _, ds := range run.Datasets {
		dsOut := apiDatasetRun{
			Dataset:    ds.Dataset,
			Table:      ds.Table,
			Processed:  ds.Processed,
			Skipped:    ds.Skipped,
			Failed:     ds.Failed,
			DurationMS: ds.DurationMS,
			Status:     string(ds.Status),
			Error:      ds.Error,
		}
		for _, f := range ds.Failures {
			dsOut.Failures = append(dsOut.Failures, apiFailure{
				Table:    f.Table,
				RecordID: f.RecordID,
				Reason:   f.Reason,
			})
		}
		out.Datasets = append(out.Datasets, dsOut)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
