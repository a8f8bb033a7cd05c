package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/JamesS-M/ledger-dashboard/internal/history"
	"github.com/JamesS-M/ledger-dashboard/internal/ledgerfile"
	"github.com/JamesS-M/ledger-dashboard/internal/model"
	"github.com/JamesS-M/ledger-dashboard/internal/report"
)

type analyzeResponse struct {
	ID          string        `json:"id"`
	Summary     model.Summary `json:"summary"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// handleAnalyze accepts a multipart upload in the "ledger" field, probes
// it, runs the analysis against a temp copy, and returns the summary as
// JSON or, with ?format=csv, the transaction list as CSV.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "malformed multipart upload")
		return
	}

	file, header, err := r.FormFile("ledger")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing ledger file field")
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "ledger-upload-*.journal")
	if err != nil {
		s.log.Error().Err(err).Msg("creating upload temp file")
		writeError(w, http.StatusInternalServerError, "saving upload")
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		s.log.Error().Err(err).Msg("writing upload temp file")
		writeError(w, http.StatusInternalServerError, "saving upload")
		return
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		s.log.Error().Err(err).Msg("rewinding upload temp file")
		writeError(w, http.StatusInternalServerError, "saving upload")
		return
	}
	if !ledgerfile.Probe(tmp).LooksLikeJournal() {
		writeError(w, http.StatusUnprocessableEntity, "uploaded file does not look like a ledger journal")
		return
	}

	id := uuid.NewString()
	filename := filepath.Base(header.Filename)
	log := s.log.With().Str("id", id).Str("filename", filename).Logger()

	start := time.Now()
	res, err := s.analyzer.Analyze(r.Context(), tmp.Name())
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		log.Error().Err(err).Int64("duration_ms", elapsed).Msg("analysis failed")
		s.record(history.Run{
			ID:         id,
			Filename:   filename,
			Status:     history.StatusError,
			DurationMS: elapsed,
			Error:      err.Error(),
		})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sum := res.Summary
	log.Info().Int64("duration_ms", elapsed).Int("transactions", len(sum.Transactions)).Msg("analysis complete")
	s.record(history.Run{
		ID:               id,
		Filename:         filename,
		Status:           history.StatusOK,
		DurationMS:       elapsed,
		TotalExpenses:    sum.TotalExpenses,
		TotalIncome:      sum.TotalIncome,
		TotalAssets:      sum.TotalAssets,
		TotalLiabilities: sum.TotalLiabilities,
		NetWorth:         sum.NetWorth,
		Transactions:     len(sum.Transactions),
	})

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
		if err := report.WriteCSV(w, sum.Transactions); err != nil {
			log.Error().Err(err).Msg("streaming csv")
		}
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{ID: id, Summary: sum, GeneratedAt: res.GeneratedAt})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "history is not enabled")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.history.Recent(limit)
	if err != nil {
		s.log.Error().Err(err).Msg("listing history")
		writeError(w, http.StatusInternalServerError, "loading history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// record logs the run to history, if a store is attached. Failures are
// logged and never surface to the client.
func (s *Server) record(run history.Run) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(run); err != nil {
		s.log.Warn().Err(err).Str("id", run.ID).Msg("recording analysis history")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
