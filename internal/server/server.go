// Package server exposes the analysis pipeline over HTTP: journal upload
// and analysis, run history, and a health probe.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/JamesS-M/ledger-dashboard/internal/history"
	"github.com/JamesS-M/ledger-dashboard/internal/model"
)

const DefaultMaxUploadBytes = 10 << 20

// Analyzer runs the full analysis for a ledger file on disk.
type Analyzer interface {
	Analyze(ctx context.Context, path string) (*model.AnalysisResult, error)
}

// History is the subset of the run-history store the server uses. A nil
// History disables recording and the history endpoint.
type History interface {
	Record(run history.Run) error
	Recent(n int) ([]history.Run, error)
}

// Options configures a Server.
type Options struct {
	Analyzer       Analyzer
	History        History
	MaxUploadBytes int64
	Log            zerolog.Logger
}

// Server is the HTTP front end. Uploaded ledgers live in per-request temp
// files for the duration of one analysis and are never kept.
type Server struct {
	analyzer  Analyzer
	history   History
	maxUpload int64
	log       zerolog.Logger
}

// New builds a Server. Zero options fall back to defaults.
func New(opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Server{
		analyzer:  opts.Analyzer,
		history:   opts.History,
		maxUpload: opts.MaxUploadBytes,
		log:       opts.Log,
	}
}

// Routes assembles the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Post("/api/analyze", s.handleAnalyze)
	r.Get("/api/history", s.handleHistory)
	r.Get("/healthz", s.handleHealth)
	return r
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
