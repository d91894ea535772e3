// Package server is the HTTP shell over the screening façade: a minimal form
// UI, a JSON API, and the operational endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	_ "embed"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hireloop/screener/internal/ai"
	"github.com/hireloop/screener/internal/metrics"
	"github.com/hireloop/screener/internal/screening"
)

// SampleApplication prefills the form, matching the demo text the workflow
// was designed around.
const SampleApplication = "I have 4 years of experience in C++ and STL, worked on embedded systems and performance optimization."

//go:embed index.html.tmpl
var indexTemplate string

var indexPage = template.Must(template.New("index").Parse(indexTemplate))

// Screener is the façade surface the shell consumes.
type Screener interface {
	Run(ctx context.Context, application string) (*screening.Result, error)
}

// Server handles the HTTP surface of the screener.
type Server struct {
	screener Screener
	logger   *zap.Logger
}

// NewHandler builds the HTTP handler around the provided screener.
func NewHandler(screener Screener, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &Server{screener: screener, logger: logger}

	r := chi.NewRouter()
	r.Get("/", srv.Form)
	r.Post("/", srv.SubmitForm)
	r.Post("/api/screen", srv.ScreenJSON)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

type indexData struct {
	Application string
	Error       string
	Result      *screening.Result
}

// Form renders the empty screening form with the sample application.
func (s *Server) Form(w http.ResponseWriter, _ *http.Request) {
	s.renderIndex(w, http.StatusOK, indexData{Application: SampleApplication})
}

// SubmitForm runs a screening for the submitted form and re-renders the page
// with the three result fields.
func (s *Server) SubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	application := r.PostFormValue("application")
	if strings.TrimSpace(application) == "" {
		s.renderIndex(w, http.StatusOK, indexData{
			Application: SampleApplication,
			Error:       "Paste a candidate application before running the screening.",
		})
		return
	}

	result, err := s.screen(r.Context(), application)
	if err != nil {
		s.renderIndex(w, statusFor(err), indexData{
			Application: application,
			Error:       "Screening failed: the classifier could not be reached.",
		})
		return
	}

	s.renderIndex(w, http.StatusOK, indexData{Application: application, Result: result})
}

type screenRequest struct {
	Application string `json:"application"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ScreenJSON runs a screening for a JSON request body.
func (s *Server) ScreenJSON(w http.ResponseWriter, r *http.Request) {
	var body screenRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := s.screen(r.Context(), body.Application)
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// screen invokes the façade and records the outcome metrics around it.
func (s *Server) screen(ctx context.Context, application string) (*screening.Result, error) {
	start := time.Now()
	result, err := s.screener.Run(ctx, application)
	metrics.ScreeningDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ScreeningFailures.Inc()
		s.logger.Error("screening failed", zap.Error(err))
		return nil, err
	}

	metrics.ScreeningsTotal.WithLabelValues(result.Response).Inc()
	s.logger.Info("screening completed",
		zap.String("experience_level", result.ExperienceLevel),
		zap.String("skill_match", result.SkillMatch),
		zap.String("response", result.Response),
	)

	return result, nil
}

func (s *Server) renderIndex(w http.ResponseWriter, status int, data indexData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexPage.Execute(w, data); err != nil {
		s.logger.Error("rendering index page", zap.Error(err))
	}
}

func statusFor(err error) int {
	if errors.Is(err, ai.ErrUnavailable) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already out; nothing useful left to do.
		return
	}
}
