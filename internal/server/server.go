// Package server exposes the analysis pipeline as a JSON API for the
// dashboard frontend.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marketlogic/internal/analyzer"
	"marketlogic/internal/calculator"
	"marketlogic/internal/config"
)

// AnalysisService runs one analysis per request.
type AnalysisService interface {
	Analyze(ctx context.Context, ticker string, lookbackDays int) (*analyzer.Result, error)
}

// Server serves the dashboard API.
type Server struct {
	addr        string
	service     AnalysisService
	defaultDays int
	validate    *validator.Validate
	srv         *http.Server
}

// New creates a Server. defaultDays is used when the request omits the
// days parameter.
func New(addr string, service AnalysisService, defaultDays int) *Server {
	s := &Server{
		addr:        addr,
		service:     service,
		defaultDays: defaultDays,
		validate:    validator.New(),
	}
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // analysis fetches from an upstream provider
	}
	return s
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/analysis/{ticker}", s.handleAnalysis)
	})
	return r
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("[INFO] dashboard API listening on %s", s.addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// analysisParams is the validated request input.
type analysisParams struct {
	Ticker string `validate:"required,max=10,printascii"`
	Days   int    `validate:"min=365,max=1095"`
}

// analysisResponse wraps the pipeline result for chi/render.
type analysisResponse struct {
	*analyzer.Result
}

func (analysisResponse) Render(http.ResponseWriter, *http.Request) error { return nil }

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	params := analysisParams{
		Ticker: chi.URLParam(r, "ticker"),
		Days:   s.defaultDays,
	}
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.renderError(w, r, errValidation("days must be an integer"))
			return
		}
		params.Days = n
	}
	if err := s.validate.Struct(params); err != nil {
		s.renderError(w, r, errValidation("ticker must be 1-10 printable characters and days between "+
			strconv.Itoa(config.MinLookbackDays)+" and "+strconv.Itoa(config.MaxLookbackDays)))
		return
	}

	reqID := middleware.GetReqID(r.Context())
	log.Printf("[INFO] analysis request %s: ticker=%s days=%d", reqID, params.Ticker, params.Days)

	result, err := s.service.Analyze(r.Context(), params.Ticker, params.Days)
	if err != nil {
		s.renderError(w, r, s.mapError(err))
		return
	}
	if err := render.Render(w, r, analysisResponse{result}); err != nil {
		log.Printf("[ERROR] render analysis response %s: %v", reqID, err)
	}
}

func (s *Server) mapError(err error) *APIError {
	var re *analyzer.RetrievalError
	switch {
	case errors.Is(err, calculator.ErrInsufficientData):
		return errInsufficientData(err.Error())
	case errors.As(err, &re):
		return errRetrieval(re.Error())
	default:
		return errInternal(err.Error())
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, apiErr *APIError) {
	if err := render.Render(w, r, apiErr); err != nil {
		log.Printf("[ERROR] render error response: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
