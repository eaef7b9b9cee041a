// Package chi exposes the question-answering API over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cardsage-ai/cardsage/internal/domain"
	healthuc "github.com/cardsage-ai/cardsage/internal/usecase/health"
)

// maxQuestionBytes bounds the request body size.
const maxQuestionBytes = 64 << 10

// AnswerService answers a rules question end to end.
type AnswerService interface {
	Answer(ctx context.Context, question string) (string, error)
}

// HealthService reports component availability.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// AnswerRequest is the POST /answer request body.
type AnswerRequest struct {
	Question string `json:"question"`
}

// AnswerResponse is the POST /answer response body.
type AnswerResponse struct {
	Answer string `json:"answer"`
}

// ErrorResponse is the error body shared by all endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the GET /health response body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Server holds the HTTP handlers.
type Server struct {
	answer AnswerService
	health HealthService
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(answer AnswerService, health HealthService, logger *zap.Logger) *Server {
	return &Server{answer: answer, health: health, logger: logger}
}

// Register mounts the API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/answer", s.handleAnswer)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	body := http.MaxBytesReader(w, r.Body, maxQuestionBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	answer, err := s.answer.Answer(r.Context(), req.Question)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AnswerResponse{Answer: answer})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "validation_failed", "Question must not be empty")
	case errors.Is(err, domain.ErrSearchBackend):
		writeError(w, http.StatusBadGateway, "search_backend_error", domain.ErrSearchBackend.Error())
	case errors.Is(err, domain.ErrEmbeddingProvider):
		writeError(w, http.StatusBadGateway, "embedding_provider_error", domain.ErrEmbeddingProvider.Error())
	case errors.Is(err, domain.ErrModelProvider):
		writeError(w, http.StatusBadGateway, "model_provider_error", domain.ErrModelProvider.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
