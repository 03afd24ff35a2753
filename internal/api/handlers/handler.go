// handler.go — основной обработчик API HireTrack.
// Объединяет все доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hiretrack/hiretrack/internal/service"
)

// APIHandler — основной обработчик API HireTrack.
// Делегирует запросы в сервисный слой.
type APIHandler struct {
	health     *HealthHandler
	candidates *service.CandidateService
	interviews *service.InterviewService
	feedback   *service.FeedbackService
	logger     *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	candidates *service.CandidateService,
	interviews *service.InterviewService,
	feedback *service.FeedbackService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:     health,
		candidates: candidates,
		interviews: interviews,
		feedback:   feedback,
		logger:     logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
