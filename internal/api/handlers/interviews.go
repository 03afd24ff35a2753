// interviews.go — обработчики /candidates/{candidateID}/interviews endpoints.
// Планирование собеседования и список собеседований кандидата.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	apierrors "github.com/hiretrack/hiretrack/internal/api/errors"
	"github.com/hiretrack/hiretrack/internal/domain/model"
	"github.com/hiretrack/hiretrack/internal/service"
)

// interviewCreateRequest — тело запроса планирования собеседования.
// ScheduledAt принимается строкой: RFC 3339 или ISO 8601 без зоны
// (naive-время трактуется как UTC).
type interviewCreateRequest struct {
	Interviewer string `json:"interviewer"`
	ScheduledAt string `json:"scheduled_at"`
}

func (req *interviewCreateRequest) validate() []string {
	var details []string

	if n := utf8.RuneCountInString(req.Interviewer); n < 1 || n > 100 {
		details = append(details, "Имя интервьюера должно быть от 1 до 100 символов")
	}
	if req.ScheduledAt == "" {
		details = append(details, "Не указано время собеседования")
	} else if _, err := parseScheduledAt(req.ScheduledAt); err != nil {
		details = append(details, "Некорректное время собеседования: ожидается ISO 8601")
	}

	return details
}

// interviewResponse — представление собеседования в API.
type interviewResponse struct {
	ID          int64     `json:"id"`
	CandidateID string    `json:"candidate_id"`
	Interviewer string    `json:"interviewer"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Result      *string   `json:"result"`
}

// ScheduleInterview — POST /candidates/{candidateID}/interviews.
// Планирует собеседование для существующего кандидата.
func (h *APIHandler) ScheduleInterview(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := candidateIDParam(w, r)
	if !ok {
		return
	}

	var req interviewCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	if details := req.validate(); len(details) > 0 {
		apierrors.ValidationError(w, "Ошибка валидации запроса", details...)
		return
	}

	scheduledAt, _ := parseScheduledAt(req.ScheduledAt)

	iv, err := h.interviews.Schedule(r.Context(), candidateID, req.Interviewer, scheduledAt)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Кандидат не найден")
			return
		}
		h.logger.Error("Ошибка планирования собеседования", "candidate_id", candidateID, "error", err)
		apierrors.InternalError(w, "Ошибка планирования собеседования")
		return
	}

	writeJSON(w, http.StatusCreated, mapInterview(iv))
}

// ListInterviews — GET /candidates/{candidateID}/interviews.
// Возвращает собеседования кандидата по scheduled_at.
func (h *APIHandler) ListInterviews(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := candidateIDParam(w, r)
	if !ok {
		return
	}

	interviews, err := h.interviews.ListForCandidate(r.Context(), candidateID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Кандидат не найден")
			return
		}
		h.logger.Error("Ошибка получения собеседований", "candidate_id", candidateID, "error", err)
		apierrors.InternalError(w, "Ошибка получения собеседований")
		return
	}

	items := make([]interviewResponse, len(interviews))
	for i, iv := range interviews {
		items[i] = mapInterview(iv)
	}

	writeJSON(w, http.StatusOK, items)
}

// parseScheduledAt разбирает время собеседования.
// Сначала RFC 3339 (с зоной), затем ISO 8601 без зоны — как UTC.
func parseScheduledAt(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", value, time.UTC)
}

// mapInterview конвертирует domain model в API-представление.
func mapInterview(iv *model.Interview) interviewResponse {
	return interviewResponse{
		ID:          iv.ID,
		CandidateID: iv.CandidateID,
		Interviewer: iv.Interviewer,
		ScheduledAt: iv.ScheduledAt,
		Result:      iv.Result,
	}
}
