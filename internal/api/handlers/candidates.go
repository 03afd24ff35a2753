// candidates.go — обработчики /candidates endpoints.
// Создание, список с вложенными собеседованиями, смена статуса, удаление.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/hiretrack/hiretrack/internal/api/errors"
	"github.com/hiretrack/hiretrack/internal/domain/model"
	"github.com/hiretrack/hiretrack/internal/service"
)

// candidateCreateRequest — тело запроса создания кандидата.
type candidateCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Position string `json:"position"`
}

// validate возвращает список всех нарушенных правил.
// Пустой список означает валидный запрос.
func (req *candidateCreateRequest) validate() []string {
	var details []string

	if n := utf8.RuneCountInString(req.Name); n < 1 || n > 100 {
		details = append(details, "Имя кандидата должно быть от 1 до 100 символов")
	}
	if req.Email == "" || utf8.RuneCountInString(req.Email) > 100 {
		details = append(details, "Email должен быть от 1 до 100 символов")
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		details = append(details, "Некорректный email")
	}
	if n := utf8.RuneCountInString(req.Position); n < 1 || n > 100 {
		details = append(details, "Должность должна быть от 1 до 100 символов")
	}

	return details
}

// candidateStatusRequest — тело запроса смены статуса кандидата.
type candidateStatusRequest struct {
	Status string `json:"status"`
}

func (req *candidateStatusRequest) validate() []string {
	if !model.CandidateStatus(req.Status).Valid() {
		return []string{fmt.Sprintf(
			"Недопустимый статус %q: ожидается APPLIED, INTERVIEWING, HIRED или REJECTED", req.Status)}
	}
	return nil
}

// candidateResponse — представление кандидата в API.
type candidateResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Position  string    `json:"position"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// candidateListItem — кандидат с вложенными собеседованиями
// для GET /candidates.
type candidateListItem struct {
	candidateResponse
	Interviews []interviewWithFeedbackResponse `json:"interviews"`
}

// interviewWithFeedbackResponse — собеседование с вложенными отзывами.
type interviewWithFeedbackResponse struct {
	interviewResponse
	Feedback []feedbackResponse `json:"feedback"`
}

// CreateCandidate — POST /candidates.
// Создаёт кандидата со статусом APPLIED.
func (h *APIHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req candidateCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	if details := req.validate(); len(details) > 0 {
		apierrors.ValidationError(w, "Ошибка валидации запроса", details...)
		return
	}

	c, err := h.candidates.Create(r.Context(), req.Name, req.Email, req.Position)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			apierrors.Conflict(w, "Кандидат с таким email уже существует")
			return
		}
		h.logger.Error("Ошибка создания кандидата", "error", err)
		apierrors.InternalError(w, "Ошибка создания кандидата")
		return
	}

	writeJSON(w, http.StatusCreated, mapCandidate(c))
}

// ListCandidates — GET /candidates.
// Возвращает всех кандидатов (по created_at) с вложенными
// собеседованиями и отзывами.
func (h *APIHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.candidates.List(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения списка кандидатов", "error", err)
		apierrors.InternalError(w, "Ошибка получения списка кандидатов")
		return
	}

	items := make([]candidateListItem, len(candidates))
	for i, c := range candidates {
		interviews := make([]interviewWithFeedbackResponse, len(c.Interviews))
		for j, iv := range c.Interviews {
			feedback := make([]feedbackResponse, len(iv.Feedback))
			for k, fb := range iv.Feedback {
				feedback[k] = mapFeedback(fb)
			}
			interviews[j] = interviewWithFeedbackResponse{
				interviewResponse: mapInterview(iv.Interview),
				Feedback:          feedback,
			}
		}
		items[i] = candidateListItem{
			candidateResponse: mapCandidate(c.Candidate),
			Interviews:        interviews,
		}
	}

	writeJSON(w, http.StatusOK, items)
}

// UpdateCandidateStatus — PATCH /candidates/{candidateID}.
// Меняет статус кандидата.
func (h *APIHandler) UpdateCandidateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateIDParam(w, r)
	if !ok {
		return
	}

	var req candidateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	if details := req.validate(); len(details) > 0 {
		apierrors.ValidationError(w, "Ошибка валидации запроса", details...)
		return
	}

	c, err := h.candidates.UpdateStatus(r.Context(), id, model.CandidateStatus(req.Status))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Кандидат не найден")
			return
		}
		h.logger.Error("Ошибка обновления статуса кандидата", "candidate_id", id, "error", err)
		apierrors.InternalError(w, "Ошибка обновления статуса кандидата")
		return
	}

	writeJSON(w, http.StatusOK, mapCandidate(c))
}

// DeleteCandidate — DELETE /candidates/{candidateID}.
// Удаляет кандидата; собеседования и отзывы удаляются каскадом.
func (h *APIHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateIDParam(w, r)
	if !ok {
		return
	}

	if err := h.candidates.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Кандидат не найден")
			return
		}
		h.logger.Error("Ошибка удаления кандидата", "candidate_id", id, "error", err)
		apierrors.InternalError(w, "Ошибка удаления кандидата")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// candidateIDParam извлекает и проверяет UUID кандидата из пути.
// При некорректном UUID пишет 422 и возвращает ok=false.
func candidateIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "candidateID")
	id, err := uuid.Parse(raw)
	if err != nil {
		apierrors.ValidationError(w, "Ошибка валидации запроса",
			"Идентификатор кандидата должен быть UUID")
		return "", false
	}
	return id.String(), true
}

// mapCandidate конвертирует domain model в API-представление.
func mapCandidate(c *model.Candidate) candidateResponse {
	return candidateResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Position:  c.Position,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
