// feedback.go — обработчики /interviews/{interviewID}/feedback endpoints.
// Добавление отзыва (один на собеседование) и список отзывов.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/hiretrack/hiretrack/internal/api/errors"
	"github.com/hiretrack/hiretrack/internal/domain/model"
	"github.com/hiretrack/hiretrack/internal/service"
)

// feedbackCreateRequest — тело запроса добавления отзыва.
type feedbackCreateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (req *feedbackCreateRequest) validate() []string {
	var details []string

	if req.Rating < 1 || req.Rating > 5 {
		details = append(details, "Оценка должна быть от 1 до 5")
	}
	if n := utf8.RuneCountInString(req.Comment); n < 1 || n > 1000 {
		details = append(details, "Комментарий должен быть от 1 до 1000 символов")
	}

	return details
}

// feedbackResponse — представление отзыва в API.
type feedbackResponse struct {
	ID          int64  `json:"id"`
	InterviewID int64  `json:"interview_id"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
}

// AddFeedback — POST /interviews/{interviewID}/feedback.
// Добавляет отзыв к собеседованию; повторный отзыв — конфликт.
func (h *APIHandler) AddFeedback(w http.ResponseWriter, r *http.Request) {
	interviewID, ok := interviewIDParam(w, r)
	if !ok {
		return
	}

	var req feedbackCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	if details := req.validate(); len(details) > 0 {
		apierrors.ValidationError(w, "Ошибка валидации запроса", details...)
		return
	}

	fb, err := h.feedback.Add(r.Context(), interviewID, req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Собеседование не найдено")
			return
		}
		if errors.Is(err, service.ErrConflict) {
			apierrors.Conflict(w, "Отзыв по этому собеседованию уже существует")
			return
		}
		h.logger.Error("Ошибка добавления отзыва", "interview_id", interviewID, "error", err)
		apierrors.InternalError(w, "Ошибка добавления отзыва")
		return
	}

	writeJSON(w, http.StatusCreated, mapFeedback(fb))
}

// ListFeedback — GET /interviews/{interviewID}/feedback.
// Возвращает отзывы собеседования по id.
func (h *APIHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	interviewID, ok := interviewIDParam(w, r)
	if !ok {
		return
	}

	feedback, err := h.feedback.ListForInterview(r.Context(), interviewID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Собеседование не найдено")
			return
		}
		h.logger.Error("Ошибка получения отзывов", "interview_id", interviewID, "error", err)
		apierrors.InternalError(w, "Ошибка получения отзывов")
		return
	}

	items := make([]feedbackResponse, len(feedback))
	for i, fb := range feedback {
		items[i] = mapFeedback(fb)
	}

	writeJSON(w, http.StatusOK, items)
}

// interviewIDParam извлекает и проверяет ID собеседования из пути.
// При нечисловом ID пишет 422 и возвращает ok=false. Нулевые и
// отрицательные значения пропускаются к сервису: такой записи нет,
// поиск вернёт 404.
func interviewIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "interviewID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		apierrors.ValidationError(w, "Ошибка валидации запроса",
			"Идентификатор собеседования должен быть целым числом")
		return 0, false
	}
	return id, true
}

// mapFeedback конвертирует domain model в API-представление.
func mapFeedback(fb *model.Feedback) feedbackResponse {
	return feedbackResponse{
		ID:          fb.ID,
		InterviewID: fb.InterviewID,
		Rating:      fb.Rating,
		Comment:     fb.Comment,
	}
}
