// feedback.go — сервис отзывов.
// Правило «один отзыв на собеседование»: императивная проверка до
// вставки плюс уникальный индекс в БД как граница конкурентности.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hiretrack/hiretrack/internal/domain/model"
	"github.com/hiretrack/hiretrack/internal/repository"
)

// FeedbackService — сервис управления отзывами.
type FeedbackService struct {
	ivRepo repository.InterviewRepository
	fbRepo repository.FeedbackRepository
	logger *slog.Logger
}

// NewFeedbackService создаёт сервис отзывов.
func NewFeedbackService(
	ivRepo repository.InterviewRepository,
	fbRepo repository.FeedbackRepository,
	logger *slog.Logger,
) *FeedbackService {
	return &FeedbackService{
		ivRepo: ivRepo,
		fbRepo: fbRepo,
		logger: logger.With(slog.String("component", "feedback_service")),
	}
}

// Add добавляет отзыв к собеседованию.
// Если собеседование не найдено — ErrNotFound.
// Если отзыв уже существует — ErrConflict, вставка не выполняется.
func (s *FeedbackService) Add(ctx context.Context, interviewID int64, rating int, comment string) (*model.Feedback, error) {
	if _, err := s.ivRepo.GetByID(ctx, interviewID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: собеседование не найдено", ErrNotFound)
		}
		return nil, fmt.Errorf("проверка собеседования: %w", err)
	}

	if _, err := s.fbRepo.GetByInterview(ctx, interviewID); err == nil {
		return nil, fmt.Errorf("%w: отзыв по этому собеседованию уже существует", ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("проверка отзыва: %w", err)
	}

	fb := &model.Feedback{
		InterviewID: interviewID,
		Rating:      rating,
		Comment:     comment,
	}

	if err := s.fbRepo.Create(ctx, fb); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Проигравший конкурентной вставки — тот же внешний конфликт
			return nil, fmt.Errorf("%w: отзыв по этому собеседованию уже существует", ErrConflict)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: собеседование не найдено", ErrNotFound)
		}
		return nil, fmt.Errorf("создание отзыва: %w", err)
	}

	s.logger.Info("Отзыв добавлен",
		slog.Int64("feedback_id", fb.ID),
		slog.Int64("interview_id", interviewID),
		slog.Int("rating", rating),
	)

	return fb, nil
}

// ListForInterview возвращает отзывы собеседования по id.
// Если собеседование не найдено — ErrNotFound.
func (s *FeedbackService) ListForInterview(ctx context.Context, interviewID int64) ([]*model.Feedback, error) {
	if _, err := s.ivRepo.GetByID(ctx, interviewID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: собеседование не найдено", ErrNotFound)
		}
		return nil, fmt.Errorf("проверка собеседования: %w", err)
	}

	feedback, err := s.fbRepo.ListByInterview(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("получение отзывов собеседования: %w", err)
	}
	return feedback, nil
}
