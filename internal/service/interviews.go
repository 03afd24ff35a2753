// interviews.go — сервис собеседований.
// Планирование собеседования для существующего кандидата и список
// собеседований кандидата.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hiretrack/hiretrack/internal/domain/model"
	"github.com/hiretrack/hiretrack/internal/repository"
)

// InterviewService — сервис управления собеседованиями.
type InterviewService struct {
	candRepo repository.CandidateRepository
	ivRepo   repository.InterviewRepository
	logger   *slog.Logger
}

// NewInterviewService создаёт сервис собеседований.
func NewInterviewService(
	candRepo repository.CandidateRepository,
	ivRepo repository.InterviewRepository,
	logger *slog.Logger,
) *InterviewService {
	return &InterviewService{
		candRepo: candRepo,
		ivRepo:   ivRepo,
		logger:   logger.With(slog.String("component", "interview_service")),
	}
}

// Schedule планирует собеседование для кандидата.
// Если кандидат не найден — ErrNotFound, запись не создаётся.
func (s *InterviewService) Schedule(ctx context.Context, candidateID, interviewer string, scheduledAt time.Time) (*model.Interview, error) {
	if _, err := s.candRepo.GetByID(ctx, candidateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: кандидат не найден", ErrNotFound)
		}
		return nil, fmt.Errorf("проверка кандидата: %w", err)
	}

	iv := &model.Interview{
		CandidateID: candidateID,
		Interviewer: interviewer,
		ScheduledAt: scheduledAt,
	}

	if err := s.ivRepo.Create(ctx, iv); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Кандидат удалён конкурентным запросом — FK отдал 23503
			return nil, fmt.Errorf("%w: кандидат не найден", ErrNotFound)
		}
		return nil, fmt.Errorf("создание собеседования: %w", err)
	}

	s.logger.Info("Собеседование запланировано",
		slog.Int64("interview_id", iv.ID),
		slog.String("candidate_id", candidateID),
		slog.Time("scheduled_at", scheduledAt),
	)

	return iv, nil
}

// ListForCandidate возвращает собеседования кандидата по scheduled_at.
// Если кандидат не найден — ErrNotFound.
func (s *InterviewService) ListForCandidate(ctx context.Context, candidateID string) ([]*model.Interview, error) {
	if _, err := s.candRepo.GetByID(ctx, candidateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: кандидат не найден", ErrNotFound)
		}
		return nil, fmt.Errorf("проверка кандидата: %w", err)
	}

	interviews, err := s.ivRepo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("получение собеседований кандидата: %w", err)
	}
	return interviews, nil
}
