// candidates.go — сервис кандидатов.
// Проверка уникальности email, CRUD и сборка вложенного представления
// кандидат → собеседования → отзывы явными batched-запросами.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hiretrack/hiretrack/internal/domain/model"
	"github.com/hiretrack/hiretrack/internal/repository"
)

// CandidateService — сервис управления кандидатами.
type CandidateService struct {
	candRepo repository.CandidateRepository
	ivRepo   repository.InterviewRepository
	fbRepo   repository.FeedbackRepository
	logger   *slog.Logger
}

// NewCandidateService создаёт сервис кандидатов.
func NewCandidateService(
	candRepo repository.CandidateRepository,
	ivRepo repository.InterviewRepository,
	fbRepo repository.FeedbackRepository,
	logger *slog.Logger,
) *CandidateService {
	return &CandidateService{
		candRepo: candRepo,
		ivRepo:   ivRepo,
		fbRepo:   fbRepo,
		logger:   logger.With(slog.String("component", "candidate_service")),
	}
}

// InterviewWithFeedback — собеседование с вложенными отзывами
// для списочного представления кандидатов.
type InterviewWithFeedback struct {
	*model.Interview
	Feedback []*model.Feedback
}

// CandidateWithInterviews — кандидат с вложенными собеседованиями.
type CandidateWithInterviews struct {
	*model.Candidate
	Interviews []*InterviewWithFeedback
}

// Create создаёт нового кандидата со статусом APPLIED.
// Если email уже занят — ErrConflict; проверка до вставки даёт понятное
// сообщение, уникальный индекс в БД закрывает гонку двух запросов.
func (s *CandidateService) Create(ctx context.Context, name, email, position string) (*model.Candidate, error) {
	_, err := s.candRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("%w: кандидат с таким email уже существует", ErrConflict)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("проверка email: %w", err)
	}

	c := &model.Candidate{
		ID:       uuid.New().String(),
		Name:     name,
		Email:    email,
		Position: position,
		Status:   model.StatusApplied,
	}

	if err := s.candRepo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Проигравший конкурентной вставки — тот же внешний конфликт
			return nil, fmt.Errorf("%w: кандидат с таким email уже существует", ErrConflict)
		}
		return nil, fmt.Errorf("создание кандидата: %w", err)
	}

	s.logger.Info("Кандидат создан",
		slog.String("candidate_id", c.ID),
		slog.String("position", c.Position),
	)

	return c, nil
}

// List возвращает всех кандидатов (по created_at) с вложенными
// собеседованиями (по scheduled_at) и их отзывами (по id).
// Три запроса: кандидаты, затем собеседования и отзывы одним
// batched-запросом каждый — без ленивых обходов связей.
func (s *CandidateService) List(ctx context.Context) ([]*CandidateWithInterviews, error) {
	candidates, err := s.candRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение списка кандидатов: %w", err)
	}

	candidateIDs := make([]string, len(candidates))
	for i, c := range candidates {
		candidateIDs[i] = c.ID
	}

	interviews, err := s.ivRepo.ListByCandidateIDs(ctx, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("получение собеседований: %w", err)
	}

	interviewIDs := make([]int64, len(interviews))
	for i, iv := range interviews {
		interviewIDs[i] = iv.ID
	}

	feedback, err := s.fbRepo.ListByInterviewIDs(ctx, interviewIDs)
	if err != nil {
		return nil, fmt.Errorf("получение отзывов: %w", err)
	}

	// Сборка: отзывы по собеседованиям, собеседования по кандидатам.
	// Порядок внутри групп сохраняется из отсортированных выборок.
	fbByInterview := make(map[int64][]*model.Feedback, len(interviews))
	for _, fb := range feedback {
		fbByInterview[fb.InterviewID] = append(fbByInterview[fb.InterviewID], fb)
	}

	ivByCandidate := make(map[string][]*InterviewWithFeedback, len(candidates))
	for _, iv := range interviews {
		ivByCandidate[iv.CandidateID] = append(ivByCandidate[iv.CandidateID], &InterviewWithFeedback{
			Interview: iv,
			Feedback:  fbByInterview[iv.ID],
		})
	}

	result := make([]*CandidateWithInterviews, len(candidates))
	for i, c := range candidates {
		result[i] = &CandidateWithInterviews{
			Candidate:  c,
			Interviews: ivByCandidate[c.ID],
		}
	}
	return result, nil
}

// UpdateStatus меняет статус кандидата.
// Если кандидат не найден — ErrNotFound.
func (s *CandidateService) UpdateStatus(ctx context.Context, id string, status model.CandidateStatus) (*model.Candidate, error) {
	c, err := s.candRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: кандидат не найден", ErrNotFound)
		}
		return nil, fmt.Errorf("обновление статуса кандидата: %w", err)
	}

	s.logger.Info("Статус кандидата обновлён",
		slog.String("candidate_id", id),
		slog.String("status", string(status)),
	)

	return c, nil
}

// Delete удаляет кандидата; собеседования и отзывы удаляются каскадом.
// Если кандидат не найден — ErrNotFound.
func (s *CandidateService) Delete(ctx context.Context, id string) error {
	if err := s.candRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: кандидат не найден", ErrNotFound)
		}
		return fmt.Errorf("удаление кандидата: %w", err)
	}

	s.logger.Info("Кандидат удалён", slog.String("candidate_id", id))
	return nil
}
