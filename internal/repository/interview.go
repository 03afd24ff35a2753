package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hiretrack/hiretrack/internal/domain/model"
)

// InterviewRepository — интерфейс доступа к таблице interviews.
// Собеседования создаются только через планирование, не обновляются
// и удаляются только каскадом от кандидата.
type InterviewRepository interface {
	// Create создаёт собеседование. ID назначает БД.
	Create(ctx context.Context, iv *model.Interview) error
	// GetByID возвращает собеседование по ID.
	GetByID(ctx context.Context, id int64) (*model.Interview, error)
	// ListByCandidate возвращает собеседования кандидата,
	// отсортированные по scheduled_at.
	ListByCandidate(ctx context.Context, candidateID string) ([]*model.Interview, error)
	// ListByCandidateIDs возвращает собеседования всех перечисленных
	// кандидатов одним запросом (batched-fetch для вложенных списков).
	ListByCandidateIDs(ctx context.Context, candidateIDs []string) ([]*model.Interview, error)
}

// interviewRepo — реализация InterviewRepository.
type interviewRepo struct {
	db DBTX
}

// NewInterviewRepository создаёт репозиторий собеседований.
func NewInterviewRepository(db DBTX) InterviewRepository {
	return &interviewRepo{db: db}
}

const interviewColumns = `id, candidate_id, interviewer, scheduled_at, result`

func (r *interviewRepo) Create(ctx context.Context, iv *model.Interview) error {
	query := `
		INSERT INTO interviews (candidate_id, interviewer, scheduled_at, result)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		iv.CandidateID, iv.Interviewer, iv.ScheduledAt, iv.Result,
	).Scan(&iv.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			// Кандидат удалён между проверкой и вставкой
			return fmt.Errorf("%w: кандидат не найден", ErrNotFound)
		}
		return fmt.Errorf("ошибка создания собеседования: %w", err)
	}
	return nil
}

func (r *interviewRepo) GetByID(ctx context.Context, id int64) (*model.Interview, error) {
	query := fmt.Sprintf(`SELECT %s FROM interviews WHERE id = $1`, interviewColumns)

	iv := &model.Interview{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&iv.ID, &iv.CandidateID, &iv.Interviewer, &iv.ScheduledAt, &iv.Result,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения собеседования: %w", err)
	}
	return iv, nil
}

func (r *interviewRepo) ListByCandidate(ctx context.Context, candidateID string) ([]*model.Interview, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM interviews
		WHERE candidate_id = $1
		ORDER BY scheduled_at`, interviewColumns)

	rows, err := r.db.Query(ctx, query, candidateID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения собеседований кандидата: %w", err)
	}
	defer rows.Close()

	return scanInterviews(rows)
}

func (r *interviewRepo) ListByCandidateIDs(ctx context.Context, candidateIDs []string) ([]*model.Interview, error) {
	if len(candidateIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM interviews
		WHERE candidate_id = ANY($1)
		ORDER BY scheduled_at`, interviewColumns)

	rows, err := r.db.Query(ctx, query, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("ошибка batched-получения собеседований: %w", err)
	}
	defer rows.Close()

	return scanInterviews(rows)
}

// scanInterviews сканирует все строки результата в срез моделей.
func scanInterviews(rows pgx.Rows) ([]*model.Interview, error) {
	var result []*model.Interview
	for rows.Next() {
		iv := &model.Interview{}
		if err := rows.Scan(
			&iv.ID, &iv.CandidateID, &iv.Interviewer, &iv.ScheduledAt, &iv.Result,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования собеседования: %w", err)
		}
		result = append(result, iv)
	}
	return result, rows.Err()
}
