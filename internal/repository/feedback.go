package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hiretrack/hiretrack/internal/domain/model"
)

// FeedbackRepository — интерфейс доступа к таблице feedback.
type FeedbackRepository interface {
	// Create создаёт отзыв. ID назначает БД.
	Create(ctx context.Context, fb *model.Feedback) error
	// GetByInterview возвращает отзыв по ID собеседования.
	GetByInterview(ctx context.Context, interviewID int64) (*model.Feedback, error)
	// ListByInterview возвращает отзывы собеседования,
	// отсортированные по id.
	ListByInterview(ctx context.Context, interviewID int64) ([]*model.Feedback, error)
	// ListByInterviewIDs возвращает отзывы всех перечисленных
	// собеседований одним запросом (batched-fetch для вложенных списков).
	ListByInterviewIDs(ctx context.Context, interviewIDs []int64) ([]*model.Feedback, error)
}

// feedbackRepo — реализация FeedbackRepository.
type feedbackRepo struct {
	db DBTX
}

// NewFeedbackRepository создаёт репозиторий отзывов.
func NewFeedbackRepository(db DBTX) FeedbackRepository {
	return &feedbackRepo{db: db}
}

const feedbackColumns = `id, interview_id, rating, comment`

func (r *feedbackRepo) Create(ctx context.Context, fb *model.Feedback) error {
	query := `
		INSERT INTO feedback (interview_id, rating, comment)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		fb.InterviewID, fb.Rating, fb.Comment,
	).Scan(&fb.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: отзыв по этому собеседованию уже существует", ErrConflict)
		}
		if isForeignKeyViolation(err) {
			// Собеседование удалено между проверкой и вставкой
			return fmt.Errorf("%w: собеседование не найдено", ErrNotFound)
		}
		return fmt.Errorf("ошибка создания отзыва: %w", err)
	}
	return nil
}

func (r *feedbackRepo) GetByInterview(ctx context.Context, interviewID int64) (*model.Feedback, error) {
	query := fmt.Sprintf(`SELECT %s FROM feedback WHERE interview_id = $1`, feedbackColumns)

	fb := &model.Feedback{}
	err := r.db.QueryRow(ctx, query, interviewID).Scan(
		&fb.ID, &fb.InterviewID, &fb.Rating, &fb.Comment,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения отзыва: %w", err)
	}
	return fb, nil
}

func (r *feedbackRepo) ListByInterview(ctx context.Context, interviewID int64) ([]*model.Feedback, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM feedback
		WHERE interview_id = $1
		ORDER BY id`, feedbackColumns)

	rows, err := r.db.Query(ctx, query, interviewID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения отзывов собеседования: %w", err)
	}
	defer rows.Close()

	return scanFeedback(rows)
}

func (r *feedbackRepo) ListByInterviewIDs(ctx context.Context, interviewIDs []int64) ([]*model.Feedback, error) {
	if len(interviewIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM feedback
		WHERE interview_id = ANY($1)
		ORDER BY id`, feedbackColumns)

	rows, err := r.db.Query(ctx, query, interviewIDs)
	if err != nil {
		return nil, fmt.Errorf("ошибка batched-получения отзывов: %w", err)
	}
	defer rows.Close()

	return scanFeedback(rows)
}

// scanFeedback сканирует все строки результата в срез моделей.
func scanFeedback(rows pgx.Rows) ([]*model.Feedback, error) {
	var result []*model.Feedback
	for rows.Next() {
		fb := &model.Feedback{}
		if err := rows.Scan(
			&fb.ID, &fb.InterviewID, &fb.Rating, &fb.Comment,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования отзыва: %w", err)
		}
		result = append(result, fb)
	}
	return result, rows.Err()
}
