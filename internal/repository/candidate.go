package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hiretrack/hiretrack/internal/domain/model"
)

// CandidateRepository — интерфейс CRUD для таблицы candidates.
type CandidateRepository interface {
	// Create создаёт нового кандидата. Timestamps назначает БД.
	Create(ctx context.Context, c *model.Candidate) error
	// GetByID возвращает кандидата по UUID.
	GetByID(ctx context.Context, id string) (*model.Candidate, error)
	// GetByEmail возвращает кандидата по email.
	GetByEmail(ctx context.Context, email string) (*model.Candidate, error)
	// List возвращает всех кандидатов, отсортированных по created_at.
	List(ctx context.Context) ([]*model.Candidate, error)
	// UpdateStatus меняет статус кандидата и обновляет updated_at.
	UpdateStatus(ctx context.Context, id string, status model.CandidateStatus) (*model.Candidate, error)
	// Delete удаляет кандидата; собеседования и отзывы удаляются каскадом.
	Delete(ctx context.Context, id string) error
}

// candidateRepo — реализация CandidateRepository.
type candidateRepo struct {
	db DBTX
}

// NewCandidateRepository создаёт репозиторий кандидатов.
func NewCandidateRepository(db DBTX) CandidateRepository {
	return &candidateRepo{db: db}
}

const candidateColumns = `id, name, email, position, status, created_at, updated_at`

// scanCandidate сканирует строку результата в модель Candidate.
func scanCandidate(row pgx.Row) (*model.Candidate, error) {
	c := &model.Candidate{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Position, &c.Status,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *candidateRepo) Create(ctx context.Context, c *model.Candidate) error {
	query := `
		INSERT INTO candidates (id, name, email, position, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		c.ID, c.Name, c.Email, c.Position, c.Status,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: кандидат с таким email уже существует", ErrConflict)
		}
		return fmt.Errorf("ошибка создания кандидата: %w", err)
	}
	return nil
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*model.Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE id = $1`, candidateColumns)
	c, err := scanCandidate(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения кандидата: %w", err)
	}
	return c, nil
}

func (r *candidateRepo) GetByEmail(ctx context.Context, email string) (*model.Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE email = $1`, candidateColumns)
	c, err := scanCandidate(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения кандидата по email: %w", err)
	}
	return c, nil
}

func (r *candidateRepo) List(ctx context.Context) ([]*model.Candidate, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM candidates
		ORDER BY created_at`, candidateColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка кандидатов: %w", err)
	}
	defer rows.Close()

	var result []*model.Candidate
	for rows.Next() {
		c := &model.Candidate{}
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.Position, &c.Status,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования кандидата: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *candidateRepo) UpdateStatus(ctx context.Context, id string, status model.CandidateStatus) (*model.Candidate, error) {
	query := fmt.Sprintf(`
		UPDATE candidates
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, candidateColumns)

	c, err := scanCandidate(r.db.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления статуса кандидата: %w", err)
	}
	return c, nil
}

func (r *candidateRepo) Delete(ctx context.Context, id string) error {
	// ON DELETE CASCADE удаляет собеседования и их отзывы
	// в той же транзакции, что и сам DELETE.
	tag, err := r.db.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления кандидата: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
