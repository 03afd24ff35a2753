// Пакет database — схема и подключение HireTrack.
// Один boot-поток: применить embedded-миграции (candidates → interviews
// → feedback с каскадными FK и уникальными индексами), затем открыть
// pgxpool и проверить соединение ping-ом.
package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hiretrack/hiretrack/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open готовит базу к работе: применяет миграции и возвращает пул
// подключений. Вызывается один раз при старте процесса.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	log := logger.With(slog.String("component", "database"))

	if err := applyMigrations(cfg, log); err != nil {
		return nil, fmt.Errorf("миграции схемы: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("создание пула подключений: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}

	log.Info("База данных готова",
		slog.String("host", cfg.DBHost),
		slog.Int("port", cfg.DBPort),
		slog.String("database", cfg.DBName),
	)
	return pool, nil
}

// applyMigrations накатывает SQL-миграции из embedded FS.
// Повторный запуск на актуальной схеме — no-op.
func applyMigrations(cfg *config.Config, log *slog.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("чтение embedded-миграций: %w", err)
	}

	url := fmt.Sprintf("pgx5://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)

	m, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return fmt.Errorf("инициализация мигратора: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Схема актуальна, миграции не требуются")
			return nil
		}
		return fmt.Errorf("применение миграций: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("чтение версии схемы: %w", err)
	}
	if dirty {
		return fmt.Errorf("схема в dirty-состоянии на версии %d", version)
	}

	log.Info("Миграции применены", slog.Uint64("version", uint64(version)))
	return nil
}

// Таймаут ping-а readiness probe.
const probeTimeout = 3 * time.Second

// PingProbe — проверка PostgreSQL для /health/ready.
// Реализует handlers.ReadinessChecker.
type PingProbe struct {
	pool *pgxpool.Pool
}

// NewPingProbe создаёт проверку готовности поверх пула подключений.
func NewPingProbe(pool *pgxpool.Pool) *PingProbe {
	return &PingProbe{pool: pool}
}

// CheckReady выполняет ping с коротким таймаутом.
// Возвращает статус ("ok", "fail") и сообщение.
func (p *PingProbe) CheckReady() (status string, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	if err := p.pool.Ping(ctx); err != nil {
		return "fail", fmt.Sprintf("PostgreSQL недоступен: %v", err)
	}
	return "ok", "подключение активно"
}
