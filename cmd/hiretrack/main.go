// Точка входа HireTrack — бэкенд учёта кандидатов.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// создаёт сервисный слой и API handlers, запускает HTTP-сервер
// с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/hiretrack/hiretrack/internal/api/handlers"
	"github.com/hiretrack/hiretrack/internal/config"
	"github.com/hiretrack/hiretrack/internal/database"
	"github.com/hiretrack/hiretrack/internal/repository"
	"github.com/hiretrack/hiretrack/internal/server"
	"github.com/hiretrack/hiretrack/internal/service"
)

func main() {
	// .env для локальной разработки; в кластере переменные задаёт Deployment
	_ = godotenv.Load()

	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("HireTrack запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// 3. База данных: миграции + пул подключений
	ctx := context.Background()
	pool, err := database.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подготовки базы данных", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4. Repositories
	candRepo := repository.NewCandidateRepository(pool)
	ivRepo := repository.NewInterviewRepository(pool)
	fbRepo := repository.NewFeedbackRepository(pool)

	// 5. Services
	candidatesSvc := service.NewCandidateService(candRepo, ivRepo, fbRepo, logger)
	interviewsSvc := service.NewInterviewService(candRepo, ivRepo, logger)
	feedbackSvc := service.NewFeedbackService(ivRepo, fbRepo, logger)

	// 6. Readiness probe (PostgreSQL)
	pgProbe := database.NewPingProbe(pool)
	healthHandler := handlers.NewHealthHandler(pgProbe)

	// 7. API handler
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		candidatesSvc,
		interviewsSvc,
		feedbackSvc,
		logger,
	)

	// 8. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("HireTrack остановлен")
}
