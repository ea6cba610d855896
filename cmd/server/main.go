package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/siakadcloud/siakad-backend/internal/config"
	"github.com/siakadcloud/siakad-backend/internal/database"
	"github.com/siakadcloud/siakad-backend/internal/handler"
	"github.com/siakadcloud/siakad-backend/internal/logger"
	"github.com/siakadcloud/siakad-backend/internal/notification"
	"github.com/siakadcloud/siakad-backend/internal/repository"
	"github.com/siakadcloud/siakad-backend/internal/router"
	"github.com/siakadcloud/siakad-backend/internal/service"
	"github.com/siakadcloud/siakad-backend/internal/storage"
	"github.com/siakadcloud/siakad-backend/internal/validator"
	"github.com/siakadcloud/siakad-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Siakad Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Connect to Object Storage ─────────────────────────────────────
	store, err := storage.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to object storage")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	materialRepo := repository.NewMaterialRepository(pool)
	scoreRepo := repository.NewScoreRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	permitRepo := repository.NewPermitRepository(pool)
	scholarshipRepo := repository.NewScholarshipRepository(pool)
	feeReliefRepo := repository.NewFeeReliefRepository(pool)
	penaltyRepo := repository.NewPenaltyRepository(pool)
	announcementRepo := repository.NewAnnouncementRepository(pool)
	critiqueRepo := repository.NewCritiqueRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	notifier := service.NewNotifier(rdb, log)
	authService := service.NewAuthService(cfg, rdb, userRepo)
	userService := service.NewUserService(userRepo, classRepo, authService, log)
	classService := service.NewClassService(classRepo, userRepo, assignmentRepo, materialRepo, store, log)
	assignmentService := service.NewAssignmentService(assignmentRepo, classService, store, notifier, log)
	materialService := service.NewMaterialService(materialRepo, classService, store, notifier, log)
	scoreService := service.NewScoreService(scoreRepo, classService)
	attendanceService := service.NewAttendanceService(attendanceRepo, classService)
	permitService := service.NewPermitService(permitRepo, attendanceRepo, userRepo, store, notifier, log)
	scholarshipService := service.NewScholarshipService(scholarshipRepo, userRepo, store, notifier, log)
	feeReliefService := service.NewFeeReliefService(feeReliefRepo, userRepo, store, notifier, log)
	penaltyService := service.NewPenaltyService(penaltyRepo, userRepo, notifier, log)
	announcementService := service.NewAnnouncementService(announcementRepo, userRepo, notifier, rdb, log)
	critiqueService := service.NewCritiqueService(critiqueRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService, userService),
		User:         handler.NewUserHandler(userService),
		Class:        handler.NewClassHandler(classService),
		Assignment:   handler.NewAssignmentHandler(assignmentService),
		Material:     handler.NewMaterialHandler(materialService),
		Score:        handler.NewScoreHandler(scoreService),
		Attendance:   handler.NewAttendanceHandler(attendanceService),
		Permit:       handler.NewPermitHandler(permitService),
		Scholarship:  handler.NewScholarshipHandler(scholarshipService),
		FeeRelief:    handler.NewFeeReliefHandler(feeReliefService),
		Penalty:      handler.NewPenaltyHandler(penaltyService),
		Announcement: handler.NewAnnouncementHandler(announcementService),
		Critique:     handler.NewCritiqueHandler(critiqueService),
		Report:       handler.NewReportHandler(scoreService, attendanceService),
		WS:           handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	pusher, err := notification.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize push client")
	}
	notifyWorker := worker.NewNotifyWorker(rdb, pusher, log)
	go notifyWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
