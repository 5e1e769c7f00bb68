// Command fellowtrack runs the risk assessment and escalation service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mentorled/fellowtrack/internal/adapters/drafter"
	"github.com/mentorled/fellowtrack/internal/adapters/http/api"
	"github.com/mentorled/fellowtrack/internal/adapters/mq/queue"
	"github.com/mentorled/fellowtrack/internal/adapters/mq/worker"
	"github.com/mentorled/fellowtrack/internal/adapters/notify"
	"github.com/mentorled/fellowtrack/internal/adapters/repository"
	"github.com/mentorled/fellowtrack/internal/adapters/scheduler"
	"github.com/mentorled/fellowtrack/internal/app"
	"github.com/mentorled/fellowtrack/internal/config"
	"github.com/mentorled/fellowtrack/internal/domain/dedupe"
	"github.com/mentorled/fellowtrack/internal/domain/signal"
	"github.com/mentorled/fellowtrack/internal/domain/warning"
	"github.com/mentorled/fellowtrack/internal/seed"
	"github.com/mentorled/fellowtrack/pkg/logger"
	"github.com/mentorled/fellowtrack/pkg/metrics"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := ossignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.Error(ctx, "service terminated", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log logger.Logger) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}

	store, cleanup, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.SeedFile != "" {
		if err := seed.Load(ctx, store, cfg.SeedFile); err != nil {
			return err
		}
	}

	collector := signal.NewCollector(store,
		signal.WithCheckInLookback(cfg.CheckInLookback),
		signal.WithAssessmentLookback(cfg.AssessmentLookback),
	)

	draftClient := drafter.NewClient(cfg.DrafterBaseURL, cfg.DrafterAPIKey,
		drafter.WithModel(cfg.DrafterModel),
		drafter.WithTimeout(time.Duration(cfg.DrafterTimeoutSeconds)*time.Second),
	)
	machine := warning.NewMachine(store, draftClient)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.NotificationsEnabled {
		notifier = notify.NewSlack(cfg.SlackWebhookURL)
	}

	svc := app.New(store, collector, machine, app.WithNotifier(notifier))

	jobQueue := queue.NewInMemory(queue.WithCapacity(cfg.QueueSize))
	guard := dedupe.NewInMemoryGuard()
	pool := worker.NewPool(cfg.WorkerCount, jobQueue, svc, guard)
	pool.Start(ctx)

	if cfg.SchedulerEnabled {
		opts := []scheduler.Option{
			scheduler.WithInterval(time.Duration(cfg.SchedulerIntervalMinutes) * time.Minute),
		}
		if cfg.ProgramStart != "" {
			start, perr := time.Parse("2006-01-02", cfg.ProgramStart)
			if perr != nil {
				return perr
			}
			opts = append(opts, scheduler.WithProgramStart(start))
		}
		sched := scheduler.New(store, jobQueue, guard, opts...)
		go sched.Run(ctx)
	}

	handler := api.NewHandler(svc)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewRouter(handler, metrics.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", logger.String("addr", cfg.Addr))
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "http shutdown", logger.Error(err))
	}
	if err := jobQueue.Close(); err != nil {
		log.Warn(ctx, "queue close", logger.Error(err))
	}
	return pool.Shutdown(shutdownCtx)
}

// openStore selects the repository backend from configuration.
func openStore(cfg *config.Config) (repository.Store, func(), error) {
	switch cfg.Storage {
	case "mysql":
		s, err := repository.NewMySQLStore(cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return repository.NewMemStore(), func() {}, nil
	}
}
