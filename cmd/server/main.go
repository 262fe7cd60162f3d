package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vytor/wordflash/internal/api"
	"github.com/vytor/wordflash/internal/clock"
	"github.com/vytor/wordflash/internal/config"
	"github.com/vytor/wordflash/internal/db"
	"github.com/vytor/wordflash/internal/jobs"
	"github.com/vytor/wordflash/internal/lock"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/metrics"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/repository/sqlite"
	"github.com/vytor/wordflash/internal/services"
	"github.com/vytor/wordflash/internal/worker"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wordflash",
		Short: "Vocabulary learning engine",
		Long: `WordFlash schedules vocabulary reviews with spaced repetition,
builds a frozen daily practice task per learner and grades practice sessions.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the daily prebuild scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			names, err := db.Migrations()
			if err != nil {
				return err
			}
			log.Info("migrations applied: %d known", len(names))
			return database.Close()
		},
	})

	var date string
	prebuildCmd := &cobra.Command{
		Use:   "prebuild",
		Short: "Build the daily task for every user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return prebuild(cmd.Context(), date)
		},
	}
	prebuildCmd.Flags().StringVar(&date, "date", "", "calendar day (YYYY-MM-DD); defaults to each user's today")
	rootCmd.AddCommand(prebuildCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("command failed: %v", err)
		os.Exit(1)
	}
}

func setup() (config.Config, *logger.Logger, error) {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(cfg.LogFormat != "json"),
		logger.WithJSON(cfg.LogFormat == "json"),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		return cfg, log, err
	}
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("max_words_per_task=%d", cfg.MaxWordsPerTask)
	log.Debug("lock_timeout=%s", cfg.LockTimeout)
	log.Debug("default_timezone=%s", cfg.DefaultTimezone)
	log.Debug("prebuild_at=%s", cfg.PrebuildAt)
	log.Debug("prebuild_workers=%d", cfg.PrebuildWorkers)
	return cfg, log, nil
}

func newServices(cfg config.Config, store repository.Store) *services.Services {
	return services.New(services.Deps{
		Store: store,
		Locks: lock.New(cfg.LockTimeout),
		Clock: clock.System{},
		Config: services.EngineConfig{
			Task:                  cfg.Engine(),
			SRS:                   cfg.SRS(),
			MultipleChoiceOptions: cfg.MultipleChoiceOptions,
			DefaultTimezone:       cfg.DefaultTimezone,
		},
		Rand: services.TimeSeeded,
	})
}

func serve(ctx context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	log.Info("===========================================")
	log.Info("WordFlash Server Starting")
	log.Info("===========================================")

	metrics.Init()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return err
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	store := sqlite.NewStore(database.DB)
	svc := newServices(cfg, store)
	srv := api.NewServer(svc, store, api.NewUserLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst))

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	pool := worker.NewPool(cfg.PrebuildWorkers, cfg.PrebuildQueueSize)
	pool.Start(workerCtx)

	loc, err := clock.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		return err
	}
	scheduler, err := jobs.NewScheduler(cfg.PrebuildAt, loc, store.Users(), jobs.NewWorkerQueue(pool, svc.Tasks))
	if err != nil {
		log.Error("failed to create scheduler: %v", err)
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := scheduler.Start(gctx); err != nil {
			log.Error("failed to start scheduler: %v", err)
			return err
		}
		<-gctx.Done()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		log.Debug("stopping scheduler")
		scheduler.Stop()

		log.Debug("shutting down HTTP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error: %v", err)
		}

		log.Debug("stopping prebuild pool")
		cancelWorkers()
		pool.Stop()
		return nil
	})

	err = g.Wait()

	log.Info("===========================================")
	log.Info("WordFlash Server Stopped")
	log.Info("===========================================")
	return err
}

func prebuild(ctx context.Context, date string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	var day clock.Day
	if date != "" {
		if day, err = clock.ParseDay(date); err != nil {
			return err
		}
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	store := sqlite.NewStore(database.DB)
	svc := newServices(cfg, store)

	users, err := store.Users().List(ctx)
	if err != nil {
		return err
	}
	built := 0
	for _, u := range users {
		if day == "" {
			_, err = svc.Tasks.Prebuild(ctx, u.ID)
		} else {
			_, err = svc.Tasks.GetDailyTask(ctx, u.ID, day)
		}
		if err != nil {
			log.Error("failed to prebuild task: user_id=%s, err=%v", u.ID, err)
			continue
		}
		built++
	}
	log.Info("prebuild finished: users=%d, built=%d", len(users), built)
	return nil
}
