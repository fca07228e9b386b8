package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memorizer/internal/config"
	"memorizer/internal/handler"
	"memorizer/internal/memo"
	"memorizer/internal/repository/postgres"
	"memorizer/internal/service"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	dbConnectAttempts = 30
	dbRetryDelay      = 2 * time.Second
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Fatal("Memorizer bot failed", zap.Error(err))
	}
}

// run wires the bot and blocks until ctx is cancelled
func run(ctx context.Context, logger *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := connectDatabase(ctx, cfg.DSN(), logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := runMigrations(db, logger); err != nil {
		return err
	}

	userRepo := postgres.NewUserRepo(db)
	fileRepo := postgres.NewMemoFileRepo(db)
	rowRepo := postgres.NewMemoRowRepo(db)

	authService := service.NewAuthService(userRepo, cfg.BotPassword, cfg.DemoPassword)
	memoFileService := service.NewMemoFileService(userRepo, fileRepo, rowRepo, logger)
	studyService := service.NewStudyService(
		userRepo, fileRepo, rowRepo,
		memo.NewLockedRand(),
		cfg.Study.RowsPerPage, cfg.Study.DeductionStep,
		logger,
	)

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			fields := []zap.Field{zap.Error(err)}
			if c != nil && c.Sender() != nil {
				fields = append(fields, zap.Int64("user_id", c.Sender().ID))
			}
			logger.Error("Update handling failed", fields...)
		},
	})
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	handler.NewHandler(bot, authService, memoFileService, studyService, logger).RegisterHandlers()

	go runCleanupJob(ctx, studyService, cfg.Study.WorkspaceTTL, logger)
	go bot.Start()

	logger.Info("Memorizer bot started",
		zap.Int("rows_per_page", cfg.Study.RowsPerPage),
		zap.Duration("workspace_ttl", cfg.Study.WorkspaceTTL),
		zap.Bool("demo_enabled", cfg.DemoPassword != ""),
	)

	<-ctx.Done()
	logger.Info("Shutdown signal received, stopping bot")
	bot.Stop()
	return nil
}

// connectDatabase opens PostgreSQL, retrying while the server starts up
func connectDatabase(ctx context.Context, dsn string, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for attempt := 1; attempt <= dbConnectAttempts; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(5 * time.Minute)
			return db, nil
		}

		logger.Warn("Database is not reachable yet",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(dbRetryDelay):
		}
	}

	db.Close()
	return nil, fmt.Errorf("connect to database after %d attempts: %w", dbConnectAttempts, err)
}

// runMigrations applies the schema from ./migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("Schema is up to date")
	case err != nil:
		return fmt.Errorf("run migrations: %w", err)
	default:
		version, _, _ := m.Version()
		logger.Info("Migrations applied", zap.Uint("version", version))
	}
	return nil
}

// runCleanupJob periodically drops study workspaces idle for longer than ttl
func runCleanupJob(ctx context.Context, studyService *service.StudyService, ttl time.Duration, logger *zap.Logger) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup job stopped")
			return
		case <-ticker.C:
			studyService.EvictIdle(ttl)
		}
	}
}
