package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	cashtrackr "github.com/goliatone/cashtrackr"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()

	if err := run(logger); err != nil {
		logger.Fatal().Err(err).Msg("exiting")
	}
}

func run(logger zerolog.Logger) error {
	cfg, err := cashtrackr.LoadConfig()
	if err != nil {
		return err
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	ctx := context.Background()
	if err := cashtrackr.CreateSchema(ctx, db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	log := newLogAdapter(logger)

	repo := cashtrackr.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		return err
	}

	tokens := cashtrackr.NewTokenService(
		[]byte(cfg.SigningKey),
		cfg.TokenExpiration,
		cfg.Issuer,
		cfg.Audience,
		log,
	)

	accounts := cashtrackr.NewAccountService(repo, tokens).
		WithLogger(log).
		WithNotifier(cashtrackr.NewLogNotifier(cfg.FrontendURL, log))

	app := fiber.New(fiber.Config{
		AppName:      "cashtrackr",
		ErrorHandler: cashtrackr.ErrorHandler,
	})

	protected := cashtrackr.RequireAuth(cashtrackr.AuthConfig{
		Tokens: tokens,
		Users:  repo.Users(),
		Logger: log,
	})

	api := app.Group("/api")
	cashtrackr.RegisterAuthRoutes(api, cashtrackr.NewAuthController(
		cashtrackr.WithAccountService(accounts),
		cashtrackr.WithControllerLogger(log),
	), protected)
	cashtrackr.RegisterBudgetRoutes(api, cashtrackr.NewBudgetController(repo.Budgets(), log), protected)

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("http server listening")
		errc <- app.Listen(cfg.Addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

// logAdapter exposes a zerolog logger through the service's printf-style
// leveled logging interface.
type logAdapter struct {
	log zerolog.Logger
}

func newLogAdapter(log zerolog.Logger) logAdapter {
	return logAdapter{log: log}
}

func (l logAdapter) Debug(format string, args ...any) { l.emit(l.log.Debug(), format, args) }
func (l logAdapter) Info(format string, args ...any)  { l.emit(l.log.Info(), format, args) }
func (l logAdapter) Warn(format string, args ...any)  { l.emit(l.log.Warn(), format, args) }
func (l logAdapter) Error(format string, args ...any) { l.emit(l.log.Error(), format, args) }

func (l logAdapter) emit(ev *zerolog.Event, format string, args []any) {
	if len(args) == 0 {
		ev.Msg(format)
		return
	}
	ev.Msg(fmt.Sprintf(format, args...))
}
