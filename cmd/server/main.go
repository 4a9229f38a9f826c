package main

import (
	"context"
	"errors"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/placora/backend/auth"
	"github.com/placora/backend/config"
	"github.com/placora/backend/favorite"
	"github.com/placora/backend/logger"
	"github.com/placora/backend/mail"
	"github.com/placora/backend/metrics"
	"github.com/placora/backend/place"
	"github.com/placora/backend/review"
	"github.com/placora/backend/store"
)

func main() {
	cfg := config.MustLoad()

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appLogger := logger.NewAdapter(zapLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, store.Config{
		Debug: cfg.Database.Debug,
		DSN:   cfg.Database.DSN,
	})
	if err != nil {
		zapLogger.Fatal("database bootstrap failed", zap.Error(err))
	}
	defer db.Close()

	repos := auth.NewRepositoryManager(db)
	placeRepo := place.NewRepository(db)
	reviewRepo := review.NewRepository(db)
	favoriteRepo := favorite.NewRepository(db)

	tokens := auth.NewTokenService(cfg, appLogger)

	notifier := mail.NewSMTPNotifier(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}).WithLogger(appLogger)

	composer, err := mail.NewComposer(notifier, cfg.Auth.FrontendURL)
	if err != nil {
		zapLogger.Fatal("mail templates failed to load", zap.Error(err))
	}

	collector := metrics.NewCollector()

	accounts := auth.NewAccounts(repos, tokens, composer).
		WithLogger(appLogger).
		WithActivitySink(collector).
		WithPhoneRegion(cfg.Auth.PhoneRegion).
		WithPhotoCleaner(photoCleaner(cfg.Uploads.Dir))

	guard := auth.NewGuard(auth.GuardConfig{
		Tokens:     tokens,
		Users:      repos.Users(),
		ContextKey: cfg.Auth.ContextKey,
		Sink:       collector,
		Logger:     appLogger,
	})

	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	auth.RegisterAuthRoutes(app,
		auth.WithAccountsManager(accounts),
		auth.WithControllerLogger(appLogger),
	)
	auth.RegisterUserRoutes(app, guard, accounts, repos)
	place.RegisterRoutes(app, guard, placeRepo)
	review.RegisterRoutes(app, guard, reviewRepo)
	favorite.RegisterRoutes(app, guard, favoriteRepo)

	if cfg.Metrics.Enabled {
		app.Get("/metrics", collector.Handler())
	}

	go func() {
		addr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		zapLogger.Info("server started", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	zapLogger.Info("shutting down")
	if err := app.ShutdownWithTimeout(cfg.HTTP.ShutdownTimeout); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// photoCleaner removes profile photos from the local uploads directory.
// Paths outside the directory and missing files are ignored.
func photoCleaner(dir string) func(path string) error {
	root, err := filepath.Abs(dir)
	if err != nil {
		root = dir
	}
	return func(path string) error {
		target, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, target)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil
		}
		if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
}
