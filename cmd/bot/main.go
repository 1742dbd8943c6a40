package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/ulafin/finbot/internal/bot"
	"github.com/ulafin/finbot/internal/capture"
	"github.com/ulafin/finbot/internal/charts"
	"github.com/ulafin/finbot/internal/config"
	"github.com/ulafin/finbot/internal/kv"
	"github.com/ulafin/finbot/internal/ocr"
	"github.com/ulafin/finbot/internal/ratelimit"
	"github.com/ulafin/finbot/internal/repository"
	"github.com/ulafin/finbot/internal/service"
	"github.com/ulafin/finbot/internal/session"
	"github.com/ulafin/finbot/migrations"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return err
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(db, "."); err != nil {
		return err
	}

	var store kv.Store
	if cfg.RedisURL != "" {
		redisStore, err := kv.NewRedis(cfg.RedisURL)
		if err != nil {
			return err
		}
		if err := redisStore.Ping(ctx); err != nil {
			return err
		}
		defer redisStore.Close()
		store = redisStore
		log.Info("session store: redis")
	} else {
		store = kv.NewMemory()
		log.Warn("session store: in-memory, drafts will not survive restart")
	}

	var recognizer capture.Recognizer
	if cfg.VisionAPIKey != "" {
		engine, err := ocr.NewVisionEngine(ctx, cfg.VisionAPIKey)
		if err != nil {
			return err
		}
		recognizer = ocr.NewExtractor(engine)
		log.Info("screenshot recognition enabled")
	} else {
		log.Warn("screenshot recognition disabled, VISION_API_KEY is empty")
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	deps := bot.Deps{
		Users:        service.NewUserService(userRepo, cfg.DefaultCurrency),
		Categories:   service.NewCategoryService(categoryRepo),
		Transactions: service.NewTransactionService(transactionRepo),
		Reports:      service.NewReportService(transactionRepo, categoryRepo),
		Charts:       charts.NewChartGenerator(),
		Sessions:     session.NewStore(store),
		Limiter:      ratelimit.New(store),
		Recognizer:   recognizer,
		RateLimit:    cfg.RateLimit,
		RateWindow:   cfg.RateWindow,
		Logger:       log,
		Debug:        cfg.Debug,
	}

	b, err := bot.NewBot(cfg.TelegramToken, deps)
	if err != nil {
		return err
	}

	if cfg.WebhookListen != "" {
		err = b.StartWebhook(ctx, cfg.WebhookListen)
	} else {
		err = b.Start(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("bot stopped")
	return nil
}
