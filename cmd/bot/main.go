package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/bot"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/category"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/charts"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/config"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/engine"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/identity"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/log"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/repository"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(log.New(0, "main"), "load config", err)
	}
	logger := log.New(cfg.LogLevel, "main")

	repo, err := repository.NewSQLiteRepository(cfg.DBPath)
	if err != nil {
		fatal(logger, "open repository", err)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	registry, err := category.Load(startupCtx, repo)
	if err != nil {
		fatal(logger, "load categories", err)
	}

	mapper := identity.NewMapper(repo, logger)
	if err := mapper.Backfill(startupCtx); err != nil {
		fatal(logger, "backfill identities", err)
	}

	defaultZone, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		fatal(logger, "load default timezone", err)
	}

	ledger := service.NewLedger(repo, registry, defaultZone, logger)
	reporter := service.NewReporter(repo, ledger, cfg.DayStartHour)
	eng := engine.New(mapper, ledger, reporter, registry, charts.NewGenerator(),
		logger, cfg.StorageTimeout, bot.InstructionText)

	b, err := bot.NewBot(cfg.TelegramToken, eng, logger)
	if err != nil {
		fatal(logger, "create bot", err)
	}

	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fatal(logger, "bot stopped", err)
	}
	logger.Info("shutdown complete")
}

func fatal(logger *log.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
