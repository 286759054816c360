// Package main запускает консольное приложение гостиничного сервиса.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/hotel-desk/internal/config"
	"github.com/mmeshcher/hotel-desk/internal/handler"
	"github.com/mmeshcher/hotel-desk/internal/logger"
	"github.com/mmeshcher/hotel-desk/internal/repository"
	"github.com/mmeshcher/hotel-desk/internal/service"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogToFile, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger initialization error, logging to stderr:", err)
		if log, err = logger.New(config.DefaultLogLevel, false, ""); err != nil {
			log = zap.NewNop()
		}
	}
	defer log.Sync()

	sugar := log.Sugar()

	repo, err := repository.NewFileRepository(cfg.DataDir, cfg.BackupDir, cfg.ReportDir)
	if err != nil {
		sugar.Fatalw("storage initialization error", "error", err.Error())
	}

	svc := service.NewService(repo, log)
	defer svc.Close()

	if err := svc.Load(); err != nil {
		sugar.Warnw("some collections could not be loaded and start empty", "error", err.Error())
	}
	if err := svc.SeedSampleData(); err != nil {
		sugar.Warnw("sample data was not fully seeded", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	runCtx, stopBackup := context.WithCancel(ctx)
	defer stopBackup()

	// Автоматическое резервное копирование
	if cfg.AutoBackup {
		g.Go(func() error {
			svc.RunAutoBackup(runCtx, time.Duration(cfg.BackupInterval)*time.Minute)
			return nil
		})
	}

	// Консоль; выход из меню останавливает остальные горутины
	g.Go(func() error {
		defer stopBackup()
		sugar.Infow("hotel management system started", "data_dir", cfg.DataDir)
		h := handler.NewHandler(svc, log, os.Stdin, os.Stdout)
		return h.Run(runCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		sugar.Errorw("application terminated with error", "error", err)
	}

	sugar.Info("hotel management system stopped")
}
