package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studydash/studydash/internal/cli"
	"github.com/studydash/studydash/internal/sample"
	"github.com/studydash/studydash/internal/service"
	"github.com/studydash/studydash/internal/store"
	"github.com/studydash/studydash/pkg/config"
	"github.com/studydash/studydash/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	recordStore := store.New(cfg.Data.StorePath, logr)

	student, err := recordStore.Load()
	if err != nil {
		logr.Fatal("failed to load record store", zap.Error(err), zap.String("path", recordStore.Path()))
	}
	if student == nil {
		logr.Info("no record found, seeding sample data", zap.String("path", recordStore.Path()))
		student, err = sample.Student(cfg)
		if err != nil {
			logr.Fatal("failed to seed sample data", zap.Error(err))
		}
		if err := recordStore.Save(student); err != nil {
			logr.Fatal("failed to save seeded record", zap.Error(err))
		}
	}

	validate := validator.New()
	records := service.NewRecordService(validate, logr)
	analytics := service.NewAnalyticsService(logr)
	transfer := service.NewTransferService(cfg.Defaults.ModuleCredits, logr)
	reports := service.NewReportService(analytics, logr)

	menu := cli.New(os.Stdin, os.Stdout, records, analytics, transfer, reports,
		recordStore, cfg.Data.ExportDir, logr)

	if err := menu.Run(student); err != nil {
		logr.Fatal("session ended with error", zap.Error(err))
	}
	logr.Info("record saved, bye")
}
