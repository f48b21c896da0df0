package main

import (
	"context"
	"errors"
	"os"
	"time"

	"pontber/internal/amqp"
	"pontber/internal/cli"
	applog "pontber/internal/log"
	"pontber/internal/sheets"
	gsheet "pontber/internal/sheets/google"
	"pontber/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	logger.Info("Starting pontber-worker", applog.FieldOperation, applog.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	history := cli.InitHistory(logger, cfg.SQLiteDBPath)
	defer history.Close()

	// The external report log is optional. Without it events are still
	// drained, just not mirrored anywhere.
	var appender sheets.ReportLogAppender
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		appender = client
		logger.Info("Google Sheets report log enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets report log disabled, no GOOGLE_SPREADSHEET_ID provided")
	}

	events, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer events.Close()

	logWorker := worker.NewLogWorker(history, appender)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	go func() {
		if err := logWorker.Run(ctx, events); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Event consumption failed", applog.FieldError, err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
