package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"pontber/internal/amqp"
	"pontber/internal/cli"
	"pontber/internal/dataset"
	apphttp "pontber/internal/http"
	applog "pontber/internal/log"
	"pontber/internal/services"
	"pontber/internal/sheets"
	gsheet "pontber/internal/sheets/google"
	"pontber/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	store := dataset.NewStore(cfg.DefaultMultiplierA, cfg.DefaultMultiplierB)

	var history *storage.Repository
	if cfg.SQLiteDBPath != "" {
		history = cli.InitHistory(logger, cfg.SQLiteDBPath)
	}

	var events *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Report events enabled", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("Report events disabled, no AMQP_URL provided")
	}

	var rowSource sheets.RowSource
	if cfg.DataSource == "sheets" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		rowSource = client

		// First pull happens at startup so the UI has data right away.
		// Failures are retried via POST /reload.
		pullCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		rows, source, err := client.ReadRows(pullCtx)
		cancel()
		if err != nil {
			logger.Warn("Initial timesheet pull failed", applog.FieldError, err)
		} else {
			count := store.Reload(rows, source)
			logger.Info("Timesheet loaded", applog.FieldSource, source, applog.FieldRowCount, count)
		}
	}

	reportService := services.NewReportService(store, history, events)
	srv := apphttp.NewServer(cfg, store, reportService, rowSource, logger)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting pontber server",
			"port", cfg.Port,
			applog.FieldSource, cfg.DataSource,
			applog.FieldOperation, applog.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down", applog.FieldOperation, applog.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if closeErr := reportService.Close(); closeErr != nil {
		logger.Error("Cleanup error", applog.FieldError, closeErr)
	}
	if err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
