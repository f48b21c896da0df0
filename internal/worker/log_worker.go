// Package worker syncs generated-report events into the external
// report log sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pontber/internal/amqp"
	"pontber/internal/sheets"
	"pontber/internal/storage"
)

// LogWorker consumes report events and appends them to the report log.
// When a history database is available the entry is re-read from it so
// the log always reflects the stored record; otherwise the message
// payload is trusted as-is.
type LogWorker struct {
	history  *storage.Repository
	appender sheets.ReportLogAppender
}

func NewLogWorker(history *storage.Repository, appender sheets.ReportLogAppender) *LogWorker {
	return &LogWorker{history: history, appender: appender}
}

// HandleReportEvent processes a single report event.
func (w *LogWorker) HandleReportEvent(ctx context.Context, msg *amqp.ReportGeneratedMessage) error {
	if w.appender == nil {
		slog.WarnContext(ctx, "No report log appender configured, dropping event",
			"id", msg.ID, "variant", msg.Variant)
		return nil
	}

	entry := sheets.ReportLogEntry{
		ID:           msg.ID,
		Variant:      msg.Variant,
		Source:       msg.Source,
		RowCount:     msg.RowCount,
		PaymentTotal: msg.PaymentTotal,
		GeneratedAt:  msg.Timestamp.UTC().Format(time.RFC3339),
	}

	if w.history != nil && msg.ID != 0 {
		stored, err := w.history.Get(ctx, msg.ID)
		if err != nil {
			return fmt.Errorf("load history entry %d: %w", msg.ID, err)
		}
		entry.Variant = stored.Variant
		entry.Source = stored.Source
		entry.RowCount = stored.RowCount
		entry.PaymentTotal = stored.PaymentTotal
		entry.GeneratedAt = stored.GeneratedAt.UTC().Format(time.RFC3339)
	}

	ref, err := w.appender.AppendReportLog(ctx, entry)
	if err != nil {
		return fmt.Errorf("append report log: %w", err)
	}

	slog.InfoContext(ctx, "Report event synced to log",
		"id", msg.ID,
		"variant", entry.Variant,
		"ref", ref)
	return nil
}

// Run consumes report events until the context ends.
func (w *LogWorker) Run(ctx context.Context, events *amqp.Client) error {
	return events.ConsumeReportEvents(ctx, func(msg *amqp.ReportGeneratedMessage) error {
		return w.HandleReportEvent(ctx, msg)
	})
}
