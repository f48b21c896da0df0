// Package services orchestrates report generation across the session
// store, the engine, the xlsx writer, the history database and the
// event broker.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pontber/internal/amqp"
	"pontber/internal/dataset"
	"pontber/internal/report"
	"pontber/internal/storage"
	"pontber/internal/xlsx"
)

// ErrVariantUnknown is returned for report identifiers outside the
// four variants.
var ErrVariantUnknown = errors.New("unknown report variant")

// ErrNoDataset is returned when no timesheet has been loaded yet.
var ErrNoDataset = dataset.ErrNoDataset

// Result is one generated report file plus its metadata.
type Result struct {
	Variant      report.Variant
	FileName     string
	Content      []byte
	RowCount     int
	SummaryCount int
	PaymentTotal float64
	Revision     uint64
	HistoryID    int64
}

// ReportService generates report files from the current session.
// History and events are best-effort: their failures are logged, never
// surfaced, because the download itself already succeeded.
type ReportService struct {
	store   *dataset.Store
	history *storage.Repository
	events  *amqp.Client
}

func NewReportService(store *dataset.Store, history *storage.Repository, events *amqp.Client) *ReportService {
	return &ReportService{store: store, history: history, events: events}
}

// Generate runs one variant over the current session snapshot and
// renders the xlsx file.
func (s *ReportService) Generate(ctx context.Context, variantID string) (Result, error) {
	v, ok := report.VariantByID(variantID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrVariantUnknown, variantID)
	}
	if !s.store.Loaded() {
		return Result{}, ErrNoDataset
	}

	snap := s.store.Snapshot()
	rows, stats := report.Generate(snap.Rows, report.Params{
		Variant:     v,
		MultiplierA: snap.MultiplierA,
		MultiplierB: snap.MultiplierB,
		Overrides:   snap.MultiplierOverrides,
	})

	content, err := xlsx.WriteReport(v, rows)
	if err != nil {
		return Result{}, fmt.Errorf("render report %s: %w", v.ID, err)
	}

	result := Result{
		Variant:      v,
		FileName:     fmt.Sprintf("%s-%s.xlsx", v.ID, time.Now().Format("20060102-150405")),
		Content:      content,
		RowCount:     stats.DataRows,
		SummaryCount: stats.SummaryRows,
		PaymentTotal: stats.PaymentTotal,
		Revision:     snap.Revision,
	}
	result.HistoryID = s.recordHistory(ctx, result, snap.Source)
	s.publishEvent(ctx, result, snap.Source)

	slog.InfoContext(ctx, "Report generated",
		"variant", v.ID,
		"rows", stats.DataRows,
		"summaries", stats.SummaryRows,
		"payment_total", stats.PaymentTotal)
	return result, nil
}

func (s *ReportService) recordHistory(ctx context.Context, r Result, source string) int64 {
	if s.history == nil {
		return 0
	}
	id, err := s.history.Record(ctx, storage.ReportEntry{
		Variant:      r.Variant.ID,
		Source:       source,
		RowCount:     r.RowCount,
		SummaryCount: r.SummaryCount,
		PaymentTotal: r.PaymentTotal,
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to record report history",
			"variant", r.Variant.ID, "error", err)
		return 0
	}
	return id
}

func (s *ReportService) publishEvent(ctx context.Context, r Result, source string) {
	if s.events == nil {
		slog.DebugContext(ctx, "Event broker not configured, skipping report event")
		return
	}
	msg := amqp.NewReportGeneratedMessage(r.HistoryID, r.Variant.ID, source, r.RowCount, r.SummaryCount, r.PaymentTotal)
	if err := s.events.PublishReportGenerated(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish report event",
			"variant", r.Variant.ID, "error", err)
	}
}

// RecentHistory lists the latest generated reports, when a history
// database is configured.
func (s *ReportService) RecentHistory(ctx context.Context, limit int) ([]storage.ReportEntry, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.Recent(ctx, limit)
}

// Close releases the service's external resources.
func (s *ReportService) Close() error {
	var errs []error
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close history: %w", err))
		}
	}
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close events: %w", err))
		}
	}
	return errors.Join(errs...)
}
