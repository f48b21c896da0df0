// Package storage persists the report generation history. The
// computation core itself stays stateless; this is an audit trail of
// what was generated, not session state.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a history entry does not exist.
var ErrNotFound = errors.New("report history entry not found")

// ReportEntry is one generated report.
type ReportEntry struct {
	ID           int64
	Variant      string
	Source       string
	RowCount     int
	SummaryCount int
	PaymentTotal float64
	GeneratedAt  time.Time
}

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Record inserts a history entry and returns its ID.
func (r *Repository) Record(ctx context.Context, e ReportEntry) (int64, error) {
	generatedAt := e.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO report_history (variant, source, row_count, summary_count, payment_total, generated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Variant, e.Source, e.RowCount, e.SummaryCount, e.PaymentTotal, generatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert report history: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("report history id: %w", err)
	}

	slog.InfoContext(ctx, "Report recorded in history",
		"id", id,
		"variant", e.Variant,
		"row_count", e.RowCount,
		"payment_total", e.PaymentTotal)
	return id, nil
}

// Get fetches one history entry by ID.
func (r *Repository) Get(ctx context.Context, id int64) (ReportEntry, error) {
	var e ReportEntry
	err := r.db.QueryRowContext(ctx,
		`SELECT id, variant, source, row_count, summary_count, payment_total, generated_at
		 FROM report_history WHERE id = ?`, id).
		Scan(&e.ID, &e.Variant, &e.Source, &e.RowCount, &e.SummaryCount, &e.PaymentTotal, &e.GeneratedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ReportEntry{}, ErrNotFound
	}
	if err != nil {
		return ReportEntry{}, fmt.Errorf("get report history entry: %w", err)
	}
	return e, nil
}

// Recent lists the newest history entries, most recent first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]ReportEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, variant, source, row_count, summary_count, payment_total, generated_at
		 FROM report_history ORDER BY generated_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list report history: %w", err)
	}
	defer rows.Close()

	var entries []ReportEntry
	for rows.Next() {
		var e ReportEntry
		if err := rows.Scan(&e.ID, &e.Variant, &e.Source, &e.RowCount, &e.SummaryCount, &e.PaymentTotal, &e.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scan report history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report history: %w", err)
	}
	return entries, nil
}
