package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRecordAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.Record(ctx, ReportEntry{
		Variant:      "osszesito",
		Source:       "timesheet.xlsx",
		RowCount:     42,
		SummaryCount: 5,
		PaymentTotal: 1234,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Variant != "osszesito" || got.RowCount != 42 || got.PaymentTotal != 1234 {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if got.GeneratedAt.IsZero() {
		t.Fatal("GeneratedAt not set")
	}
}

func TestGetNotFound(t *testing.T) {
	repo := newTestRepository(t)
	if _, err := repo.Get(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, variant := range []string{"osszesito", "reszletes", "nev-osszesito"} {
		if _, err := repo.Record(ctx, ReportEntry{Variant: variant, RowCount: 1}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].ID < entries[1].ID {
		t.Fatalf("entries not newest-first: %v, %v", entries[0].ID, entries[1].ID)
	}
}
