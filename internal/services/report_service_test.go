package services

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"pontber/internal/core"
	"pontber/internal/dataset"
	"pontber/internal/storage"
)

func loadedStore() *dataset.Store {
	s := dataset.NewStore(2.9, 3.1)
	s.Reload([][]core.Cell{
		{"Kód", "Név", "Dátum", "Értékelés", "Pont"},
		{"A1", "SRBN-01", "2025.06.19", 3.0, 4.0},
		{"A2", "HF-EX-01", "2025.06.19", 2.0, 1.0},
	}, "timesheet.xlsx")
	return s
}

func TestGenerateWithoutDataset(t *testing.T) {
	svc := NewReportService(dataset.NewStore(2.9, 3.1), nil, nil)
	if _, err := svc.Generate(context.Background(), "osszesito"); !errors.Is(err, ErrNoDataset) {
		t.Fatalf("expected ErrNoDataset, got %v", err)
	}
}

func TestGenerateUnknownVariant(t *testing.T) {
	svc := NewReportService(loadedStore(), nil, nil)
	if _, err := svc.Generate(context.Background(), "heti"); !errors.Is(err, ErrVariantUnknown) {
		t.Fatalf("expected ErrVariantUnknown, got %v", err)
	}
}

func TestGenerateProducesWorkbook(t *testing.T) {
	svc := NewReportService(loadedStore(), nil, nil)
	res, err := svc.Generate(context.Background(), "osszesito")
	if err != nil {
		t.Fatal(err)
	}
	if res.RowCount != 2 || res.SummaryCount != 1 {
		t.Fatalf("unexpected stats: %+v", res)
	}
	// 4*2.9=11.6 -> 12, 1*3.1=3.1 -> 3
	if res.PaymentTotal != 15 {
		t.Fatalf("payment total = %v", res.PaymentTotal)
	}
	if !strings.HasPrefix(res.FileName, "osszesito-") || !strings.HasSuffix(res.FileName, ".xlsx") {
		t.Fatalf("file name = %q", res.FileName)
	}

	f, err := excelize.OpenReader(bytes.NewReader(res.Content))
	if err != nil {
		t.Fatalf("generated content is not a workbook: %v", err)
	}
	_ = f.Close()
}

func TestGenerateRecordsHistory(t *testing.T) {
	history, err := storage.NewRepository(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer history.Close()

	svc := NewReportService(loadedStore(), history, nil)
	res, err := svc.Generate(context.Background(), "reszletes")
	if err != nil {
		t.Fatal(err)
	}
	if res.HistoryID == 0 {
		t.Fatal("expected a history ID")
	}

	entries, err := svc.RecentHistory(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Variant != "reszletes" || entries[0].Source != "timesheet.xlsx" {
		t.Fatalf("history = %+v", entries)
	}
}

func TestCloseWithNilDependencies(t *testing.T) {
	svc := NewReportService(loadedStore(), nil, nil)
	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
