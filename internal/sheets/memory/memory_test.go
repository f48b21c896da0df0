package memory

import (
	"context"
	"testing"

	"pontber/internal/core"
	ports "pontber/internal/sheets"
)

func TestReadRowsCopies(t *testing.T) {
	rows := [][]core.Cell{
		{"Kód", "Név"},
		{"A1", "SRBN-01"},
	}
	s := New(rows, "memory")

	got, source, err := s.ReadRows(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if source != "memory" || len(got) != 2 {
		t.Fatalf("ReadRows = %v, %q", got, source)
	}

	got[1][0] = "tampered"
	again, _, _ := s.ReadRows(context.Background())
	if again[1][0] != "A1" {
		t.Fatal("ReadRows must hand out copies")
	}
}

func TestAppendReportLog(t *testing.T) {
	s := New(nil, "memory")
	ref, err := s.AppendReportLog(context.Background(), ports.ReportLogEntry{ID: 1, Variant: "osszesito"})
	if err != nil {
		t.Fatal(err)
	}
	if ref != "memory:1" {
		t.Fatalf("ref = %q", ref)
	}
	if entries := s.Log(); len(entries) != 1 || entries[0].Variant != "osszesito" {
		t.Fatalf("log = %+v", entries)
	}
}
