package report

import (
	"reflect"
	"strings"
	"testing"

	"pontber/internal/core"
)

// canonicalRow builds a 16-column row with the primary record filled in
// and the secondary record mirroring name/date/points.
func canonicalRow(id int, code, name, date string, score, points float64) Row {
	cells := make([]core.Cell, CanonicalWidth)
	cells[0] = code
	cells[1] = name
	cells[2] = date
	cells[3] = score
	cells[4] = points
	cells[5] = 6.0
	cells[6] = 14.0
	cells[7] = 8.0
	// secondary slice
	cells[9] = code
	cells[10] = name
	cells[11] = date
	cells[12] = 0.0
	cells[13] = points
	cells[14] = 6.0
	cells[15] = 14.0
	return Row{ID: id, Cells: cells}
}

func mustVariant(t *testing.T, id string) Variant {
	t.Helper()
	v, ok := VariantByID(id)
	if !ok {
		t.Fatalf("unknown variant %q", id)
	}
	return v
}

func isSummary(row []core.Cell) bool {
	for _, c := range row {
		if s, ok := core.AsString(c); ok && s != "" {
			return strings.Contains(s, Sentinel)
		}
	}
	return false
}

func TestGenerateGroupsByDate(t *testing.T) {
	rows := []Row{
		canonicalRow(0, "A1", "SRBN-01", "2025.06.19", 3, 4),
		canonicalRow(1, "A2", "SRBN-02", "2025.06.19", 2, 1),
		canonicalRow(2, "A3", "SRBN-03", "2025.06.20", 5, 5),
	}
	out, stats := Generate(rows, Params{
		Variant:     mustVariant(t, "osszesito"),
		MultiplierA: 2.0,
		MultiplierB: 3.0,
	})

	// row, row, summary(19th), row, trailing summary(20th)
	if len(out) != 5 {
		t.Fatalf("expected 5 emitted rows, got %d", len(out))
	}
	if isSummary(out[0]) || isSummary(out[1]) || isSummary(out[3]) {
		t.Fatal("data rows misdetected as summaries")
	}
	if !isSummary(out[2]) || !isSummary(out[4]) {
		t.Fatal("expected summary rows at group boundaries")
	}
	if stats.DataRows != 3 || stats.SummaryRows != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	first := out[2]
	if first[1] != "2025.06.19" {
		t.Fatalf("summary group key = %v", first[1])
	}
	if first[3] != "Értékelés összesen: 5" || first[4] != "Pont összesen: 5" {
		t.Fatalf("summary sums = %v / %v", first[3], first[4])
	}
	// payments: 4*2=8 and 1*2=2 on the 19th
	if first[10] != "Fizetés összesen: 10" {
		t.Fatalf("summary payment = %v", first[10])
	}

	trailing := out[4]
	if trailing[1] != "2025.06.20" || trailing[10] != "Fizetés összesen: 10" {
		t.Fatalf("trailing summary = %v", trailing)
	}
}

func TestGenerateAnnotatesEveryDataRow(t *testing.T) {
	rows := []Row{canonicalRow(0, "A1", "HF-EX-01", "2025.06.19", 3, 10)}
	v := mustVariant(t, "osszesito")
	out, _ := Generate(rows, Params{Variant: v, MultiplierA: 2.0, MultiplierB: 3.0})

	data := out[0]
	if len(data) != v.PaymentColumn()+1 {
		t.Fatalf("annotated row width = %d", len(data))
	}
	if data[v.MultiplierColumn()] != 3.0 {
		t.Fatalf("multiplier cell = %v", data[v.MultiplierColumn()])
	}
	if data[v.PaymentColumn()] != 30.0 {
		t.Fatalf("payment cell = %v", data[v.PaymentColumn()])
	}
}

func TestGenerateOverrideWinsAndFollowsRowID(t *testing.T) {
	rows := []Row{
		// Deliberately out of date order so sorting moves the rows.
		canonicalRow(7, "A1", "SRBN-01", "2025.06.20", 1, 10),
		canonicalRow(3, "A2", "SRBN-02", "2025.06.19", 1, 10),
	}
	v := mustVariant(t, "osszesito")
	out, _ := Generate(rows, Params{
		Variant:     v,
		MultiplierA: 2.0,
		MultiplierB: 3.0,
		Overrides:   map[int]float64{7: 5},
	})

	// After sorting, row ID 3 (the 19th) comes first.
	if out[0][v.MultiplierColumn()] != 2.0 || out[0][v.PaymentColumn()] != 20.0 {
		t.Fatalf("row 3 annotation = %v / %v", out[0][v.MultiplierColumn()], out[0][v.PaymentColumn()])
	}
	// Row ID 7 keeps its override even though it moved.
	if out[2][v.MultiplierColumn()] != 5.0 || out[2][v.PaymentColumn()] != 50.0 {
		t.Fatalf("row 7 annotation = %v / %v", out[2][v.MultiplierColumn()], out[2][v.PaymentColumn()])
	}
}

func TestGenerateNullKeyRowsPassThrough(t *testing.T) {
	noDate := canonicalRow(1, "A2", "SRBN-02", "", 2, 4)
	rows := []Row{
		canonicalRow(0, "A1", "SRBN-01", "2025.06.19", 3, 4),
		noDate,
	}
	v := mustVariant(t, "osszesito")
	out, stats := Generate(rows, Params{Variant: v, MultiplierA: 2.0, MultiplierB: 3.0})

	if stats.DataRows != 2 || stats.SummaryRows != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	var summaries int
	for _, row := range out {
		if isSummary(row) {
			summaries++
			// the keyless row's points must not leak into the sums
			if row[4] != "Pont összesen: 4" {
				t.Fatalf("summary includes keyless row: %v", row[4])
			}
		}
	}
	if summaries != 1 {
		t.Fatalf("expected exactly one summary, got %d", summaries)
	}
	// keyless rows still get their annotation
	keyless := out[0]
	if keyless[2] != nil && keyless[2] != "" {
		keyless = out[1]
	}
	if keyless[v.PaymentColumn()] != 8.0 {
		t.Fatalf("keyless row payment = %v", keyless[v.PaymentColumn()])
	}
}

func TestGenerateSkipsNonNumericRowsInSums(t *testing.T) {
	bad := canonicalRow(1, "A2", "SRBN-02", "2025.06.19", 2, 4)
	bad.Cells[4] = "négy" // primary points no longer numeric
	rows := []Row{
		canonicalRow(0, "A1", "SRBN-01", "2025.06.19", 3, 4),
		bad,
	}
	v := mustVariant(t, "osszesito")
	out, _ := Generate(rows, Params{Variant: v, MultiplierA: 2.0, MultiplierB: 3.0})

	for _, row := range out {
		if isSummary(row) {
			if row[3] != "Értékelés összesen: 3" || row[4] != "Pont összesen: 4" {
				t.Fatalf("non-numeric row leaked into sums: %v / %v", row[3], row[4])
			}
		}
	}
	// the malformed row is still emitted, annotated with payment 0
	if out[1][v.PaymentColumn()] != 0.0 {
		t.Fatalf("malformed row payment = %v", out[1][v.PaymentColumn()])
	}
}

func TestGenerateByNameVariant(t *testing.T) {
	rows := []Row{
		canonicalRow(0, "A1", "SRBN-02", "2025.06.19", 1, 2),
		canonicalRow(1, "A2", "SRBN-01", "2025.06.19", 1, 3),
		canonicalRow(2, "A3", "SRBN-01", "2025.06.20", 1, 4),
	}
	v := mustVariant(t, "nev-osszesito")
	out, stats := Generate(rows, Params{Variant: v, MultiplierA: 2.0, MultiplierB: 3.0})

	if stats.SummaryRows != 2 {
		t.Fatalf("expected one summary per worker, got %d", stats.SummaryRows)
	}
	// Name sort puts SRBN-01 first; its two rows share one group.
	if out[0][colName] != "SRBN-01" || out[1][colName] != "SRBN-01" {
		t.Fatalf("rows not sorted by name: %v, %v", out[0][colName], out[1][colName])
	}
	if !isSummary(out[2]) || out[2][1] != "SRBN-01" {
		t.Fatalf("expected SRBN-01 summary, got %v", out[2])
	}
	if out[2][4] != "Pont összesen: 7" {
		t.Fatalf("SRBN-01 point sum = %v", out[2][4])
	}
}

func TestGenerateDetailedTrailingSummaryLayout(t *testing.T) {
	rows := []Row{
		canonicalRow(0, "A1", "SRBN-01", "2025.06.19", 1, 2),
		canonicalRow(1, "A2", "SRBN-02", "2025.06.19", 1, 3),
	}
	out, _ := Generate(rows, Params{
		Variant:     mustVariant(t, "nev-reszletes"),
		MultiplierA: 2.0,
		MultiplierB: 3.0,
	})

	// in-stream summary keeps the regular layout
	inStream := out[1]
	if inStream[0] != Sentinel || inStream[1] != "SRBN-01" {
		t.Fatalf("in-stream summary = %v", inStream)
	}
	// the trailing summary shifts one column right (inherited quirk)
	trailing := out[len(out)-1]
	if trailing[0] != nil {
		t.Fatalf("trailing summary column 0 should be empty, got %v", trailing[0])
	}
	s, _ := core.AsString(trailing[1])
	if !strings.Contains(s, Sentinel) {
		t.Fatalf("trailing sentinel = %v", trailing[1])
	}
	if trailing[2] != "SRBN-02" {
		t.Fatalf("trailing group key = %v", trailing[2])
	}
	if len(trailing) != 10 || trailing[9] == nil {
		t.Fatalf("trailing layout = %v", trailing)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	rows := []Row{
		canonicalRow(0, "A1", "SRBN-01", "2025.06.19", 3, 4),
		canonicalRow(1, "A2", "HF-EX-01", "2025.06.20", 2, 1),
	}
	p := Params{
		Variant:     mustVariant(t, "osszesito"),
		MultiplierA: 2.9,
		MultiplierB: 3.1,
		Overrides:   map[int]float64{1: 4},
	}
	first, _ := Generate(rows, p)
	second, _ := Generate(rows, p)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated invocations must produce identical output")
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	out, stats := Generate(nil, Params{Variant: mustVariant(t, "osszesito")})
	if out != nil || stats.DataRows != 0 {
		t.Fatalf("empty input must yield empty output, got %v", out)
	}
}

func TestGenerateDropsStructurallyEmptyRows(t *testing.T) {
	zero := Row{ID: 5, Cells: make([]core.Cell, CanonicalWidth)}
	for i := range zero.Cells {
		zero.Cells[i] = 0.0 // all-zero row counts as empty
	}
	rows := []Row{
		zero,
		canonicalRow(0, "A1", "SRBN-01", "2025.06.19", 3, 4),
	}
	_, stats := Generate(rows, Params{Variant: mustVariant(t, "osszesito"), MultiplierA: 2})
	if stats.DataRows != 1 {
		t.Fatalf("all-zero row should be dropped, stats: %+v", stats)
	}
}
