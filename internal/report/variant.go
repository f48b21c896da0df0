// Package report implements the grouping/summarization engine behind
// the four payroll report variants. One parameterized engine serves all
// of them; a Variant value carries the column slice, grouping key,
// aggregate set and annotation offsets that distinguish a variant.
package report

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"pontber/internal/core"
)

// CanonicalWidth is the width of a canonical timesheet row: the
// 9-column primary record followed by the 7-column secondary record.
const CanonicalWidth = 16

// Canonical column offsets.
const (
	primaryStart   = 0
	primaryWidth   = 9
	secondaryStart = 9
	secondaryWidth = 7

	// Offsets inside a sliced record. Name, date and the paid point
	// metric sit at the same offsets in both layouts.
	colName   = 1
	colDate   = 2
	colScore  = 3 // primary only; overtime in the secondary layout
	colPoints = 4

	// NoteColumn is the note cell inside the canonical row (primary
	// layout only). Note overrides land here.
	NoteColumn = 8
)

// Row is one canonical data row plus the persistent identifier it was
// assigned at ingestion. Overrides are keyed by this ID, so reordering
// or refiltering can no longer misattribute them.
type Row struct {
	ID    int
	Cells []core.Cell
}

// Variant describes one report: which column slice it reads, how rows
// are grouped, which fields are summed, and where the appended
// multiplier/payment annotation lands.
type Variant struct {
	ID            string
	Title         string
	Header        []string
	sliceStart    int
	sliceWidth    int
	byName        bool
	twoFieldSums  bool
	multiplierCol int
}

// PaymentColumn is the column of the appended payment cell.
func (v Variant) PaymentColumn() int { return v.multiplierCol + 1 }

// DateColumn is the date cell inside the variant's record.
func (v Variant) DateColumn() int { return colDate }

// ShiftColumns returns the shift start and end columns, which sit at
// the same offsets in both layouts.
func (v Variant) ShiftColumns() (start, end int) { return 5, 6 }

// TotalHoursColumn returns the total-hours column, or -1 for the
// secondary layout which has none.
func (v Variant) TotalHoursColumn() int {
	if v.twoFieldSums {
		return 7
	}
	return -1
}

// MultiplierColumn is the column of the appended multiplier cell.
func (v Variant) MultiplierColumn() int { return v.multiplierCol }

var variants = []Variant{
	{
		ID:    "osszesito",
		Title: "Napi összesítő",
		Header: []string{
			"Kód", "Név", "Dátum", "Értékelés", "Pont",
			"Műszak kezdete", "Műszak vége", "Összes óra", "Megjegyzés",
			"Szorzó", "Fizetés",
		},
		sliceStart:    primaryStart,
		sliceWidth:    primaryWidth,
		twoFieldSums:  true,
		multiplierCol: 9,
	},
	{
		ID:    "reszletes",
		Title: "Napi részletes",
		Header: []string{
			"Kód", "Név", "Dátum", "Túlóra", "Pont",
			"Műszak kezdete", "Műszak vége", "",
			"Szorzó", "Fizetés",
		},
		sliceStart:    secondaryStart,
		sliceWidth:    secondaryWidth,
		multiplierCol: 8,
	},
	{
		ID:    "nev-osszesito",
		Title: "Név szerinti összesítő",
		Header: []string{
			"Kód", "Név", "Dátum", "Értékelés", "Pont",
			"Műszak kezdete", "Műszak vége", "Összes óra", "Megjegyzés",
			"Szorzó", "Fizetés",
		},
		sliceStart:    primaryStart,
		sliceWidth:    primaryWidth,
		byName:        true,
		twoFieldSums:  true,
		multiplierCol: 9,
	},
	{
		ID:    "nev-reszletes",
		Title: "Név szerinti részletes",
		Header: []string{
			"Kód", "Név", "Dátum", "Túlóra", "Pont",
			"Műszak kezdete", "Műszak vége", "",
			"Szorzó", "Fizetés",
		},
		sliceStart:    secondaryStart,
		sliceWidth:    secondaryWidth,
		byName:        true,
		multiplierCol: 8,
	},
}

// Variants lists the four report variants in their fixed order.
func Variants() []Variant {
	out := make([]Variant, len(variants))
	copy(out, variants)
	return out
}

// VariantByID looks a variant up by its route identifier.
func VariantByID(id string) (Variant, bool) {
	for _, v := range variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// prepareRows slices the canonical rows down to the variant's record,
// drops structurally empty rows and sorts by the variant's key. The
// slice preserves row IDs so overrides keep following their rows.
func prepareRows(rows []Row, v Variant) []Row {
	prepared := make([]Row, 0, len(rows))
	for _, r := range rows {
		cells := sliceCells(r.Cells, v.sliceStart, v.sliceWidth)
		if structurallyEmpty(cells) {
			continue
		}
		prepared = append(prepared, Row{ID: r.ID, Cells: cells})
	}
	if v.byName {
		coll := collate.New(language.Hungarian)
		sort.SliceStable(prepared, func(i, j int) bool {
			return coll.CompareString(nameOf(prepared[i]), nameOf(prepared[j])) < 0
		})
	} else {
		sort.SliceStable(prepared, func(i, j int) bool {
			return dateOf(prepared[i]).Before(dateOf(prepared[j]))
		})
	}
	return prepared
}

func sliceCells(cells []core.Cell, start, width int) []core.Cell {
	out := make([]core.Cell, width)
	for i := 0; i < width; i++ {
		if start+i < len(cells) {
			out[i] = cells[start+i]
		}
	}
	return out
}

// structurallyEmpty reports whether every cell of a record is
// null-equivalent; an all-zero row counts as empty.
func structurallyEmpty(cells []core.Cell) bool {
	for _, c := range cells {
		if !core.IsNullEquivalent(c) {
			return false
		}
	}
	return true
}

func nameOf(r Row) string {
	s, _ := core.AsString(r.Cells[colName])
	return strings.TrimSpace(s)
}

func dateOf(r Row) time.Time {
	return core.ParseDateKey(dateKeyOf(r))
}
