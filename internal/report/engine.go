package report

import (
	"strconv"
	"strings"

	"pontber/internal/core"
)

// Sentinel marks a synthesized summary row. Writers identify summary
// rows solely by finding this substring in the first populated text
// cell; there is no out-of-band flag.
const Sentinel = "ÖSSZEGZÉS"

// altSentinel is used by the trailing summary of the name-grouped
// detailed report. Its shifted layout is inherited behavior kept for
// output parity; see DESIGN.md.
const altSentinel = "ÖSSZEGZÉS (név)"

const (
	labelScoreTotal   = "Értékelés összesen: "
	labelPointTotal   = "Pont összesen: "
	labelPaymentTotal = "Fizetés összesen: "
)

// Params carries everything a report run needs besides the rows.
type Params struct {
	Variant      Variant
	MultiplierA  float64
	MultiplierB  float64
	// Multipliers overridden per row, keyed by the persistent row ID.
	Overrides map[int]float64
}

// Stats summarizes one generated report.
type Stats struct {
	DataRows     int
	SummaryRows  int
	PaymentTotal float64
}

type aggregate struct {
	scoreSum   float64
	pointSum   float64
	paymentSum float64
}

// Generate produces the full report row sequence for one variant: every
// surviving data row annotated with its multiplier and payment, one
// summary row after each group, and a trailing summary for the last
// group. Rows without a group key pass through annotated but never
// contribute to or trigger a summary. Empty input yields empty output;
// identical inputs yield identical outputs.
func Generate(rows []Row, p Params) ([][]core.Cell, Stats) {
	v := p.Variant
	prepared := prepareRows(rows, v)
	if len(prepared) == 0 {
		return nil, Stats{}
	}

	aggregates := aggregatePass(prepared, p)

	var (
		out   [][]core.Cell
		stats Stats
	)
	currentKey := ""
	for _, r := range prepared {
		key := groupKey(r, v)
		if key != "" && key != currentKey {
			if agg, ok := aggregates[currentKey]; ok && currentKey != "" {
				out = append(out, summaryRow(v, currentKey, agg, false))
				stats.SummaryRows++
			}
			currentKey = key
		}
		out = append(out, annotateRow(r, p))
		stats.DataRows++
	}
	if agg, ok := aggregates[currentKey]; ok && currentKey != "" {
		out = append(out, summaryRow(v, currentKey, agg, true))
		stats.SummaryRows++
	}

	for _, agg := range aggregates {
		stats.PaymentTotal += agg.paymentSum
	}
	return out, stats
}

// aggregatePass accumulates per-key sums of the variant's selected
// fields and of the computed payment. Rows with no group key or
// non-numeric selected fields stay out of the sums entirely.
func aggregatePass(rows []Row, p Params) map[string]*aggregate {
	aggregates := make(map[string]*aggregate)
	for _, r := range rows {
		key := groupKey(r, p.Variant)
		if key == "" {
			continue
		}
		points, ok := core.AsNumber(r.Cells[colPoints])
		if !ok {
			continue
		}
		var score float64
		if p.Variant.twoFieldSums {
			score, ok = core.AsNumber(r.Cells[colScore])
			if !ok {
				continue
			}
		}
		agg := aggregates[key]
		if agg == nil {
			agg = &aggregate{}
			aggregates[key] = agg
		}
		agg.scoreSum += score
		agg.pointSum += points
		agg.paymentSum += rowPayment(r, p)
	}
	return aggregates
}

// annotateRow emits a data row: the original cells, padded out to the
// variant's annotation offset, with the resolved multiplier and the
// computed payment appended at their fixed columns.
func annotateRow(r Row, p Params) []core.Cell {
	out := make([]core.Cell, p.Variant.PaymentColumn()+1)
	copy(out, r.Cells)
	out[p.Variant.MultiplierColumn()] = rowMultiplier(r, p)
	out[p.Variant.PaymentColumn()] = rowPayment(r, p)
	return out
}

func rowMultiplier(r Row, p Params) float64 {
	return core.ResolveMultiplier(r.Cells[colName], p.MultiplierA, p.MultiplierB, overrideFor(r, p))
}

func rowPayment(r Row, p Params) float64 {
	return core.ComputePayment(r.Cells[colName], r.Cells[colPoints], p.MultiplierA, p.MultiplierB, overrideFor(r, p))
}

func overrideFor(r Row, p Params) *float64 {
	if p.Overrides == nil {
		return nil
	}
	if m, ok := p.Overrides[r.ID]; ok {
		return &m
	}
	return nil
}

// summaryRow synthesizes the group boundary row for the variant's
// layout. The name-grouped detailed report ends with a shifted trailing
// layout; every other summary follows its variant's template.
func summaryRow(v Variant, key string, agg *aggregate, trailing bool) []core.Cell {
	payment := labelPaymentTotal + formatMetric(core.RoundHalfUp(agg.paymentSum))
	if v.twoFieldSums {
		row := make([]core.Cell, 11)
		row[0] = Sentinel
		row[1] = key
		row[3] = labelScoreTotal + formatMetric(agg.scoreSum)
		row[4] = labelPointTotal + formatMetric(agg.pointSum)
		row[10] = payment
		return row
	}
	row := make([]core.Cell, 10)
	if trailing && v.byName {
		row[1] = altSentinel
		row[2] = key
	} else {
		row[0] = Sentinel
		row[1] = key
	}
	row[4] = labelPointTotal + formatMetric(agg.pointSum)
	row[9] = payment
	return row
}

// groupKey extracts the row's group key: the "YYYY.MM.DD" date for
// date-grouped variants, the trimmed worker name otherwise. Empty means
// the row belongs to no group.
func groupKey(r Row, v Variant) string {
	if v.byName {
		return nameOf(r)
	}
	return dateKeyOf(r)
}

func dateKeyOf(r Row) string {
	switch c := r.Cells[colDate].(type) {
	case float64:
		if c > 1 {
			return core.SerialToDateKey(c)
		}
	case string:
		s := strings.TrimSpace(c)
		if len(s) >= 10 && looksLikeDateKey(s[:10]) {
			return s[:10]
		}
	}
	return ""
}

func looksLikeDateKey(s string) bool {
	if len(s) != 10 || s[4] != '.' || s[7] != '.' {
		return false
	}
	for i, r := range s {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// formatMetric renders a metric sum without trailing zeros.
func formatMetric(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
