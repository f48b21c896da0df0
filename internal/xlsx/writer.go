package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"pontber/internal/core"
	"pontber/internal/report"
)

// WriteReport renders a generated report into an xlsx file. Summary
// rows carry no flag; they are recognized by scanning each row's first
// populated text cell for the sentinel substring, exactly as the
// writer contract requires.
func WriteReport(v report.Variant, rows [][]core.Cell) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Sheet1"
	if err := f.SetSheetName(sheet, v.Title); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFF2CC"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("summary style: %w", err)
	}

	header := make([]any, len(v.Header))
	for i, h := range v.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(v.Title, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := styleRow(f, v.Title, 1, len(v.Header), headerStyle); err != nil {
		return nil, err
	}

	for i, row := range rows {
		rowNum := i + 2 // 1-based, after the header
		summary := IsSummaryRow(row)
		values := make([]any, len(row))
		for j, c := range row {
			if summary {
				values[j] = c
				continue
			}
			values[j] = displayCell(v, j, c)
		}
		start, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(v.Title, start, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", rowNum, err)
		}
		if summary {
			if err := styleRow(f, v.Title, rowNum, len(row), summaryStyle); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// displayCell renders one data cell for the sheet. Date serials become
// "YYYY.MM.DD" keys, shift times become "HH:MM:SS", and the total-hours
// value is truncated, never rounded up.
func displayCell(v report.Variant, col int, c core.Cell) any {
	shiftStart, shiftEnd := v.ShiftColumns()
	switch col {
	case v.DateColumn():
		if serial, ok := core.AsNumber(c); ok && serial > 1 {
			return core.SerialToDateKey(serial)
		}
	case shiftStart, shiftEnd:
		if serial, ok := core.AsNumber(c); ok && serial <= 1 {
			// Fraction-of-day values carry no date part; show the
			// truncated hour count instead.
			return core.TruncateTime(serial * 24)
		}
		return core.FormatDisplayDate(c, false)
	case v.TotalHoursColumn():
		if hours, ok := core.AsNumber(c); ok {
			return core.TruncateTime(hours)
		}
	}
	return c
}

// IsSummaryRow reports whether a row is a synthesized summary: its
// first populated text cell contains the sentinel substring.
func IsSummaryRow(row []core.Cell) bool {
	for _, c := range row {
		s, ok := core.AsString(c)
		if !ok || s == "" {
			continue
		}
		return strings.Contains(s, report.Sentinel)
	}
	return false
}

func styleRow(f *excelize.File, sheet string, rowNum, width int, style int) error {
	start, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	end, err := excelize.CoordinatesToCellName(max(width, 1), rowNum)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellStyle(sheet, start, end, style); err != nil {
		return fmt.Errorf("style row %d: %w", rowNum, err)
	}
	return nil
}
