// Package xlsx decodes uploaded workbooks into canonical cell rows and
// renders the engine's output back into styled workbooks.
package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"pontber/internal/core"
)

// Decode reads the first worksheet of an xlsx stream into a rectangular
// cell matrix. Cells come back typed: numeric-looking values as
// float64, TRUE/FALSE as bool, empty as nil, everything else as string.
// Row 0 is the sheet's header; consumers are responsible for skipping
// it.
func Decode(r io.Reader) ([][]core.Cell, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no worksheet found")
	}

	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from %s: %w", sheetName, err)
	}

	rows := make([][]core.Cell, len(raw))
	for i, rawRow := range raw {
		cells := make([]core.Cell, len(rawRow))
		for j, v := range rawRow {
			cells[j] = parseCell(v)
		}
		rows[i] = cells
	}
	return rows, nil
}

// parseCell types a raw cell string the way the Sheets values API
// would: numbers as float64, booleans as bool, blanks as nil.
func parseCell(s string) core.Cell {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	switch trimmed {
	case "TRUE", "True", "true":
		return true
	case "FALSE", "False", "false":
		return false
	}
	return s
}
