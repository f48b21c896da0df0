// Package sheets defines the ports between the engine and the tabular
// backends that feed or receive it.
package sheets

import (
	"context"

	"pontber/internal/core"
)

// ReportLogEntry is one line of the external report log.
type ReportLogEntry struct {
	ID           int64
	Variant      string
	Source       string
	RowCount     int
	PaymentTotal float64
	GeneratedAt  string
}

// Ports for outbound adapters.
type (
	// RowSource supplies one worksheet as a rectangular cell matrix.
	// Row 0 is the header row; every data consumer skips it.
	RowSource interface {
		ReadRows(ctx context.Context) (rows [][]core.Cell, source string, err error)
	}

	// ReportLogAppender appends a generated-report record to an
	// external log (a Google Sheet in production).
	ReportLogAppender interface {
		AppendReportLog(ctx context.Context, e ReportLogEntry) (rowRef string, err error)
	}
)
