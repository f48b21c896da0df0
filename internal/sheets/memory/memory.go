// Package memory is an in-process sheets backend for tests and local
// development without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"pontber/internal/core"
	ports "pontber/internal/sheets"
)

type Store struct {
	mu     sync.Mutex
	rows   [][]core.Cell
	source string
	log    []ports.ReportLogEntry
}

var (
	_ ports.RowSource         = (*Store)(nil)
	_ ports.ReportLogAppender = (*Store)(nil)
)

// New builds a memory backend serving the given sheet rows.
func New(rows [][]core.Cell, source string) *Store {
	return &Store{rows: rows, source: source}
}

func (s *Store) ReadRows(ctx context.Context) ([][]core.Cell, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]core.Cell, len(s.rows))
	for i, r := range s.rows {
		row := make([]core.Cell, len(r))
		copy(row, r)
		out[i] = row
	}
	return out, s.source, nil
}

func (s *Store) AppendReportLog(ctx context.Context, e ports.ReportLogEntry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, e)
	return fmt.Sprintf("memory:%d", len(s.log)), nil
}

// Log returns the appended entries, for assertions.
func (s *Store) Log() []ports.ReportLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.ReportLogEntry, len(s.log))
	copy(out, s.log)
	return out
}
