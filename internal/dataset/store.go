// Package dataset holds the session state of one loaded timesheet:
// the canonical rows plus the override maps scoped to their lifetime.
package dataset

import (
	"errors"
	"sync"
	"time"

	"pontber/internal/core"
	"pontber/internal/report"
)

var (
	ErrNoDataset  = errors.New("no dataset loaded")
	ErrUnknownRow = errors.New("unknown row id")
)

// Store is the mutable session state. Overrides are keyed by the
// persistent row ID assigned at ingestion, and a reload replaces rows
// and clears both override maps in one transaction so stale overrides
// can never leak onto a new dataset.
type Store struct {
	mu sync.RWMutex

	rows        []report.Row
	multiplierA float64
	multiplierB float64

	multiplierOverrides map[int]float64
	noteOverrides       map[int]string

	revision uint64
	source   string
	loadedAt time.Time
}

// Snapshot is one immutable view of the session, taken under the lock
// so report generation always sees a consistent state.
type Snapshot struct {
	Rows                []report.Row
	MultiplierA         float64
	MultiplierB         float64
	MultiplierOverrides map[int]float64
	Revision            uint64
	Source              string
	LoadedAt            time.Time
}

func NewStore(defaultMultiplierA, defaultMultiplierB float64) *Store {
	return &Store{
		multiplierA:         defaultMultiplierA,
		multiplierB:         defaultMultiplierB,
		multiplierOverrides: make(map[int]float64),
		noteOverrides:       make(map[int]string),
	}
}

// Reload replaces the session rows with a freshly decoded sheet. The
// sheet's header row (index 0) is dropped, every remaining row is
// normalized to the canonical width and assigned its persistent ID.
// Both override maps are cleared in the same transaction.
func (s *Store) Reload(sheet [][]core.Cell, source string) int {
	rows := make([]report.Row, 0, max(len(sheet)-1, 0))
	for i := 1; i < len(sheet); i++ {
		cells := make([]core.Cell, report.CanonicalWidth)
		copy(cells, sheet[i])
		rows = append(rows, report.Row{ID: i - 1, Cells: cells})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
	s.multiplierOverrides = make(map[int]float64)
	s.noteOverrides = make(map[int]string)
	s.revision++
	s.source = source
	s.loadedAt = time.Now()
	return len(rows)
}

// SetGlobalMultipliers replaces both default multipliers.
func (s *Store) SetGlobalMultipliers(a, b float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.multiplierA = a
	s.multiplierB = b
	s.revision++
}

// SetMultiplierOverride pins a per-row multiplier, taking precedence
// over the name-marker rules for that row.
func (s *Store) SetMultiplierOverride(rowID int, multiplier float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRowLocked(rowID); err != nil {
		return err
	}
	s.multiplierOverrides[rowID] = multiplier
	s.revision++
	return nil
}

// ClearMultiplierOverride removes a per-row multiplier override.
func (s *Store) ClearMultiplierOverride(rowID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRowLocked(rowID); err != nil {
		return err
	}
	delete(s.multiplierOverrides, rowID)
	s.revision++
	return nil
}

// SetNoteOverride replaces the note cell of one row for the rest of the
// session.
func (s *Store) SetNoteOverride(rowID int, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRowLocked(rowID); err != nil {
		return err
	}
	s.noteOverrides[rowID] = note
	s.revision++
	return nil
}

func (s *Store) checkRowLocked(rowID int) error {
	if len(s.rows) == 0 {
		return ErrNoDataset
	}
	if rowID < 0 || rowID >= len(s.rows) {
		return ErrUnknownRow
	}
	return nil
}

// Loaded reports whether a dataset is present.
// Revision returns the current session revision. It changes on every
// reload and override mutation, which makes it a safe cache key part.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows) > 0
}

// Snapshot copies the current session state. Note overrides are already
// applied to the returned rows; multiplier overrides stay a separate
// map because the engine resolves them per variant.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]report.Row, len(s.rows))
	for i, r := range s.rows {
		cells := make([]core.Cell, len(r.Cells))
		copy(cells, r.Cells)
		if note, ok := s.noteOverrides[r.ID]; ok {
			cells[report.NoteColumn] = note
		}
		rows[i] = report.Row{ID: r.ID, Cells: cells}
	}

	overrides := make(map[int]float64, len(s.multiplierOverrides))
	for k, v := range s.multiplierOverrides {
		overrides[k] = v
	}

	return Snapshot{
		Rows:                rows,
		MultiplierA:         s.multiplierA,
		MultiplierB:         s.multiplierB,
		MultiplierOverrides: overrides,
		Revision:            s.revision,
		Source:              s.source,
		LoadedAt:            s.loadedAt,
	}
}
