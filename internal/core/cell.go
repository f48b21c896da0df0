package core

import "strings"

// Cell is a single spreadsheet cell value as produced by a decoder.
// Valid dynamic types: nil, bool, float64, string. Anything else is
// tolerated and treated like a string via its fmt representation.
type Cell any

// AsString returns the string value of a cell, ok reports whether the
// cell actually holds a string.
func AsString(c Cell) (string, bool) {
	s, ok := c.(string)
	return s, ok
}

// AsNumber returns the numeric value of a cell. Only float64 cells
// count as numeric; numeric-looking strings are the decoder's problem.
func AsNumber(c Cell) (float64, bool) {
	f, ok := c.(float64)
	return f, ok
}

// IsBlank reports whether a cell carries no value at all.
func IsBlank(c Cell) bool {
	if c == nil {
		return true
	}
	if s, ok := c.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// IsNullEquivalent reports whether a cell counts as empty for the
// structural row filter: nil, empty string, or numeric zero. A row
// whose populated cells are all null-equivalent is dropped before
// grouping, so an all-zero row never reaches a report.
func IsNullEquivalent(c Cell) bool {
	if IsBlank(c) {
		return true
	}
	if f, ok := c.(float64); ok {
		return f == 0
	}
	return false
}
