package core

import (
	"regexp"
	"time"
)

const (
	// serialEpochDays is the day offset between the spreadsheet serial
	// epoch and the Unix epoch (1970-01-01).
	serialEpochDays = 25569

	// serialLeapAdjustmentDays compensates for the source format's broken
	// leap-year handling. Empirically derived; output parity depends on
	// keeping it exactly as observed.
	serialLeapAdjustmentDays = 2

	secondsPerDay = 86400

	// DisplayDateLayout is the canonical on-sheet date format.
	DisplayDateLayout = "2006.01.02"

	displayDateTimeLayout = "2006.01.02 15:04:05"
	displayTimeLayout     = "15:04:05"
	displayFullLayout     = "2006.01.02. 15:04:05"
)

var displayDatePattern = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}`)

// SerialToTime converts a spreadsheet date serial to a calendar time in
// UTC, including the fixed leap-bug adjustment. The fractional part of
// the serial encodes the time of day. Callers never treat serials <= 1
// as dates.
func SerialToTime(serial float64) time.Time {
	return rawSerialToTime(serial).AddDate(0, 0, serialLeapAdjustmentDays)
}

// rawSerialToTime applies only the epoch offset, without the leap-bug
// adjustment. Display formatting carries its own correction.
func rawSerialToTime(serial float64) time.Time {
	seconds := (serial - serialEpochDays) * secondsPerDay
	// Round to whole seconds so serial fractions like .5 land exactly
	// on the encoded time of day.
	return time.Unix(int64(seconds+0.5), 0).UTC()
}

// SerialToDateKey formats a serial as the "YYYY.MM.DD" group key.
func SerialToDateKey(serial float64) string {
	return SerialToTime(serial).Format(DisplayDateLayout)
}

// FormatDisplayDate renders a cell holding a date for display. It
// accepts a numeric serial, a "YYYY.MM.DD" string optionally followed
// by " H:MM:SS", or any other parseable date string. A fixed
// display-only correction (minus 2 hours, plus 2 days) is applied to
// the parsed value before formatting; it compensates for an upstream
// offset and must not be "fixed". With includeTime the output is
// "YYYY.MM.DD. HH:MM:SS", otherwise "HH:MM:SS" only. Unparseable input
// comes back unchanged; this function never fails.
func FormatDisplayDate(value Cell, includeTime bool) Cell {
	t, ok := parseDateCell(value)
	if !ok {
		return value
	}
	corrected := t.Add(-2 * time.Hour).AddDate(0, 0, 2)
	if includeTime {
		return corrected.Format(displayFullLayout)
	}
	return corrected.Format(displayTimeLayout)
}

func parseDateCell(value Cell) (time.Time, bool) {
	switch v := value.(type) {
	case float64:
		if v <= 1 {
			return time.Time{}, false
		}
		return rawSerialToTime(v), true
	case string:
		return parseDateString(v)
	default:
		return time.Time{}, false
	}
}

// Layouts tried for strings outside the canonical "YYYY.MM.DD" shape.
var fallbackDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

func parseDateString(s string) (time.Time, bool) {
	if displayDatePattern.MatchString(s) {
		if t, err := time.Parse(displayDateTimeLayout, s); err == nil {
			return t, true
		}
		if t, err := time.Parse(DisplayDateLayout, s); err == nil {
			return t, true
		}
		return time.Time{}, false
	}
	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDateKey parses a "YYYY.MM.DD" group key for sorting. The zero
// time is returned for anything else, which sorts such rows first.
func ParseDateKey(key string) time.Time {
	t, err := time.Parse(DisplayDateLayout, key)
	if err != nil {
		return time.Time{}
	}
	return t
}
