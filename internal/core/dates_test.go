package core

import (
	"testing"
	"time"
)

func TestSerialToTime(t *testing.T) {
	// 45656 is the source's serial for 2025-01-01: two days short of
	// the standard serial because of the upstream leap-year bug the
	// fixed adjustment compensates for.
	got := SerialToTime(45656)
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("SerialToTime(45656) = %v, want %v", got, want)
	}
}

func TestSerialToTimeFraction(t *testing.T) {
	// Fraction 0.5 encodes noon.
	got := SerialToTime(45656.5)
	if got.Hour() != 12 || got.Minute() != 0 || got.Second() != 0 {
		t.Fatalf("expected noon, got %v", got)
	}
}

func TestSerialToDateKey(t *testing.T) {
	if got := SerialToDateKey(45656); got != "2025.01.01" {
		t.Fatalf("SerialToDateKey(45656) = %q", got)
	}
}

func TestFormatDisplayDate(t *testing.T) {
	cases := []struct {
		name        string
		in          Cell
		includeTime bool
		out         Cell
	}{
		// The -2h/+2d display correction is part of the contract.
		{"date string with time", "2025.06.19 10:30:00", true, "2025.06.21. 08:30:00"},
		{"date string without time", "2025.06.19", true, "2025.06.20. 22:00:00"},
		{"time only output", "2025.06.19 10:30:00", false, "08:30:00"},
		{"iso fallback", "2025-06-19 10:30:00", true, "2025.06.21. 08:30:00"},
		{"unparseable stays put", "nem dátum", true, "nem dátum"},
		{"nil stays put", nil, true, nil},
		{"small numbers are not serials", 0.75, false, 0.75},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatDisplayDate(tc.in, tc.includeTime); got != tc.out {
				t.Fatalf("FormatDisplayDate(%v, %v) = %v, want %v", tc.in, tc.includeTime, got, tc.out)
			}
		})
	}
}

func TestFormatDisplayDateSerial(t *testing.T) {
	// A raw serial for 2025-01-01 12:00 shifted by the display
	// correction: -2h then +2d.
	serial := 45658.5 // raw epoch conversion, no leap adjustment
	got := FormatDisplayDate(serial, true)
	if got != "2025.01.03. 10:00:00" {
		t.Fatalf("FormatDisplayDate(%v) = %v", serial, got)
	}
	if got := FormatDisplayDate(serial, false); got != "10:00:00" {
		t.Fatalf("time-only output = %v", got)
	}
}

func TestParseDateKey(t *testing.T) {
	if got := ParseDateKey("2025.06.19"); got.IsZero() {
		t.Fatal("expected a parsed date")
	}
	if got := ParseDateKey("Kovács"); !got.IsZero() {
		t.Fatalf("expected zero time, got %v", got)
	}
}
