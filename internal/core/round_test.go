package core

import "testing"

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		in  float64
		out float64
	}{
		{0, 0},
		{1.0, 1},
		{1.49, 1},
		{1.4999999, 1},
		{1.5, 2},
		{1.51, 2},
		{2.999, 3},
		{10.5, 11},
		{29.0, 29},
	}
	for _, tc := range cases {
		if got := RoundHalfUp(tc.in); got != tc.out {
			t.Fatalf("RoundHalfUp(%v) = %v, want %v", tc.in, got, tc.out)
		}
	}
}

func TestTruncateTime(t *testing.T) {
	cases := []struct {
		in  float64
		out float64
	}{
		{7.0, 7},
		{7.25, 7},
		{7.75, 7},
		{7.9999, 7},
		{0.5, 0},
	}
	for _, tc := range cases {
		if got := TruncateTime(tc.in); got != tc.out {
			t.Fatalf("TruncateTime(%v) = %v, want %v", tc.in, got, tc.out)
		}
	}
}
