package models

import (
	"testing"
	"time"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func iv(sh, sm, eh, em int) Interval {
	return Interval{Start: at(sh, sm), End: at(eh, em)}
}

func TestIntervalOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", iv(9, 0, 10, 0), iv(11, 0, 12, 0), false},
		{"identical", iv(9, 0, 10, 0), iv(9, 0, 10, 0), true},
		{"partial", iv(9, 0, 10, 0), iv(9, 30, 10, 30), true},
		{"contained", iv(9, 0, 12, 0), iv(10, 0, 11, 0), true},
		{"back to back", iv(9, 0, 9, 30), iv(9, 30, 10, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v (not symmetric)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestIntervalClamp(t *testing.T) {
	bounds := iv(9, 0, 17, 0)

	got, ok := iv(8, 0, 10, 0).Clamp(bounds)
	if !ok || got != iv(9, 0, 10, 0) {
		t.Errorf("Clamp left overhang = %v, %v", got, ok)
	}

	got, ok = iv(16, 0, 18, 0).Clamp(bounds)
	if !ok || got != iv(16, 0, 17, 0) {
		t.Errorf("Clamp right overhang = %v, %v", got, ok)
	}

	if _, ok := iv(18, 0, 19, 0).Clamp(bounds); ok {
		t.Error("Clamp of a disjoint interval should report empty")
	}
	if _, ok := iv(8, 0, 9, 0).Clamp(bounds); ok {
		t.Error("Clamp touching only the boundary should report empty")
	}
}

func TestMergeIntervals(t *testing.T) {
	tests := []struct {
		name string
		in   []Interval
		want []Interval
	}{
		{"empty", nil, nil},
		{
			"overlapping pair",
			[]Interval{iv(9, 0, 10, 0), iv(9, 30, 11, 0)},
			[]Interval{iv(9, 0, 11, 0)},
		},
		{
			"touching pair coalesces",
			[]Interval{iv(9, 0, 10, 0), iv(10, 0, 11, 0)},
			[]Interval{iv(9, 0, 11, 0)},
		},
		{
			"unsorted disjoint",
			[]Interval{iv(14, 0, 15, 0), iv(9, 0, 10, 0)},
			[]Interval{iv(9, 0, 10, 0), iv(14, 0, 15, 0)},
		},
		{
			"zero length dropped",
			[]Interval{iv(9, 0, 9, 0), iv(10, 0, 11, 0)},
			[]Interval{iv(10, 0, 11, 0)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeIntervals(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("MergeIntervals = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("MergeIntervals[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSubtractIntervals(t *testing.T) {
	tests := []struct {
		name  string
		base  []Interval
		holes []Interval
		want  []Interval
	}{
		{
			"hole splits base",
			[]Interval{iv(9, 0, 17, 0)},
			[]Interval{iv(12, 0, 13, 0)},
			[]Interval{iv(9, 0, 12, 0), iv(13, 0, 17, 0)},
		},
		{
			"hole at leading edge",
			[]Interval{iv(9, 0, 12, 0)},
			[]Interval{iv(9, 0, 9, 30)},
			[]Interval{iv(9, 30, 12, 0)},
		},
		{
			"hole swallows base",
			[]Interval{iv(10, 0, 11, 0)},
			[]Interval{iv(9, 0, 12, 0)},
			nil,
		},
		{
			"disjoint hole leaves base alone",
			[]Interval{iv(9, 0, 10, 0)},
			[]Interval{iv(14, 0, 15, 0)},
			[]Interval{iv(9, 0, 10, 0)},
		},
		{
			"no holes",
			[]Interval{iv(9, 0, 10, 0)},
			nil,
			[]Interval{iv(9, 0, 10, 0)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SubtractIntervals(tt.base, tt.holes)
			if len(got) != len(tt.want) {
				t.Fatalf("SubtractIntervals = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SubtractIntervals[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
