package models

import (
	"testing"
	"time"
)

func TestProviderNormalizeMergesWindows(t *testing.T) {
	p := Provider{
		ID:   "dr-1",
		Name: "Dr. Adams",
		WorkingHours: []WorkingWindow{
			{Day: time.Monday, Start: 540, End: 720},  // 9:00-12:00
			{Day: time.Monday, Start: 660, End: 1020}, // 11:00-17:00 overlaps
			{Day: time.Tuesday, Start: 600, End: 600}, // empty, dropped
		},
		TimeOff: []Interval{iv(12, 0, 13, 0), iv(12, 30, 14, 0)},
	}
	p.Normalize()

	if len(p.WorkingHours) != 1 {
		t.Fatalf("WorkingHours = %v, want a single merged Monday window", p.WorkingHours)
	}
	w := p.WorkingHours[0]
	if w.Day != time.Monday || w.Start != 540 || w.End != 1020 {
		t.Errorf("merged window = %+v, want Monday 540-1020", w)
	}
	if len(p.TimeOff) != 1 || p.TimeOff[0] != iv(12, 0, 14, 0) {
		t.Errorf("TimeOff = %v, want single merged interval 12:00-14:00", p.TimeOff)
	}
}

func TestProviderWindowsOn(t *testing.T) {
	p := Provider{
		WorkingHours: []WorkingWindow{
			{Day: time.Monday, Start: 540, End: 1020},
			{Day: time.Wednesday, Start: 480, End: 720},
		},
	}

	monday := p.WindowsOn(at(14, 23)) // any time on the Monday anchors that day
	if len(monday) != 1 || monday[0] != iv(9, 0, 17, 0) {
		t.Errorf("WindowsOn(Monday) = %v, want [9:00-17:00]", monday)
	}

	if got := p.WindowsOn(day.AddDate(0, 0, 1)); len(got) != 0 {
		t.Errorf("WindowsOn(Tuesday) = %v, want none", got)
	}
}
