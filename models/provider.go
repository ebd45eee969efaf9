package models

import (
	"time"
)

// WorkingWindow is one recurring entry in a provider's weekly schedule,
// expressed in minutes from midnight on the given weekday (e.g. 540–1020 for
// 9:00 AM to 5:00 PM).
type WorkingWindow struct {
	Day   time.Weekday `bson:"day" json:"day"`
	Start int          `bson:"start" json:"start"`
	End   int          `bson:"end" json:"end"`
}

// Provider represents a physician bookable through the front desk.
type Provider struct {
	ID           string          `bson:"id" json:"id"`
	Name         string          `bson:"name" json:"name"`
	Email        string          `bson:"email" json:"email,omitempty"`
	Specialty    string          `bson:"specialty,omitempty" json:"specialty,omitempty"`
	Priority     int             `bson:"priority" json:"priority"` // lower ranks first on score ties
	WorkingHours []WorkingWindow `bson:"workingHours" json:"workingHours"`
	TimeOff      []Interval      `bson:"timeOff,omitempty" json:"timeOff,omitempty"`
	CreatedAt    time.Time       `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt    time.Time       `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// Normalize merges overlapping time-off intervals and overlapping working
// windows on the same weekday, so downstream interval math never sees
// overlapping input.
func (p *Provider) Normalize() {
	p.TimeOff = MergeIntervals(p.TimeOff)

	byDay := make(map[time.Weekday][]Interval)
	anchor := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, w := range p.WorkingHours {
		if w.End <= w.Start {
			continue
		}
		byDay[w.Day] = append(byDay[w.Day], Interval{
			Start: anchor.Add(time.Duration(w.Start) * time.Minute),
			End:   anchor.Add(time.Duration(w.End) * time.Minute),
		})
	}
	var normalized []WorkingWindow
	for day := time.Sunday; day <= time.Saturday; day++ {
		for _, iv := range MergeIntervals(byDay[day]) {
			normalized = append(normalized, WorkingWindow{
				Day:   day,
				Start: int(iv.Start.Sub(anchor).Minutes()),
				End:   int(iv.End.Sub(anchor).Minutes()),
			})
		}
	}
	p.WorkingHours = normalized
}

// WindowsOn instantiates the weekly template on the calendar day containing
// the given time, in that time's location.
func (p *Provider) WindowsOn(day time.Time) []Interval {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	var ivs []Interval
	for _, w := range p.WorkingHours {
		if w.Day != midnight.Weekday() {
			continue
		}
		ivs = append(ivs, Interval{
			Start: midnight.Add(time.Duration(w.Start) * time.Minute),
			End:   midnight.Add(time.Duration(w.End) * time.Minute),
		})
	}
	return ivs
}
