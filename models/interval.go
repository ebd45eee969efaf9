package models

import (
	"sort"
	"time"
)

// Interval is a half-open time range [Start, End). Two back-to-back
// appointments sharing a boundary instant do not overlap.
type Interval struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

func (iv Interval) IsZero() bool {
	return !iv.End.After(iv.Start)
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Overlaps reports whether the two half-open intervals share any instant.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether other lies entirely inside iv.
func (iv Interval) Contains(other Interval) bool {
	return !other.Start.Before(iv.Start) && !other.End.After(iv.End)
}

// Clamp intersects iv with bounds. The second return is false when the
// intersection is empty.
func (iv Interval) Clamp(bounds Interval) (Interval, bool) {
	out := iv
	if out.Start.Before(bounds.Start) {
		out.Start = bounds.Start
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	if out.IsZero() {
		return Interval{}, false
	}
	return out, true
}

// MergeIntervals sorts and coalesces overlapping or touching intervals,
// dropping zero-length entries. The input slice is not modified.
func MergeIntervals(ivs []Interval) []Interval {
	var in []Interval
	for _, iv := range ivs {
		if !iv.IsZero() {
			in = append(in, iv)
		}
	}
	if len(in) == 0 {
		return nil
	}
	sort.Slice(in, func(i, j int) bool { return in[i].Start.Before(in[j].Start) })

	out := []Interval{in[0]}
	for _, iv := range in[1:] {
		last := &out[len(out)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// SubtractIntervals removes every hole from base and returns the remaining
// intervals, ordered and pairwise non-overlapping.
func SubtractIntervals(base, holes []Interval) []Interval {
	base = MergeIntervals(base)
	holes = MergeIntervals(holes)

	var out []Interval
	for _, b := range base {
		cur := b
		for _, h := range holes {
			if !cur.Overlaps(h) {
				continue
			}
			if h.Start.After(cur.Start) {
				out = append(out, Interval{Start: cur.Start, End: h.Start})
			}
			if h.End.Before(cur.End) {
				cur = Interval{Start: h.End, End: cur.End}
			} else {
				cur = Interval{}
				break
			}
		}
		if !cur.IsZero() {
			out = append(out, cur)
		}
	}
	return out
}
