package schedule

import "time"

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// The single inequality covers every partial and total containment case;
// windows that merely touch (one ends where the other starts) do not overlap.
// Callers must hand in instants in the same representation (UTC).
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// OverlapsAny reports whether [start, end) intersects any busy window.
func OverlapsAny(start, end time.Time, busy []Window) bool {
	for _, b := range busy {
		if Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}

// Slots walks the open window emitting candidate windows of length duration
// every step, as long as the candidate still ends by close. Pure function of
// its inputs; an over-long duration yields an empty sequence.
func Slots(open, close time.Time, duration, step time.Duration) []Window {
	if duration <= 0 || step <= 0 {
		return nil
	}

	var out []Window
	for start := open; !start.Add(duration).After(close); start = start.Add(step) {
		out = append(out, Window{Start: start, End: start.Add(duration)})
	}
	return out
}
