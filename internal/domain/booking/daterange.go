package booking

import "time"

// DateRange is a calendar date range with inclusive bounds. The engine does
// not require Start <= End; that is the caller's validation.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange builds a DateRange normalized to midnight UTC so that two
// ranges referring to the same calendar dates compare equal regardless of
// the wall-clock time they were parsed with.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: truncateToDate(start), End: truncateToDate(end)}
}

// Overlaps reports whether the two ranges share at least one day.
// Bounds are inclusive: a range ending on the day another starts overlaps it.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
