package domain

import "time"

// DateRange is an immutable inclusive [Start, End] interval used for budget
// period windows.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange validates and constructs a DateRange.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if end.Before(start) {
		return DateRange{}, validationErrorf("date range end cannot be before start")
	}
	return DateRange{Start: start, End: end}, nil
}

// CurrentMonth spans the whole current month, from its first instant to one
// tick before the first instant of the next month.
func CurrentMonth() DateRange {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return DateRange{Start: start, End: end}
}

// Contains reports whether t falls inside the range, inclusive on both ends.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// TotalDays is the inclusive count of whole days spanned by the range.
func (r DateRange) TotalDays() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}
