package types

import (
	"time"

	ierr "github.com/revboard/revboard/internal/errors"
)

// DateFormat is the canonical key format for daily buckets
const DateFormat = "2006-01-02"

// DateRange is a pair of timezone-aware instants with Start <= End. Ranges
// are built as calendar-month boundaries in a caller-supplied timezone so
// that day bucketing and fetching share the same window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewMonthRange returns the inclusive calendar-month range for the given
// year and month in the given location. The end instant is the last
// nanosecond of the month so that epoch-second filters include the whole
// final day.
func NewMonthRange(loc *time.Location, year int, month time.Month) DateRange {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return DateRange{Start: start, End: end}
}

// CurrentMonthRange returns the calendar-month range containing now in loc
func CurrentMonthRange(loc *time.Location) DateRange {
	now := time.Now().In(loc)
	return NewMonthRange(loc, now.Year(), now.Month())
}

// Validate checks the range invariant
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ierr.NewError("date range is not set").
			WithHint("Both start and end must be provided").
			Mark(ierr.ErrValidation)
	}
	if r.End.Before(r.Start) {
		return ierr.NewError("date range end precedes start").
			WithReportableDetails(map[string]interface{}{
				"start": r.Start,
				"end":   r.End,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// StartUnix returns the range start as epoch seconds
func (r DateRange) StartUnix() int64 { return r.Start.Unix() }

// EndUnix returns the range end as epoch seconds
func (r DateRange) EndUnix() int64 { return r.End.Unix() }

// Days enumerates the calendar days of the range in loc, ascending, as
// DateFormat strings. Both boundary days are included.
func (r DateRange) Days(loc *time.Location) []string {
	var days []string
	day := time.Date(
		r.Start.In(loc).Year(), r.Start.In(loc).Month(), r.Start.In(loc).Day(),
		0, 0, 0, 0, loc,
	)
	last := r.End.In(loc)
	for !day.After(last) {
		days = append(days, day.Format(DateFormat))
		day = day.AddDate(0, 0, 1)
	}
	return days
}

// Split partitions the range into n equal-width, contiguous, non-overlapping
// sub-ranges measured in epoch seconds. Every instant of the parent range is
// covered by exactly one sub-range; adjacent sub-ranges abut with a one
// second gap on epoch-second granularity so that upstream gte/lte filters do
// not double-count boundary records.
func (r DateRange) Split(n int) []DateRange {
	if n <= 1 {
		return []DateRange{r}
	}

	startSec := r.StartUnix()
	endSec := r.EndUnix()
	total := endSec - startSec + 1
	if total < int64(n) {
		return []DateRange{r}
	}

	width := total / int64(n)
	slices := make([]DateRange, 0, n)
	for i := 0; i < n; i++ {
		sliceStart := startSec + int64(i)*width
		sliceEnd := sliceStart + width - 1
		if i == n-1 {
			sliceEnd = endSec
		}
		slices = append(slices, DateRange{
			Start: time.Unix(sliceStart, 0).In(r.Start.Location()),
			End:   time.Unix(sliceEnd, 0).In(r.Start.Location()),
		})
	}
	return slices
}
