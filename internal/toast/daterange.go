package toast

import "time"

// TimestampLayout is the vendor's date-time format, e.g.
// 2016-01-01T14:13:12.000+0000.
const TimestampLayout = "2006-01-02T15:04:05.000-0700"

// DateRange bounds an orders query. Both ends are already formatted with
// TimestampLayout.
type DateRange struct {
	Start string
	End   string
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NewDateRange formats start and end as a DateRange.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: FormatTimestamp(start), End: FormatTimestamp(end)}
}

// LastDays returns the range ending at now (UTC, whole seconds) and starting
// days*24h earlier.
func LastDays(now time.Time, days int) DateRange {
	end := now.UTC().Truncate(time.Second)
	start := end.Add(-time.Duration(days) * 24 * time.Hour)
	return NewDateRange(start, end)
}
