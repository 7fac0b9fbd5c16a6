package dashboards

import (
	"math"
	"strings"
	"time"

	"player-analytics/internal/records"
)

const (
	TimestampLayout = "2006-01-02 15:04:05"

	TimestampNotAvailable = "Not available"
	TimestampInvalid      = "Invalid date"
)

// year 9999 in epoch milliseconds
const maxEpochMillis = 253402300799999

// FormatTimestamp renders an epoch-milliseconds value in loc. Absent, zero and
// blank values are "Not available"; anything that is not a representable
// number of milliseconds is "Invalid date".
func FormatTimestamp(v records.Value, loc *time.Location) string {
	if v.IsAbsent() {
		return TimestampNotAvailable
	}
	if s, ok := v.Str(); ok && strings.TrimSpace(s) == "" {
		return TimestampNotAvailable
	}
	ms, err := v.FloatE()
	if err != nil {
		return TimestampInvalid
	}
	if ms == 0 {
		return TimestampNotAvailable
	}
	if math.Abs(ms) > maxEpochMillis {
		return TimestampInvalid
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(int64(ms)).In(loc).Format(TimestampLayout)
}

// withFormattedTime returns copies of rs carrying the formatted value of
// field under target.
func withFormattedTime(rs records.RecordSet, field, target string, loc *time.Location) records.RecordSet {
	out := make(records.RecordSet, len(rs))
	for i, r := range rs {
		c := r.Clone()
		c[target] = records.Text(FormatTimestamp(r.Get(field), loc))
		out[i] = c
	}
	return out
}
