package util

import (
	"math"
	"strconv"
	"time"
)

// Unix seconds of 0001-01-01 and 9999-12-31T23:59:59.
const (
	minUnixSeconds = -62135596800
	maxUnixSeconds = 253402300799
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds or milliseconds.
// Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return UnixAuto(ts), true
	}
	return time.Time{}, false
}

// UnixAuto reads ts as unix milliseconds when it is too large to be a
// plausible count of seconds, and as seconds otherwise.
func UnixAuto(ts int64) time.Time {
	if ts > 1e12 || ts < -1e12 {
		return time.UnixMilli(ts).UTC()
	}
	return time.Unix(ts, 0).UTC()
}

// UnixFloat is UnixAuto for fractional timestamps, kept to the
// microsecond. Values outside years 1 to 9999 give the zero time.
func UnixFloat(ts float64) time.Time {
	if math.IsNaN(ts) || math.IsInf(ts, 0) {
		return time.Time{}
	}
	if ts > 1e12 || ts < -1e12 {
		if ts/1000 > maxUnixSeconds || ts/1000 < minUnixSeconds {
			return time.Time{}
		}
		ms, frac := math.Modf(ts)
		return time.UnixMilli(int64(ms)).Add(time.Duration(math.Round(frac*1e3)) * time.Microsecond).UTC()
	}
	if ts > maxUnixSeconds || ts < minUnixSeconds {
		return time.Time{}
	}
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(math.Round(frac*1e6))*1e3).UTC()
}

// AxisLayout is the label layout for a time axis at the given resolution.
func AxisLayout(resolution string) string {
	switch resolution {
	case "second":
		return "15:04:05"
	case "hour":
		return "Jan 02 15:00"
	case "day":
		return "Jan 02"
	default:
		return "15:04"
	}
}

// SpreadTimes returns n instants evenly spaced over [from, to], both ends
// included. A degenerate range yields from alone.
func SpreadTimes(from, to time.Time, n int) []time.Time {
	if n < 2 || !to.After(from) {
		return []time.Time{from}
	}
	step := to.Sub(from) / time.Duration(n-1)
	out := make([]time.Time, 0, n)
	for i := 0; i < n-1; i++ {
		out = append(out, from.Add(step*time.Duration(i)))
	}
	return append(out, to)
}
