package models

import "time"

// Resolution is the sampling granularity of chart data.
type Resolution string

const (
	ResolutionSecond Resolution = "second"
	ResolutionMinute Resolution = "minute"
	ResolutionHour   Resolution = "hour"
	ResolutionDay    Resolution = "day"
)

// IsValidResolution returns true if r is a supported resolution.
func IsValidResolution(r Resolution) bool {
	switch r {
	case ResolutionSecond, ResolutionMinute, ResolutionHour, ResolutionDay:
		return true
	default:
		return false
	}
}

// Step is the width of one bucket at this resolution, 0 when unknown.
func (r Resolution) Step() time.Duration {
	switch r {
	case ResolutionSecond:
		return time.Second
	case ResolutionMinute:
		return time.Minute
	case ResolutionHour:
		return time.Hour
	case ResolutionDay:
		return 24 * time.Hour
	default:
		return 0
	}
}

// SelectionState is what the user is looking at. It is copied, never shared,
// so a render cycle works against a stable snapshot.
type SelectionState struct {
	Asset      string     `json:"asset"`
	Resolution Resolution `json:"resolution"`
}
