package health

import (
	"fmt"
	"time"
)

const (
	durationUnknown = "unknown"
	timestampNever  = "never"
	timestampLayout = "01-02 15:04"
)

// FormatDuration renders a run duration in milliseconds. Values are
// truncated, never rounded.
func FormatDuration(ms int64) string {
	switch {
	case ms <= 0:
		return durationUnknown
	case ms < 1000:
		return fmt.Sprintf("%dms", ms)
	case ms < 60000:
		return fmt.Sprintf("%ds", ms/1000)
	default:
		return fmt.Sprintf("%dm%ds", ms/60000, (ms%60000)/1000)
	}
}

// Formatter renders epoch timestamps in a fixed location. A nil Location
// uses the host's local zone.
type Formatter struct {
	Location *time.Location
}

func (f Formatter) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

func (f Formatter) FormatTimestamp(ms *int64) string {
	if ms == nil || *ms == 0 {
		return timestampNever
	}
	return time.UnixMilli(*ms).In(f.location()).Format(timestampLayout)
}
