package flightlog

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is the start time encoded at the front of a log file name,
// for example 20230815123456-flight.fc2.
const TimestampLayout = "20060102150405"

// ParseReferenceTime extracts the flight start time from the base name of
// path. The portion before the first hyphen is parsed in loc (local time when
// nil). It returns milliseconds since the Unix epoch.
func ParseReferenceTime(path string, loc *time.Location) (int64, error) {
	if loc == nil {
		loc = time.Local
	}
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	prefix := stem
	if i := strings.Index(stem, "-"); i >= 0 {
		prefix = stem[:i]
	}
	if len(prefix) != len(TimestampLayout) {
		return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, base)
	}
	ts, err := time.ParseInLocation(TimestampLayout, prefix, loc)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, base)
	}
	return ts.UnixMilli(), nil
}
