package codec

import (
	"strconv"
	"time"

	"github.com/ChatWorks/porto/internal/engineerr"
)

// ParseDurationSeconds parses a plain integer number of seconds (the wire
// form, per §4.1 "Duration: seconds in, milliseconds stored") and returns
// the stored millisecond duration.
func ParseDurationSeconds(prop, raw string) (time.Duration, error) {
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || secs < 0 {
		return 0, engineerr.InvalidValuef(prop, raw, "not a duration in seconds")
	}
	return time.Duration(secs) * time.Second, nil
}

// FormatDurationSeconds renders a stored duration back into whole seconds.
func FormatDurationSeconds(d time.Duration) string {
	return strconv.FormatInt(int64(d/time.Second), 10)
}
