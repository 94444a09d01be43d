package codec

import (
	"strconv"
	"strings"

	"github.com/ChatWorks/porto/internal/engineerr"
)

// ParseCPUQuantity parses either a bare number of percent of host cores
// ("50" on a 4-core host yields 2.0 cores) or an absolute core count with a
// trailing "c" ("1.5c" yields 1.5 cores). Negative values of either form
// are rejected.
func ParseCPUQuantity(prop, raw string, numCores int) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	if strings.HasSuffix(s, "c") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "c"), 64)
		if err != nil {
			return 0, engineerr.InvalidValuef(prop, raw, "not a cpu quantity")
		}
		if v < 0 {
			return 0, engineerr.InvalidValuef(prop, raw, "negative cpu quantity")
		}
		return v, nil
	}

	pct, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, engineerr.InvalidValuef(prop, raw, "not a cpu quantity")
	}
	if pct < 0 {
		return 0, engineerr.InvalidValuef(prop, raw, "negative cpu quantity")
	}
	return pct / 100.0 * float64(numCores), nil
}

// FormatCPUQuantity renders cores as an absolute "Nc" quantity, the
// canonical round-trip form (percent-of-cores is lossy once formatted, so
// formatting always goes through the absolute form).
func FormatCPUQuantity(cores float64) string {
	return strconv.FormatFloat(cores, 'g', -1, 64) + "c"
}
