package codec

import (
	"strconv"
	"strings"

	units "github.com/docker/go-units"

	"github.com/ChatWorks/porto/internal/engineerr"
)

// ParseSize parses a textual size like "2K", "1.5M", "1GiB", "512" (bytes)
// into a byte count, per §4.1: "number with optional unit from the sequence
// B,K,M,G,T,P,E", case-insensitive, optional "i" and trailing "B"/"b"; a
// bare number means bytes. go-units' RAMInBytes (what the rest of the
// container ecosystem uses for "docker run -m 512m" style flags) covers the
// K..P units; the E unit and an "i" with no trailing "B" are handled here
// before handing the rest to it.
func ParseSize(prop, raw string) (uint64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	lower := strings.ToLower(s)
	for _, sfx := range []string{"eib", "eb", "ei", "e"} {
		if strings.HasSuffix(lower, sfx) {
			f, err := strconv.ParseFloat(strings.TrimSpace(s[:len(s)-len(sfx)]), 64)
			if err != nil || f < 0 || f >= 16 {
				return 0, engineerr.InvalidValuef(prop, raw, "not a size")
			}
			return uint64(f * (1 << 60)), nil
		}
	}
	if strings.HasSuffix(lower, "i") {
		s += "B"
	}
	n, err := units.RAMInBytes(s)
	if err != nil {
		return 0, engineerr.InvalidValuef(prop, raw, "not a size: %v", err)
	}
	if n < 0 {
		return 0, engineerr.InvalidValuef(prop, raw, "negative size")
	}
	return uint64(n), nil
}

// FormatSize renders a byte count back into the canonical unit-less decimal
// form used for round-tripping through the property boundary.
func FormatSize(v uint64) string {
	return strconv.FormatUint(v, 10)
}
