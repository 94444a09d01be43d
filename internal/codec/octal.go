package codec

import (
	"strconv"

	"github.com/ChatWorks/porto/internal/engineerr"
)

// ParseOctal parses an unsigned integer in base 8 ("umask" style values).
func ParseOctal(prop, raw string) (uint32, error) {
	v, err := strconv.ParseUint(raw, 8, 32)
	if err != nil {
		return 0, engineerr.InvalidValuef(prop, raw, "not an octal number")
	}
	return uint32(v), nil
}

// FormatOctal formats v with a leading "0", the canonical octal rendering.
func FormatOctal(v uint32) string {
	return "0" + strconv.FormatUint(uint64(v), 8)
}
