package catalogue

import (
	"strings"

	"github.com/ChatWorks/porto/internal/engineerr"
)

// engineerrTooSmall reports a size-valued property whose requested value
// falls below a configured floor (e.g. config.MinMemoryLimit).
func engineerrTooSmall(prop, raw string, floor uint64) error {
	return engineerr.InvalidValuef(prop, raw, "below configured minimum %d", floor)
}

// engineerrUnknownEnum reports a string-enum property given a value outside
// its fixed set of spellings.
func engineerrUnknownEnum(prop, raw string, allowed ...string) error {
	return engineerr.InvalidValuef(prop, raw, "expected one of: %s", strings.Join(allowed, ", "))
}
