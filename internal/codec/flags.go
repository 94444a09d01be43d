package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ChatWorks/porto/internal/engineerr"
)

// FlagTable maps a bit value to its symbolic name for a fixed flag set; no
// catalogue property uses it at present. Order matters for Format: entries
// are emitted in table order so output is deterministic.
type FlagTable []FlagEntry

// FlagEntry is one (mask, name) pair in a FlagTable.
type FlagEntry struct {
	Mask uint64
	Name string
}

// Parse splits raw on ';', looks up each symbolic name in the table, and
// ORs the matching masks together. An unrecognized name fails the whole
// parse.
func (t FlagTable) Parse(prop, raw string) (uint64, error) {
	var mask uint64
	for _, name := range splitOuter(raw, ';') {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		found := false
		for _, e := range t {
			if e.Name == name {
				mask |= e.Mask
				found = true
				break
			}
		}
		if !found {
			return 0, engineerr.InvalidValuef(prop, name, "unknown flag")
		}
	}
	return mask, nil
}

// Format renders mask as ';'-joined symbolic names in table order; any
// bits not covered by the table are appended as a trailing hex fragment.
func (t FlagTable) Format(mask uint64) string {
	var names []string
	covered := uint64(0)
	for _, e := range t {
		if mask&e.Mask == e.Mask && e.Mask != 0 {
			names = append(names, e.Name)
			covered |= e.Mask
		}
	}
	rest := mask &^ covered
	if rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", rest))
	}
	return strings.Join(names, ";")
}

// ParseUint is a helper for numeric subscripts embedded in index strings
// (e.g. stdout's "[offset][:length]" form).
func ParseUint(prop, raw string) (uint64, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, engineerr.InvalidValuef(prop, raw, "not an unsigned integer")
	}
	return v, nil
}
