// Package capset implements the capability algebra of §4.2: a bitmask over
// the kernel capability space with intersect/union/difference/subset-of
// operations and symbolic parsing/formatting.
//
// The canonical (bit, name) table is sourced from
// github.com/syndtr/gocapability/capability rather than hand-duplicated,
// the way the teacher's nsinit/security.go builds named capability
// profiles from a capability name list.
package capset

import (
	"strings"

	"github.com/syndtr/gocapability/capability"

	"github.com/ChatWorks/porto/internal/engineerr"
)

// Set is a bitmask over capability.CAP_* ordinals (bit i == capability i).
type Set uint64

// names maps the uppercase symbolic name (e.g. "NET_ADMIN") to its bit.
var (
	nameToBit = map[string]uint{}
	bitToName = map[uint]string{}
)

func init() {
	for _, c := range capability.List() {
		if uint(c) >= 64 {
			continue
		}
		name := strings.ToUpper(c.String())
		nameToBit[name] = uint(c)
		bitToName[uint(c)] = name
	}
}

// Parse parses ';'-separated symbolic capability names (e.g.
// "NET_ADMIN;SYS_PTRACE") into a Set. Unknown names fail the whole parse.
func Parse(prop, raw string) (Set, error) {
	var s Set
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	for _, part := range strings.Split(raw, ";") {
		name := strings.ToUpper(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		bit, ok := nameToBit[name]
		if !ok {
			return 0, engineerr.InvalidValuef(prop, part, "unknown capability")
		}
		s |= 1 << bit
	}
	return s, nil
}

// Format renders the set as ';'-separated symbolic names in ascending bit
// order.
func (s Set) Format() string {
	var names []string
	for bit := uint(0); bit < 64; bit++ {
		if s&(1<<bit) == 0 {
			continue
		}
		name, ok := bitToName[bit]
		if !ok {
			continue
		}
		names = append(names, name)
	}
	return strings.Join(names, ";")
}

// Has reports whether s contains the named capability.
func (s Set) Has(prop, name string) (bool, error) {
	bit, ok := nameToBit[strings.ToUpper(name)]
	if !ok {
		return false, engineerr.InvalidPropertyf(prop, "unknown capability %q", name)
	}
	return s&(1<<bit) != 0, nil
}

// WithBit returns s with the named capability's bit set to val.
func (s Set) WithBit(prop, name string, val bool) (Set, error) {
	bit, ok := nameToBit[strings.ToUpper(name)]
	if !ok {
		return s, engineerr.InvalidPropertyf(prop, "unknown capability %q", name)
	}
	if val {
		return s | (1 << bit), nil
	}
	return s &^ (1 << bit), nil
}

// Intersect returns the bitwise AND of a and b.
func Intersect(a, b Set) Set { return a & b }

// Union returns the bitwise OR of a and b.
func Union(a, b Set) Set { return a | b }

// Difference returns the bits in a that are not in b.
func Difference(a, b Set) Set { return a &^ b }

// SubsetOf reports whether every bit of a is also set in b.
func SubsetOf(a, b Set) bool { return a&b == a }

// IntersectAll intersects a with every set in ancestors, left to right.
func IntersectAll(a Set, ancestors ...Set) Set {
	result := a
	for _, anc := range ancestors {
		result = Intersect(result, anc)
	}
	return result
}
