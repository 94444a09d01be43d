package codec

import (
	"strconv"
	"strings"

	"github.com/ChatWorks/porto/internal/engineerr"
)

// ParseUintMap parses outer-';'-separated "key: value" entries into a
// map[string]uint64; key and value are trimmed, duplicate keys: last wins.
func ParseUintMap(prop, raw string) (map[string]uint64, error) {
	out := map[string]uint64{}
	for _, entry := range splitOuter(raw, ';') {
		if entry == "" {
			continue
		}
		key, val, err := splitKV(prop, entry)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return nil, engineerr.InvalidValuef(prop, entry, "not a uint value")
		}
		out[key] = n
	}
	return out, nil
}

// FormatUintMap renders a uint map back to outer-';'-separated "key: value"
// entries, in the order given by keys (callers should pass a stable key
// order, e.g. from the registry's property metadata, to make Get
// deterministic).
func FormatUintMap(m map[string]uint64, keys []string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		parts = append(parts, k+": "+strconv.FormatUint(v, 10))
	}
	return strings.Join(parts, ";")
}

// ParseStringMap parses outer-';'-separated "key: value" entries into a
// map[string]string; same trimming/duplicate rules as ParseUintMap.
func ParseStringMap(prop, raw string) (map[string]string, error) {
	out := map[string]string{}
	for _, entry := range splitOuter(raw, ';') {
		if entry == "" {
			continue
		}
		key, val, err := splitKV(prop, entry)
		if err != nil {
			return nil, err
		}
		out[key] = val
	}
	return out, nil
}

// FormatStringMap renders a string map back to outer-';'-separated entries.
func FormatStringMap(m map[string]string, keys []string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		parts = append(parts, k+": "+v)
	}
	return strings.Join(parts, ";")
}

func splitOuter(raw string, outer byte) []string {
	tuples := SplitTuple(raw, 0, outer)
	out := make([]string, 0, len(tuples))
	for _, t := range tuples {
		out = append(out, strings.Join(t, ""))
	}
	return out
}

func splitKV(prop, entry string) (key, val string, err error) {
	idx := strings.IndexByte(entry, ':')
	if idx < 0 {
		return "", "", engineerr.InvalidValuef(prop, entry, "missing ':' in map entry")
	}
	key = strings.TrimSpace(entry[:idx])
	val = strings.TrimSpace(entry[idx+1:])
	if key == "" {
		return "", "", engineerr.InvalidValuef(prop, entry, "empty key in map entry")
	}
	return key, val, nil
}
