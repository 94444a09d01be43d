package codec

import "strings"

// SplitTuple splits raw on outer (usually ';') into tuples, each of which
// is further split on inner (usually ' ') into tokens. A backslash escapes
// the inner separator, the outer separator, and itself; escaped separators
// do not split. Empty inner tokens are trimmed away; a trailing outer
// separator does not create a trailing empty tuple.
//
// Grounded on the teacher pack's declarative config-line parsers (the
// source's tuple grammar is textually identical to how libcontainer's own
// mount/bind option strings are comma-split and re-escaped, generalized
// here to an arbitrary pair of separators since the spec reuses this
// grammar for bind mounts, env, net, ip, and every map-shaped property).
func SplitTuple(raw string, inner, outer byte) [][]string {
	var tuples [][]string
	var cur []string
	var tok strings.Builder
	escaped := false

	flushToken := func() {
		if tok.Len() > 0 {
			cur = append(cur, tok.String())
			tok.Reset()
		}
	}
	flushTuple := func() {
		flushToken()
		if len(cur) > 0 {
			tuples = append(tuples, cur)
			cur = nil
		}
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			tok.WriteByte(c)
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case inner:
			flushToken()
		case outer:
			flushTuple()
		default:
			tok.WriteByte(c)
		}
	}
	flushTuple()
	return tuples
}

// MergeTuple is the inverse of SplitTuple: it re-escapes inner and outer
// separators (and literal backslashes) found inside tokens, joins tokens of
// each tuple with inner, and joins tuples with outer.
func MergeTuple(tuples [][]string, inner, outer byte) string {
	escapeToken := func(tok string) string {
		var b strings.Builder
		for i := 0; i < len(tok); i++ {
			c := tok[i]
			if c == '\\' || c == inner || c == outer {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		}
		return b.String()
	}

	var parts []string
	for _, tuple := range tuples {
		var toks []string
		for _, t := range tuple {
			toks = append(toks, escapeToken(t))
		}
		parts = append(parts, strings.Join(toks, string(inner)))
	}
	return strings.Join(parts, string(outer))
}

// SplitSimpleList splits a ';'-separated list with no inner structure
// (resolv_conf, default_gw-style single-token tuples collapse to this).
func SplitSimpleList(raw string) []string {
	tuples := SplitTuple(raw, 0, ';')
	out := make([]string, 0, len(tuples))
	for _, t := range tuples {
		out = append(out, strings.Join(t, ""))
	}
	return out
}
