// Package netcollab implements the "Network" collaborator of spec.md §6:
// parsing the declarative `net` property grammar into an interface plan,
// enumerating host devices, and creating the requested links through
// netlink. It is generalized from the teacher's network/strategy.go
// registry ("strategies = map[string]NetworkStrategy{...}").
package netcollab

import (
	"strconv"
	"strings"

	"github.com/ChatWorks/porto/internal/codec"
	"github.com/ChatWorks/porto/internal/engineerr"
)

// Mode is one entry of the `net` multi-tuple grammar of §4.5.
type Mode struct {
	Kind     string // none|inherited|steal|container|macvlan|ipvlan|veth|L3|NAT|MTU|autoconf|netns
	Name     string // the interface name inside the container, when applicable
	Master   string // host-side master device (macvlan/ipvlan/veth bridge/L3 master)
	Target   string // container name (steal/container modes), or NAT's optional name
	SubMode  string // macvlan mode / ipvlan l2|l3
	MTU      int
	HWAddr   string
}

// ParsePlan parses the `net` property's multi-tuple grammar (outer ';',
// inner ' ') into an ordered list of Modes.
func ParsePlan(prop, raw string) ([]Mode, error) {
	tuples := codec.SplitTuple(raw, ' ', ';')
	modes := make([]Mode, 0, len(tuples))
	for _, tokens := range tuples {
		if len(tokens) == 0 {
			continue
		}
		m, err := parseOne(prop, tokens)
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return modes, nil
}

func parseOne(prop string, tokens []string) (Mode, error) {
	kind := strings.ToLower(tokens[0])
	rest := tokens[1:]
	switch kind {
	case "none", "inherited":
		return Mode{Kind: kind}, nil
	case "steal", "container":
		if len(rest) < 1 {
			return Mode{}, engineerr.InvalidValuef(prop, strings.Join(tokens, " "), "%s requires NAME", kind)
		}
		return Mode{Kind: kind, Target: rest[0]}, nil
	case "macvlan":
		if len(rest) < 2 {
			return Mode{}, engineerr.InvalidValuef(prop, strings.Join(tokens, " "), "macvlan requires MASTER NAME")
		}
		m := Mode{Kind: kind, Master: rest[0], Name: rest[1]}
		applyOptional(&m, rest[2:])
		return m, nil
	case "ipvlan":
		if len(rest) < 2 {
			return Mode{}, engineerr.InvalidValuef(prop, strings.Join(tokens, " "), "ipvlan requires MASTER NAME")
		}
		m := Mode{Kind: kind, Master: rest[0], Name: rest[1]}
		for _, tok := range rest[2:] {
			if tok == "l2" || tok == "l3" {
				m.SubMode = tok
				continue
			}
			if n, err := strconv.Atoi(tok); err == nil {
				m.MTU = n
			}
		}
		return m, nil
	case "veth":
		if len(rest) < 2 {
			return Mode{}, engineerr.InvalidValuef(prop, strings.Join(tokens, " "), "veth requires NAME BRIDGE")
		}
		m := Mode{Kind: kind, Name: rest[0], Master: rest[1]}
		applyOptional(&m, rest[2:])
		return m, nil
	case "l3":
		if len(rest) < 1 {
			return Mode{}, engineerr.InvalidValuef(prop, strings.Join(tokens, " "), "L3 requires NAME")
		}
		m := Mode{Kind: "L3", Name: rest[0]}
		if len(rest) > 1 {
			m.Master = rest[1]
		}
		return m, nil
	case "nat":
		m := Mode{Kind: "NAT"}
		if len(rest) > 0 {
			m.Target = rest[0]
		}
		return m, nil
	case "mtu":
		if len(rest) < 2 {
			return Mode{}, engineerr.InvalidValuef(prop, strings.Join(tokens, " "), "MTU requires NAME MTU")
		}
		n, err := strconv.Atoi(rest[1])
		if err != nil {
			return Mode{}, engineerr.InvalidValuef(prop, rest[1], "not a valid mtu")
		}
		return Mode{Kind: "MTU", Name: rest[0], MTU: n}, nil
	case "autoconf":
		if len(rest) < 1 {
			return Mode{}, engineerr.InvalidValuef(prop, strings.Join(tokens, " "), "autoconf requires NAME")
		}
		return Mode{Kind: kind, Name: rest[0]}, nil
	case "netns":
		if len(rest) < 1 {
			return Mode{}, engineerr.InvalidValuef(prop, strings.Join(tokens, " "), "netns requires NAME")
		}
		return Mode{Kind: kind, Name: rest[0]}, nil
	default:
		return Mode{}, engineerr.InvalidValuef(prop, kind, "unknown net mode")
	}
}

func applyOptional(m *Mode, rest []string) {
	for _, tok := range rest {
		if n, err := strconv.Atoi(tok); err == nil {
			m.MTU = n
			continue
		}
		if strings.Contains(tok, ":") {
			m.HWAddr = tok
			continue
		}
		m.SubMode = tok
	}
}

// RequiresNetcls reports whether any mode in the plan needs the NETCLS
// controller activated (everything except a purely "none"/"inherited"
// plan, per §4.5's "net" row).
func RequiresNetcls(modes []Mode) bool {
	for _, m := range modes {
		if m.Kind != "none" && m.Kind != "inherited" {
			return true
		}
	}
	return false
}

// Format renders a plan back to the wire grammar.
func Format(modes []Mode) string {
	var tuples [][]string
	for _, m := range modes {
		tuples = append(tuples, formatOne(m))
	}
	return codec.MergeTuple(tuples, ' ', ';')
}

func formatOne(m Mode) []string {
	switch m.Kind {
	case "none", "inherited":
		return []string{m.Kind}
	case "steal", "container":
		return []string{m.Kind, m.Target}
	case "macvlan":
		toks := []string{m.Kind, m.Master, m.Name}
		if m.SubMode != "" {
			toks = append(toks, m.SubMode)
		}
		if m.MTU != 0 {
			toks = append(toks, strconv.Itoa(m.MTU))
		}
		if m.HWAddr != "" {
			toks = append(toks, m.HWAddr)
		}
		return toks
	case "ipvlan":
		toks := []string{m.Kind, m.Master, m.Name}
		if m.SubMode != "" {
			toks = append(toks, m.SubMode)
		}
		if m.MTU != 0 {
			toks = append(toks, strconv.Itoa(m.MTU))
		}
		return toks
	case "veth":
		toks := []string{m.Kind, m.Name, m.Master}
		if m.MTU != 0 {
			toks = append(toks, strconv.Itoa(m.MTU))
		}
		if m.HWAddr != "" {
			toks = append(toks, m.HWAddr)
		}
		return toks
	case "L3":
		toks := []string{m.Kind, m.Name}
		if m.Master != "" {
			toks = append(toks, m.Master)
		}
		return toks
	case "NAT":
		toks := []string{m.Kind}
		if m.Target != "" {
			toks = append(toks, m.Target)
		}
		return toks
	case "MTU":
		return []string{m.Kind, m.Name, strconv.Itoa(m.MTU)}
	default:
		return []string{m.Kind, m.Name}
	}
}
