// Package catalogue implements C6 of spec.md §4.5: the concrete set of
// properties wired to container fields, each with its guard, side effects,
// and derived-state recomputation. Build wires every property table into
// one property.Registry, the way a single main() in the teacher's nsinit
// assembles its app.Commands slice from several files' var blocks.
package catalogue

import "github.com/ChatWorks/porto/internal/property"

// Build returns a fully populated registry: every property named in
// spec.md §4.5 plus the read-only derived and hidden/raw groups of §4.5's
// trailing tables.
func Build() *property.Registry {
	reg := property.NewRegistry()
	registerIdentityAndFilesystem(reg)
	registerExecution(reg)
	registerCapabilities(reg)
	registerCPU(reg)
	registerMemory(reg)
	registerIO(reg)
	registerThreads(reg)
	registerNetwork(reg)
	registerStreams(reg)
	registerLifecycle(reg)
	registerReadOnlyDerived(reg)
	registerHiddenRaw(reg)
	return reg
}
