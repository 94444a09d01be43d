// Package cgroup models the "Cgroup subsystem" collaborator of spec.md §6:
// a fixed set of cgroup controllers, each with a stable type string,
// capability flags describing what the controller supports on this host,
// and synchronous counter accessors. The property engine only ever talks
// to this collaborator through the Subsystem interface; it never opens a
// cgroup file itself.
package cgroup

// Controller is a bit in the Controllers/RequiredControllers bitmask of
// spec.md §3. Flags are compile-time constants per DESIGN NOTES §9.
type Controller uint32

const (
	Memory Controller = 1 << iota
	CPU
	Cpuset
	Blkio
	Netcls
	Devices
	Pids
	Hugetlb
	Freezer
)

// names lists every controller in a stable enumeration order, used for
// deterministic output of String and of the read-only cgroups property.
var names = []struct {
	Bit  Controller
	Name string
}{
	{Memory, "memory"},
	{CPU, "cpu"},
	{Cpuset, "cpuset"},
	{Blkio, "blkio"},
	{Netcls, "net_cls"},
	{Devices, "devices"},
	{Pids, "pids"},
	{Hugetlb, "hugetlb"},
	{Freezer, "freezer"},
}

// String renders a controller's stable type string.
func (c Controller) String() string {
	for _, n := range names {
		if n.Bit == c {
			return n.Name
		}
	}
	return "unknown"
}

// All returns every known controller bit ORed together.
func All() Controller {
	var mask Controller
	for _, n := range names {
		mask |= n.Bit
	}
	return mask
}

// Names returns the (bit, name) table in enumeration order.
func Names() []struct {
	Bit  Controller
	Name string
} {
	return names
}
