package cgroup

// Capabilities describes what a subsystem supports on the running host,
// per spec.md §6's per-subsystem capability flags.
type Capabilities struct {
	HasWeight                bool
	SupportGuarantee         bool
	SupportAnonLimit         bool
	SupportDirtyLimit        bool
	SupportIoLimit           bool
	SupportRechargeOnPgfault bool
	HasThrottler             bool
	HasSmart                 bool
	Supported                bool
}

// Stats is the counter snapshot a subsystem hands back through
// Statistics(); it is intentionally a loose map because the set of
// counters differs per subsystem (the property catalogue picks the keys it
// needs).
type Stats map[string]uint64

// Subsystem is the per-controller collaborator interface consumed by the
// property engine. A concrete implementation (fs-backed, or a test double)
// fulfils one controller's worth of capability flags and counters.
//
// Grounded on the teacher's cgroups/fs.CpuGroup (Apply/Set/Remove/GetStats)
// generalized into an interface so the catalogue can depend on it without
// caring whether the backing store is a real cgroupfs or a fake.
type Subsystem interface {
	Controller() Controller
	Capabilities() Capabilities

	// Apply joins the container's cgroup for this controller and writes the
	// given settings. Must be idempotent.
	Apply(containerPath string, settings map[string]string) error

	// Usage returns cumulative cpu/memory usage in controller-specific
	// units (bytes for memory, nanoseconds for cpu).
	Usage(containerPath string) (uint64, error)

	// SystemUsage returns the host-wide equivalent of Usage.
	SystemUsage() (uint64, error)

	// Statistics returns the full counter map for this controller.
	Statistics(containerPath string) (Stats, error)
}

// AnonUsageSubsystem is implemented by the memory controller, which alone
// exposes anon-memory accounting.
type AnonUsageSubsystem interface {
	GetAnonUsage(containerPath string) (uint64, error)
}

// HugeUsageSubsystem is implemented by the hugetlb controller.
type HugeUsageSubsystem interface {
	GetHugeUsage(containerPath string) (uint64, error)
}

// CountSubsystem is implemented by the freezer/pids controller, exposing a
// live process/thread count (GetCount of §6, GetUsage for pids).
type CountSubsystem interface {
	GetCount(containerPath string) (uint64, error)
}
