// Package ocibridge translates the container's resource-shaped properties
// (cpu/memory/pids/blkio) into an OCI runtime-spec LinuxResources value, for
// hosts whose cgroup collaborator is fronted by an OCI-shaped writer
// (runc-managed cgroups) rather than direct cgroupfs access. Grounded on
// fayaz-modz-dbox, which builds specs.Spec/specs.LinuxResources directly
// from its own container config before handing it to the OCI runtime.
package ocibridge

import specs "github.com/opencontainers/runtime-spec/specs-go"

// ResourceInputs is the subset of container fields needed to build
// LinuxResources; kept narrow and decoupled from internal/container so this
// package has no import-cycle risk.
type ResourceInputs struct {
	CPUQuotaMicros  int64
	CPUPeriodMicros uint64
	CPUShares       uint64
	CPUSet          string

	MemoryLimitBytes int64
	MemorySwapBytes  int64

	PidsLimit int64

	BlkioWeight uint16
}

// ToLinuxResources builds the OCI resource descriptor for in.
func ToLinuxResources(in ResourceInputs) *specs.LinuxResources {
	res := &specs.LinuxResources{}

	if in.CPUQuotaMicros != 0 || in.CPUPeriodMicros != 0 || in.CPUShares != 0 || in.CPUSet != "" {
		cpu := &specs.LinuxCPU{}
		if in.CPUQuotaMicros != 0 {
			cpu.Quota = &in.CPUQuotaMicros
		}
		if in.CPUPeriodMicros != 0 {
			cpu.Period = &in.CPUPeriodMicros
		}
		if in.CPUShares != 0 {
			cpu.Shares = &in.CPUShares
		}
		if in.CPUSet != "" {
			cpu.Cpus = in.CPUSet
		}
		res.CPU = cpu
	}

	if in.MemoryLimitBytes != 0 || in.MemorySwapBytes != 0 {
		mem := &specs.LinuxMemory{}
		if in.MemoryLimitBytes != 0 {
			mem.Limit = &in.MemoryLimitBytes
		}
		if in.MemorySwapBytes != 0 {
			mem.Swap = &in.MemorySwapBytes
		}
		res.Memory = mem
	}

	if in.PidsLimit != 0 {
		res.Pids = &specs.LinuxPids{Limit: in.PidsLimit}
	}

	if in.BlkioWeight != 0 {
		res.BlockIO = &specs.LinuxBlockIO{Weight: &in.BlkioWeight}
	}

	return res
}
