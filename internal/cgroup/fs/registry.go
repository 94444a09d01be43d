// Package fs wires every concrete Subsystem to its controller bit, mirroring
// the registry map the teacher's network/strategy.go keeps for network
// strategies ("strategies = map[string]NetworkStrategy{...}").
package fs

import "github.com/ChatWorks/porto/internal/cgroup"

// NewRegistry builds the full set of fs-backed subsystems rooted at root
// (conventionally /sys/fs/cgroup).
func NewRegistry(root string) map[cgroup.Controller]cgroup.Subsystem {
	return map[cgroup.Controller]cgroup.Subsystem{
		cgroup.Memory:  &MemoryGroup{Root: root},
		cgroup.CPU:     &CPUGroup{Root: root},
		cgroup.Cpuset:  &CpusetGroup{Root: root},
		cgroup.Blkio:   &BlkioGroup{Root: root},
		cgroup.Netcls:  &NetclsGroup{Root: root},
		cgroup.Devices: &DevicesGroup{Root: root},
		cgroup.Pids:    &PidsGroup{Root: root},
		cgroup.Hugetlb: &HugetlbGroup{Root: root},
		cgroup.Freezer: &FreezerGroup{Root: root},
	}
}
