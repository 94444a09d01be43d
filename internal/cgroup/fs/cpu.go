package fs

import (
	"github.com/ChatWorks/porto/internal/cgroup"
)

// CPUGroup is the cpu controller, grounded directly on the teacher's
// cgroups/fs.CpuGroup (cpu.shares/cpu.cfs_period_us/cpu.cfs_quota_us),
// generalized to the cgroup.Subsystem interface.
type CPUGroup struct {
	Root string
}

func (g *CPUGroup) Controller() cgroup.Controller { return cgroup.CPU }

func (g *CPUGroup) Capabilities() cgroup.Capabilities {
	return cgroup.Capabilities{HasThrottler: true, HasSmart: true, Supported: true}
}

func (g *CPUGroup) Apply(containerPath string, settings map[string]string) error {
	dir, err := joinPath(g.Root, containerPath, "cpu")
	if err != nil {
		return err
	}
	for file, value := range settings {
		if value == "" {
			continue
		}
		if err := writeFile(dir, file, value); err != nil {
			return err
		}
	}
	return nil
}

func (g *CPUGroup) Usage(containerPath string) (uint64, error) {
	dir, err := joinPath(g.Root, containerPath, "cpuacct")
	if err != nil {
		return 0, err
	}
	return readFileUint(dir, "cpuacct.usage")
}

func (g *CPUGroup) SystemUsage() (uint64, error) {
	dir, err := joinPath(g.Root, "", "cpuacct")
	if err != nil {
		return 0, err
	}
	return readFileUint(dir, "cpuacct.usage")
}

func (g *CPUGroup) Statistics(containerPath string) (cgroup.Stats, error) {
	dir, err := joinPath(g.Root, containerPath, "cpu")
	if err != nil {
		return nil, err
	}
	raw, err := readKeyedStats(dir, "cpu.stat")
	if err != nil {
		return nil, err
	}
	return cgroup.Stats(raw), nil
}
