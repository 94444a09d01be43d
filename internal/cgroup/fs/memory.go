package fs

import "github.com/ChatWorks/porto/internal/cgroup"

// MemoryGroup implements memory_limit/memory_guarantee/anon_limit/
// dirty_limit/recharge_on_pgfault, grounded on the same Apply/Set/GetStats
// shape as the teacher's cgroups/fs.CpuGroup.
type MemoryGroup struct {
	Root string
}

func (g *MemoryGroup) Controller() cgroup.Controller { return cgroup.Memory }

func (g *MemoryGroup) Capabilities() cgroup.Capabilities {
	return cgroup.Capabilities{
		SupportGuarantee:         true,
		SupportAnonLimit:         true,
		SupportDirtyLimit:        true,
		SupportIoLimit:           true,
		SupportRechargeOnPgfault: true,
		Supported:                true,
	}
}

func (g *MemoryGroup) Apply(containerPath string, settings map[string]string) error {
	dir, err := joinPath(g.Root, containerPath, "memory")
	if err != nil {
		return err
	}
	files := []string{
		"memory.limit_in_bytes",
		"memory.soft_limit_in_bytes",
		"memory.memsw.limit_in_bytes",
		"memory.use_hierarchy",
	}
	for _, file := range files {
		v, ok := settings[file]
		if !ok || v == "" {
			continue
		}
		if err := writeFile(dir, file, v); err != nil {
			return err
		}
	}
	return nil
}

func (g *MemoryGroup) Usage(containerPath string) (uint64, error) {
	dir, err := joinPath(g.Root, containerPath, "memory")
	if err != nil {
		return 0, err
	}
	return readFileUint(dir, "memory.usage_in_bytes")
}

func (g *MemoryGroup) SystemUsage() (uint64, error) { return 0, nil }

func (g *MemoryGroup) Statistics(containerPath string) (cgroup.Stats, error) {
	dir, err := joinPath(g.Root, containerPath, "memory")
	if err != nil {
		return nil, err
	}
	raw, err := readKeyedStats(dir, "memory.stat")
	if err != nil {
		return nil, err
	}
	return cgroup.Stats(raw), nil
}

// GetAnonUsage implements cgroup.AnonUsageSubsystem.
func (g *MemoryGroup) GetAnonUsage(containerPath string) (uint64, error) {
	stats, err := g.Statistics(containerPath)
	if err != nil {
		return 0, err
	}
	return stats["rss"], nil
}
