package fs

import "github.com/ChatWorks/porto/internal/cgroup"

// HugetlbGroup implements hugetlb_limit.
type HugetlbGroup struct {
	Root string
}

func (g *HugetlbGroup) Controller() cgroup.Controller { return cgroup.Hugetlb }

func (g *HugetlbGroup) Capabilities() cgroup.Capabilities {
	return cgroup.Capabilities{Supported: true}
}

func (g *HugetlbGroup) Apply(containerPath string, settings map[string]string) error {
	dir, err := joinPath(g.Root, containerPath, "hugetlb")
	if err != nil {
		return err
	}
	if v, ok := settings["hugetlb.2MB.limit_in_bytes"]; ok && v != "" {
		return writeFile(dir, "hugetlb.2MB.limit_in_bytes", v)
	}
	return nil
}

func (g *HugetlbGroup) Usage(containerPath string) (uint64, error) {
	return g.GetHugeUsage(containerPath)
}

func (g *HugetlbGroup) SystemUsage() (uint64, error) { return 0, nil }

func (g *HugetlbGroup) Statistics(containerPath string) (cgroup.Stats, error) {
	dir, err := joinPath(g.Root, containerPath, "hugetlb")
	if err != nil {
		return nil, err
	}
	usage, err := readFileUint(dir, "hugetlb.2MB.usage_in_bytes")
	if err != nil {
		return cgroup.Stats{}, nil
	}
	return cgroup.Stats{"usage_in_bytes": usage}, nil
}

// GetHugeUsage implements cgroup.HugeUsageSubsystem.
func (g *HugetlbGroup) GetHugeUsage(containerPath string) (uint64, error) {
	dir, err := joinPath(g.Root, containerPath, "hugetlb")
	if err != nil {
		return 0, err
	}
	v, err := readFileUint(dir, "hugetlb.2MB.usage_in_bytes")
	if err != nil {
		return 0, nil
	}
	return v, nil
}
