package fs

import "github.com/ChatWorks/porto/internal/cgroup"

// CpusetGroup pins a container to a cpuset spec (cpuset.cpus).
type CpusetGroup struct {
	Root string
}

func (g *CpusetGroup) Controller() cgroup.Controller { return cgroup.Cpuset }

func (g *CpusetGroup) Capabilities() cgroup.Capabilities {
	return cgroup.Capabilities{Supported: true}
}

func (g *CpusetGroup) Apply(containerPath string, settings map[string]string) error {
	dir, err := joinPath(g.Root, containerPath, "cpuset")
	if err != nil {
		return err
	}
	if spec, ok := settings["cpuset.cpus"]; ok && spec != "" {
		if err := writeFile(dir, "cpuset.cpus", spec); err != nil {
			return err
		}
	}
	return nil
}

func (g *CpusetGroup) Usage(string) (uint64, error)    { return 0, nil }
func (g *CpusetGroup) SystemUsage() (uint64, error)    { return 0, nil }
func (g *CpusetGroup) Statistics(string) (cgroup.Stats, error) {
	return cgroup.Stats{}, nil
}
