package fs

import "github.com/ChatWorks/porto/internal/cgroup"

// PidsGroup implements thread_limit via pids.max, and exposes the live
// process/thread count through GetCount, read from this controller's
// pids.current file. FreezerGroup has its own GetCount, which counts the
// lines of the freezer cgroup's cgroup.procs.
type PidsGroup struct {
	Root string
}

func (g *PidsGroup) Controller() cgroup.Controller { return cgroup.Pids }

func (g *PidsGroup) Capabilities() cgroup.Capabilities {
	return cgroup.Capabilities{Supported: true}
}

func (g *PidsGroup) Apply(containerPath string, settings map[string]string) error {
	dir, err := joinPath(g.Root, containerPath, "pids")
	if err != nil {
		return err
	}
	if max, ok := settings["pids.max"]; ok && max != "" {
		return writeFile(dir, "pids.max", max)
	}
	return nil
}

func (g *PidsGroup) Usage(containerPath string) (uint64, error) {
	return g.GetCount(containerPath)
}

func (g *PidsGroup) SystemUsage() (uint64, error) { return 0, nil }

func (g *PidsGroup) Statistics(containerPath string) (cgroup.Stats, error) {
	n, err := g.GetCount(containerPath)
	if err != nil {
		return cgroup.Stats{}, nil
	}
	return cgroup.Stats{"current": n}, nil
}

// GetCount implements cgroup.CountSubsystem.
func (g *PidsGroup) GetCount(containerPath string) (uint64, error) {
	dir, err := joinPath(g.Root, containerPath, "pids")
	if err != nil {
		return 0, err
	}
	v, err := readFileUint(dir, "pids.current")
	if err != nil {
		return 0, nil
	}
	return v, nil
}
