package fs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ChatWorks/porto/internal/cgroup"
)

// FreezerGroup backs the Paused state transition (freezer.state) and
// exposes GetCount for the thread/process count read-only properties when
// pids is not mounted.
type FreezerGroup struct {
	Root string
}

func (g *FreezerGroup) Controller() cgroup.Controller { return cgroup.Freezer }

func (g *FreezerGroup) Capabilities() cgroup.Capabilities {
	return cgroup.Capabilities{Supported: true}
}

func (g *FreezerGroup) Apply(containerPath string, settings map[string]string) error {
	dir, err := joinPath(g.Root, containerPath, "freezer")
	if err != nil {
		return err
	}
	if state, ok := settings["freezer.state"]; ok && state != "" {
		return writeFile(dir, "freezer.state", state)
	}
	return nil
}

func (g *FreezerGroup) Usage(string) (uint64, error) { return 0, nil }
func (g *FreezerGroup) SystemUsage() (uint64, error) { return 0, nil }
func (g *FreezerGroup) Statistics(string) (cgroup.Stats, error) {
	return cgroup.Stats{}, nil
}

// GetCount implements cgroup.CountSubsystem via cgroup.procs line count.
func (g *FreezerGroup) GetCount(containerPath string) (uint64, error) {
	dir, err := joinPath(g.Root, containerPath, "freezer")
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "cgroup.procs"))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	var n uint64
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n, nil
}
