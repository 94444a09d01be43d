package fs

import "github.com/ChatWorks/porto/internal/cgroup"

// NetclsGroup stamps outgoing packets with a classid derived from the
// container's tc class id (ContainerTC). Apply writes only
// net_cls.classid; it writes no net_prio.ifpriomap.
type NetclsGroup struct {
	Root string
}

func (g *NetclsGroup) Controller() cgroup.Controller { return cgroup.Netcls }

func (g *NetclsGroup) Capabilities() cgroup.Capabilities {
	return cgroup.Capabilities{Supported: true}
}

func (g *NetclsGroup) Apply(containerPath string, settings map[string]string) error {
	dir, err := joinPath(g.Root, containerPath, "net_cls")
	if err != nil {
		return err
	}
	if classid, ok := settings["net_cls.classid"]; ok && classid != "" {
		if err := writeFile(dir, "net_cls.classid", classid); err != nil {
			return err
		}
	}
	return nil
}

func (g *NetclsGroup) Usage(string) (uint64, error) { return 0, nil }
func (g *NetclsGroup) SystemUsage() (uint64, error) { return 0, nil }
func (g *NetclsGroup) Statistics(string) (cgroup.Stats, error) {
	return cgroup.Stats{}, nil
}
