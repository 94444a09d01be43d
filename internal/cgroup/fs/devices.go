package fs

import "github.com/ChatWorks/porto/internal/cgroup"

// DevicesGroup implements the devices property's whitelist rules.
type DevicesGroup struct {
	Root string
}

func (g *DevicesGroup) Controller() cgroup.Controller { return cgroup.Devices }

func (g *DevicesGroup) Capabilities() cgroup.Capabilities {
	return cgroup.Capabilities{Supported: true}
}

func (g *DevicesGroup) Apply(containerPath string, settings map[string]string) error {
	dir, err := joinPath(g.Root, containerPath, "devices")
	if err != nil {
		return err
	}
	for _, rule := range settings {
		if rule == "" {
			continue
		}
		if err := writeFile(dir, "devices.allow", rule); err != nil {
			return err
		}
	}
	return nil
}

func (g *DevicesGroup) Usage(string) (uint64, error) { return 0, nil }
func (g *DevicesGroup) SystemUsage() (uint64, error) { return 0, nil }
func (g *DevicesGroup) Statistics(string) (cgroup.Stats, error) {
	return cgroup.Stats{}, nil
}
