package fs

import (
	"fmt"

	"github.com/ChatWorks/porto/internal/cgroup"
)

// BlkioGroup implements io_policy/io_bps_limit/io_ops_limit for disk-path
// and disk-id keys (the "fs" key routes through the memory controller
// instead, per §4.5 — handled by the catalogue, not here).
type BlkioGroup struct {
	Root string
}

func (g *BlkioGroup) Controller() cgroup.Controller { return cgroup.Blkio }

func (g *BlkioGroup) Capabilities() cgroup.Capabilities {
	return cgroup.Capabilities{HasWeight: true, SupportIoLimit: true, Supported: true}
}

func (g *BlkioGroup) Apply(containerPath string, settings map[string]string) error {
	dir, err := joinPath(g.Root, containerPath, "blkio")
	if err != nil {
		return err
	}
	if weight, ok := settings["blkio.weight"]; ok && weight != "" {
		if err := writeFile(dir, "blkio.weight", weight); err != nil {
			return err
		}
	}
	for diskID, limit := range settings {
		if diskID == "blkio.weight" {
			continue
		}
		file := fmt.Sprintf("blkio.throttle.%s", diskID)
		if err := writeFile(dir, file, limit); err != nil {
			return err
		}
	}
	return nil
}

func (g *BlkioGroup) Usage(containerPath string) (uint64, error) {
	dir, err := joinPath(g.Root, containerPath, "blkio")
	if err != nil {
		return 0, err
	}
	return readFileUint(dir, "blkio.throttle.io_service_bytes")
}

func (g *BlkioGroup) SystemUsage() (uint64, error) { return 0, nil }

func (g *BlkioGroup) Statistics(containerPath string) (cgroup.Stats, error) {
	dir, err := joinPath(g.Root, containerPath, "blkio")
	if err != nil {
		return nil, err
	}
	raw, err := readKeyedStats(dir, "blkio.throttle.io_service_bytes")
	if err != nil {
		return nil, err
	}
	return cgroup.Stats(raw), nil
}
