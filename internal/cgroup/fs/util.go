// Package fs is the concrete, file-backed implementation of the
// cgroup.Subsystem collaborator. It joins a container's cgroup directory
// under a configurable root and reads/writes the knob files each
// controller exposes, the way the teacher's cgroups/fs.CpuGroup does for
// "cpu.shares"/"cpu.cfs_quota_us".
//
// Non-goal per spec.md §1: exact kernel file paths are not part of this
// specification. The paths below are the conventional cgroup v1 layout and
// exist to make the collaborator concretely testable, not to be load-bearing
// spec semantics.
package fs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func writeFile(dir, file, data string) error {
	return os.WriteFile(filepath.Join(dir, file), []byte(data), 0644)
}

func writeFileInt(dir, file string, value uint64) error {
	return writeFile(dir, file, strconv.FormatUint(value, 10))
}

func readFileUint(dir, file string) (uint64, error) {
	data, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
}

func removePath(dir string) error {
	if dir == "" {
		return nil
	}
	return os.RemoveAll(dir)
}

// getCgroupParamKeyValue splits a line like "nr_periods 17" into its key
// and uint64 value, as found in multi-line stat files (cpu.stat,
// memory.stat).
func getCgroupParamKeyValue(line string) (string, uint64, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", 0, fmt.Errorf("malformed cgroup stat line %q", line)
	}
	v, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return "", 0, err
	}
	return fields[0], v, nil
}

func readKeyedStats(dir, file string) (map[string]uint64, error) {
	f, err := os.Open(filepath.Join(dir, file))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]uint64{}, nil
		}
		return nil, err
	}
	defer f.Close()

	out := map[string]uint64{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		k, v, err := getCgroupParamKeyValue(sc.Text())
		if err != nil {
			continue
		}
		out[k] = v
	}
	return out, sc.Err()
}

// joinPath returns root/subsystemDirName/containerPath, creating it.
func joinPath(root, containerPath, subsystem string) (string, error) {
	dir := filepath.Join(root, subsystem, containerPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
