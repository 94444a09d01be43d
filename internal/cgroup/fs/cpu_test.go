package fs

import (
	"testing"
)

// Mirrors the teacher's cgroups/fs test style (NewCgroupTestUtil +
// writeFileContents) but against a throwaway directory instead of a real
// mounted cgroupfs, so it runs in any sandbox.
func TestCPUGroupApplyAndUsage(t *testing.T) {
	root := t.TempDir()
	g := &CPUGroup{Root: root}

	if err := g.Apply("box1", map[string]string{
		"cpu.cfs_quota_us":  "100000",
		"cpu.cfs_period_us": "100000",
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	dir, err := joinPath(root, "box1", "cpuacct")
	if err != nil {
		t.Fatal(err)
	}
	if err := writeFileInt(dir, "cpuacct.usage", 42); err != nil {
		t.Fatal(err)
	}

	usage, err := g.Usage("box1")
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if usage != 42 {
		t.Fatalf("Usage = %d, want 42", usage)
	}
}

func TestCPUGroupStatistics(t *testing.T) {
	root := t.TempDir()
	g := &CPUGroup{Root: root}

	dir, err := joinPath(root, "box1", "cpu")
	if err != nil {
		t.Fatal(err)
	}
	if err := writeFile(dir, "cpu.stat", "nr_periods 5\nnr_throttled 1\nthrottled_time 1000\n"); err != nil {
		t.Fatal(err)
	}

	stats, err := g.Statistics("box1")
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats["nr_periods"] != 5 || stats["nr_throttled"] != 1 || stats["throttled_time"] != 1000 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
