package catalogue

import (
	"sort"
	"strconv"
	"time"

	"github.com/ChatWorks/porto/internal/cgroup"
	"github.com/ChatWorks/porto/internal/codec"
	"github.com/ChatWorks/porto/internal/container"
	"github.com/ChatWorks/porto/internal/engineerr"
	"github.com/ChatWorks/porto/internal/property"
	"github.com/ChatWorks/porto/internal/statemachine"
)

// decodeExitCode applies the POSIX wait(2) status encoding to derive a
// human-facing exit_code from the raw exit_status wait status: a normal
// exit reports the exit code held in bits 8-15, a signal death reports
// -signum. The sentinel
// -99 is reserved for "container has no recorded exit status" (never
// started, or persisted state predates this field) and passes through
// unchanged rather than being POSIX-decoded.
func decodeExitCode(status int) int {
	if status == -99 {
		return -99
	}
	termsig := status & 0x7f
	if termsig == 0 {
		return (status >> 8) & 0xff
	}
	return -termsig
}

func subsystemFor(ctx *property.Ctx, c cgroup.Controller) cgroup.Subsystem {
	if ctx.Cgroups == nil {
		return nil
	}
	return ctx.Cgroups[c]
}

func usageOf(ctx *property.Ctx, c cgroup.Controller) uint64 {
	sub := subsystemFor(ctx, c)
	if sub == nil {
		return 0
	}
	n, err := sub.Usage(ctx.Container.AbsoluteName())
	if err != nil {
		return 0
	}
	return n
}

func registerReadOnlyDerived(reg *property.Registry) {
	ro := func(name string, get func(*property.Ctx) (string, error)) {
		reg.Add(&property.Property{Name: name, ReadOnly: true, Get: get})
	}

	ro("exit_status", func(ctx *property.Ctx) (string, error) {
		if err := statemachine.Check(statemachine.DeadRead, ctx.Container, "exit_status"); err != nil {
			return "", err
		}
		return strconv.Itoa(ctx.Container.ExitStatus), nil
	})
	ro("exit_code", func(ctx *property.Ctx) (string, error) {
		if err := statemachine.Check(statemachine.DeadRead, ctx.Container, "exit_code"); err != nil {
			return "", err
		}
		return strconv.Itoa(decodeExitCode(ctx.Container.ExitStatus)), nil
	})
	ro("oom_killed", func(ctx *property.Ctx) (string, error) {
		return codec.FormatBool(ctx.Container.OomKilled), nil
	})
	ro("respawn_count", func(ctx *property.Ctx) (string, error) {
		return strconv.Itoa(ctx.Container.RespawnCount), nil
	})
	ro("root_pid", func(ctx *property.Ctx) (string, error) {
		if err := statemachine.Check(statemachine.RunningRead, ctx.Container, "root_pid"); err != nil {
			return "", err
		}
		return strconv.Itoa(ctx.Container.TaskPid), nil
	})
	ro("time", func(ctx *property.Ctx) (string, error) {
		c := ctx.Container
		if c.Parent == nil {
			// root stands in for the host itself; there is no per-container
			// StartTime for it, so uptime is measured from when the forest
			// (and so the daemon) came up.
			return codec.FormatDurationSeconds(time.Since(c.RealCreationTime)), nil
		}
		switch c.State {
		case container.Running, container.Paused:
			return codec.FormatDurationSeconds(time.Since(c.StartTime)), nil
		case container.Dead:
			if c.DeathTime.IsZero() {
				c.DeathTime = time.Now()
			}
			return codec.FormatDurationSeconds(c.DeathTime.Sub(c.StartTime)), nil
		default:
			return "0", nil
		}
	})
	ro("creation_time", func(ctx *property.Ctx) (string, error) {
		return ctx.Container.RealCreationTime.UTC().Format(time.RFC3339), nil
	})
	ro("start_time", func(ctx *property.Ctx) (string, error) {
		return ctx.Container.RealStartTime.UTC().Format(time.RFC3339), nil
	})
	ro("state", func(ctx *property.Ctx) (string, error) {
		return ctx.Container.State.String(), nil
	})
	ro("parent", func(ctx *property.Ctx) (string, error) {
		if ctx.Container.Parent == nil {
			return "", nil
		}
		return ctx.Container.Parent.Name, nil
	})
	ro("absolute_name", func(ctx *property.Ctx) (string, error) {
		return ctx.Container.AbsoluteName(), nil
	})
	ro("absolute_namespace", func(ctx *property.Ctx) (string, error) {
		return ctx.Container.Namespace, nil
	})

	ro("memory_usage", func(ctx *property.Ctx) (string, error) {
		return strconv.FormatUint(usageOf(ctx, cgroup.Memory), 10), nil
	})
	ro("anon_usage", func(ctx *property.Ctx) (string, error) {
		sub := subsystemFor(ctx, cgroup.Memory)
		anonSub, ok := sub.(cgroup.AnonUsageSubsystem)
		if !ok {
			return "0", nil
		}
		n, err := anonSub.GetAnonUsage(ctx.Container.AbsoluteName())
		if err != nil {
			return "0", nil
		}
		return strconv.FormatUint(n, 10), nil
	})
	ro("hugetlb_usage", func(ctx *property.Ctx) (string, error) {
		sub := subsystemFor(ctx, cgroup.Hugetlb)
		hugeSub, ok := sub.(cgroup.HugeUsageSubsystem)
		if !ok {
			return "0", nil
		}
		n, err := hugeSub.GetHugeUsage(ctx.Container.AbsoluteName())
		if err != nil {
			return "0", nil
		}
		return strconv.FormatUint(n, 10), nil
	})
	ro("max_rss", func(ctx *property.Ctx) (string, error) {
		sub := subsystemFor(ctx, cgroup.Memory)
		if sub == nil {
			return "0", nil
		}
		stats, err := sub.Statistics(ctx.Container.AbsoluteName())
		if err != nil {
			return "0", nil
		}
		return strconv.FormatUint(stats["total_max_rss"], 10), nil
	})
	ro("minor_faults", func(ctx *property.Ctx) (string, error) {
		return statKey(ctx, cgroup.Memory, "total_pgfault"), nil
	})
	ro("major_faults", func(ctx *property.Ctx) (string, error) {
		return statKey(ctx, cgroup.Memory, "total_pgmajfault"), nil
	})

	ro("cpu_usage", func(ctx *property.Ctx) (string, error) {
		return strconv.FormatUint(usageOf(ctx, cgroup.CPU), 10), nil
	})
	ro("cpu_system", func(ctx *property.Ctx) (string, error) {
		sub := subsystemFor(ctx, cgroup.CPU)
		if sub == nil {
			return "0", nil
		}
		n, err := sub.SystemUsage()
		if err != nil {
			return "0", nil
		}
		return strconv.FormatUint(n, 10), nil
	})

	ro("process_count", func(ctx *property.Ctx) (string, error) {
		sub := subsystemFor(ctx, cgroup.Freezer)
		countSub, ok := sub.(cgroup.CountSubsystem)
		if !ok {
			return "0", nil
		}
		n, err := countSub.GetCount(ctx.Container.AbsoluteName())
		if err != nil {
			return "0", nil
		}
		return strconv.FormatUint(n, 10), nil
	})
	ro("thread_count", func(ctx *property.Ctx) (string, error) {
		sub := subsystemFor(ctx, cgroup.Pids)
		countSub, ok := sub.(cgroup.CountSubsystem)
		if !ok {
			return "0", nil
		}
		n, err := countSub.GetCount(ctx.Container.AbsoluteName())
		if err != nil {
			return "0", nil
		}
		return strconv.FormatUint(n, 10), nil
	})

	ro("net_class_id", func(ctx *property.Ctx) (string, error) {
		return strconv.FormatUint(uint64(ctx.Container.ContainerTC), 10), nil
	})
	ro("net_bytes", func(ctx *property.Ctx) (string, error) { return netCounterSum(ctx, "Bytes") })
	ro("net_packets", func(ctx *property.Ctx) (string, error) { return netCounterSum(ctx, "Packets") })
	ro("net_drops", func(ctx *property.Ctx) (string, error) { return netCounterSum(ctx, "Drops") })
	ro("net_tx_bytes", func(ctx *property.Ctx) (string, error) { return netCounterSum(ctx, "TxBytes") })
	ro("net_rx_bytes", func(ctx *property.Ctx) (string, error) { return netCounterSum(ctx, "RxBytes") })

	ro("io_read", func(ctx *property.Ctx) (string, error) { return statKey(ctx, cgroup.Blkio, "read"), nil })
	ro("io_write", func(ctx *property.Ctx) (string, error) { return statKey(ctx, cgroup.Blkio, "write"), nil })
	ro("io_ops", func(ctx *property.Ctx) (string, error) { return statKey(ctx, cgroup.Blkio, "io_serviced"), nil })

	ro("memory_total_limit", func(ctx *property.Ctx) (string, error) {
		total := uint64(0)
		if ctx.Config != nil {
			total = ctx.Config.TotalMemory
		}
		return codec.FormatSize(total), nil
	})
	ro("memory_total_guarantee", func(ctx *property.Ctx) (string, error) {
		if ctx.Forest == nil {
			return "0", nil
		}
		ctx.Forest.TreeLock.RLock()
		var sum uint64
		ctx.Forest.Walk(func(n *container.Container) { sum += n.MemGuarantee })
		ctx.Forest.TreeLock.RUnlock()
		return codec.FormatSize(sum), nil
	})

	ro("cgroups", func(ctx *property.Ctx) (string, error) {
		names := make([]string, 0)
		mask := ctx.Container.Controllers
		for _, n := range cgroup.Names() {
			if mask&n.Bit != 0 {
				names = append(names, n.Name)
			}
		}
		sort.Strings(names)
		out := ""
		for i, n := range names {
			if i > 0 {
				out += ";"
			}
			out += n
		}
		return out, nil
	})

	ro("porto_stat", func(ctx *property.Ctx) (string, error) {
		if ctx.Stats == nil {
			return "", nil
		}
		snap := ctx.Stats.Snapshot()
		keys := make([]string, 0, len(snap))
		for k := range snap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := make(map[string]uint64, len(snap))
		for _, k := range keys {
			m[k] = uint64(snap[k])
		}
		return codec.FormatUintMap(m, keys), nil
	})
}

func statKey(ctx *property.Ctx, c cgroup.Controller, key string) string {
	sub := subsystemFor(ctx, c)
	if sub == nil {
		return "0"
	}
	stats, err := sub.Statistics(ctx.Container.AbsoluteName())
	if err != nil {
		return "0"
	}
	return strconv.FormatUint(stats[key], 10)
}

func netCounterSum(ctx *property.Ctx, field string) (string, error) {
	if ctx.Net == nil {
		return "0", nil
	}
	counters, err := ctx.Net.GetNetStat("default")
	if err != nil {
		return "", engineerr.Unknownf("net_bytes", err, "reading interface counters")
	}
	var sum uint64
	for _, c := range counters {
		switch field {
		case "Bytes":
			sum += c.Bytes
		case "Packets":
			sum += c.Packets
		case "Drops":
			sum += c.Drops
		case "TxBytes":
			sum += c.TxBytes
		case "RxBytes":
			sum += c.RxBytes
		}
	}
	return strconv.FormatUint(sum, 10), nil
}
