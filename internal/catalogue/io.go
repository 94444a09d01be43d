package catalogue

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ChatWorks/porto/internal/cgroup"
	"github.com/ChatWorks/porto/internal/codec"
	"github.com/ChatWorks/porto/internal/container"
	"github.com/ChatWorks/porto/internal/property"
	"github.com/ChatWorks/porto/internal/statemachine"
)

// ioKeys returns m's keys sorted, so io_bps_limit/io_ops_limit format
// deterministically regardless of map iteration order. Keys are either
// "fs" (the whole filesystem default) or a disk path/disk-id, per §4.5's
// io_bps_limit row.
func ioKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseIOLimitMap implements §4.5's "bare size without ':' is shorthand for
// fs: N" rule on top of the general map grammar.
func parseIOLimitMap(prop, raw string) (map[string]uint64, error) {
	if !strings.Contains(raw, ":") {
		n, err := codec.ParseUint(prop, strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		return map[string]uint64{"fs": n}, nil
	}
	return codec.ParseUintMap(prop, raw)
}

// ioControllers reports which controllers a set of io_bps_limit/io_ops_limit
// keys requires, per §4.5: the "fs" key accounts against the memory
// controller's io throttling, every disk path/disk id key against blkio.
func ioControllers(keys map[string]uint64) cgroup.Controller {
	var want cgroup.Controller
	for k := range keys {
		if k == "fs" {
			want |= cgroup.Memory
		} else {
			want |= cgroup.Blkio
		}
	}
	return want
}

func ioControllerFor(key string) cgroup.Controller {
	if key == "fs" {
		return cgroup.Memory
	}
	return cgroup.Blkio
}

func registerIO(reg *property.Registry) {
	reg.Add(&property.Property{
		Name: "io_policy", PersistKey: "io_policy",
		Get: func(ctx *property.Ctx) (string, error) { return ctx.Container.IoPolicy.String(), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "io_policy"); err != nil {
				return err
			}
			switch v {
			case "normal":
				ctx.Container.IoPolicy = container.IONormal
			case "batch":
				ctx.Container.IoPolicy = container.IOBatch
			default:
				return engineerrUnknownEnum("io_policy", v, "normal", "batch")
			}
			return statemachine.WantControllers(ctx.Container, "io_policy", cgroup.Blkio)
		},
	})

	reg.Add(&property.Property{
		Name: "io_bps_limit", PersistKey: "io_bps_limit", Indexable: true,
		Description: "fs|<disk path>|<disk id>: bytes/s; ...",
		Get: func(ctx *property.Ctx) (string, error) {
			return codec.FormatUintMap(ctx.Container.IoBpsLimit, ioKeys(ctx.Container.IoBpsLimit)), nil
		},
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "io_bps_limit"); err != nil {
				return err
			}
			m, err := parseIOLimitMap("io_bps_limit", v)
			if err != nil {
				return err
			}
			ctx.Container.IoBpsLimit = m
			return statemachine.WantControllers(ctx.Container, "io_bps_limit", ioControllers(m))
		},
		GetIndexed: func(ctx *property.Ctx, index string) (string, error) {
			return formatUintEntry(ctx.Container.IoBpsLimit, index), nil
		},
		SetIndexed: func(ctx *property.Ctx, index, value string) error {
			if err := guardA(ctx, "io_bps_limit"); err != nil {
				return err
			}
			n, err := codec.ParseUint("io_bps_limit", value)
			if err != nil {
				return err
			}
			if ctx.Container.IoBpsLimit == nil {
				ctx.Container.IoBpsLimit = map[string]uint64{}
			}
			ctx.Container.IoBpsLimit[index] = n
			return statemachine.WantControllers(ctx.Container, "io_bps_limit", ioControllerFor(index))
		},
	})

	reg.Add(&property.Property{
		Name: "io_ops_limit", PersistKey: "io_ops_limit", Indexable: true,
		Description: "fs|<disk path>|<disk id>: ops/s; ...",
		Get: func(ctx *property.Ctx) (string, error) {
			return codec.FormatUintMap(ctx.Container.IoOpsLimit, ioKeys(ctx.Container.IoOpsLimit)), nil
		},
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "io_ops_limit"); err != nil {
				return err
			}
			m, err := parseIOLimitMap("io_ops_limit", v)
			if err != nil {
				return err
			}
			ctx.Container.IoOpsLimit = m
			return statemachine.WantControllers(ctx.Container, "io_ops_limit", ioControllers(m))
		},
		GetIndexed: func(ctx *property.Ctx, index string) (string, error) {
			return formatUintEntry(ctx.Container.IoOpsLimit, index), nil
		},
		SetIndexed: func(ctx *property.Ctx, index, value string) error {
			if err := guardA(ctx, "io_ops_limit"); err != nil {
				return err
			}
			n, err := codec.ParseUint("io_ops_limit", value)
			if err != nil {
				return err
			}
			if ctx.Container.IoOpsLimit == nil {
				ctx.Container.IoOpsLimit = map[string]uint64{}
			}
			ctx.Container.IoOpsLimit[index] = n
			return statemachine.WantControllers(ctx.Container, "io_ops_limit", ioControllerFor(index))
		},
	})
}

func formatUintEntry(m map[string]uint64, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	return strconv.FormatUint(v, 10)
}
