package catalogue

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ChatWorks/porto/internal/codec"
	"github.com/ChatWorks/porto/internal/container"
	"github.com/ChatWorks/porto/internal/engineerr"
	"github.com/ChatWorks/porto/internal/property"
)

func registerExecution(reg *property.Registry) {
	reg.Add(&property.Property{
		Name: "command", PersistKey: "command", Description: "argv, shell-split",
		Get: func(ctx *property.Ctx) (string, error) { return ctx.Container.Command, nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "command"); err != nil {
				return err
			}
			ctx.Container.Command = v
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "env", PersistKey: "env", Description: "KEY=VALUE; ...",
		Get: func(ctx *property.Ctx) (string, error) {
			return strings.Join(ctx.Container.EnvCfg, ";"), nil
		},
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "env"); err != nil {
				return err
			}
			entries := codec.SplitSimpleList(v)
			for _, e := range entries {
				if !strings.Contains(e, "=") {
					return engineerr.InvalidValuef("env", e, "expected KEY=VALUE")
				}
			}
			ctx.Container.EnvCfg = entries
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "ulimit", PersistKey: "ulimit", Indexable: true,
		Description: "resource: soft hard; ...",
		Get: func(ctx *property.Ctx) (string, error) { return formatUlimits(ctx.Container.Ulimit), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "ulimit"); err != nil {
				return err
			}
			u, err := parseUlimits("ulimit", v)
			if err != nil {
				return err
			}
			ctx.Container.Ulimit = u
			return nil
		},
		GetIndexed: func(ctx *property.Ctx, index string) (string, error) {
			spec, ok := ctx.Container.Ulimit[index]
			if !ok {
				return "", engineerr.InvalidValuef("ulimit", index, "resource not set")
			}
			return formatUlimitSpec(spec), nil
		},
		SetIndexed: func(ctx *property.Ctx, index, value string) error {
			if err := guardA(ctx, "ulimit"); err != nil {
				return err
			}
			if strings.TrimSpace(value) == "" {
				delete(ctx.Container.Ulimit, index)
				return nil
			}
			spec, err := parseUlimitSpec("ulimit", value)
			if err != nil {
				return err
			}
			if ctx.Container.Ulimit == nil {
				ctx.Container.Ulimit = map[string]container.UlimitSpec{}
			}
			ctx.Container.Ulimit[index] = spec
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "isolate", PersistKey: "isolate",
		Description: "run command in its own pid/mount/ipc namespace",
		Get:         func(ctx *property.Ctx) (string, error) { return codec.FormatBool(ctx.Container.Isolate), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "isolate"); err != nil {
				return err
			}
			b, err := codec.ParseBool("isolate", v)
			if err != nil {
				return err
			}
			ctx.Container.Isolate = b
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "virt_mode", PersistKey: "virt_mode",
		Get: func(ctx *property.Ctx) (string, error) { return ctx.Container.VirtMode.String(), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "virt_mode"); err != nil {
				return err
			}
			switch v {
			case "app":
				ctx.Container.VirtMode = container.App
			case "os":
				ctx.Container.VirtMode = container.Os
			default:
				return engineerr.InvalidValuef("virt_mode", v, "expected app or os")
			}
			recomputeDerivedCredState(ctx)
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "user", PersistKey: "user",
		Get: func(ctx *property.Ctx) (string, error) { return strconv.FormatUint(uint64(ctx.Container.TaskCred.Uid), 10), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "user"); err != nil {
				return err
			}
			if ctx.Principal != nil && !ctx.Restoring && !ctx.Principal.CanSetUidGid() {
				return engineerr.Permissionf("user", "not permitted to set uid/gid")
			}
			uid, err := parseID("user", v)
			if err != nil {
				return err
			}
			ctx.Container.TaskCred.Uid = uid
			recomputeDerivedCredState(ctx)
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "group", PersistKey: "group",
		Get: func(ctx *property.Ctx) (string, error) { return strconv.FormatUint(uint64(ctx.Container.TaskCred.Gid), 10), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "group"); err != nil {
				return err
			}
			if ctx.Principal != nil && !ctx.Restoring && !ctx.Principal.CanSetUidGid() {
				return engineerr.Permissionf("group", "not permitted to set uid/gid")
			}
			gid, err := parseID("group", v)
			if err != nil {
				return err
			}
			ctx.Container.TaskCred.Gid = gid
			recomputeDerivedCredState(ctx)
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "owner_user", PersistKey: "owner_user",
		Get: func(ctx *property.Ctx) (string, error) { return strconv.FormatUint(uint64(ctx.Container.OwnerCred.Uid), 10), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if ctx.Principal != nil && !ctx.Restoring && !ctx.Principal.Superuser {
				return engineerr.Permissionf("owner_user", "only host-root may reassign ownership")
			}
			uid, err := parseID("owner_user", v)
			if err != nil {
				return err
			}
			ctx.Container.OwnerCred.Uid = uid
			recomputeDerivedCredState(ctx)
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "owner_group", PersistKey: "owner_group",
		Get: func(ctx *property.Ctx) (string, error) { return strconv.FormatUint(uint64(ctx.Container.OwnerCred.Gid), 10), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if ctx.Principal != nil && !ctx.Restoring && !ctx.Principal.Superuser {
				return engineerr.Permissionf("owner_group", "only host-root may reassign ownership")
			}
			gid, err := parseID("owner_group", v)
			if err != nil {
				return err
			}
			ctx.Container.OwnerCred.Gid = gid
			recomputeDerivedCredState(ctx)
			return nil
		},
	})
}

func parseID(prop, raw string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, engineerr.InvalidValuef(prop, raw, "not a numeric id")
	}
	return uint32(n), nil
}

func formatUlimitSpec(s container.UlimitSpec) string {
	return strconv.FormatUint(s.Soft, 10) + " " + strconv.FormatUint(s.Hard, 10)
}

func parseUlimitSpec(prop, raw string) (container.UlimitSpec, error) {
	fields := strings.Fields(raw)
	if len(fields) != 2 {
		return container.UlimitSpec{}, engineerr.InvalidValuef(prop, raw, "expected 'soft hard'")
	}
	soft, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return container.UlimitSpec{}, engineerr.InvalidValuef(prop, raw, "soft limit not numeric")
	}
	hard, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return container.UlimitSpec{}, engineerr.InvalidValuef(prop, raw, "hard limit not numeric")
	}
	return container.UlimitSpec{Soft: soft, Hard: hard}, nil
}

func formatUlimits(m map[string]container.UlimitSpec) string {
	keys := make([]string, 0, len(m))
	for res := range m {
		keys = append(keys, res)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, res := range keys {
		parts = append(parts, res+": "+formatUlimitSpec(m[res]))
	}
	return strings.Join(parts, ";")
}

func parseUlimits(prop, raw string) (map[string]container.UlimitSpec, error) {
	out := map[string]container.UlimitSpec{}
	for _, entry := range codec.SplitSimpleList(raw) {
		if entry == "" {
			continue
		}
		idx := strings.IndexByte(entry, ':')
		if idx < 0 {
			return nil, engineerr.InvalidValuef(prop, entry, "expected 'resource: soft hard'")
		}
		res := strings.TrimSpace(entry[:idx])
		spec, err := parseUlimitSpec(prop, strings.TrimSpace(entry[idx+1:]))
		if err != nil {
			return nil, err
		}
		out[res] = spec
	}
	return out, nil
}
