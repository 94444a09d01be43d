package catalogue

import (
	"github.com/ChatWorks/porto/internal/cgroup"
	"github.com/ChatWorks/porto/internal/codec"
	"github.com/ChatWorks/porto/internal/engineerr"
	"github.com/ChatWorks/porto/internal/netcollab"
	"github.com/ChatWorks/porto/internal/property"
	"github.com/ChatWorks/porto/internal/statemachine"
)

func registerNetwork(reg *property.Registry) {
	reg.Add(&property.Property{
		Name: "net", PersistKey: "net", Description: "net mode plan, see GLOSSARY",
		Get: func(ctx *property.Ctx) (string, error) {
			modes, err := netcollab.ParsePlan("net", ctx.Container.NetPropRaw)
			if err != nil {
				return ctx.Container.NetPropRaw, nil
			}
			return netcollab.Format(modes), nil
		},
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "net"); err != nil {
				return err
			}
			modes, err := netcollab.ParsePlan("net", v)
			if err != nil {
				return err
			}
			ctx.Container.NetPropRaw = v
			if netcollab.RequiresNetcls(modes) {
				return statemachine.WantControllers(ctx.Container, "net", cgroup.Netcls)
			}
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "ip", PersistKey: "ip", Description: "NAME address/prefix; ...",
		Get: func(ctx *property.Ctx) (string, error) { return ctx.Container.IpList, nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "ip"); err != nil {
				return err
			}
			ctx.Container.IpList = v
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "default_gw", PersistKey: "default_gw", Description: "NAME gateway; ...",
		Get: func(ctx *property.Ctx) (string, error) { return ctx.Container.DefaultGw, nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "default_gw"); err != nil {
				return err
			}
			ctx.Container.DefaultGw = v
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "net_guarantee", PersistKey: "net_guarantee", Indexable: true,
		Description: "NAME: bytes/s; ...",
		Get: func(ctx *property.Ctx) (string, error) {
			return codec.FormatUintMap(ctx.Container.NetGuarantee, ioKeys(ctx.Container.NetGuarantee)), nil
		},
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "net_guarantee"); err != nil {
				return err
			}
			m, err := codec.ParseUintMap("net_guarantee", v)
			if err != nil {
				return err
			}
			ctx.Container.NetGuarantee = m
			return statemachine.WantControllers(ctx.Container, "net_guarantee", cgroup.Netcls)
		},
		GetIndexed: func(ctx *property.Ctx, index string) (string, error) {
			return formatUintEntry(ctx.Container.NetGuarantee, index), nil
		},
	})

	reg.Add(&property.Property{
		Name: "net_limit", PersistKey: "net_limit", Indexable: true,
		Description: "NAME: bytes/s; ...",
		Get: func(ctx *property.Ctx) (string, error) {
			return codec.FormatUintMap(ctx.Container.NetLimit, ioKeys(ctx.Container.NetLimit)), nil
		},
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "net_limit"); err != nil {
				return err
			}
			m, err := codec.ParseUintMap("net_limit", v)
			if err != nil {
				return err
			}
			ctx.Container.NetLimit = m
			return statemachine.WantControllers(ctx.Container, "net_limit", cgroup.Netcls)
		},
		GetIndexed: func(ctx *property.Ctx, index string) (string, error) {
			return formatUintEntry(ctx.Container.NetLimit, index), nil
		},
	})

	reg.Add(&property.Property{
		// net_prio caps at 7, the highest SO_PRIORITY class net_cls's
		// classid encoding can carry (§4.5's net_prio row).
		Name: "net_prio", PersistKey: "net_prio", Indexable: true,
		Description: "NAME: priority (0-7); ...",
		Get: func(ctx *property.Ctx) (string, error) {
			return codec.FormatUintMap(ctx.Container.NetPriority, ioKeys(ctx.Container.NetPriority)), nil
		},
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "net_prio"); err != nil {
				return err
			}
			m, err := codec.ParseUintMap("net_prio", v)
			if err != nil {
				return err
			}
			for k, prio := range m {
				if prio > 7 {
					return engineerr.InvalidValuef("net_prio", k, "priority exceeds maximum of 7")
				}
			}
			ctx.Container.NetPriority = m
			return statemachine.WantControllers(ctx.Container, "net_prio", cgroup.Netcls)
		},
		GetIndexed: func(ctx *property.Ctx, index string) (string, error) {
			return formatUintEntry(ctx.Container.NetPriority, index), nil
		},
		SetIndexed: func(ctx *property.Ctx, index, value string) error {
			if err := guardA(ctx, "net_prio"); err != nil {
				return err
			}
			n, err := codec.ParseUint("net_prio", value)
			if err != nil {
				return err
			}
			if n > 7 {
				return engineerr.InvalidValuef("net_prio", index, "priority exceeds maximum of 7")
			}
			if ctx.Container.NetPriority == nil {
				ctx.Container.NetPriority = map[string]uint64{}
			}
			ctx.Container.NetPriority[index] = n
			return statemachine.WantControllers(ctx.Container, "net_prio", cgroup.Netcls)
		},
	})
}
