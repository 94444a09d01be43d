package catalogue

import (
	"github.com/ChatWorks/porto/internal/cgroup"
	"github.com/ChatWorks/porto/internal/codec"
	"github.com/ChatWorks/porto/internal/property"
	"github.com/ChatWorks/porto/internal/statemachine"
)

func registerMemory(reg *property.Registry) {
	reg.Add(&property.Property{
		Name: "memory_limit", PersistKey: "memory_limit",
		Get: func(ctx *property.Ctx) (string, error) { return codec.FormatSize(ctx.Container.MemLimit), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "memory_limit"); err != nil {
				return err
			}
			n, err := codec.ParseSize("memory_limit", v)
			if err != nil {
				return err
			}
			if n != 0 && ctx.Config != nil && n < ctx.Config.MinMemoryLimit {
				return engineerrTooSmall("memory_limit", v, ctx.Config.MinMemoryLimit)
			}
			ctx.Container.MemLimit = n
			return statemachine.WantControllers(ctx.Container, "memory_limit", cgroup.Memory)
		},
	})

	reg.Add(&property.Property{
		// memory_guarantee is staged before the tree-sum check runs, so a
		// rejected set leaves Container.MemGuarantee untouched (§5 "atomic
		// update"): the candidate value only lands in the field once
		// CheckMemoryGuarantee has walked the whole forest and approved it.
		Name: "memory_guarantee", PersistKey: "memory_guarantee",
		Get: func(ctx *property.Ctx) (string, error) { return codec.FormatSize(ctx.Container.MemGuarantee), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "memory_guarantee"); err != nil {
				return err
			}
			n, err := codec.ParseSize("memory_guarantee", v)
			if err != nil {
				return err
			}
			if !ctx.Restoring && ctx.Forest != nil {
				ctx.Forest.TreeLock.RLock()
				var total, reserve uint64
				if ctx.Config != nil {
					total = ctx.Config.TotalMemory
					reserve = ctx.Config.MemoryGuaranteeReserve
				}
				err := statemachine.CheckMemoryGuarantee(ctx.Forest, ctx.Container, n, total, reserve)
				ctx.Forest.TreeLock.RUnlock()
				if err != nil {
					return err
				}
			}
			ctx.Container.MemGuarantee = n
			return statemachine.WantControllers(ctx.Container, "memory_guarantee", cgroup.Memory)
		},
	})

	reg.Add(&property.Property{
		Name: "anon_limit", PersistKey: "anon_limit",
		Get: func(ctx *property.Ctx) (string, error) { return codec.FormatSize(ctx.Container.AnonMemLimit), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "anon_limit"); err != nil {
				return err
			}
			n, err := codec.ParseSize("anon_limit", v)
			if err != nil {
				return err
			}
			ctx.Container.AnonMemLimit = n
			return statemachine.WantControllers(ctx.Container, "anon_limit", cgroup.Memory)
		},
	})

	reg.Add(&property.Property{
		Name: "dirty_limit", PersistKey: "dirty_limit",
		Get: func(ctx *property.Ctx) (string, error) { return codec.FormatSize(ctx.Container.DirtyMemLimit), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "dirty_limit"); err != nil {
				return err
			}
			n, err := codec.ParseSize("dirty_limit", v)
			if err != nil {
				return err
			}
			ctx.Container.DirtyMemLimit = n
			return statemachine.WantControllers(ctx.Container, "dirty_limit", cgroup.Memory)
		},
	})

	reg.Add(&property.Property{
		Name: "hugetlb_limit", PersistKey: "hugetlb_limit",
		Get: func(ctx *property.Ctx) (string, error) { return codec.FormatSize(ctx.Container.HugetlbLimit), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "hugetlb_limit"); err != nil {
				return err
			}
			n, err := codec.ParseSize("hugetlb_limit", v)
			if err != nil {
				return err
			}
			ctx.Container.HugetlbLimit = n
			return statemachine.WantControllers(ctx.Container, "hugetlb_limit", cgroup.Hugetlb)
		},
	})

	reg.Add(&property.Property{
		Name: "recharge_on_pgfault", PersistKey: "recharge_on_pgfault",
		Get: func(ctx *property.Ctx) (string, error) { return codec.FormatBool(ctx.Container.RechargeOnPgfault), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "recharge_on_pgfault"); err != nil {
				return err
			}
			b, err := codec.ParseBool("recharge_on_pgfault", v)
			if err != nil {
				return err
			}
			ctx.Container.RechargeOnPgfault = b
			return nil
		},
	})
}
