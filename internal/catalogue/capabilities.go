package catalogue

import (
	"github.com/ChatWorks/porto/internal/capset"
	"github.com/ChatWorks/porto/internal/codec"
	"github.com/ChatWorks/porto/internal/container"
	"github.com/ChatWorks/porto/internal/engineerr"
	"github.com/ChatWorks/porto/internal/property"
	"github.com/ChatWorks/porto/internal/statemachine"
)

// capAllowedFor computes §4.2's CapAllowed derivation without mutating the
// container: start from the host-wide reference set selected by
// privilege/virt-mode, then intersect with every ancestor's cap_limit
// unless the principal is host-root owning a host-root-owned container.
func capAllowedFor(ctx *property.Ctx) capset.Set {
	c := ctx.Container
	var base capset.Set
	switch {
	case ctx.Principal != nil && ctx.Principal.Superuser:
		base = capset.All()
	case c.VirtMode == container.Os:
		base = capset.OsMode()
	default:
		base = capset.SuidMode()
	}

	skipBound := ctx.Principal != nil && ctx.Principal.Superuser && c.OwnerCred.Uid == 0
	if !skipBound {
		for _, anc := range c.Ancestors() {
			base = capset.Intersect(base, anc.CapLimit)
		}
	}
	return base
}

// recomputeCapAllowed commits capAllowedFor's result and clamps CapAmbient
// to it (§4.2).
func recomputeCapAllowed(ctx *property.Ctx) {
	c := ctx.Container
	c.CapAllowed = capAllowedFor(ctx)
	c.CapAmbient = capset.Intersect(c.CapAmbient, c.CapAllowed)
}

// recomputeDerivedCredState implements §4.6: "After any property that
// affects credentials or virt-mode mutates, the engine recomputes
// CapAllowed and clamps CapAmbient ∩ CapAllowed; CapLimit is preserved
// unless ambient requires widening."
func recomputeDerivedCredState(ctx *property.Ctx) {
	recomputeCapAllowed(ctx)
}

func registerCapabilities(reg *property.Registry) {
	reg.Add(&property.Property{
		Name: "capabilities", PersistKey: "capabilities",
		Get: func(ctx *property.Ctx) (string, error) { return ctx.Container.CapLimit.Format(), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "capabilities"); err != nil {
				return err
			}
			newLimit, err := capset.Parse("capabilities", v)
			if err != nil {
				return err
			}
			if !ctx.Restoring {
				if err := statemachine.CheckCapabilityBound(ctx.Container, ctx.Principal, newLimit); err != nil {
					return err
				}
			}
			ctx.Container.CapLimit = newLimit
			recomputeDerivedCredState(ctx)
			return nil
		},
		GetIndexed: func(ctx *property.Ctx, index string) (string, error) {
			has, err := ctx.Container.CapLimit.Has("capabilities", index)
			if err != nil {
				return "", err
			}
			return codec.FormatBool(has), nil
		},
		SetIndexed: func(ctx *property.Ctx, index, value string) error {
			if err := guardAS(ctx, "capabilities"); err != nil {
				return err
			}
			val, err := codec.ParseBool("capabilities", value)
			if err != nil {
				return err
			}
			newLimit, err := ctx.Container.CapLimit.WithBit("capabilities", index, val)
			if err != nil {
				return err
			}
			if !ctx.Restoring {
				if err := statemachine.CheckCapabilityBound(ctx.Container, ctx.Principal, newLimit); err != nil {
					return err
				}
			}
			ctx.Container.CapLimit = newLimit
			recomputeDerivedCredState(ctx)
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "capabilities_ambient", PersistKey: "capabilities_ambient",
		Supported: func(ctx *property.Ctx) bool {
			return ctx.Config == nil || ctx.Config.HasAmbientCapabilities
		},
		Get: func(ctx *property.Ctx) (string, error) { return ctx.Container.CapAmbient.Format(), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "capabilities_ambient"); err != nil {
				return err
			}
			ambient, err := capset.Parse("capabilities_ambient", v)
			if err != nil {
				return err
			}
			c := ctx.Container
			// Setting ambient may widen CapLimit transitively (invariant §3.4).
			// Validate everything against locals first, then commit the three
			// fields together, so a rejected set leaves the container record
			// unchanged (§5 "atomic update").
			widened := capset.Union(c.CapLimit, ambient)
			if !ctx.Restoring {
				if err := statemachine.CheckCapabilityBound(c, ctx.Principal, widened); err != nil {
					return err
				}
			}
			allowed := capAllowedFor(ctx)
			if !capset.SubsetOf(ambient, allowed) {
				return engineerr.InvalidValuef("capabilities_ambient", ambient.Format(), "exceeds allowed capability set")
			}
			c.CapLimit = widened
			c.CapAllowed = allowed
			c.CapAmbient = ambient
			return nil
		},
		GetIndexed: func(ctx *property.Ctx, index string) (string, error) {
			has, err := ctx.Container.CapAmbient.Has("capabilities_ambient", index)
			if err != nil {
				return "", err
			}
			return codec.FormatBool(has), nil
		},
	})
}
