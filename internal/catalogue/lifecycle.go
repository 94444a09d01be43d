package catalogue

import (
	"strconv"

	"github.com/ChatWorks/porto/internal/codec"
	"github.com/ChatWorks/porto/internal/container"
	"github.com/ChatWorks/porto/internal/engineerr"
	"github.com/ChatWorks/porto/internal/property"
	"github.com/ChatWorks/porto/internal/statemachine"
)

func registerLifecycle(reg *property.Registry) {
	reg.Add(&property.Property{
		Name: "respawn", PersistKey: "respawn",
		Get: func(ctx *property.Ctx) (string, error) { return codec.FormatBool(ctx.Container.ToRespawn), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "respawn"); err != nil {
				return err
			}
			b, err := codec.ParseBool("respawn", v)
			if err != nil {
				return err
			}
			ctx.Container.ToRespawn = b
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "max_respawns", PersistKey: "max_respawns",
		Get: func(ctx *property.Ctx) (string, error) { return strconv.Itoa(ctx.Container.MaxRespawns), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "max_respawns"); err != nil {
				return err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return engineerr.InvalidValuef("max_respawns", v, "not an integer")
			}
			ctx.Container.MaxRespawns = n
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "aging_time", PersistKey: "aging_time",
		Get: func(ctx *property.Ctx) (string, error) { return codec.FormatDurationSeconds(ctx.Container.AgingTime), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "aging_time"); err != nil {
				return err
			}
			d, err := codec.ParseDurationSeconds("aging_time", v)
			if err != nil {
				return err
			}
			ctx.Container.AgingTime = d
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "weak", PersistKey: "weak",
		Description: "destroyed when the owning client disconnects",
		Get:         func(ctx *property.Ctx) (string, error) { return codec.FormatBool(ctx.Container.IsWeak), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "weak"); err != nil {
				return err
			}
			b, err := codec.ParseBool("weak", v)
			if err != nil {
				return err
			}
			ctx.Container.IsWeak = b
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "enable_porto", PersistKey: "enable_porto",
		Description: "false|read-only|child-only|true",
		Get:         func(ctx *property.Ctx) (string, error) { return ctx.Container.AccessLevel.String(), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "enable_porto"); err != nil {
				return err
			}
			level, ok := container.ParseAccessLevel(v)
			if !ok {
				return engineerrUnknownEnum("enable_porto", v, "false", "read-only", "child-only", "true")
			}
			if !ctx.Restoring {
				if err := statemachine.CheckAccessLevel(ctx.Container, ctx.Principal, level); err != nil {
					return err
				}
			}
			ctx.Container.AccessLevel = level
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "private", PersistKey: "private",
		Description: "free-form client-owned string",
		Get:         func(ctx *property.Ctx) (string, error) { return ctx.Container.Private, nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "private"); err != nil {
				return err
			}
			if ctx.Config != nil && ctx.Config.PrivateMax > 0 && len(v) > ctx.Config.PrivateMax {
				return engineerr.InvalidValuef("private", v, "exceeds configured maximum length %d", ctx.Config.PrivateMax)
			}
			ctx.Container.Private = v
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "oom_is_fatal", PersistKey: "oom_is_fatal",
		Get: func(ctx *property.Ctx) (string, error) { return codec.FormatBool(ctx.Container.OomIsFatal), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardA(ctx, "oom_is_fatal"); err != nil {
				return err
			}
			b, err := codec.ParseBool("oom_is_fatal", v)
			if err != nil {
				return err
			}
			ctx.Container.OomIsFatal = b
			return nil
		},
	})
}
