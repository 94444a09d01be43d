package catalogue

import (
	"strconv"
	"time"

	"github.com/ChatWorks/porto/internal/engineerr"
	"github.com/ChatWorks/porto/internal/property"
)

// registerHiddenRaw wires the persisted backing fields behind the
// read-only derived group: these never appear in list_properties (Hidden:
// true) but Save/Restore uses them to recover runtime-observable state
// (pids, loop device, timestamps) across a daemon restart, the way the
// teacher's state.go persists raw init-process bookkeeping alongside the
// user-visible config.
func registerHiddenRaw(reg *property.Registry) {
	reg.Add(&property.Property{
		Name: "raw_root_pid", PersistKey: "raw_root_pid", Hidden: true,
		Get: func(ctx *property.Ctx) (string, error) { return strconv.Itoa(ctx.Container.TaskPid), nil },
		Set: func(ctx *property.Ctx, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return engineerr.InvalidValuef("raw_root_pid", v, "not an integer")
			}
			ctx.Container.TaskPid = n
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "seize_pid", PersistKey: "seize_pid", Hidden: true,
		Get: func(ctx *property.Ctx) (string, error) { return strconv.Itoa(ctx.Container.SeizeTaskPid), nil },
		Set: func(ctx *property.Ctx, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return engineerr.InvalidValuef("seize_pid", v, "not an integer")
			}
			ctx.Container.SeizeTaskPid = n
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "raw_loop_dev", PersistKey: "raw_loop_dev", Hidden: true,
		Get: func(ctx *property.Ctx) (string, error) { return strconv.Itoa(ctx.Container.LoopDev), nil },
		Set: func(ctx *property.Ctx, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return engineerr.InvalidValuef("raw_loop_dev", v, "not an integer")
			}
			ctx.Container.LoopDev = n
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "raw_start_time", PersistKey: "raw_start_time", Hidden: true,
		Get: func(ctx *property.Ctx) (string, error) {
			return strconv.FormatInt(ctx.Container.RealStartTime.Unix(), 10), nil
		},
		Set: func(ctx *property.Ctx, v string) error {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return engineerr.InvalidValuef("raw_start_time", v, "not a unix timestamp")
			}
			ctx.Container.RealStartTime = time.Unix(n, 0).UTC()
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "raw_death_time", PersistKey: "raw_death_time", Hidden: true,
		Get: func(ctx *property.Ctx) (string, error) {
			return strconv.FormatInt(ctx.Container.DeathTime.Unix(), 10), nil
		},
		Set: func(ctx *property.Ctx, v string) error {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return engineerr.InvalidValuef("raw_death_time", v, "not a unix timestamp")
			}
			ctx.Container.DeathTime = time.Unix(n, 0).UTC()
			return nil
		},
	})
}
