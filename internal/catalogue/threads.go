package catalogue

import (
	"strconv"

	"github.com/ChatWorks/porto/internal/cgroup"
	"github.com/ChatWorks/porto/internal/engineerr"
	"github.com/ChatWorks/porto/internal/property"
	"github.com/ChatWorks/porto/internal/statemachine"
)

func registerThreads(reg *property.Registry) {
	reg.Add(&property.Property{
		Name: "thread_limit", PersistKey: "thread_limit",
		Get: func(ctx *property.Ctx) (string, error) {
			return strconv.FormatUint(ctx.Container.ThreadLimit, 10), nil
		},
		Set: func(ctx *property.Ctx, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return engineerr.InvalidValuef("thread_limit", v, "not an unsigned integer")
			}
			ctx.Container.ThreadLimit = n
			return statemachine.WantControllers(ctx.Container, "thread_limit", cgroup.Pids)
		},
	})
}
