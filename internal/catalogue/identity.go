package catalogue

import (
	"strings"

	"github.com/ChatWorks/porto/internal/cgroup"
	"github.com/ChatWorks/porto/internal/codec"
	"github.com/ChatWorks/porto/internal/container"
	"github.com/ChatWorks/porto/internal/engineerr"
	"github.com/ChatWorks/porto/internal/property"
	"github.com/ChatWorks/porto/internal/statemachine"
)

func registerIdentityAndFilesystem(reg *property.Registry) {
	reg.Add(&property.Property{
		Name: "cwd", PersistKey: "cwd", Description: "working directory inside the container",
		Get: func(ctx *property.Ctx) (string, error) { return ctx.Container.Cwd, nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "cwd"); err != nil {
				return err
			}
			ctx.Container.Cwd = v
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "root", PersistKey: "root", Description: "chroot target",
		Get: func(ctx *property.Ctx) (string, error) { return ctx.Container.Root, nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "root"); err != nil {
				return err
			}
			ctx.Container.Root = v
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "root_readonly", PersistKey: "root_readonly",
		Get: func(ctx *property.Ctx) (string, error) { return codec.FormatBool(ctx.Container.RootRo), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "root_readonly"); err != nil {
				return err
			}
			b, err := codec.ParseBool("root_readonly", v)
			if err != nil {
				return err
			}
			ctx.Container.RootRo = b
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "umask", PersistKey: "umask",
		Get: func(ctx *property.Ctx) (string, error) { return codec.FormatOctal(ctx.Container.Umask), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "umask"); err != nil {
				return err
			}
			o, err := codec.ParseOctal("umask", v)
			if err != nil {
				return err
			}
			ctx.Container.Umask = o
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "bind", PersistKey: "bind", Description: "host dest [ro|rw]",
		Get: func(ctx *property.Ctx) (string, error) { return formatBindMounts(ctx.Container.BindMounts), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "bind"); err != nil {
				return err
			}
			mounts, err := parseBindMounts("bind", v)
			if err != nil {
				return err
			}
			ctx.Container.BindMounts = mounts
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "bind_dns", PersistKey: "bind_dns",
		Get: func(ctx *property.Ctx) (string, error) { return codec.FormatBool(ctx.Container.BindDns), nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "bind_dns"); err != nil {
				return err
			}
			b, err := codec.ParseBool("bind_dns", v)
			if err != nil {
				return err
			}
			ctx.Container.BindDns = b
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "hostname", PersistKey: "hostname",
		Get: func(ctx *property.Ctx) (string, error) { return ctx.Container.Hostname, nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "hostname"); err != nil {
				return err
			}
			ctx.Container.Hostname = v
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "resolv_conf", PersistKey: "resolv_conf",
		Get: func(ctx *property.Ctx) (string, error) {
			return strings.Join(ctx.Container.ResolvConf, ";"), nil
		},
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "resolv_conf"); err != nil {
				return err
			}
			ctx.Container.ResolvConf = codec.SplitSimpleList(v)
			return nil
		},
	})

	reg.Add(&property.Property{
		Name: "devices", PersistKey: "devices",
		Get: func(ctx *property.Ctx) (string, error) {
			return codec.MergeTuple(ctx.Container.Devices, ' ', ';'), nil
		},
		Set: func(ctx *property.Ctx, v string) error {
			ctx.Container.Devices = codec.SplitTuple(v, ' ', ';')
			return statemachine.WantControllers(ctx.Container, "devices", cgroup.Devices)
		},
	})

	reg.Add(&property.Property{
		Name: "porto_namespace", PersistKey: "porto_namespace",
		Get: func(ctx *property.Ctx) (string, error) { return ctx.Container.NsName, nil },
		Set: func(ctx *property.Ctx, v string) error {
			if err := guardAS(ctx, "porto_namespace"); err != nil {
				return err
			}
			ctx.Container.NsName = v
			return nil
		},
	})
}

func guardAS(ctx *property.Ctx, prop string) error {
	if ctx.Restoring {
		return nil
	}
	return statemachine.Check(statemachine.AliveAndStopped, ctx.Container, prop)
}

func guardA(ctx *property.Ctx, prop string) error {
	if ctx.Restoring {
		return nil
	}
	return statemachine.Check(statemachine.Alive, ctx.Container, prop)
}

func formatBindMounts(mounts []container.BindMount) string {
	var tuples [][]string
	for _, m := range mounts {
		mode := "rw"
		if m.RO {
			mode = "ro"
		}
		tuples = append(tuples, []string{m.Source, m.Dest, mode})
	}
	return codec.MergeTuple(tuples, ' ', ';')
}

func parseBindMounts(prop, raw string) ([]container.BindMount, error) {
	tuples := codec.SplitTuple(raw, ' ', ';')
	out := make([]container.BindMount, 0, len(tuples))
	for _, t := range tuples {
		if len(t) < 2 {
			return nil, engineerr.InvalidValuef(prop, strings.Join(t, " "), "expected 'host dest [ro|rw]'")
		}
		ro := false
		if len(t) >= 3 {
			switch t[2] {
			case "ro":
				ro = true
			case "rw":
				ro = false
			default:
				return nil, engineerr.InvalidValuef(prop, t[2], "expected ro or rw")
			}
		}
		out = append(out, container.BindMount{Source: t[0], Dest: t[1], RO: ro})
	}
	return out, nil
}
