// Package property implements C3 of spec.md §4.3: a registry of named,
// typed property slots with uniform Get/Set/GetIndexed/SetIndexed/Save/
// Restore operations. Each Property is a small record of closures over a
// container field — "implement as a tagged record with function pointers"
// per DESIGN NOTES §9 — rather than a class hierarchy.
package property

import (
	"github.com/ChatWorks/porto/internal/cgroup"
	"github.com/ChatWorks/porto/internal/client"
	"github.com/ChatWorks/porto/internal/config"
	"github.com/ChatWorks/porto/internal/container"
	"github.com/ChatWorks/porto/internal/engineerr"
	"github.com/ChatWorks/porto/internal/netcollab"
	"github.com/ChatWorks/porto/internal/stats"
)

// Ctx threads the ambient request-scoped values of §5 ("current container",
// "current client") explicitly through every property operation, instead
// of the source's per-thread globals (DESIGN NOTES §9).
type Ctx struct {
	Container *container.Container
	Principal *client.Principal
	Forest    *container.Forest
	Config    *config.Config
	Cgroups   map[cgroup.Controller]cgroup.Subsystem
	Net       *netcollab.Manager
	Stats     *stats.Daemon

	// Restoring is true only while the engine replays persisted values on
	// daemon restart; it is the single legitimate bypass of state-machine
	// and permission guards (DESIGN NOTES §9).
	Restoring bool
}

// Property is one named, typed, uniformly-dispatched container attribute.
type Property struct {
	Name        string
	PersistKey  string // "" means "not persisted"
	Description string
	ReadOnly    bool
	Hidden      bool
	Indexable   bool

	// Supported reports whether this property is usable on the running
	// host (the "supported_on_host" flag of §4.3); nil means always
	// supported.
	Supported func(*Ctx) bool

	Get        func(*Ctx) (string, error)
	Set        func(*Ctx, string) error
	GetIndexed func(*Ctx, string) (string, error)
	SetIndexed func(*Ctx, string, string) error

	// Save/Restore default to Get/Set (Restore bypassing guards) when nil;
	// override only when persistence needs a different shape than the
	// live value.
	Save    func(*Ctx) (string, error)
	Restore func(*Ctx, string) error
}

func (p *Property) isSupported(ctx *Ctx) bool {
	if p.Supported == nil {
		return true
	}
	return p.Supported(ctx)
}

func (p *Property) doGet(ctx *Ctx) (string, error) {
	if p.Get == nil {
		return "", engineerr.InvalidPropertyf(p.Name, "not readable")
	}
	return p.Get(ctx)
}

func (p *Property) doSet(ctx *Ctx, value string) error {
	if p.ReadOnly {
		return engineerr.InvalidValuef(p.Name, value, "read-only")
	}
	if p.Set == nil {
		return engineerr.InvalidValuef(p.Name, value, "read-only")
	}
	if err := p.Set(ctx, value); err != nil {
		return err
	}
	ctx.Container.MarkSet(p.Name)
	return nil
}

func (p *Property) doGetIndexed(ctx *Ctx, index string) (string, error) {
	if p.GetIndexed == nil {
		return "", engineerr.InvalidValuef(p.Name, index, "invalid subscript")
	}
	return p.GetIndexed(ctx, index)
}

func (p *Property) doSetIndexed(ctx *Ctx, index, value string) error {
	if p.ReadOnly || p.SetIndexed == nil {
		return engineerr.InvalidValuef(p.Name, index, "invalid subscript")
	}
	if err := p.SetIndexed(ctx, index, value); err != nil {
		return err
	}
	ctx.Container.MarkSet(p.Name)
	return nil
}

func (p *Property) doSave(ctx *Ctx) (string, error) {
	if p.PersistKey == "" {
		return "", engineerr.Unknownf(p.Name, nil, "property is not persistable")
	}
	if p.Save != nil {
		return p.Save(ctx)
	}
	return p.doGet(ctx)
}

func (p *Property) doRestore(ctx *Ctx, value string) error {
	restoring := &Ctx{
		Container: ctx.Container,
		Principal: ctx.Principal,
		Forest:    ctx.Forest,
		Config:    ctx.Config,
		Cgroups:   ctx.Cgroups,
		Net:       ctx.Net,
		Stats:     ctx.Stats,
		Restoring: true,
	}
	if p.Restore != nil {
		return p.Restore(restoring, value)
	}
	if p.Set == nil {
		return nil
	}
	if err := p.Set(restoring, value); err != nil {
		return err
	}
	restoring.Container.MarkSet(p.Name)
	return nil
}
