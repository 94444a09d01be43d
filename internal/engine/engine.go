// Package engine is the thin facade spec.md §6 describes as the daemon's
// public surface (list_properties/get/set/save/restore), wiring a
// property.Registry to a container.Forest and the ambient collaborators
// (config, cgroups, network, stats) so callers never touch internal/property
// or internal/container directly. Grounded on the teacher's libcontainer_api
// package, which plays the same "one small facade in front of the real
// internals" role for the teacher's own Factory/Container types.
package engine

import (
	"strings"

	"github.com/ChatWorks/porto/internal/capset"
	"github.com/ChatWorks/porto/internal/cgroup"
	"github.com/ChatWorks/porto/internal/client"
	"github.com/ChatWorks/porto/internal/config"
	"github.com/ChatWorks/porto/internal/container"
	"github.com/ChatWorks/porto/internal/engineerr"
	"github.com/ChatWorks/porto/internal/netcollab"
	"github.com/ChatWorks/porto/internal/property"
	"github.com/ChatWorks/porto/internal/stats"
)

// Engine owns every collaborator the property catalogue's Ctx needs and
// exposes the operations of spec.md §6 over container names instead of
// *container.Container values, so callers never see the tree directly.
type Engine struct {
	Registry *property.Registry
	Forest   *container.Forest
	Config   *config.Config
	Cgroups  map[cgroup.Controller]cgroup.Subsystem
	Net      *netcollab.Manager
	Stats    *stats.Daemon

	// Default is the principal applied when a caller supplies none (the
	// rpcstub harness's only mode, since real client authentication is an
	// out-of-scope collaborator per spec.md §1).
	Default *client.Principal
}

// New assembles an Engine from its collaborators.
func New(reg *property.Registry, forest *container.Forest, cfg *config.Config, cg map[cgroup.Controller]cgroup.Subsystem, net *netcollab.Manager, st *stats.Daemon) *Engine {
	return &Engine{
		Registry: reg,
		Forest:   forest,
		Config:   cfg,
		Cgroups:  cg,
		Net:      net,
		Stats:    st,
		Default:  &client.Principal{Superuser: true},
	}
}

func (e *Engine) ctx(c *container.Container) *property.Ctx {
	return &property.Ctx{
		Container: c,
		Principal: e.Default,
		Forest:    e.Forest,
		Config:    e.Config,
		Cgroups:   e.Cgroups,
		Net:       e.Net,
		Stats:     e.Stats,
	}
}

func (e *Engine) lookup(name string) (*container.Container, error) {
	if name == "" || name == "/" {
		return e.Forest.Root, nil
	}
	c, ok := e.Forest.Lookup(name)
	if !ok {
		return nil, engineerr.InvalidPropertyf(name, "no such container")
	}
	return c, nil
}

// Create implements spec.md §6's create(name) -> ok | ...: parent is
// derived from the last '/' in name, the way the source resolves nested
// container names against an already-existing parent path.
func (e *Engine) Create(name string) error {
	if _, exists := e.Forest.Lookup(name); exists {
		return engineerr.InvalidStatef(name, "container already exists")
	}
	parent := e.Forest.Root
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		parentName := name[:idx]
		p, err := e.lookup(parentName)
		if err != nil {
			return err
		}
		parent = p
	}
	c := e.Forest.Create(name, parent)
	c.Lock()
	defer c.Unlock()
	ctx := e.ctx(c)
	// Every container starts with its derived CapAllowed set populated so
	// it already reflects the VirtMode/credential defaults of §4.2 before
	// any set() call.
	recomputeOnCreate(ctx)
	return nil
}

// ListProperties implements list_properties(container) -> [name].
func (e *Engine) ListProperties(name string) ([]string, error) {
	c, err := e.lookup(name)
	if err != nil {
		return nil, err
	}
	c.RLock()
	defer c.RUnlock()
	return e.Registry.List(e.ctx(c)), nil
}

// Get implements get(container, name) -> string.
func (e *Engine) Get(container_, prop string) (string, error) {
	c, err := e.lookup(container_)
	if err != nil {
		return "", err
	}
	c.RLock()
	defer c.RUnlock()
	return e.Registry.Get(e.ctx(c), prop)
}

// GetIndexed implements get(container, name, index) -> string.
func (e *Engine) GetIndexed(container_, prop, index string) (string, error) {
	c, err := e.lookup(container_)
	if err != nil {
		return "", err
	}
	c.RLock()
	defer c.RUnlock()
	return e.Registry.GetIndexed(e.ctx(c), prop, index)
}

// Set implements set(container, name, value) -> ok | ErrorKind.
func (e *Engine) Set(container_, prop, value string) error {
	c, err := e.lookup(container_)
	if err != nil {
		return err
	}
	c.Lock()
	defer c.Unlock()
	return e.Registry.Set(e.ctx(c), prop, value)
}

// SetIndexed implements set(container, name, index, value).
func (e *Engine) SetIndexed(container_, prop, index, value string) error {
	c, err := e.lookup(container_)
	if err != nil {
		return err
	}
	c.Lock()
	defer c.Unlock()
	return e.Registry.SetIndexed(e.ctx(c), prop, index, value)
}

// Save implements save(container) -> [(persist_key, string)].
func (e *Engine) Save(container_ string) ([]property.PersistEntry, error) {
	c, err := e.lookup(container_)
	if err != nil {
		return nil, err
	}
	c.RLock()
	defer c.RUnlock()
	return e.Registry.Save(e.ctx(c))
}

// Restore implements restore(container, entries) -> ok | ....
func (e *Engine) Restore(container_ string, entries []property.PersistEntry) error {
	c, err := e.lookup(container_)
	if err != nil {
		return err
	}
	c.Lock()
	defer c.Unlock()
	return e.Registry.Restore(e.ctx(c), entries)
}

// recomputeOnCreate seeds a freshly created container's derived capability
// state without going through a guarded property Set (there is no user
// value to validate yet — this mirrors Restore's Ctx{Restoring:true}
// bypass). A fresh App-mode container starts with the suid default set and
// no ancestor bound narrower than that yet.
func recomputeOnCreate(ctx *property.Ctx) {
	base := capset.SuidMode()
	if ctx.Container.VirtMode == container.Os {
		base = capset.OsMode()
	}
	for _, anc := range ctx.Container.Ancestors() {
		base = capset.Intersect(base, anc.CapLimit)
	}
	ctx.Container.CapAllowed = base
}
