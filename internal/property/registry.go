package property

import (
	"sort"

	"github.com/ChatWorks/porto/internal/engineerr"
)

// Registry holds every property the engine knows about, in stable
// enumeration order, indexed by name. It is built once at daemon startup
// by internal/catalogue and never mutated afterwards, so lookups need no
// locking of their own.
type Registry struct {
	order []string
	byName map[string]*Property
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]*Property{}}
}

// Add registers p. Panics on duplicate name: that is a programmer error in
// the catalogue, not a runtime condition.
func (r *Registry) Add(p *Property) {
	if _, exists := r.byName[p.Name]; exists {
		panic("property.Registry: duplicate property " + p.Name)
	}
	r.order = append(r.order, p.Name)
	r.byName[p.Name] = p
}

// lookup returns the named property or an InvalidProperty error.
func (r *Registry) lookup(name string) (*Property, error) {
	p, ok := r.byName[name]
	if !ok {
		return nil, engineerr.InvalidPropertyf(name, "unknown property")
	}
	return p, nil
}

// List returns every property name visible to ctx's principal, in
// registry order, per §6's "list_properties() -> [name] (filtering
// unsupported or hidden per client visibility)".
func (r *Registry) List(ctx *Ctx) []string {
	out := make([]string, 0, len(r.order))
	for _, name := range r.order {
		p := r.byName[name]
		if p.Hidden {
			continue
		}
		if !p.isSupported(ctx) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Get implements the core's get(container, name) -> string operation.
func (r *Registry) Get(ctx *Ctx, name string) (string, error) {
	p, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	if !p.isSupported(ctx) {
		return "", engineerr.NotSupportedf(name, "not supported on this host")
	}
	return p.doGet(ctx)
}

// GetIndexed implements get(container, name, index) -> string.
func (r *Registry) GetIndexed(ctx *Ctx, name, index string) (string, error) {
	p, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	if !p.isSupported(ctx) {
		return "", engineerr.NotSupportedf(name, "not supported on this host")
	}
	return p.doGetIndexed(ctx, index)
}

// Set implements set(container, name, value) -> ok | ErrorKind. Validation
// (hence syntactic errors) happens before any caller-visible mutation: each
// property's Set closure is responsible for validating fully before
// writing into the container record, so a failed Set leaves the record
// unchanged (spec.md §5 "atomic update").
func (r *Registry) Set(ctx *Ctx, name, value string) error {
	p, err := r.lookup(name)
	if err != nil {
		return err
	}
	if !p.isSupported(ctx) {
		return engineerr.NotSupportedf(name, "not supported on this host")
	}
	return p.doSet(ctx, value)
}

// SetIndexed implements set(container, name, index, value).
func (r *Registry) SetIndexed(ctx *Ctx, name, index, value string) error {
	p, err := r.lookup(name)
	if err != nil {
		return err
	}
	if !p.isSupported(ctx) {
		return engineerr.NotSupportedf(name, "not supported on this host")
	}
	return p.doSetIndexed(ctx, index, value)
}

// PersistEntry is one (persist_key, value) pair produced by Save.
type PersistEntry struct {
	Key   string
	Value string
}

// Save implements save(container) -> [(persist_key, string)]: every
// persistable property the container has explicitly set, in registry
// order, so Restore can replay them deterministically.
func (r *Registry) Save(ctx *Ctx) ([]PersistEntry, error) {
	var out []PersistEntry
	for _, name := range r.order {
		p := r.byName[name]
		if p.PersistKey == "" {
			continue
		}
		if !ctx.Container.HasProp(name) {
			continue
		}
		v, err := p.doSave(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, PersistEntry{Key: p.PersistKey, Value: v})
	}
	return out, nil
}

// keyIndex is built lazily for Restore to map a persist_key back to its
// property name.
func (r *Registry) keyIndex() map[string]string {
	idx := make(map[string]string, len(r.order))
	for _, name := range r.order {
		p := r.byName[name]
		if p.PersistKey != "" {
			idx[p.PersistKey] = name
		}
	}
	return idx
}

// Restore implements restore(container, entries) -> ok | ...: applies
// entries in registry order (not necessarily the order given), bypassing
// state-machine and permission guards — "the only legitimate bypass"
// (DESIGN NOTES §9).
func (r *Registry) Restore(ctx *Ctx, entries []PersistEntry) error {
	byKey := map[string]string{}
	for _, e := range entries {
		byKey[e.Key] = e.Value
	}
	keyToName := r.keyIndex()

	// Apply in registry order so dependent derived state (e.g. virt_mode
	// before capabilities) recomputes in the right sequence.
	names := make([]string, 0, len(entries))
	for key := range byKey {
		if name, ok := keyToName[key]; ok {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return r.indexOf(names[i]) < r.indexOf(names[j])
	})

	for _, name := range names {
		p := r.byName[name]
		value := byKey[p.PersistKey]
		if err := p.doRestore(ctx, value); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) indexOf(name string) int {
	for i, n := range r.order {
		if n == name {
			return i
		}
	}
	return -1
}
