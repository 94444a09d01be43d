package container

import (
	"sync"
	"time"
)

// Forest owns the whole container tree rooted at a synthetic Root that
// always exists (per §3's "Root is synthetic and always exists"). Its
// TreeLock backs the tree-wide read lock spec.md §5 calls for when a
// mutation (e.g. a memory-guarantee sum check) must see every container
// consistently.
type Forest struct {
	TreeLock sync.RWMutex

	Root *Container

	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]*Container
	byName map[string]*Container
}

// NewForest creates an empty forest with its synthetic root.
func NewForest() *Forest {
	root := &Container{
		Name:          "/",
		State:         Running,
		Ulimit:        map[string]UlimitSpec{},
		IoBpsLimit:    map[string]uint64{},
		IoOpsLimit:    map[string]uint64{},
		NetGuarantee:  map[string]uint64{},
		NetLimit:      map[string]uint64{},
		NetPriority:   map[string]uint64{},
		explicitlySet: map[string]bool{},
	}
	root.RealCreationTime = time.Now()
	f := &Forest{
		Root:   root,
		byID:   map[uint64]*Container{0: root},
		byName: map[string]*Container{"/": root},
	}
	return f
}

// Create allocates a new Stopped container named name under parent and
// registers it in the forest's lookup tables.
func (f *Forest) Create(name string, parent *Container) *Container {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := New(f.nextID, name, parent)
	if parent != nil {
		parent.AddChild(c)
	}
	f.byID[c.Id] = c
	f.byName[name] = c
	return c
}

// Lookup finds a container by name.
func (f *Forest) Lookup(name string) (*Container, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byName[name]
	return c, ok
}

// Forget removes a destroyed container from the lookup tables (but not
// from its parent's Children slice — callers detach that separately so a
// concurrent reader mid-walk doesn't see a torn tree).
func (f *Forest) Forget(c *Container) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, c.Id)
	delete(f.byName, c.Name)
}

// Walk calls fn for every container in the forest, root first, in a
// depth-first pre-order. Callers must hold TreeLock (read or write) for the
// duration if they need a consistent snapshot.
func (f *Forest) Walk(fn func(*Container)) {
	var walk func(*Container)
	walk = func(c *Container) {
		fn(c)
		for _, ch := range c.Children {
			walk(ch)
		}
	}
	walk(f.Root)
}
