// Package container defines the per-container entity of spec.md §3: a node
// in the container tree together with every field a property can mutate.
// It holds no behavior of its own beyond tree bookkeeping and locking; the
// property engine (internal/property, internal/catalogue) is what gives
// meaning to each field.
package container

import (
	"sync"
	"time"

	"github.com/ChatWorks/porto/internal/capset"
	"github.com/ChatWorks/porto/internal/cgroup"
	"github.com/ChatWorks/porto/internal/client"
)

// State is a container's position in the lifecycle state machine of §3.
type State int

const (
	Stopped State = iota
	Starting
	Running
	Paused
	Dead
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// VirtMode distinguishes an application container from an os-style init
// hierarchy, per the GLOSSARY.
type VirtMode int

const (
	App VirtMode = iota
	Os
)

func (v VirtMode) String() string {
	if v == Os {
		return "os"
	}
	return "app"
}

// AccessLevel gates how much of a container's control surface a
// non-superuser client of a descendant may reach, per the "enable_porto"
// property.
type AccessLevel int

const (
	AccessNone AccessLevel = iota
	AccessReadOnly
	AccessChildOnly
	AccessNormal
)

func (a AccessLevel) String() string {
	switch a {
	case AccessNone:
		return "false"
	case AccessReadOnly:
		return "read-only"
	case AccessChildOnly:
		return "child-only"
	default:
		return "true"
	}
}

// ParseAccessLevel parses the enable_porto wire grammar.
func ParseAccessLevel(s string) (AccessLevel, bool) {
	switch s {
	case "false":
		return AccessNone, true
	case "read-only":
		return AccessReadOnly, true
	case "child-only":
		return AccessChildOnly, true
	case "true":
		return AccessNormal, true
	default:
		return AccessNone, false
	}
}

// BindMount is one entry of the `bind` tuple-list property.
type BindMount struct {
	Source string
	Dest   string
	RO     bool
}

// Stream describes a redirected std stream: a backing file path, a size
// cap, and (for read) a byte offset into the file.
type Stream struct {
	Path   string
	Limit  uint64
	Offset uint64
}

// CPUPolicy is the cpu_policy enum of §4.5.
type CPUPolicy int

const (
	CPUNormal CPUPolicy = iota
	CPUHigh
	CPURt
	CPUBatch
	CPUIdle
	CPUIso
)

func (p CPUPolicy) String() string {
	switch p {
	case CPUHigh:
		return "high"
	case CPURt:
		return "rt"
	case CPUBatch:
		return "batch"
	case CPUIdle:
		return "idle"
	case CPUIso:
		return "iso"
	default:
		return "normal"
	}
}

// ParseCPUPolicy parses the cpu_policy wire grammar.
func ParseCPUPolicy(s string) (CPUPolicy, bool) {
	switch s {
	case "normal":
		return CPUNormal, true
	case "high":
		return CPUHigh, true
	case "rt":
		return CPURt, true
	case "batch":
		return CPUBatch, true
	case "idle":
		return CPUIdle, true
	case "iso":
		return CPUIso, true
	default:
		return CPUNormal, false
	}
}

// SchedTriple is the derived (policy, priority, nice) scheduling triple
// cpu_policy recomputes, per §4.6.
type SchedTriple struct {
	Policy int
	Prio   int
	Nice   int
}

// IOPolicy is the io_policy enum of §4.5.
type IOPolicy int

const (
	IONormal IOPolicy = iota
	IOBatch
)

func (p IOPolicy) String() string {
	if p == IOBatch {
		return "batch"
	}
	return "normal"
}

// Container is a node in the tree described by spec.md §3. Parent is a
// weak back-reference per DESIGN NOTES §9 (children never keep the parent
// alive through this field alone — the tree's own Children slices are the
// owning references).
type Container struct {
	mu sync.RWMutex

	// Identity & tree
	Id       uint64
	Name     string
	Level    int
	Parent   *Container
	Children []*Container

	State State

	OwnerCred client.Cred
	TaskCred  client.Cred
	VirtMode  VirtMode

	// Filesystem
	Root        string
	RootRo      bool
	Cwd         string
	Umask       uint32
	BindMounts  []BindMount

	// Process
	Command     string
	EnvCfg      []string
	Ulimit      map[string]UlimitSpec
	Isolate     bool
	BindDns     bool
	Hostname    string
	ResolvConf  []string
	Devices     [][]string

	// CPU
	CpuPolicy    CPUPolicy
	CpuLimit     float64
	CpuGuarantee float64
	CpuSet       string
	Sched        SchedTriple

	// Memory
	MemLimit          uint64
	MemGuarantee      uint64
	AnonMemLimit      uint64
	DirtyMemLimit     uint64
	HugetlbLimit      uint64
	RechargeOnPgfault bool

	// I/O
	IoPolicy    IOPolicy
	IoBpsLimit  map[string]uint64
	IoOpsLimit  map[string]uint64

	// Threads
	ThreadLimit uint64

	// Network
	NetPropRaw   string
	IpList       string
	DefaultGw    string
	NetGuarantee map[string]uint64
	NetLimit     map[string]uint64
	NetPriority  map[string]uint64

	// Capabilities
	CapLimit   capset.Set
	CapAmbient capset.Set
	CapAllowed capset.Set

	// Lifecycle policy
	ToRespawn   bool
	MaxRespawns int
	AgingTime   time.Duration
	IsWeak      bool
	OomIsFatal  bool
	AccessLevel AccessLevel
	NsName      string
	Private     string

	// Standard streams
	Stdin       Stream
	Stdout      Stream
	Stderr      Stream
	StdoutLimit uint64

	// Controllers
	Controllers         cgroup.Controller
	RequiredControllers cgroup.Controller

	// Runtime observables
	TaskPid          int
	TaskVPid         int
	WaitTaskPid      int
	SeizeTaskPid     int
	LoopDev          int
	StartTime        time.Time
	DeathTime        time.Time
	RealCreationTime time.Time
	RealStartTime    time.Time
	ExitStatus       int
	OomKilled        bool
	RespawnCount     int
	OomEvents        int
	ClientsCount     int
	ContainerTC      uint32

	// Explicit-set bitmap: which property names the user has touched.
	explicitlySet map[string]bool

	// Porto namespace prefix of the owning/created-by chain, used by
	// absolute_namespace.
	Namespace string
}

// UlimitSpec is one `ulimit` map entry: soft/hard limit for a resource.
type UlimitSpec struct {
	Soft uint64
	Hard uint64
}

// New allocates a Stopped container named name under parent (nil for the
// synthetic root).
func New(id uint64, name string, parent *Container) *Container {
	c := &Container{
		Id:            id,
		Name:          name,
		Parent:        parent,
		State:         Stopped,
		Ulimit:        map[string]UlimitSpec{},
		IoBpsLimit:    map[string]uint64{},
		IoOpsLimit:    map[string]uint64{},
		NetGuarantee:  map[string]uint64{},
		NetLimit:      map[string]uint64{},
		NetPriority:   map[string]uint64{},
		explicitlySet: map[string]bool{},
	}
	if parent != nil {
		c.Level = parent.Level + 1
	}
	return c
}

// Lock/Unlock/RLock/RUnlock expose the per-container lock that serializes
// all mutating operations on this container, per §5's concurrency model.
func (c *Container) Lock()    { c.mu.Lock() }
func (c *Container) Unlock()  { c.mu.Unlock() }
func (c *Container) RLock()   { c.mu.RLock() }
func (c *Container) RUnlock() { c.mu.RUnlock() }

// HasProp reports whether name was ever successfully set by a user (as
// opposed to carrying its default), per invariant §8.3.
func (c *Container) HasProp(name string) bool {
	return c.explicitlySet[name]
}

// MarkSet records that name was explicitly set.
func (c *Container) MarkSet(name string) {
	c.explicitlySet[name] = true
}

// ExplicitlySet returns every property name the user has touched, in
// undefined order; used by Save to filter persistable properties.
func (c *Container) ExplicitlySet() map[string]bool {
	return c.explicitlySet
}

// AddChild appends child to c.Children and sets child.Parent = c.
func (c *Container) AddChild(child *Container) {
	child.Parent = c
	child.Level = c.Level + 1
	c.Children = append(c.Children, child)
}

// RemoveChild removes child from c.Children, if present.
func (c *Container) RemoveChild(child *Container) {
	for i, ch := range c.Children {
		if ch == child {
			c.Children = append(c.Children[:i], c.Children[i+1:]...)
			return
		}
	}
}

// Ancestors returns c's ancestor chain, nearest first, not including c
// itself and not including the synthetic root unless it is itself passed.
func (c *Container) Ancestors() []*Container {
	var out []*Container
	for p := c.Parent; p != nil && p.Parent != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// IsDescendantOf reports whether c is anc or a descendant of anc.
func (c *Container) IsDescendantOf(anc *Container) bool {
	for n := c; n != nil; n = n.Parent {
		if n == anc {
			return true
		}
	}
	return false
}

// AbsoluteName renders the '/'-joined path from the root to c.
func (c *Container) AbsoluteName() string {
	if c.Parent == nil {
		return "/"
	}
	names := []string{c.Name}
	for p := c.Parent; p != nil && p.Parent != nil; p = p.Parent {
		names = append([]string{p.Name}, names...)
	}
	out := ""
	for _, n := range names {
		out += "/" + n
	}
	return out
}

// RunningChildren counts direct children in the Running state.
func (c *Container) RunningChildren() int {
	n := 0
	for _, ch := range c.Children {
		if ch.State == Running {
			n++
		}
	}
	return n
}
