package netcollab

import (
	"fmt"
	"sync"

	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"

	"github.com/ChatWorks/porto/internal/engineerr"
)

// Device is one host network device as enumerated by spec.md §6's
// "Network: Devices list (name, managed)" collaborator contract.
type Device struct {
	Name    string
	Managed bool
}

// Manager is the concrete Network collaborator: it enumerates host devices
// via netlink and creates the links a Mode plan calls for. Grounded on the
// teacher's network/strategy.go Strategy registry, generalized from two
// hardcoded strategies (veth, loopback) to the full grammar of §4.5, and
// backed by a real netlink library instead of teacher's own netlink
// package (which only targeted pre-rtnetlink Go bindings).
type Manager struct {
	mu      sync.RWMutex
	managed map[string]bool
}

// NewManager returns a Manager with no devices marked managed yet.
func NewManager() *Manager {
	return &Manager{managed: map[string]bool{}}
}

// Devices lists every host network device netlink can see, annotated with
// whether this daemon created it.
func (m *Manager) Devices() ([]Device, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Device, 0, len(links))
	for _, l := range links {
		name := l.Attrs().Name
		out = append(out, Device{Name: name, Managed: m.managed[name]})
	}
	return out, nil
}

// ScopedLock matches the collaborator contract's "ScopedLock" accessor:
// callers take it before reading device tables so a concurrent Create
// can't race a stat read (§5 "Network device tables ... property reads
// snapshot under that collaborator's lock").
func (m *Manager) ScopedLock() func() {
	m.mu.RLock()
	return m.mu.RUnlock
}

// CreateVeth creates a veth pair named name<->peer and attaches peer to
// bridge, the `veth NAME BRIDGE` mode.
func (m *Manager) CreateVeth(mode Mode) error {
	if mode.Master == "" {
		return engineerr.InvalidValuef("net", mode.Name, "veth requires a bridge")
	}
	peerName := mode.Name + "0"
	veth := &netlink.Veth{
		LinkAttrs: netlink.LinkAttrs{Name: mode.Name, MTU: mtuOr(mode.MTU, 1500)},
		PeerName:  peerName,
	}
	if err := netlink.LinkAdd(veth); err != nil {
		return fmt.Errorf("create veth %s: %w", mode.Name, err)
	}
	m.mark(mode.Name)

	bridge, err := netlink.LinkByName(mode.Master)
	if err != nil {
		return fmt.Errorf("lookup bridge %s: %w", mode.Master, err)
	}
	peer, err := netlink.LinkByName(peerName)
	if err != nil {
		return fmt.Errorf("lookup veth peer %s: %w", peerName, err)
	}
	if err := netlink.LinkSetMaster(peer, bridge); err != nil {
		return fmt.Errorf("attach %s to bridge %s: %w", peerName, mode.Master, err)
	}
	return nil
}

// CreateMacvlan creates a macvlan device over mode.Master.
func (m *Manager) CreateMacvlan(mode Mode) error {
	master, err := netlink.LinkByName(mode.Master)
	if err != nil {
		return fmt.Errorf("lookup macvlan master %s: %w", mode.Master, err)
	}
	macMode := netlink.MACVLAN_MODE_BRIDGE
	switch mode.SubMode {
	case "private":
		macMode = netlink.MACVLAN_MODE_PRIVATE
	case "vepa":
		macMode = netlink.MACVLAN_MODE_VEPA
	case "passthru":
		macMode = netlink.MACVLAN_MODE_PASSTHRU
	}
	link := &netlink.Macvlan{
		LinkAttrs: netlink.LinkAttrs{
			Name:        mode.Name,
			ParentIndex: master.Attrs().Index,
			MTU:         mtuOr(mode.MTU, 1500),
		},
		Mode: macMode,
	}
	if err := netlink.LinkAdd(link); err != nil {
		return fmt.Errorf("create macvlan %s: %w", mode.Name, err)
	}
	m.mark(mode.Name)
	return nil
}

// CreateIPVlan creates an ipvlan device over mode.Master.
func (m *Manager) CreateIPVlan(mode Mode) error {
	master, err := netlink.LinkByName(mode.Master)
	if err != nil {
		return fmt.Errorf("lookup ipvlan master %s: %w", mode.Master, err)
	}
	ipMode := netlink.IPVLAN_MODE_L2
	if mode.SubMode == "l3" {
		ipMode = netlink.IPVLAN_MODE_L3
	}
	link := &netlink.IPVlan{
		LinkAttrs: netlink.LinkAttrs{
			Name:        mode.Name,
			ParentIndex: master.Attrs().Index,
			MTU:         mtuOr(mode.MTU, 1500),
		},
		Mode: ipMode,
	}
	if err := netlink.LinkAdd(link); err != nil {
		return fmt.Errorf("create ipvlan %s: %w", mode.Name, err)
	}
	m.mark(mode.Name)
	return nil
}

// JoinNetns moves the calling goroutine's thread into the named network
// namespace for the `netns NAME` mode, the way the teacher's
// network.SetNs does via raw setns(2) — here via the modern
// vishvananda/netns wrapper.
func JoinNetns(path string) (func() error, error) {
	ns, err := netns.GetFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("open netns %s: %w", path, err)
	}
	defer ns.Close()
	orig, err := netns.Get()
	if err != nil {
		return nil, err
	}
	if err := netns.Set(ns); err != nil {
		orig.Close()
		return nil, fmt.Errorf("setns %s: %w", path, err)
	}
	return func() error {
		defer orig.Close()
		return netns.Set(orig)
	}, nil
}

func (m *Manager) mark(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.managed[name] = true
}

func mtuOr(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
