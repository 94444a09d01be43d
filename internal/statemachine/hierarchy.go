package statemachine

import (
	"github.com/ChatWorks/porto/internal/capset"
	"github.com/ChatWorks/porto/internal/client"
	"github.com/ChatWorks/porto/internal/container"
	"github.com/ChatWorks/porto/internal/engineerr"
)

// CheckCPULimit enforces invariant §3.7: a child's cpu_limit may not exceed
// its parent's, unless the requesting principal is host-root.
func CheckCPULimit(c *container.Container, p *client.Principal, newLimit float64) error {
	if p.Superuser {
		return nil
	}
	if c.Parent == nil || c.Parent.CpuLimit == 0 {
		return nil
	}
	if newLimit > c.Parent.CpuLimit {
		return engineerr.InvalidValuef("cpu_limit", "", "exceeds parent limit %.3g", c.Parent.CpuLimit)
	}
	return nil
}

// CheckMemoryGuarantee enforces invariant §3.6: the sum of mem_guarantee
// over the whole tree plus the configured reserve must not exceed total
// host memory. staged is the candidate new value for c (the "NewMemGuarantee"
// staging slot of DESIGN NOTES §9, modeled here as a local parameter rather
// than a persistent field). Callers must hold f.TreeLock for a consistent
// sum.
func CheckMemoryGuarantee(f *container.Forest, c *container.Container, staged, total, reserve uint64) error {
	var sum uint64
	f.Walk(func(n *container.Container) {
		if n == c {
			sum += staged
		} else {
			sum += n.MemGuarantee
		}
	})
	if total != 0 && sum+reserve > total {
		return engineerr.ResourceNotAvailablef("memory_guarantee", "tree sum %d + reserve %d exceeds total %d", sum, reserve, total)
	}
	return nil
}

// CheckCapabilityBound enforces invariant §3.3: a child's cap_limit must be
// a subset of every ancestor's cap_limit, unless the principal is
// host-root AND the container's owner is host-root.
func CheckCapabilityBound(c *container.Container, p *client.Principal, newLimit capset.Set) error {
	if p.Superuser && c.OwnerCred.Uid == 0 {
		return nil
	}
	for _, anc := range c.Ancestors() {
		if !capset.SubsetOf(newLimit, anc.CapLimit) {
			return engineerr.Permissionf("capabilities", "exceeds ancestor %s capability bound", anc.Name)
		}
	}
	return nil
}

// CheckAccessLevel enforces invariant §3.12: a child's enable_porto level
// may not exceed any ancestor's, unless the principal is host-root.
func CheckAccessLevel(c *container.Container, p *client.Principal, newLevel container.AccessLevel) error {
	if p.Superuser {
		return nil
	}
	for _, anc := range c.Ancestors() {
		if newLevel > anc.AccessLevel {
			return engineerr.Permissionf("enable_porto", "exceeds ancestor %s access level", anc.Name)
		}
	}
	return nil
}
