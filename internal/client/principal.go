// Package client models the collaborators described in spec.md §6 under
// "Client session" and "Credential store": the authenticated caller of a
// property operation, and the lookup service that resolves user/group
// names to ids. The engine never authenticates a socket itself; it is
// handed a Principal by the (out-of-scope) RPC layer.
package client

// Cred is a (uid, gid, supplementary groups) triple, grounded on the
// teacher's util.go-level credential handling (dotcloud/docker/pkg/user).
type Cred struct {
	Uid    uint32
	Gid    uint32
	Groups []uint32
}

// IsMemberOf reports whether gid is gid itself or among the supplementary
// groups.
func (c Cred) IsMemberOf(gid uint32) bool {
	if c.Gid == gid {
		return true
	}
	for _, g := range c.Groups {
		if g == gid {
			return true
		}
	}
	return false
}

// Principal is the authenticated client identity for one property
// operation: the credential the client connected with, whether it is the
// host's superuser, whether it is permitted to change uid/gid on
// containers it controls, the container it is itself running in (for
// namespace-relative permission checks), and its process id.
type Principal struct {
	Cred            Cred
	Superuser       bool
	SetUidGidOK     bool
	ClientContainer string
	Pid             int
}

// CanSetUidGid reports whether this principal may assign an explicit
// numeric uid/gid to a container's TaskCred (user/group properties).
func (p *Principal) CanSetUidGid() bool {
	return p.Superuser || p.SetUidGidOK
}

// CanControl reports whether p may administer a container owned by other.
// Host-root can control anything; otherwise the owning uid must match, or
// p's gid/groups must include the owner's gid (group-administered
// containers), mirroring the "can_control" collaborator contract of §6.
func (p *Principal) CanControl(other Cred) bool {
	if p.Superuser {
		return true
	}
	if p.Cred.Uid == other.Uid {
		return true
	}
	return p.Cred.IsMemberOf(other.Gid)
}
