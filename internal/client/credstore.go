package client

import (
	"fmt"
	"os/user"
	"strconv"
)

// CredStore resolves user/group names to numeric ids and back. The default
// implementation delegates to os/user, the same boundary the teacher's
// dotcloud/docker/pkg/user package sits behind; re-implementations that
// need NSS/LDAP lookups can swap in their own CredStore.
type CredStore interface {
	UserID(name string) (uint32, error)
	GroupID(name string) (uint32, error)
	LoadUser(name string) (Cred, error)
	UserName(uid uint32) (string, error)
	GroupName(gid uint32) (string, error)
}

// OSCredStore is the default CredStore backed by the host's NSS databases.
type OSCredStore struct{}

func (OSCredStore) UserID(name string) (uint32, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return 0, err
	}
	return parseID(u.Uid)
}

func (OSCredStore) GroupID(name string) (uint32, error) {
	g, err := user.LookupGroup(name)
	if err != nil {
		return 0, err
	}
	return parseID(g.Gid)
}

func (OSCredStore) LoadUser(name string) (Cred, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return Cred{}, err
	}
	uid, err := parseID(u.Uid)
	if err != nil {
		return Cred{}, err
	}
	gid, err := parseID(u.Gid)
	if err != nil {
		return Cred{}, err
	}
	groupIDs, err := u.GroupIds()
	if err != nil {
		return Cred{Uid: uid, Gid: gid}, nil
	}
	groups := make([]uint32, 0, len(groupIDs))
	for _, g := range groupIDs {
		if n, err := parseID(g); err == nil {
			groups = append(groups, n)
		}
	}
	return Cred{Uid: uid, Gid: gid, Groups: groups}, nil
}

func (OSCredStore) UserName(uid uint32) (string, error) {
	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

func (OSCredStore) GroupName(gid uint32) (string, error) {
	g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
	if err != nil {
		return "", err
	}
	return g.Name, nil
}

func parseID(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return uint32(n), nil
}
