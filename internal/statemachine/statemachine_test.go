package statemachine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ChatWorks/porto/internal/capset"
	"github.com/ChatWorks/porto/internal/cgroup"
	"github.com/ChatWorks/porto/internal/client"
	"github.com/ChatWorks/porto/internal/container"
	"github.com/ChatWorks/porto/internal/engineerr"
)

func TestGuardAliveAndStopped(t *testing.T) {
	c := container.New(1, "a", nil)
	c.State = container.Stopped
	require.NoError(t, Check(AliveAndStopped, c, "cwd"))

	c.State = container.Running
	err := Check(AliveAndStopped, c, "cwd")
	require.Error(t, err)
	require.Equal(t, engineerr.InvalidState, engineerr.Of(err))
}

func TestGuardRunningReadRejectsStopped(t *testing.T) {
	c := container.New(1, "a", nil)
	c.State = container.Stopped
	require.Error(t, Check(RunningRead, c, "root_pid"))

	c.State = container.Running
	require.NoError(t, Check(RunningRead, c, "root_pid"))
}

func TestGuardDeadRead(t *testing.T) {
	c := container.New(1, "a", nil)
	c.State = container.Running
	require.Error(t, Check(DeadRead, c, "exit_status"))

	c.State = container.Dead
	require.NoError(t, Check(DeadRead, c, "exit_status"))
}

func TestWantControllersFreezesAfterStopped(t *testing.T) {
	c := container.New(1, "a", nil)
	c.State = container.Stopped
	require.NoError(t, WantControllers(c, "cpu_limit", cgroup.CPU))
	require.Equal(t, cgroup.CPU, c.Controllers&cgroup.CPU)

	c.State = container.Running
	require.Error(t, WantControllers(c, "memory_limit", cgroup.Memory))

	c.Controllers |= cgroup.Memory
	require.NoError(t, WantControllers(c, "memory_limit", cgroup.Memory))
}

func TestCheckMemoryGuaranteeTreeSum(t *testing.T) {
	f := container.NewForest()
	a := f.Create("a", f.Root)
	b := f.Create("a/b", a)
	a.MemGuarantee = 10 * mib
	b.MemGuarantee = 60 * mib

	// total=100M, reserve=0: staging 40M for a new sibling c must fail
	// because 10+60+40 = 110 > 100.
	c := f.Create("a/c", a)
	err := CheckMemoryGuarantee(f, c, 40*mib, 100*mib, 0)
	require.Error(t, err)
	require.Equal(t, engineerr.ResourceNotAvailable, engineerr.Of(err))

	// staging 20M instead fits: 10+60+20 = 90 <= 100.
	require.NoError(t, CheckMemoryGuarantee(f, c, 20*mib, 100*mib, 0))
}

func TestCheckCapabilityBoundAncestorSubset(t *testing.T) {
	f := container.NewForest()
	parent := f.Create("parent", f.Root)
	parent.CapLimit, _ = capset.Parse("capabilities", "CHOWN;KILL")
	child := f.Create("parent/child", parent)

	unprivileged := &client.Principal{Superuser: false}

	wide, _ := capset.Parse("capabilities", "CHOWN;KILL;SYS_ADMIN")
	err := CheckCapabilityBound(child, unprivileged, wide)
	require.Error(t, err)
	require.Equal(t, engineerr.Permission, engineerr.Of(err))

	narrow, _ := capset.Parse("capabilities", "CHOWN")
	require.NoError(t, CheckCapabilityBound(child, unprivileged, narrow))
}

func TestCheckCapabilityBoundHostRootOwningHostRootSkipsBound(t *testing.T) {
	f := container.NewForest()
	parent := f.Create("parent", f.Root)
	parent.CapLimit, _ = capset.Parse("capabilities", "CHOWN")
	child := f.Create("parent/child", parent)
	child.OwnerCred.Uid = 0

	superuser := &client.Principal{Superuser: true}
	wide, _ := capset.Parse("capabilities", "SYS_ADMIN")
	require.NoError(t, CheckCapabilityBound(child, superuser, wide))
}

func TestCheckAccessLevelAncestorBound(t *testing.T) {
	f := container.NewForest()
	parent := f.Create("parent", f.Root)
	parent.AccessLevel = container.AccessReadOnly
	child := f.Create("parent/child", parent)

	unprivileged := &client.Principal{Superuser: false}
	err := CheckAccessLevel(child, unprivileged, container.AccessNormal)
	require.Error(t, err)
	require.Equal(t, engineerr.Permission, engineerr.Of(err))

	require.NoError(t, CheckAccessLevel(child, unprivileged, container.AccessReadOnly))
}

const mib = 1024 * 1024
