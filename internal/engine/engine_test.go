package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ChatWorks/porto/internal/catalogue"
	"github.com/ChatWorks/porto/internal/cgroup/fs"
	"github.com/ChatWorks/porto/internal/config"
	"github.com/ChatWorks/porto/internal/container"
	"github.com/ChatWorks/porto/internal/netcollab"
	"github.com/ChatWorks/porto/internal/stats"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	reg := catalogue.Build()
	forest := container.NewForest()
	cg := fs.NewRegistry(t.TempDir())
	net := netcollab.NewManager()
	st := stats.New()
	return New(reg, forest, config.Default(), cg, net, st)
}

func TestCreateGetSetRoundTrip(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Create("a"))
	require.Error(t, e.Create("a"))

	require.NoError(t, e.Set("a", "command", "/bin/true"))
	got, err := e.Get("a", "command")
	require.NoError(t, err)
	require.Equal(t, "/bin/true", got)

	require.NoError(t, e.Set("a", "memory_limit", "64M"))
	got, err = e.Get("a", "memory_limit")
	require.NoError(t, err)
	require.Equal(t, "67108864", got)
}

func TestCreateNestedDerivesParentFromLastSlash(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Create("a"))
	require.NoError(t, e.Create("a/b"))

	got, err := e.Get("a/b", "parent")
	require.NoError(t, err)
	require.Equal(t, "a", got)
}

func TestCreateUnknownParentFails(t *testing.T) {
	e := newTestEngine(t)
	require.Error(t, e.Create("missing/child"))
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Create("a"))
	require.NoError(t, e.Set("a", "command", "/bin/sleep 10"))
	require.NoError(t, e.Set("a", "cpu_limit", "50"))

	entries, err := e.Save("a")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	require.NoError(t, e.Create("b"))
	require.NoError(t, e.Restore("b", entries))

	got, err := e.Get("b", "command")
	require.NoError(t, err)
	require.Equal(t, "/bin/sleep 10", got)
}

func TestListPropertiesNonEmpty(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Create("a"))
	names, err := e.ListProperties("a")
	require.NoError(t, err)
	require.NotEmpty(t, names)
}

func TestGetUnknownContainerFails(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Get("nope", "command")
	require.Error(t, err)
}
