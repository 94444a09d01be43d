package capset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFormatRoundTrip(t *testing.T) {
	s, err := Parse("capabilities", "CHOWN;KILL;NET_ADMIN")
	require.NoError(t, err)
	require.Equal(t, "CHOWN;KILL;NET_ADMIN", s.Format())
}

func TestParseEmpty(t *testing.T) {
	s, err := Parse("capabilities", "")
	require.NoError(t, err)
	require.Equal(t, Set(0), s)
}

func TestParseUnknownNameFailsWholeParse(t *testing.T) {
	_, err := Parse("capabilities", "CHOWN;NOT_A_CAP")
	require.Error(t, err)
}

func TestHasAndWithBit(t *testing.T) {
	s, err := Parse("capabilities", "CHOWN")
	require.NoError(t, err)

	has, err := s.Has("capabilities", "CHOWN")
	require.NoError(t, err)
	require.True(t, has)

	has, err = s.Has("capabilities", "KILL")
	require.NoError(t, err)
	require.False(t, has)

	s2, err := s.WithBit("capabilities", "KILL", true)
	require.NoError(t, err)
	require.Equal(t, "CHOWN;KILL", s2.Format())

	s3, err := s2.WithBit("capabilities", "CHOWN", false)
	require.NoError(t, err)
	require.Equal(t, "KILL", s3.Format())

	_, err = s.Has("capabilities", "NOT_A_CAP")
	require.Error(t, err)
}

func TestIntersectUnionDifferenceSubsetOf(t *testing.T) {
	a, _ := Parse("capabilities", "CHOWN;KILL")
	b, _ := Parse("capabilities", "KILL;NET_ADMIN")

	require.Equal(t, "KILL", Intersect(a, b).Format())
	require.Equal(t, "CHOWN;KILL;NET_ADMIN", Union(a, b).Format())
	require.Equal(t, "CHOWN", Difference(a, b).Format())

	require.True(t, SubsetOf(Intersect(a, b), a))
	require.False(t, SubsetOf(a, b))
}

func TestIntersectAllWalksAncestorChain(t *testing.T) {
	leaf, _ := Parse("capabilities", "CHOWN;KILL;NET_ADMIN;SYS_PTRACE")
	anc1, _ := Parse("capabilities", "CHOWN;KILL;NET_ADMIN")
	anc2, _ := Parse("capabilities", "CHOWN;KILL")

	got := IntersectAll(leaf, anc1, anc2)
	require.Equal(t, "CHOWN;KILL", got.Format())
}
