package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	cases := []struct {
		raw  string
		want uint64
	}{
		{"0", 0},
		{"2K", 2048},
		{"1M", 1024 * 1024},
		{"1G", 1024 * 1024 * 1024},
		{"512", 512},
	}
	for _, c := range cases {
		got, err := ParseSize("memory_limit", c.raw)
		require.NoError(t, err)
		require.Equal(t, c.want, got, c.raw)
	}
}

func TestParseSizeRejectsNegative(t *testing.T) {
	_, err := ParseSize("memory_limit", "-1")
	require.Error(t, err)
}

func TestParseBoolStrict(t *testing.T) {
	v, err := ParseBool("root_readonly", "true")
	require.NoError(t, err)
	require.True(t, v)

	v, err = ParseBool("root_readonly", "false")
	require.NoError(t, err)
	require.False(t, v)

	_, err = ParseBool("root_readonly", "1")
	require.Error(t, err)
	_, err = ParseBool("root_readonly", "True")
	require.Error(t, err)
}

func TestOctalRoundTrip(t *testing.T) {
	v, err := ParseOctal("umask", "0022")
	require.NoError(t, err)
	require.Equal(t, "022", FormatOctal(v))
}

func TestDurationSecondsToMillis(t *testing.T) {
	d, err := ParseDurationSeconds("aging_time", "60")
	require.NoError(t, err)
	require.Equal(t, 60*time.Second, d)
	require.Equal(t, "60", FormatDurationSeconds(d))
}

func TestCPUQuantityPercentOfCores(t *testing.T) {
	cores, err := ParseCPUQuantity("cpu_limit", "50", 4)
	require.NoError(t, err)
	require.Equal(t, 2.0, cores)
}

func TestCPUQuantityAbsoluteCores(t *testing.T) {
	cores, err := ParseCPUQuantity("cpu_limit", "1.5c", 4)
	require.NoError(t, err)
	require.Equal(t, 1.5, cores)
}

func TestSplitTupleEscaping(t *testing.T) {
	tuples := SplitTuple(`a\;b;c`, ' ', ';')
	require.Equal(t, [][]string{{"a;b"}, {"c"}}, tuples)
}

func TestSplitTupleMergeRoundTrip(t *testing.T) {
	tuples := [][]string{{"/host", "/dest", "ro"}, {"a;b", "c"}}
	merged := MergeTuple(tuples, ' ', ';')
	got := SplitTuple(merged, ' ', ';')
	require.Equal(t, tuples, got)
}

func TestParseUintMap(t *testing.T) {
	m, err := ParseUintMap("io_bps_limit", "fs: 1000;sda: 2000")
	require.NoError(t, err)
	require.Equal(t, map[string]uint64{"fs": 1000, "sda": 2000}, m)
}

func TestFlagTableRoundTrip(t *testing.T) {
	table := FlagTable{{Mask: 1, Name: "a"}, {Mask: 2, Name: "b"}}
	mask, err := table.Parse("controllers", "a;b")
	require.NoError(t, err)
	require.Equal(t, uint64(3), mask)
	require.Equal(t, "a;b", table.Format(mask))
}
