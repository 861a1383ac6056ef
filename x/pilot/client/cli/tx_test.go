package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAllocation(t *testing.T) {
	adapters, bps, err := ParseAllocation("lending-vault=7000, reserve=3000")
	require.NoError(t, err)
	require.Equal(t, []string{"lending-vault", "reserve"}, adapters)
	require.Equal(t, []uint32{7000, 3000}, bps)

	adapters, bps, err = ParseAllocation("")
	require.NoError(t, err)
	require.Empty(t, adapters)
	require.Empty(t, bps)

	for _, bad := range []string{"reserve", "=100", "reserve=-1", "reserve=abc"} {
		_, _, err := ParseAllocation(bad)
		require.Error(t, err, bad)
	}
}
