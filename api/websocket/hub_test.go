package websocket

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openalpha/supercluster/app"
)

func TestChannelsFor(t *testing.T) {
	testCases := []struct {
		name  string
		event app.Event
		want  []string
	}{
		{
			name:  "deposit",
			event: app.Event{Type: "supercluster_deposit", Attributes: map[string]string{"depositor": "alice", "amount": "5"}},
			want:  []string{ChannelAll, ChannelVault, "account:alice"},
		},
		{
			name:  "vault withdraw goes to both",
			event: app.Event{Type: "supercluster_withdraw", Attributes: map[string]string{"owner": "bob"}},
			want:  []string{ChannelAll, ChannelWithdrawals, ChannelVault, "account:bob"},
		},
		{
			name:  "claim",
			event: app.Event{Type: "withdraw_claim", Attributes: map[string]string{"requester": "bob", "caller": "bob"}},
			want:  []string{ChannelAll, ChannelWithdrawals, "account:bob"},
		},
		{
			name:  "transfer names both sides",
			event: app.Event{Type: "stoken_transfer", Attributes: map[string]string{"from": "a", "to": "b"}},
			want:  []string{ChannelAll, "account:a", "account:b"},
		},
		{
			name:  "rebase",
			event: app.Event{Type: "stoken_rebase", Attributes: map[string]string{"new_value": "10"}},
			want:  []string{ChannelAll, ChannelVault},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ChannelsFor(tc.event))
		})
	}
}

func TestValidChannel(t *testing.T) {
	require.True(t, ValidChannel("vault"))
	require.True(t, ValidChannel("withdrawals"))
	require.True(t, ValidChannel("events"))
	require.True(t, ValidChannel("account:alice"))
	require.False(t, ValidChannel("account:"))
	require.False(t, ValidChannel("ticker:BTC"))
	require.False(t, ValidChannel(""))
}

func TestOriginAllowed(t *testing.T) {
	require.True(t, originAllowed(nil, "https://x"))
	require.True(t, originAllowed([]string{"*"}, "https://x"))
	require.True(t, originAllowed([]string{"https://x"}, "https://x"))
	require.False(t, originAllowed([]string{"https://y"}, "https://x"))
	require.True(t, originAllowed([]string{"https://y"}, ""))
}
