package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Store key prefixes
var (
	LedgerKey              = []byte{0x01}
	SharesKeyPrefix        = []byte{0x02}
	AllowanceKeyPrefix     = []byte{0x03}
	RebaseHistoryKeyPrefix = []byte{0x04}
)

// SharesKey is prefix | address.
func SharesKey(addr string) []byte {
	return append(append([]byte{}, SharesKeyPrefix...), []byte(addr)...)
}

// AllowanceKey is prefix | owner | 0x00 | spender.
func AllowanceKey(owner, spender string) []byte {
	key := append(append([]byte{}, AllowanceKeyPrefix...), []byte(owner)...)
	key = append(key, 0x00)
	return append(key, []byte(spender)...)
}

// RebaseHistoryKey is prefix | big-endian seq.
func RebaseHistoryKey(seq uint64) []byte {
	return append(append([]byte{}, RebaseHistoryKeyPrefix...), sdk.Uint64ToBigEndian(seq)...)
}
