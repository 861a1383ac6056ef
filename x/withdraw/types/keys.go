package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Store key prefixes
var (
	RequestKeyPrefix   = []byte{0x01}
	UserIndexPrefix    = []byte{0x02}
	PendingIndexPrefix = []byte{0x03}
	NextIDKey          = []byte{0x04}
	ReservedKey        = []byte{0x05}
	ParamsKey          = []byte{0x06}
)

// RequestKey is prefix | big-endian id.
func RequestKey(id uint64) []byte {
	return append(append([]byte{}, RequestKeyPrefix...), sdk.Uint64ToBigEndian(id)...)
}

// UserPrefix scans one requester's handles.
func UserPrefix(user string) []byte {
	key := append(append([]byte{}, UserIndexPrefix...), []byte(user)...)
	return append(key, 0x00)
}

// UserIndexKey is prefix | user | 0x00 | big-endian id.
func UserIndexKey(user string, id uint64) []byte {
	return append(UserPrefix(user), sdk.Uint64ToBigEndian(id)...)
}

// PendingIndexKey is prefix | big-endian id.
func PendingIndexKey(id uint64) []byte {
	return append(append([]byte{}, PendingIndexPrefix...), sdk.Uint64ToBigEndian(id)...)
}
