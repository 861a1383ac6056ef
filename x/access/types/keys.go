package types

// Store key prefixes
var (
	GrantKeyPrefix = []byte{0x01}
	PauseKeyPrefix = []byte{0x02}
	InitializedKey = []byte{0x03}
)

// GrantKey is prefix | role | 0x00 | address.
func GrantKey(role Role, addr string) []byte {
	key := append([]byte{}, GrantKeyPrefix...)
	key = append(key, []byte(role)...)
	key = append(key, 0x00)
	return append(key, []byte(addr)...)
}

// RolePrefix scans every grant of one role.
func RolePrefix(role Role) []byte {
	key := append([]byte{}, GrantKeyPrefix...)
	key = append(key, []byte(role)...)
	return append(key, 0x00)
}

// PauseKey is prefix | module.
func PauseKey(module string) []byte {
	return append(append([]byte{}, PauseKeyPrefix...), []byte(module)...)
}
