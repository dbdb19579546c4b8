// Package storage is the client-scoped, synchronous key-value medium the
// session is persisted to. Reads never fail: a missing or unreadable entry is
// reported as absent.
package storage

// Keys used for the persisted session.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// SessionKeys are all the keys owned by the session store.
var SessionKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUser}

type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)
	// Set writes key.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}
