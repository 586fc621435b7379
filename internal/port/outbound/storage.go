// Package outbound defines the outbound ports of the storefront client.
package outbound

import "errors"

// Durable storage keys. These mirror the browser localStorage entries of the
// reference storefront, so a snapshot written by one backend is readable by
// the other.
const (
	// KeyAuthToken holds the opaque session token derived from the display name.
	KeyAuthToken = "authToken"

	// KeyAuthEmail holds the logged-in user's email as a plain string.
	KeyAuthEmail = "authEmail"

	// KeyIsAdmin holds the administrator flag as the string "true" or "false".
	KeyIsAdmin = "isAdmin"

	// KeyCart holds the cart snapshot as a JSON array of line items.
	KeyCart = "cart"
)

// ErrKeyNotFound is returned by Storage.Get when the key has no value.
var ErrKeyNotFound = errors.New("storage key not found")

// Storage is durable local key/value storage surviving restarts.
// Values are plain strings; structured values are stored as JSON.
// Implementations: JSON state file, SQLite.
type Storage interface {
	// Get returns the value for key, or ErrKeyNotFound if absent.
	Get(key string) (string, error)

	// Set stores value under key, creating or replacing it.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Clear removes every key.
	Clear() error

	// Close releases any underlying resources.
	Close() error
}
