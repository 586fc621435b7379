// Package session holds the anonymous/authenticated state of the storefront
// and gates navigation on login and logout.
package session

import "strings"

// tokenPrefix marks the durable session token. There is no credential
// verification behind it: the token only has to be present and derivable
// back to the display name on rehydration.
const tokenPrefix = "fake-token-"

// Session is the in-memory representation of the logged-in user.
// It is either fully populated or absent, never partial.
type Session struct {
	Nombre  string
	Email   string
	IsAdmin bool
}

// Credentials are the login form fields. The administrator flag is
// self-declared; this is a deliberate simplification, not a security
// boundary.
type Credentials struct {
	Nombre  string
	Email   string
	IsAdmin bool
}

// TokenFor derives the durable session token from a display name.
func TokenFor(nombre string) string {
	return tokenPrefix + nombre
}

// nombreFromToken recovers the display name from a stored token.
func nombreFromToken(token string) string {
	return strings.TrimPrefix(token, tokenPrefix)
}
