// Package session holds the authenticated session as an explicit, owned
// value. The root TUI model is the only writer; screens receive it
// read-only. Nothing in this package is global.
package session

import "strings"

// Session identifies the current user to the remote API. The zero value
// means "not logged in".
type Session struct {
	Token string
}

// New builds a session from a raw token, stripping any Bearer prefix.
func New(token string) Session {
	return Session{Token: stripBearer(strings.TrimSpace(token))}
}

// Active reports whether a token is present.
func (s Session) Active() bool {
	return s.Token != ""
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
