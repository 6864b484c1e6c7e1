// Package session covers the opaque session token: route guarding on its
// expiry and optional JWKS-backed verification.
package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenCookie is the cookie the gateway stores the session token in.
const TokenCookie = "token"

// guestPaths are reachable only without a valid session.
var guestPaths = []string{"/login", "/register"}

// Redirect is a route-guard decision.
type Redirect int

const (
	RedirectNone Redirect = iota
	// RedirectLogin sends an unauthenticated user to the login surface.
	RedirectLogin
	// RedirectHome sends an authenticated user away from guest surfaces.
	RedirectHome
)

// TokenValid reports whether the token parses and has not expired. The
// signature is not checked here; the guard only decides routing, the gateway
// remains the authority on every call.
func TokenValid(token string) bool {
	if token == "" {
		return false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	return claims.VerifyExpiresAt(time.Now().Unix(), true)
}

// Guard decides where a request for path with the given token should land.
func Guard(path, token string) Redirect {
	guest := false
	for _, p := range guestPaths {
		if strings.HasPrefix(path, p) {
			guest = true
			break
		}
	}
	valid := TokenValid(token)
	switch {
	case guest && valid:
		return RedirectHome
	case !guest && !valid:
		return RedirectLogin
	}
	return RedirectNone
}
