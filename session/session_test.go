package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var testSecret = []byte("session-test-secret")

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestTokenValid(t *testing.T) {
	live := mintToken(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})
	expired := mintToken(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Hour).Unix()})
	noExp := mintToken(t, jwt.MapClaims{"sub": "u1"})

	cases := map[string]struct {
		token string
		want  bool
	}{
		"live":      {live, true},
		"expired":   {expired, false},
		"no expiry": {noExp, false},
		"empty":     {"", false},
		"garbage":   {"not.a.token", false},
	}
	for name, tc := range cases {
		if got := TokenValid(tc.token); got != tc.want {
			t.Errorf("%s: TokenValid = %v, want %v", name, got, tc.want)
		}
	}
}

func TestGuard(t *testing.T) {
	live := mintToken(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})

	cases := map[string]struct {
		path  string
		token string
		want  Redirect
	}{
		"board without session":  {"/projects/alpha", "", RedirectLogin},
		"board with session":     {"/projects/alpha", live, RedirectNone},
		"login without session":  {"/login", "", RedirectNone},
		"login with session":     {"/login", live, RedirectHome},
		"register with session":  {"/register", live, RedirectHome},
		"root with expired":      {"/", "expired-junk", RedirectLogin},
	}
	for name, tc := range cases {
		if got := Guard(tc.path, tc.token); got != tc.want {
			t.Errorf("%s: Guard = %v, want %v", name, got, tc.want)
		}
	}
}

func TestVerifierSharedSecret(t *testing.T) {
	v := NewSharedSecretVerifier(testSecret)

	token := mintToken(t, jwt.MapClaims{"sub": "u42", "exp": time.Now().Add(time.Hour).Unix()})
	id, err := v.UserID(token)
	if err != nil {
		t.Fatalf("UserID: %v", err)
	}
	if id != "u42" {
		t.Fatalf("UserID = %q, want u42", id)
	}

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u42", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("wrong-secret"))
	if err != nil {
		t.Fatalf("sign forged: %v", err)
	}
	if _, err := v.UserID(forged); err == nil {
		t.Fatal("expected signature error for forged token")
	}

	expired := mintToken(t, jwt.MapClaims{"sub": "u42", "exp": time.Now().Add(-time.Hour).Unix()})
	if _, err := v.UserID(expired); err == nil {
		t.Fatal("expected error for expired token")
	}

	noSub := mintToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	if _, err := v.UserID(noSub); err == nil {
		t.Fatal("expected error for token without sub")
	}
}
