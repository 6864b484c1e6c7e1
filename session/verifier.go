package session

import (
	"errors"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
)

var (
	errInvalidClaims = errors.New("invalid claims")
	errMissingSub    = errors.New("missing sub")
)

// Verifier checks session token signatures. With a JWKS it expects RS256
// tokens from the gateway's key set; with a shared secret it expects HS256,
// which is what local and test gateways issue.
type Verifier struct {
	JWKS     *keyfunc.JWKS
	Audience string
	Issuer   string
	Secret   []byte

	parser *jwt.Parser
}

// NewVerifier creates a JWKS-backed verifier.
func NewVerifier(jwks *keyfunc.JWKS, audience, issuer string) *Verifier {
	return &Verifier{
		JWKS:     jwks,
		Audience: audience,
		Issuer:   issuer,
		parser:   jwt.NewParser(jwt.WithValidMethods([]string{"RS256"})),
	}
}

// NewSharedSecretVerifier creates an HS256 verifier for gateways signing with
// a shared secret.
func NewSharedSecretVerifier(secret []byte) *Verifier {
	return &Verifier{
		Secret: secret,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
	}
}

// UserID validates the token and returns its subject.
func (v *Verifier) UserID(token string) (string, error) {
	var parsed *jwt.Token
	var err error
	if v.Secret != nil {
		parsed, err = v.parser.Parse(token, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid signing method")
			}
			return v.Secret, nil
		})
	} else {
		if v.JWKS == nil {
			return "", errors.New("jwks not configured")
		}
		parsed, err = v.parser.Parse(token, v.JWKS.Keyfunc)
	}
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidClaims
	}
	if v.Audience != "" && !claims.VerifyAudience(v.Audience, false) {
		return "", errors.New("invalid audience")
	}
	if v.Issuer != "" && !claims.VerifyIssuer(v.Issuer, false) {
		return "", errors.New("invalid issuer")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errMissingSub
	}
	return sub, nil
}
