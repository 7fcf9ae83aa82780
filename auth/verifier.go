package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"tasktracker-backend/apperrors"
)

// Identity is the result of successful token verification. It is rebuilt for
// every request and never persisted.
type Identity struct {
	Subject   string
	Email     string
	ExpiresAt int64
}

// Claims is the JWT payload we care about (subject=tenant id, plus email).
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

var errNoKeyID = errors.New("token header has no kid")

// Verifier validates bearer tokens against a KeySet. The accepted signing
// algorithm is fixed at construction, never read from the token header.
type Verifier struct {
	keys *KeySet
	alg  string
	now  func() time.Time
}

// NewVerifier builds a Verifier pinned to one signing algorithm (e.g. EdDSA).
func NewVerifier(keys *KeySet, alg string) *Verifier {
	return &Verifier{keys: keys, alg: alg, now: time.Now}
}

// Verify parses and validates a raw bearer token and returns the caller's
// Identity. All failures come back as *apperrors.AuthError; the classified
// reason is for logs, not for clients.
func (v *Verifier) Verify(ctx context.Context, raw string) (Identity, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{v.alg}))

	var claims Claims
	_, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errNoKeyID
		}
		key, err := v.keys.Lookup(ctx, kid)
		if err != nil {
			return nil, err
		}
		return key.Key, nil
	})
	if err != nil {
		return Identity{}, apperrors.NewAuthError(classify(err), err)
	}

	// The parser already checks exp, but the expiry contract is important
	// enough to assert explicitly against our own clock.
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(v.now()) {
		return Identity{}, apperrors.NewAuthError(apperrors.ReasonExpired, errors.New("token expired"))
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, apperrors.NewAuthError(apperrors.ReasonMissingSubject, errors.New("empty sub claim"))
	}

	return Identity{
		Subject:   claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Unix(),
	}, nil
}

func classify(err error) apperrors.AuthReason {
	switch {
	case errors.Is(err, ErrKeyNotFound):
		return apperrors.ReasonUnknownKey
	case errors.Is(err, ErrKeySetUnavailable):
		return apperrors.ReasonKeysUnavailable
	case errors.Is(err, errNoKeyID), errors.Is(err, jwt.ErrTokenMalformed):
		return apperrors.ReasonMalformedToken
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.ReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperrors.ReasonBadSignature
	default:
		return apperrors.ReasonMalformedToken
	}
}
