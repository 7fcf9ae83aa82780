package auth

import (
	"context"
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"tasktracker-backend/apperrors"
)

func signToken(t *testing.T, priv ed25519.PrivateKey, kid string, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	raw, err := token.SignedString(priv)
	require.NoError(t, err)
	return raw
}

func authReason(t *testing.T, err error) apperrors.AuthReason {
	t.Helper()
	var authErr *apperrors.AuthError
	require.ErrorAs(t, err, &authErr)
	return authErr.Reason
}

func TestVerifier_Verify(t *testing.T) {
	ctx := context.Background()

	jwk, priv := ed25519JWK(t, "k1")
	srv := newJWKSServer(t, jwk)
	ks := NewKeySet(srv.URL, time.Hour, srv.Client())
	v := NewVerifier(ks, EdDSA)

	validClaims := func(sub string) Claims {
		return Claims{
			Email: "user@example.com",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   sub,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
		}
	}

	t.Run("valid token", func(t *testing.T) {
		claims := validClaims("user-1")
		identity, err := v.Verify(ctx, signToken(t, priv, "k1", claims))
		require.NoError(t, err)
		require.Equal(t, "user-1", identity.Subject)
		require.Equal(t, "user@example.com", identity.Email)
		require.Equal(t, claims.ExpiresAt.Unix(), identity.ExpiresAt)
	})

	t.Run("expired token fails despite valid signature", func(t *testing.T) {
		claims := validClaims("user-1")
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

		_, err := v.Verify(ctx, signToken(t, priv, "k1", claims))
		require.Equal(t, apperrors.ReasonExpired, authReason(t, err))
	})

	t.Run("token without exp claim is rejected", func(t *testing.T) {
		claims := validClaims("user-1")
		claims.ExpiresAt = nil

		_, err := v.Verify(ctx, signToken(t, priv, "k1", claims))
		require.Equal(t, apperrors.ReasonExpired, authReason(t, err))
	})

	t.Run("unknown kid even after refresh", func(t *testing.T) {
		_, err := v.Verify(ctx, signToken(t, priv, "ghost", validClaims("user-1")))
		require.Equal(t, apperrors.ReasonUnknownKey, authReason(t, err))
	})

	t.Run("missing kid header", func(t *testing.T) {
		_, err := v.Verify(ctx, signToken(t, priv, "", validClaims("user-1")))
		require.Equal(t, apperrors.ReasonMalformedToken, authReason(t, err))
	})

	t.Run("structurally malformed token", func(t *testing.T) {
		_, err := v.Verify(ctx, "not-a-jwt")
		require.Equal(t, apperrors.ReasonMalformedToken, authReason(t, err))
	})

	t.Run("algorithm from header is ignored", func(t *testing.T) {
		// An HS256 token naming our kid must be rejected by the pinned
		// algorithm, not verified with a symmetric interpretation of the key.
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims("user-1"))
		token.Header["kid"] = "k1"
		raw, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = v.Verify(ctx, raw)
		require.Equal(t, apperrors.ReasonBadSignature, authReason(t, err))
	})

	t.Run("signature from a different key", func(t *testing.T) {
		_, otherPriv := ed25519JWK(t, "k1")
		_, err := v.Verify(ctx, signToken(t, otherPriv, "k1", validClaims("user-1")))
		require.Equal(t, apperrors.ReasonBadSignature, authReason(t, err))
	})

	t.Run("empty subject claim", func(t *testing.T) {
		_, err := v.Verify(ctx, signToken(t, priv, "k1", validClaims("  ")))
		require.Equal(t, apperrors.ReasonMissingSubject, authReason(t, err))
	})

	t.Run("key set fetch failure", func(t *testing.T) {
		down := newJWKSServer(t)
		url := down.URL
		down.Close()

		brokenKeys := NewKeySet(url, time.Hour, nil)
		broken := NewVerifier(brokenKeys, EdDSA)

		_, err := broken.Verify(ctx, signToken(t, priv, "k1", validClaims("user-1")))
		require.Equal(t, apperrors.ReasonKeysUnavailable, authReason(t, err))
	})
}
