package middlewares

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tasktracker-backend/apperrors"
	"tasktracker-backend/auth"
)

const (
	authHeader   = "Authorization"
	bearerPrefix = "Bearer "

	identityKey = "identity"
)

// TokenVerifier is what the middleware needs from auth.Verifier; tests swap
// in a stub.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (auth.Identity, error)
}

// Authenticated extracts the Bearer token, verifies it, and stashes the
// caller's Identity in c.Locals. A missing or malformed header is itself an
// authentication failure; the central error handler turns all of them into
// the same generic 401.
func Authenticated(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get(authHeader)
		if h == "" || !strings.HasPrefix(strings.ToLower(h), strings.ToLower(bearerPrefix)) {
			return apperrors.NewAuthError(apperrors.ReasonMalformedToken,
				errors.New("missing or malformed Authorization header"))
		}
		raw := strings.TrimSpace(h[len(bearerPrefix):])
		if raw == "" {
			return apperrors.NewAuthError(apperrors.ReasonMalformedToken,
				errors.New("empty bearer token"))
		}

		identity, err := verifier.Verify(c.UserContext(), raw)
		if err != nil {
			return err
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// IdentityFrom returns the Identity stored by Authenticated.
func IdentityFrom(c *fiber.Ctx) (auth.Identity, bool) {
	identity, ok := c.Locals(identityKey).(auth.Identity)
	return identity, ok
}
