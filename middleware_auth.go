package cashtrackr

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// AuthConfig configures the bearer authentication gate.
type AuthConfig struct {
	Tokens *TokenService
	Users  Users
	// AuthScheme defaults to "Bearer".
	AuthScheme string
	// ErrorHandler defaults to RespondError. Credential failures surface
	// as 401; a store fault during the principal reload stays internal.
	ErrorHandler fiber.ErrorHandler
	Logger       Logger
}

// RequireAuth resolves the request's bearer credential to a principal and
// attaches it for downstream handlers. The credential is verified
// statelessly, then the principal is re-loaded from the store to catch
// accounts deleted after issuance.
func RequireAuth(config AuthConfig) fiber.Handler {
	cfg := authConfigDefaults(config)

	return func(c *fiber.Ctx) error {
		raw, err := extractBearer(c, cfg.AuthScheme)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.Tokens.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		user, err := cfg.Users.GetByID(c.Context(), claims.UserID())
		if err != nil {
			// Only a vanished principal is an authentication failure. A
			// store fault must surface as an internal error, not a 401.
			if goerrors.IsNotFound(err) {
				cfg.Logger.Warn("authenticated principal %d no longer resolvable", claims.UserID())
				return cfg.ErrorHandler(c, ErrUnauthorized)
			}
			return cfg.ErrorHandler(c, err)
		}

		WithUser(c, user)

		return c.Next()
	}
}

func authConfigDefaults(cfg AuthConfig) AuthConfig {
	if cfg.Tokens == nil {
		panic("cashtrackr: auth middleware requires a TokenService")
	}
	if cfg.Users == nil {
		panic("cashtrackr: auth middleware requires a Users repository")
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = RespondError
	}
	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}
	return cfg
}

func extractBearer(c *fiber.Ctx, authScheme string) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", ErrUnauthorized
	}

	l := len(authScheme)
	if len(header) > l+1 && strings.EqualFold(header[:l], authScheme) {
		return strings.TrimSpace(header[l:]), nil
	}

	return "", ErrUnauthorized
}
