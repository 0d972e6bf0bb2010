package cashtrackr

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTClaims is the bearer credential payload: a signed, expiring assertion
// of a principal id, verifiable without a store lookup.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID int64 `json:"uid,omitempty"`
}

// UserID returns the asserted principal id, falling back to the subject
// claim for tokens minted by older builds.
func (c *JWTClaims) UserID() int64 {
	if c.UID != 0 {
		return c.UID
	}
	id, err := strconv.ParseInt(c.RegisteredClaims.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Expires returns the expiration time, zero when absent.
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// ensureTokenID backfills a jti so every issued credential is individually
// identifiable in logs.
func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
