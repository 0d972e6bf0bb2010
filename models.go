package cashtrackr

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the account holder model. The Token column is a dual purpose
// slot: it holds either the pending confirmation token or the pending
// password reset token, and it is NULL for a confirmed idle account.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Confirmed     bool       `bun:"confirmed,notnull,default:false" json:"confirmed"`
	Token         *string    `bun:"token,nullzero" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// HasToken reports whether the user has an outstanding confirmation or
// reset token.
func (u *User) HasToken() bool {
	return u != nil && u.Token != nil && *u.Token != ""
}

// SetToken assigns a fresh opaque token, replacing any outstanding one.
func (u *User) SetToken(token string) *User {
	u.Token = &token
	return u
}

// ClearToken drops the outstanding token, returning the account to its
// idle state.
func (u *User) ClearToken() *User {
	u.Token = nil
	return u
}

// Budget is an owned resource. UserID references exactly one User and is
// immutable after creation; there is no transfer operation.
type Budget struct {
	bun.BaseModel `bun:"table:budgets,alias:bdg"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Amount        float64    `bun:"amount,notnull" json:"amount"`
	UserID        int64      `bun:"user_id,notnull" json:"user_id,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// OwnedBy reports whether the budget belongs to the given user id.
func (b *Budget) OwnedBy(userID int64) bool {
	return b != nil && b.UserID == userID
}
