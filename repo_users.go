package cashtrackr

import (
	"context"
	"database/sql"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// userMutableColumns are the columns account lifecycle operations may touch.
// Token is included so a nil pointer persists as NULL and clears the slot.
var userMutableColumns = []string{"name", "email", "password_hash", "confirmed", "token", "updated_at"}

type Users interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByToken(ctx context.Context, token string) (*User, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)

	Create(ctx context.Context, record *User) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)
	Update(ctx context.Context, record *User) (*User, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)
}

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

func (a *users) GetByID(ctx context.Context, id int64) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapUserLookupErr(err, "id")
	}
	return record, nil
}

// GetByEmail matches case-insensitively: the email column is the account
// identifier and "T@test.com" and "t@test.com" are the same principal.
func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("lower(?TableAlias.email) = lower(?)", strings.TrimSpace(email)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapUserLookupErr(err, "email")
	}
	return record, nil
}

// GetByToken looks up the account holding an outstanding opaque token.
// Tokens are compared by equality only, never decoded.
func (a *users) GetByToken(ctx context.Context, token string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", token).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapUserLookupErr(err, "token")
	}
	return record, nil
}

// EmailTaken reports whether another account (id != excludeID) holds the
// email. Pass excludeID 0 to consider every account.
func (a *users) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	q := a.db.NewSelect().
		Model((*User)(nil)).
		Where("lower(?TableAlias.email) = lower(?)", strings.TrimSpace(email))

	if excludeID != 0 {
		q = q.Where("?TableAlias.id != ?", excludeID)
	}

	count, err := q.Count(ctx)
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email uniqueness")
	}
	return count > 0, nil
}

func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	_, err := tx.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create user")
	}
	return record, nil
}

func (a *users) Update(ctx context.Context, record *User) (*User, error) {
	return a.UpdateTx(ctx, a.db, record)
}

func (a *users) UpdateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	now := time.Now()
	record.UpdatedAt = &now

	res, err := tx.NewUpdate().
		Model(record).
		Column(userMutableColumns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user")
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, recordNotFound("id")
	}

	return record, nil
}

func wrapUserLookupErr(err error, identifier string) error {
	if isRecordNotFound(err) {
		return recordNotFound(identifier)
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user")
}

func recordNotFound(identifier string) error {
	return goerrors.New("record not found", goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithMetadata(map[string]any{"identifier": identifier})
}

func isRecordNotFound(err error) bool {
	return goerrors.Is(err, sql.ErrNoRows) || goerrors.IsNotFound(err)
}

// isUniqueViolation sniffs driver errors for unique index breakage. The
// index on users.email is the real duplicate guard: the service level check
// only exists to give a friendly fast-path answer, and two registrations
// racing past it both land here.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
