package cashtrackr

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories plus transaction support. The
// store is the sole point of cross-request coordination: no component keeps
// records cached between requests.
type RepositoryManager interface {
	Users() Users
	Budgets() Budgets
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Validate() error
}

type mngr struct {
	db      *bun.DB
	users   Users
	budgets Budgets
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:      db,
		users:   NewUsersRepository(db),
		budgets: NewBudgetsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.budgets == nil {
		return errors.New("repository budgets should be initialized")
	}

	return nil
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Budgets() Budgets {
	return m.budgets
}

// CreateSchema bootstraps the tables and the unique index on users.email.
// The lower() index is the real duplicate-email guard; the service level
// uniqueness check is only a fast-path user-facing error.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*User)(nil),
		(*Budget)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}

	if _, err := db.ExecContext(ctx,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_uq ON users (lower(email))`,
	); err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS budgets_user_id_idx ON budgets (user_id)`,
	); err != nil {
		return err
	}

	return nil
}
