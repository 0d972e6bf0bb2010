package cashtrackr

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type Budgets interface {
	GetByID(ctx context.Context, id int64) (*Budget, error)
	ListByUser(ctx context.Context, userID int64) ([]*Budget, error)

	Create(ctx context.Context, record *Budget) (*Budget, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Budget) (*Budget, error)
	Update(ctx context.Context, record *Budget) (*Budget, error)
	Delete(ctx context.Context, id int64) error
}

type budgets struct {
	db *bun.DB
}

var _ Budgets = (*budgets)(nil)

func NewBudgetsRepository(db *bun.DB) Budgets {
	return &budgets{db: db}
}

func (a *budgets) GetByID(ctx context.Context, id int64) (*Budget, error) {
	record := &Budget{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrBudgetNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve budget")
	}
	return record, nil
}

func (a *budgets) ListByUser(ctx context.Context, userID int64) ([]*Budget, error) {
	records := []*Budget{}
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list budgets")
	}
	return records, nil
}

func (a *budgets) Create(ctx context.Context, record *Budget) (*Budget, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *budgets) CreateTx(ctx context.Context, tx bun.IDB, record *Budget) (*Budget, error) {
	_, err := tx.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create budget")
	}
	return record, nil
}

// Update touches name and amount only: user_id is immutable, ownership
// never transfers.
func (a *budgets) Update(ctx context.Context, record *Budget) (*Budget, error) {
	now := time.Now()
	record.UpdatedAt = &now

	res, err := a.db.NewUpdate().
		Model(record).
		Column("name", "amount", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update budget")
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrBudgetNotFound
	}

	return record, nil
}

func (a *budgets) Delete(ctx context.Context, id int64) error {
	res, err := a.db.NewDelete().
		Model((*Budget)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete budget")
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrBudgetNotFound
	}

	return nil
}
