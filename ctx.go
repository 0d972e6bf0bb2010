package cashtrackr

import (
	"github.com/gofiber/fiber/v2"
)

// Locals keys are unexported types so middleware state can only move
// through the typed helpers below, never through ad-hoc request bag keys.
var userCtxKey = &contextKey{"user"}
var budgetCtxKey = &contextKey{"budget"}

type contextKey struct {
	name string
}

func (k *contextKey) String() string { return "cashtrackr context key " + k.name }

// WithUser stores the authenticated principal on the request.
func WithUser(c *fiber.Ctx, user *User) {
	c.Locals(userCtxKey, user)
}

// UserFromCtx returns the principal the authentication middleware resolved
// for this request.
func UserFromCtx(c *fiber.Ctx) (*User, bool) {
	user, ok := c.Locals(userCtxKey).(*User)
	return user, ok && user != nil
}

// WithBudget stores the path-addressed budget once the ownership gate has
// loaded and vetted it.
func WithBudget(c *fiber.Ctx, budget *Budget) {
	c.Locals(budgetCtxKey, budget)
}

// BudgetFromCtx returns the budget resolved by the ownership middleware.
func BudgetFromCtx(c *fiber.Ctx) (*Budget, bool) {
	budget, ok := c.Locals(budgetCtxKey).(*Budget)
	return budget, ok && budget != nil
}
