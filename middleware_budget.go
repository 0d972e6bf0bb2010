package cashtrackr

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// Budget route gates. They run in a fixed order on every /budgets/:budgetId
// route: well-formed id, then existence, then ownership. Each gate
// short-circuits before the next one runs, so a malformed id never touches
// the store and an existence probe never leaks whether a foreign budget
// exists before the ownership check rejects it.

// ValidateBudgetID rejects any budgetId path segment that is not a positive
// integer.
func ValidateBudgetID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("budgetId"), 10, 64)
		if err != nil || id <= 0 {
			return RespondError(c, goerrors.New(
				"invalid ID",
				goerrors.CategoryValidation,
			).WithTextCode("INVALID_BUDGET_ID").WithCode(fiber.StatusBadRequest))
		}
		return c.Next()
	}
}

// ValidateBudgetExists loads the budget named by the path and attaches it to
// the request context.
func ValidateBudgetExists(budgets Budgets) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("budgetId"), 10, 64)
		if err != nil {
			return RespondError(c, ErrBudgetNotFound)
		}

		budget, err := budgets.GetByID(c.Context(), id)
		if err != nil {
			return RespondError(c, err)
		}

		WithBudget(c, budget)

		return c.Next()
	}
}

// RequireBudgetOwner rejects requests whose authenticated principal does not
// own the budget attached by ValidateBudgetExists.
func RequireBudgetOwner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := UserFromCtx(c)
		if !ok {
			return RespondError(c, ErrUnauthorized)
		}

		budget, ok := BudgetFromCtx(c)
		if !ok {
			return RespondError(c, ErrBudgetNotFound)
		}

		if !budget.OwnedBy(user.ID) {
			return RespondError(c, ErrForbidden)
		}

		return c.Next()
	}
}
