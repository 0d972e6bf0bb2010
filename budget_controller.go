package cashtrackr

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
)

// BudgetController exposes budget CRUD for the authenticated principal.
type BudgetController struct {
	Logger  Logger
	Budgets Budgets
}

func NewBudgetController(budgets Budgets, logger Logger) *BudgetController {
	if budgets == nil {
		panic("Missing Budgets repository in budget controller...")
	}
	if logger == nil {
		logger = defLogger{}
	}
	return &BudgetController{Logger: logger, Budgets: budgets}
}

// RegisterBudgetRoutes mounts the budget endpoints under /budgets. Every
// route requires a bearer principal, and the id-addressed routes pass
// through the id, existence and ownership gates in that order.
func RegisterBudgetRoutes(app fiber.Router, controller *BudgetController, protected fiber.Handler) {
	group := app.Group("/budgets", protected)

	group.Get("/", controller.List)
	group.Post("/", controller.Create)

	byID := group.Group("/:budgetId",
		ValidateBudgetID(),
		ValidateBudgetExists(controller.Budgets),
		RequireBudgetOwner(),
	)

	byID.Get("/", controller.Show)
	byID.Put("/", controller.Update)
	byID.Delete("/", controller.Delete)
}

// BudgetPayload carries a budget create or update request.
type BudgetPayload struct {
	Name   string  `form:"name" json:"name"`
	Amount float64 `form:"amount" json:"amount"`
}

func (r BudgetPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Amount, validation.Required, validation.Min(0.01)),
	)
}

func (b *BudgetController) List(c *fiber.Ctx) error {
	user, ok := UserFromCtx(c)
	if !ok {
		return RespondError(c, ErrUnauthorized)
	}

	budgets, err := b.Budgets.ListByUser(c.Context(), user.ID)
	if err != nil {
		b.Logger.Error("List budgets error: %s", err)
		return RespondError(c, err)
	}

	return c.JSON(budgets)
}

func (b *BudgetController) Create(c *fiber.Ctx) error {
	user, ok := UserFromCtx(c)
	if !ok {
		return RespondError(c, ErrUnauthorized)
	}

	payload := BudgetPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return b.respondValidation(c, err)
	}

	if err := payload.Validate(); err != nil {
		return b.respondValidation(c, err)
	}

	record := &Budget{
		Name:   payload.Name,
		Amount: payload.Amount,
		UserID: user.ID,
	}

	if _, err := b.Budgets.Create(c.Context(), record); err != nil {
		b.Logger.Error("Create budget error: %s", err)
		return RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON("budget created successfully")
}

func (b *BudgetController) Show(c *fiber.Ctx) error {
	budget, ok := BudgetFromCtx(c)
	if !ok {
		return RespondError(c, ErrBudgetNotFound)
	}
	return c.JSON(budget)
}

func (b *BudgetController) Update(c *fiber.Ctx) error {
	budget, ok := BudgetFromCtx(c)
	if !ok {
		return RespondError(c, ErrBudgetNotFound)
	}

	payload := BudgetPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return b.respondValidation(c, err)
	}

	if err := payload.Validate(); err != nil {
		return b.respondValidation(c, err)
	}

	budget.Name = payload.Name
	budget.Amount = payload.Amount

	if _, err := b.Budgets.Update(c.Context(), budget); err != nil {
		b.Logger.Error("Update budget error: %s", err)
		return RespondError(c, err)
	}

	return c.JSON("budget updated successfully")
}

func (b *BudgetController) Delete(c *fiber.Ctx) error {
	budget, ok := BudgetFromCtx(c)
	if !ok {
		return RespondError(c, ErrBudgetNotFound)
	}

	if err := b.Budgets.Delete(c.Context(), budget.ID); err != nil {
		b.Logger.Error("Delete budget error: %s", err)
		return RespondError(c, err)
	}

	return c.JSON("budget deleted successfully")
}

func (b *BudgetController) respondValidation(c *fiber.Ctx, err error) error {
	return RespondError(c, validationError(err))
}
