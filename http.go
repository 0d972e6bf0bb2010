package cashtrackr

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// RespondError maps any error to its JSON wire shape. Rich errors carry
// their HTTP status in Code; anything else is treated as an internal fault
// and reported with a generic message so store and driver details never
// reach the client.
func RespondError(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "there was an error").
			WithCode(goerrors.CodeInternal)
	}

	status := richErr.Code
	if status < fiber.StatusBadRequest {
		status = fiber.StatusInternalServerError
	}

	message := richErr.Message
	if status >= fiber.StatusInternalServerError {
		message = "there was an error"
	}

	return c.Status(status).JSON(fiber.Map{"error": message})
}

// validationError wraps a payload validation failure with the 400 status
// the wire format expects. The ozzo message text becomes the client-facing
// error.
func validationError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
		WithCode(fiber.StatusBadRequest)
}

// ErrorHandler adapts RespondError to fiber's application level error hook,
// keeping fiber's own *fiber.Error statuses intact.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if ferr, ok := err.(*fiber.Error); ok {
		return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
	}
	return RespondError(c, err)
}
