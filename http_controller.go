package cashtrackr

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// AuthController exposes the account lifecycle over HTTP.
type AuthController struct {
	Logger  Logger
	Service *AccountService
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithAccountService(service *AccountService) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Service = service
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Service == nil {
		panic("Missing AccountService in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the account lifecycle endpoints under /auth.
// The protected handler guards the routes that require an authenticated
// principal.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController, protected fiber.Handler) {
	auth := app.Group("/auth")

	auth.Post("/create-account", controller.CreateAccount)
	auth.Post("/confirm-account", controller.ConfirmAccount)
	auth.Post("/login", controller.Login)
	auth.Post("/forgot-password", controller.ForgotPassword)
	auth.Post("/validate-token", controller.ValidateToken)
	auth.Post("/reset-password/:token", controller.ResetPassword)

	auth.Get("/user", protected, controller.CurrentUser)
	auth.Put("/user", protected, controller.UpdateUser)
	auth.Post("/update-password", protected, controller.UpdatePassword)
	auth.Post("/check-password", protected, controller.CheckPassword)
}

// CreateAccountPayload carries a registration request.
type CreateAccountPayload struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (r CreateAccountPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *AuthController) CreateAccount(c *fiber.Ctx) error {
	payload := CreateAccountPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return a.respondMalformedBody(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(c, err)
	}

	if err := a.Service.Register(c.Context(), payload.Email, payload.Password, payload.Name); err != nil {
		a.Logger.Error("CreateAccount error: %s", err)
		return RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON("account created successfully")
}

// TokenPayload carries a six digit confirmation or reset token.
type TokenPayload struct {
	Token string `form:"token" json:"token"`
}

func (r TokenPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required, validation.Length(OpaqueTokenLength, OpaqueTokenLength)),
	)
}

func (a *AuthController) ConfirmAccount(c *fiber.Ctx) error {
	payload := TokenPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return a.respondMalformedBody(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(c, err)
	}

	if err := a.Service.ConfirmAccount(c.Context(), payload.Token); err != nil {
		a.Logger.Error("ConfirmAccount error: %s", err)
		return RespondError(c, err)
	}

	return c.JSON("account confirmed successfully")
}

// LoginPayload carries an authentication request.
type LoginPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := LoginPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return a.respondMalformedBody(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(c, err)
	}

	token, err := a.Service.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Error("Login error: %s", err)
		return RespondError(c, err)
	}

	return c.JSON(token)
}

// EmailPayload carries a password reset request.
type EmailPayload struct {
	Email string `form:"email" json:"email"`
}

func (r EmailPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) ForgotPassword(c *fiber.Ctx) error {
	payload := EmailPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return a.respondMalformedBody(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(c, err)
	}

	if err := a.Service.RequestPasswordReset(c.Context(), payload.Email); err != nil {
		a.Logger.Error("ForgotPassword error: %s", err)
		return RespondError(c, err)
	}

	return c.JSON("check your e-mail for instructions")
}

func (a *AuthController) ValidateToken(c *fiber.Ctx) error {
	payload := TokenPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return a.respondMalformedBody(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(c, err)
	}

	if err := a.Service.ValidateResetToken(c.Context(), payload.Token); err != nil {
		a.Logger.Error("ValidateToken error: %s", err)
		return RespondError(c, resetTokenError(err))
	}

	return c.JSON("token is valid, assign a new password")
}

// PasswordPayload carries a bare new password.
type PasswordPayload struct {
	Password string `form:"password" json:"password"`
}

func (r PasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *AuthController) ResetPassword(c *fiber.Ctx) error {
	token := c.Params("token")

	if err := validation.Validate(token, validation.Required, validation.Length(OpaqueTokenLength, OpaqueTokenLength)); err != nil {
		return a.respondValidation(c, err)
	}

	payload := PasswordPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return a.respondMalformedBody(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(c, err)
	}

	if err := a.Service.ResetPassword(c.Context(), token, payload.Password); err != nil {
		a.Logger.Error("ResetPassword error: %s", err)
		return RespondError(c, resetTokenError(err))
	}

	return c.JSON("password updated successfully")
}

func (a *AuthController) CurrentUser(c *fiber.Ctx) error {
	user, ok := UserFromCtx(c)
	if !ok {
		return RespondError(c, ErrUnauthorized)
	}
	return c.JSON(user)
}

// UpdateUserPayload carries a profile update.
type UpdateUserPayload struct {
	Name  string `form:"name" json:"name"`
	Email string `form:"email" json:"email"`
}

func (r UpdateUserPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) UpdateUser(c *fiber.Ctx) error {
	user, ok := UserFromCtx(c)
	if !ok {
		return RespondError(c, ErrUnauthorized)
	}

	payload := UpdateUserPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return a.respondMalformedBody(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(c, err)
	}

	if _, err := a.Service.UpdateProfile(c.Context(), user.ID, payload.Email, payload.Name); err != nil {
		a.Logger.Error("UpdateUser error: %s", err)
		return RespondError(c, err)
	}

	return c.JSON("profile updated successfully")
}

// UpdatePasswordPayload carries a password change for an authenticated
// principal.
type UpdatePasswordPayload struct {
	CurrentPassword string `form:"current_password" json:"current_password"`
	Password        string `form:"password" json:"password"`
}

func (r UpdatePasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *AuthController) UpdatePassword(c *fiber.Ctx) error {
	user, ok := UserFromCtx(c)
	if !ok {
		return RespondError(c, ErrUnauthorized)
	}

	payload := UpdatePasswordPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return a.respondMalformedBody(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(c, err)
	}

	if err := a.Service.ChangePassword(c.Context(), user.ID, payload.CurrentPassword, payload.Password); err != nil {
		a.Logger.Error("UpdatePassword error: %s", err)
		return RespondError(c, err)
	}

	return c.JSON("password updated successfully")
}

// CheckPasswordPayload carries a password re-confirmation.
type CheckPasswordPayload struct {
	Password string `form:"password" json:"password"`
}

func (r CheckPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) CheckPassword(c *fiber.Ctx) error {
	user, ok := UserFromCtx(c)
	if !ok {
		return RespondError(c, ErrUnauthorized)
	}

	payload := CheckPasswordPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return a.respondMalformedBody(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(c, err)
	}

	if err := a.Service.CheckPassword(c.Context(), user.ID, payload.Password); err != nil {
		a.Logger.Error("CheckPassword error: %s", err)
		return RespondError(c, err)
	}

	return c.JSON("password is correct")
}

func (a *AuthController) respondMalformedBody(c *fiber.Ctx, err error) error {
	a.Logger.Debug("malformed request body: %s", err)
	return RespondError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid request body").
		WithCode(fiber.StatusBadRequest))
}

func (a *AuthController) respondValidation(c *fiber.Ctx, err error) error {
	return RespondError(c, validationError(err))
}

// resetTokenError remaps a rejected reset token so probing the password
// reset endpoints with an unknown token reads as a missing resource rather
// than an authentication failure.
func resetTokenError(err error) error {
	if goerrors.Is(err, ErrInvalidToken) {
		return goerrors.New(ErrInvalidToken.Message, goerrors.CategoryNotFound).
			WithTextCode(TextCodeInvalidToken).
			WithCode(goerrors.CodeNotFound)
	}
	return err
}
