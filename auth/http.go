package auth

import (
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// SessionCookieName is the cookie the signin handler sets alongside the
// JSON body, so browser clients keep working without local storage.
const SessionCookieName = "token"

// RespondError renders a rich error as a JSON response with the matching
// HTTP status. Unrecognized errors become opaque internal failures.
func RespondError(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = http.StatusInternalServerError
	}

	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"message":   richErr.Message,
			"text_code": richErr.TextCode,
			"category":  richErr.Category,
		},
	})
}

// AuthController exposes the account lifecycle over HTTP
type AuthController struct {
	Debug          bool
	Logger         Logger
	Accounts       *Accounts
	CookieDuration time.Duration
	ErrorHandler   fiber.ErrorHandler
}

// AuthControllerOption mutates controller construction
type AuthControllerOption func(*AuthController) *AuthController

// WithAccountsManager wires the lifecycle manager the controller fronts
func WithAccountsManager(accounts *Accounts) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Accounts = accounts
		return c
	}
}

// WithControllerLogger overrides the controller logger
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:         defLogger{},
		CookieDuration: 24 * time.Hour,
		ErrorHandler:   RespondError,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Accounts == nil {
		panic("Missing Accounts manager in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the lifecycle endpoints under /auth
func RegisterAuthRoutes(app fiber.Router, opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	group := app.Group("/auth")
	group.Post("/signup", controller.Signup)
	group.Get("/activate/:token", controller.Activate)
	group.Post("/signin", controller.Signin)
	group.Get("/user", controller.CurrentUser)
	group.Get("/signout", controller.Signout)
	group.Post("/forgot-password", controller.ForgotPassword)
	group.Post("/reset-password/:token", controller.ResetPassword)
}

// SignupRequest payload
type SignupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone_number"`
	Address   string `json:"address"`
}

// Validate will run validation rules
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(8, 72),
		),
		validation.Field(
			&r.FirstName,
			validation.Length(0, 120),
		),
	)
}

func (a *AuthController) Signup(c *fiber.Ctx) error {
	payload := new(SignupRequest)

	if err := c.BodyParser(payload); err != nil {
		return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "invalid signup payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithCode(errors.CodeBadRequest))
	}

	if a.Debug {
		fmt.Println("======= AUTH SIGNUP ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("==========================")
	}

	_, err := a.Accounts.Signup(c.UserContext(), SignupInput{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Password:  payload.Password,
		Phone:     payload.Phone,
		Address:   payload.Address,
	})
	if err != nil {
		return a.ErrorHandler(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created. Activation email sent.",
	})
}

func (a *AuthController) Activate(c *fiber.Ctx) error {
	token := c.Params("token")

	_, err := a.Accounts.Activate(c.UserContext(), token)
	if err != nil {
		if IsTokenExpired(err) {
			return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryAuth,
				"Activation link expired. Request a new confirmation email.").
				WithTextCode(TextCodeTokenExpired).
				WithCode(errors.CodeBadRequest))
		}
		return a.ErrorHandler(c, err)
	}

	return c.JSON(fiber.Map{"message": "Account activated successfully"})
}

// SigninRequest payload
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r SigninRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) Signin(c *fiber.Ctx) error {
	payload := new(SigninRequest)

	if err := c.BodyParser(payload); err != nil {
		return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "invalid signin payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithCode(errors.CodeBadRequest))
	}

	token, _, err := a.Accounts.Signin(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return a.ErrorHandler(c, err)
	}

	a.setSessionCookie(c, token)

	return c.JSON(fiber.Map{"token": token})
}

func (a *AuthController) CurrentUser(c *fiber.Ctx) error {
	user, err := a.Accounts.CurrentUser(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return a.ErrorHandler(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// Signout clears the client-side credential. Session tokens are stateless,
// there is nothing to revoke server-side.
func (a *AuthController) Signout(c *fiber.Ctx) error {
	a.clearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// ForgotPasswordRequest payload
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// Validate will run validation rules
func (r ForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
	)
}

func (a *AuthController) ForgotPassword(c *fiber.Ctx) error {
	payload := new(ForgotPasswordRequest)

	if err := c.BodyParser(payload); err != nil {
		return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "invalid payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithCode(errors.CodeBadRequest))
	}

	if err := a.Accounts.ForgotPassword(c.UserContext(), payload.Email); err != nil {
		return a.ErrorHandler(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password reset email sent"})
}

// ResetPasswordRequest payload
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// Validate will run validation rules
func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(8, 72),
		),
	)
}

func (a *AuthController) ResetPassword(c *fiber.Ctx) error {
	token := c.Params("token")
	payload := new(ResetPasswordRequest)

	if err := c.BodyParser(payload); err != nil {
		return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "invalid payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithCode(errors.CodeBadRequest))
	}

	if err := a.Accounts.ResetPassword(c.UserContext(), token, payload.Password); err != nil {
		return a.ErrorHandler(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password reset successful"})
}

func (a *AuthController) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(a.CookieDuration),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func (a *AuthController) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
