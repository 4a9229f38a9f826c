package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// UsersController exposes account reads and self-service mutations
type UsersController struct {
	Logger       Logger
	Accounts     *Accounts
	Repo         RepositoryManager
	ContextKey   string
	ErrorHandler fiber.ErrorHandler
}

// RegisterUserRoutes mounts the user endpoints. Reads are public, the
// self-service endpoints run behind the guard.
func RegisterUserRoutes(app fiber.Router, guard fiber.Handler, accounts *Accounts, repo RepositoryManager) {
	controller := &UsersController{
		Logger:       defLogger{},
		Accounts:     accounts,
		Repo:         repo,
		ContextKey:   "user",
		ErrorHandler: RespondError,
	}

	group := app.Group("/users")
	group.Get("/", controller.List)
	group.Get("/:id", controller.Show)
	group.Patch("/me", guard, controller.UpdateProfile)
	group.Patch("/me/password", guard, controller.UpdatePassword)
	group.Delete("/me", guard, controller.Delete)
}

func (u *UsersController) List(c *fiber.Ctx) error {
	records, err := u.Repo.Users().List(c.UserContext())
	if err != nil {
		return u.ErrorHandler(c, errors.Wrap(err, errors.CategoryInternal, "failed to list users"))
	}
	return c.JSON(records)
}

func (u *UsersController) Show(c *fiber.Ctx) error {
	record, err := u.Repo.Users().GetByIdentifier(c.UserContext(), c.Params("id"))
	if err != nil {
		return u.ErrorHandler(c, err)
	}
	return c.JSON(record)
}

func (u *UsersController) UpdateProfile(c *fiber.Ctx) error {
	account, ok := AccountFromRouter(c, u.ContextKey)
	if !ok {
		return u.ErrorHandler(c, ErrUnauthenticated)
	}

	payload := new(ProfileUpdate)
	if err := c.BodyParser(payload); err != nil {
		return u.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "invalid profile payload").
			WithCode(errors.CodeBadRequest))
	}

	updated, err := u.Accounts.UpdateProfile(c.UserContext(), account, *payload)
	if err != nil {
		return u.ErrorHandler(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    updated,
	})
}

// UpdatePasswordRequest payload
type UpdatePasswordRequest struct {
	Password    string `json:"password"`
	NewPassword string `json:"new_password"`
}

// Validate will run validation rules
func (r UpdatePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Password,
			validation.Required,
		),
		validation.Field(
			&r.NewPassword,
			validation.Required,
			validation.Length(8, 72),
		),
	)
}

func (u *UsersController) UpdatePassword(c *fiber.Ctx) error {
	account, ok := AccountFromRouter(c, u.ContextKey)
	if !ok {
		return u.ErrorHandler(c, ErrUnauthenticated)
	}

	payload := new(UpdatePasswordRequest)
	if err := c.BodyParser(payload); err != nil {
		return u.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "invalid payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return u.ErrorHandler(c, errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithCode(errors.CodeBadRequest))
	}

	if err := u.Accounts.ChangePassword(c.UserContext(), account, payload.Password, payload.NewPassword); err != nil {
		return u.ErrorHandler(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

func (u *UsersController) Delete(c *fiber.Ctx) error {
	account, ok := AccountFromRouter(c, u.ContextKey)
	if !ok {
		return u.ErrorHandler(c, ErrUnauthenticated)
	}

	if err := u.Accounts.Delete(c.UserContext(), account); err != nil {
		return u.ErrorHandler(c, err)
	}

	return c.JSON(fiber.Map{"message": "User Deleted"})
}
