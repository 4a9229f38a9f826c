package favorite

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/placora/backend/auth"
)

// Controller exposes the bookmark endpoints. Everything here is scoped to
// the signed-in account, so the whole group sits behind the guard.
type Controller struct {
	Logger       auth.Logger
	Repo         Favorites
	ErrorHandler fiber.ErrorHandler
}

// NewController builds a bookmark controller
func NewController(repo Favorites) *Controller {
	if repo == nil {
		panic("favorite: controller requires a repository")
	}

	return &Controller{
		Repo:         repo,
		ErrorHandler: auth.RespondError,
	}
}

// RegisterRoutes mounts the bookmark endpoints under /favorites
func RegisterRoutes(app fiber.Router, guard fiber.Handler, repo Favorites) {
	controller := NewController(repo)

	group := app.Group("/favorites", guard)
	group.Post("/", controller.Add)
	group.Get("/", controller.List)
	group.Delete("/:id", controller.Remove)
}

// AddRequest payload
type AddRequest struct {
	PlaceID string `json:"place_id"`
}

// Validate will run validation rules
func (r AddRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.PlaceID,
			validation.Required,
		),
	)
}

func (f *Controller) Add(c *fiber.Ctx) error {
	account, ok := auth.AccountFromRouter(c, "")
	if !ok {
		return f.ErrorHandler(c, auth.ErrUnauthenticated)
	}

	payload := new(AddRequest)
	if err := c.BodyParser(payload); err != nil {
		return f.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "invalid favorite payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return f.ErrorHandler(c, errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithCode(errors.CodeBadRequest))
	}

	placeID, err := uuid.Parse(payload.PlaceID)
	if err != nil {
		return f.ErrorHandler(c, errors.New("invalid place id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest))
	}

	record, err := f.Repo.Add(c.UserContext(), &Favorite{
		PlaceID: placeID,
		UserID:  account.ID,
	})
	if err != nil {
		return f.ErrorHandler(c, errors.Wrap(err, errors.CategoryInternal, "failed to add favorite"))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Place added to favorites",
		"favorite": record,
	})
}

func (f *Controller) List(c *fiber.Ctx) error {
	account, ok := auth.AccountFromRouter(c, "")
	if !ok {
		return f.ErrorHandler(c, auth.ErrUnauthenticated)
	}

	records, err := f.Repo.ListPlaces(c.UserContext(), account.ID)
	if err != nil {
		return f.ErrorHandler(c, errors.Wrap(err, errors.CategoryInternal, "failed to list favorites"))
	}

	return c.JSON(fiber.Map{"places": records})
}

func (f *Controller) Remove(c *fiber.Ctx) error {
	account, ok := auth.AccountFromRouter(c, "")
	if !ok {
		return f.ErrorHandler(c, auth.ErrUnauthenticated)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return f.ErrorHandler(c, errors.New("invalid favorite id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest))
	}

	record, err := f.Repo.Get(c.UserContext(), id)
	if err != nil {
		return f.ErrorHandler(c, err)
	}

	if err := auth.AuthorizeResource(account, record); err != nil {
		return f.ErrorHandler(c, err)
	}

	if err := f.Repo.Remove(c.UserContext(), id); err != nil {
		return f.ErrorHandler(c, errors.Wrap(err, errors.CategoryInternal, "failed to remove favorite"))
	}

	return c.JSON(fiber.Map{"message": "Favorite removed"})
}
