package review

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/placora/backend/auth"
)

// Controller exposes the review endpoints
type Controller struct {
	Logger       auth.Logger
	Repo         Reviews
	ErrorHandler fiber.ErrorHandler
}

// NewController builds a review controller
func NewController(repo Reviews) *Controller {
	if repo == nil {
		panic("review: controller requires a repository")
	}

	return &Controller{
		Repo:         repo,
		ErrorHandler: auth.RespondError,
	}
}

// RegisterRoutes mounts the review endpoints. Listing a place's reviews is
// public, mutations go through the guard and the ownership policy.
func RegisterRoutes(app fiber.Router, guard fiber.Handler, repo Reviews) {
	controller := NewController(repo)

	group := app.Group("/reviews")
	group.Get("/place/:placeId", controller.ListByPlace)

	group.Post("/", guard, controller.Create)
	group.Patch("/:id", guard, controller.Update)
	group.Delete("/:id", guard, controller.Delete)
}

// CreateRequest payload
type CreateRequest struct {
	PlaceID string `json:"place_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Validate will run validation rules
func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.PlaceID,
			validation.Required,
		),
		validation.Field(
			&r.Rating,
			validation.Required,
			validation.Min(1),
			validation.Max(5),
		),
		validation.Field(
			&r.Comment,
			validation.Length(0, 2000),
		),
	)
}

func (rc *Controller) Create(c *fiber.Ctx) error {
	account, ok := auth.AccountFromRouter(c, "")
	if !ok {
		return rc.ErrorHandler(c, auth.ErrUnauthenticated)
	}

	payload := new(CreateRequest)
	if err := c.BodyParser(payload); err != nil {
		return rc.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "invalid review payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return rc.ErrorHandler(c, errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithCode(errors.CodeBadRequest))
	}

	placeID, err := uuid.Parse(payload.PlaceID)
	if err != nil {
		return rc.ErrorHandler(c, errors.New("invalid place id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest))
	}

	record, err := rc.Repo.Add(c.UserContext(), &Review{
		PlaceID: placeID,
		UserID:  account.ID,
		Rating:  payload.Rating,
		Comment: payload.Comment,
	})
	if err != nil {
		return rc.ErrorHandler(c, errors.Wrap(err, errors.CategoryInternal, "failed to add review"))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Review added successfully",
		"review":  record,
	})
}

func (rc *Controller) ListByPlace(c *fiber.Ctx) error {
	placeID, err := uuid.Parse(c.Params("placeId"))
	if err != nil {
		return rc.ErrorHandler(c, errors.New("invalid place id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest))
	}

	records, err := rc.Repo.ListByPlace(c.UserContext(), placeID)
	if err != nil {
		return rc.ErrorHandler(c, errors.Wrap(err, errors.CategoryInternal, "failed to list reviews"))
	}

	return c.JSON(fiber.Map{"reviews": records})
}

// UpdateRequest payload
type UpdateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Validate will run validation rules
func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Rating,
			validation.Min(0),
			validation.Max(5),
		),
		validation.Field(
			&r.Comment,
			validation.Length(0, 2000),
		),
	)
}

func (rc *Controller) Update(c *fiber.Ctx) error {
	account, ok := auth.AccountFromRouter(c, "")
	if !ok {
		return rc.ErrorHandler(c, auth.ErrUnauthenticated)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return rc.ErrorHandler(c, errors.New("invalid review id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest))
	}

	payload := new(UpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return rc.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "invalid review payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return rc.ErrorHandler(c, errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithCode(errors.CodeBadRequest))
	}

	record, err := rc.Repo.Get(c.UserContext(), id)
	if err != nil {
		return rc.ErrorHandler(c, err)
	}

	if err := auth.AuthorizeResource(account, record); err != nil {
		return rc.ErrorHandler(c, err)
	}

	if payload.Rating != 0 {
		record.Rating = payload.Rating
	}
	if payload.Comment != "" {
		record.Comment = payload.Comment
	}

	updated, err := rc.Repo.Update(c.UserContext(), record)
	if err != nil {
		return rc.ErrorHandler(c, errors.Wrap(err, errors.CategoryInternal, "failed to update review"))
	}

	return c.JSON(fiber.Map{"review": updated})
}

func (rc *Controller) Delete(c *fiber.Ctx) error {
	account, ok := auth.AccountFromRouter(c, "")
	if !ok {
		return rc.ErrorHandler(c, auth.ErrUnauthenticated)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return rc.ErrorHandler(c, errors.New("invalid review id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest))
	}

	record, err := rc.Repo.Get(c.UserContext(), id)
	if err != nil {
		return rc.ErrorHandler(c, err)
	}

	if err := auth.AuthorizeResource(account, record); err != nil {
		return rc.ErrorHandler(c, err)
	}

	if err := rc.Repo.Remove(c.UserContext(), id); err != nil {
		return rc.ErrorHandler(c, errors.Wrap(err, errors.CategoryInternal, "failed to delete review"))
	}

	return c.JSON(fiber.Map{"message": "Review deleted"})
}
