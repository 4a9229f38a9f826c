package place

import (
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/placora/backend/auth"
)

// Controller exposes the listing endpoints. Reads are public, mutations sit
// behind the guard and the ownership policy, confirmation is admin only.
type Controller struct {
	Logger       auth.Logger
	Repo         Places
	ErrorHandler fiber.ErrorHandler
}

// NewController builds a listing controller
func NewController(repo Places) *Controller {
	if repo == nil {
		panic("place: controller requires a repository")
	}

	return &Controller{
		Repo:         repo,
		ErrorHandler: auth.RespondError,
	}
}

// RegisterRoutes mounts the listing endpoints under /places. The guard is
// applied per-route so reads stay public.
func RegisterRoutes(app fiber.Router, guard fiber.Handler, repo Places) {
	controller := NewController(repo)

	group := app.Group("/places")
	group.Get("/", controller.List)
	group.Get("/status", controller.ListByStatus)
	group.Get("/search", controller.Search)
	group.Get("/filter", controller.FilterByTypes)
	group.Get("/:id", controller.Get)

	group.Post("/", guard, controller.Create)
	group.Patch("/:id", guard, controller.Update)
	group.Delete("/:id", guard, controller.Delete)
	group.Post("/:id/confirm", guard, controller.Confirm)
}

// CreateRequest payload
type CreateRequest struct {
	Title       string    `json:"title"`
	Types       []string  `json:"types"`
	Tags        []string  `json:"tags"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Photos      []string  `json:"photos"`
	WorkDays    WorkDays  `json:"days_of_work"`
	WorkHours   WorkHours `json:"hours_of_work"`
	RestDays    []string  `json:"rest_days"`
	Phone       string    `json:"phone_number"`
	MapLink     string    `json:"map_link"`
}

// Validate will run validation rules
func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Title,
			validation.Required,
			validation.Length(1, 200),
		),
		validation.Field(
			&r.Types,
			validation.Required,
		),
		validation.Field(
			&r.Address,
			validation.Required,
		),
	)
}

func (p *Controller) Create(c *fiber.Ctx) error {
	account, ok := auth.AccountFromRouter(c, "")
	if !ok {
		return p.ErrorHandler(c, auth.ErrUnauthenticated)
	}

	payload := new(CreateRequest)
	if err := c.BodyParser(payload); err != nil {
		return p.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "invalid place payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return p.ErrorHandler(c, errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithCode(errors.CodeBadRequest))
	}

	record := &Place{
		UserID:      account.ID,
		Title:       payload.Title,
		Types:       payload.Types,
		Tags:        payload.Tags,
		Description: payload.Description,
		Address:     payload.Address,
		Photos:      payload.Photos,
		WorkDays:    payload.WorkDays,
		WorkHours:   payload.WorkHours,
		RestDays:    payload.RestDays,
		Phone:       payload.Phone,
		MapLink:     payload.MapLink,
	}

	created, err := p.Repo.Submit(c.UserContext(), record)
	if err != nil {
		return p.ErrorHandler(c, errors.Wrap(err, errors.CategoryInternal, "failed to create place"))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Place created, wait for confirmation from Admin.",
		"place":   created,
	})
}

func (p *Controller) List(c *fiber.Ctx) error {
	records, err := p.Repo.List(c.UserContext())
	if err != nil {
		return p.ErrorHandler(c, errors.Wrap(err, errors.CategoryInternal, "failed to list places"))
	}

	return c.JSON(fiber.Map{"places": records})
}

func (p *Controller) ListByStatus(c *fiber.Ctx) error {
	confirmed, err := strconv.ParseBool(c.Query("status"))
	if err != nil {
		return p.ErrorHandler(c, errors.New("invalid status value", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest))
	}

	records, err := p.Repo.ListByStatus(c.UserContext(), confirmed)
	if err != nil {
		return p.ErrorHandler(c, errors.Wrap(err, errors.CategoryInternal, "failed to list places"))
	}

	return c.JSON(fiber.Map{"places": records})
}

func (p *Controller) Search(c *fiber.Ctx) error {
	records, err := p.Repo.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return p.ErrorHandler(c, errors.Wrap(err, errors.CategoryInternal, "failed to search places"))
	}

	return c.JSON(fiber.Map{"places": records})
}

func (p *Controller) FilterByTypes(c *fiber.Ctx) error {
	raw := c.Query("type")
	var types []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}

	records, err := p.Repo.FilterByTypes(c.UserContext(), types)
	if err != nil {
		return p.ErrorHandler(c, errors.Wrap(err, errors.CategoryInternal, "failed to filter places"))
	}

	return c.JSON(fiber.Map{"places": records})
}

func (p *Controller) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return p.ErrorHandler(c, err)
	}

	record, err := p.Repo.Get(c.UserContext(), id)
	if err != nil {
		return p.ErrorHandler(c, err)
	}

	return c.JSON(fiber.Map{"place": record})
}

// UpdateRequest payload. Empty fields are left untouched.
type UpdateRequest struct {
	Title       string     `json:"title"`
	Types       []string   `json:"types"`
	Tags        []string   `json:"tags"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	Photos      []string   `json:"photos"`
	WorkDays    *WorkDays  `json:"days_of_work"`
	WorkHours   *WorkHours `json:"hours_of_work"`
	RestDays    []string   `json:"rest_days"`
	Phone       string     `json:"phone_number"`
	MapLink     string     `json:"map_link"`
}

func (p *Controller) Update(c *fiber.Ctx) error {
	account, ok := auth.AccountFromRouter(c, "")
	if !ok {
		return p.ErrorHandler(c, auth.ErrUnauthenticated)
	}

	id, err := parseID(c)
	if err != nil {
		return p.ErrorHandler(c, err)
	}

	payload := new(UpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return p.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "invalid place payload").
			WithCode(errors.CodeBadRequest))
	}

	record, err := p.Repo.Get(c.UserContext(), id)
	if err != nil {
		return p.ErrorHandler(c, err)
	}

	if err := auth.AuthorizeResource(account, record); err != nil {
		return p.ErrorHandler(c, err)
	}

	applyUpdate(record, payload)

	updated, err := p.Repo.Update(c.UserContext(), record)
	if err != nil {
		return p.ErrorHandler(c, errors.Wrap(err, errors.CategoryInternal, "failed to update place"))
	}

	return c.JSON(fiber.Map{
		"message": "Place updated successfully.",
		"place":   updated,
	})
}

func (p *Controller) Delete(c *fiber.Ctx) error {
	account, ok := auth.AccountFromRouter(c, "")
	if !ok {
		return p.ErrorHandler(c, auth.ErrUnauthenticated)
	}

	id, err := parseID(c)
	if err != nil {
		return p.ErrorHandler(c, err)
	}

	record, err := p.Repo.Get(c.UserContext(), id)
	if err != nil {
		return p.ErrorHandler(c, err)
	}

	if err := auth.AuthorizeResource(account, record); err != nil {
		return p.ErrorHandler(c, err)
	}

	if err := p.Repo.Remove(c.UserContext(), id); err != nil {
		return p.ErrorHandler(c, errors.Wrap(err, errors.CategoryInternal, "failed to delete place"))
	}

	return c.JSON(fiber.Map{"message": "Place removed."})
}

func (p *Controller) Confirm(c *fiber.Ctx) error {
	account, ok := auth.AccountFromRouter(c, "")
	if !ok {
		return p.ErrorHandler(c, auth.ErrUnauthenticated)
	}

	if err := auth.AuthorizeAdmin(account); err != nil {
		return p.ErrorHandler(c, err)
	}

	id, err := parseID(c)
	if err != nil {
		return p.ErrorHandler(c, err)
	}

	record, err := p.Repo.Confirm(c.UserContext(), id)
	if err != nil {
		return p.ErrorHandler(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Place confirmed successfully.",
		"place":   record,
	})
}

func applyUpdate(record *Place, in *UpdateRequest) {
	if in.Title != "" {
		record.Title = in.Title
	}
	if len(in.Types) > 0 {
		record.Types = in.Types
	}
	if len(in.Tags) > 0 {
		record.Tags = in.Tags
	}
	if in.Description != "" {
		record.Description = in.Description
	}
	if in.Address != "" {
		record.Address = in.Address
	}
	if len(in.Photos) > 0 {
		record.Photos = in.Photos
	}
	if in.WorkDays != nil {
		record.WorkDays = *in.WorkDays
	}
	if in.WorkHours != nil {
		record.WorkHours = *in.WorkHours
	}
	if len(in.RestDays) > 0 {
		record.RestDays = in.RestDays
	}
	if in.Phone != "" {
		record.Phone = in.Phone
	}
	if in.MapLink != "" {
		record.MapLink = in.MapLink
	}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, errors.New("invalid place id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}
	return id, nil
}
