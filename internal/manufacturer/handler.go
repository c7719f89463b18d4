package manufacturer

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/pharmacy-backend/internal/user"
	"github.com/wichananm65/pharmacy-backend/internal/validation"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

type manufacturerRequest struct {
	Name    string `json:"name" validate:"required,min=5,max=50"`
	Email   string `json:"email" validate:"required,min=5,max=255,email"`
	Mobile  string `json:"mobile" validate:"required,min=10,max=50,numeric"`
	Address string `json:"address" validate:"required,min=5,max=50"`
}

func (r manufacturerRequest) toManufacturer() Manufacturer {
	return Manufacturer{Name: r.Name, Email: r.Email, Mobile: r.Mobile, Address: r.Address}
}

func NewHandler(s *Service, log *zap.Logger) *Handler {
	return &Handler{service: s, log: log}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/manufacturers", h.getManufacturers)
	app.Get("/api/manufacturers/:id", h.getManufacturer)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/manufacturers", h.createManufacturer)
	app.Put("/api/manufacturers/:id", h.updateManufacturer)
	app.Delete("/api/manufacturers/:id", user.AdminOnly, h.deleteManufacturer)
}

func (h *Handler) getManufacturers(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return h.fail(c, "list manufacturers", err)
	}
	return c.JSON(items)
}

func (h *Handler) getManufacturer(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invalid ID."})
	}

	m, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "get manufacturer", err)
	}
	return c.JSON(m)
}

func (h *Handler) createManufacturer(c *fiber.Ctx) error {
	payload := new(manufacturerRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errs := validation.Struct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	created, err := h.service.Create(c.UserContext(), payload.toManufacturer())
	if err != nil {
		return h.fail(c, "create manufacturer", err)
	}
	return c.JSON(created)
}

func (h *Handler) updateManufacturer(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invalid ID."})
	}

	payload := new(manufacturerRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errs := validation.Struct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	updated, err := h.service.Update(c.UserContext(), id, payload.toManufacturer())
	if err != nil {
		return h.fail(c, "update manufacturer", err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteManufacturer(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invalid ID."})
	}

	removed, err := h.service.Delete(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "delete manufacturer", err)
	}
	return c.JSON(removed)
}

func (h *Handler) fail(c *fiber.Ctx, op string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "The manufacturer with given id was not found"})
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrMobileTaken), errors.Is(err, ErrAddressTaken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	h.log.Error(op, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "something failed"})
}
