package category

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/pharmacy-backend/internal/user"
	"github.com/wichananm65/pharmacy-backend/internal/validation"
)

const notFoundMessage = "The category with given id was not found"

type Handler struct {
	service *Service
	log     *zap.Logger
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,min=5,max=50"`
}

func NewHandler(s *Service, log *zap.Logger) *Handler {
	return &Handler{service: s, log: log}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/categories", h.getCategories)
	app.Get("/api/categories/:id", h.getCategory)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/categories", h.createCategory)
	app.Put("/api/categories/:id", h.updateCategory)
	app.Delete("/api/categories/:id", user.AdminOnly, h.deleteCategory)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return h.fail(c, "list categories", err)
	}
	return c.JSON(items)
}

func (h *Handler) getCategory(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invalid ID."})
	}

	item, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "get category", err)
	}
	return c.JSON(item)
}

func (h *Handler) createCategory(c *fiber.Ctx) error {
	payload := new(categoryRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errs := validation.Struct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	created, err := h.service.Create(c.UserContext(), payload.Name)
	if err != nil {
		return h.fail(c, "create category", err)
	}
	return c.JSON(created)
}

func (h *Handler) updateCategory(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invalid ID."})
	}

	payload := new(categoryRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errs := validation.Struct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	updated, err := h.service.Update(c.UserContext(), id, payload.Name)
	if err != nil {
		return h.fail(c, "update category", err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteCategory(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invalid ID."})
	}

	removed, err := h.service.Delete(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "delete category", err)
	}
	return c.JSON(removed)
}

func (h *Handler) fail(c *fiber.Ctx, op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": notFoundMessage})
	}
	h.log.Error(op, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "something failed"})
}
