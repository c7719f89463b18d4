package product

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wichananm65/pharmacy-backend/internal/user"
	"github.com/wichananm65/pharmacy-backend/internal/validation"
)

const notFoundMessage = "The product with given id was not found"

type Handler struct {
	service *Service
	log     *zap.Logger
}

type productRequest struct {
	Name              string   `json:"name" validate:"required,min=5,max=50"`
	ManufacturerID    int      `json:"manufacturerId" validate:"required,gt=0"`
	CategoryID        int      `json:"categoryId" validate:"required,gt=0"`
	NumberInStock     *int     `json:"numberInStock" validate:"required,gte=0,lte=500"`
	ActiveIngredients []string `json:"activeIngredients" validate:"required,min=2,max=10,dive,min=5,max=50"`
	Rate              float64  `json:"rate" validate:"gte=0,lte=5"`
	Price             *float64 `json:"price" validate:"required,gte=0,lte=10000"`
	Description       string   `json:"description" validate:"required,min=50,max=500"`
	Images            []string `json:"images" validate:"max=10"`
}

func (r productRequest) toInput() Input {
	return Input{
		Name:              r.Name,
		ManufacturerID:    r.ManufacturerID,
		CategoryID:        r.CategoryID,
		NumberInStock:     *r.NumberInStock,
		ActiveIngredients: r.ActiveIngredients,
		Rate:              r.Rate,
		Price:             decimal.NewFromFloat(*r.Price).Round(2),
		Description:       r.Description,
		ImageIDs:          r.Images,
	}
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/products", h.getProducts)
	app.Get("/api/products/:id", h.getProduct)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/products", h.createProduct)
	app.Put("/api/products/:id", h.updateProduct)
	app.Delete("/api/products/:id", user.AdminOnly, h.deleteProduct)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	var f Filter
	if v := c.Query("categoryId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "categoryId must be a number"})
		}
		f.CategoryID = id
	}

	products, err := h.service.List(c.UserContext(), f)
	if err != nil {
		return h.fail(c, "list products", err)
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invalid ID."})
	}

	p, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "get product", err)
	}
	return c.JSON(p)
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	payload, ok, err := h.parse(c)
	if !ok {
		return err
	}

	created, err := h.service.Create(c.UserContext(), payload.toInput())
	if err != nil {
		return h.fail(c, "create product", err)
	}
	return c.JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invalid ID."})
	}

	payload, ok, err := h.parse(c)
	if !ok {
		return err
	}

	updated, err := h.service.Update(c.UserContext(), id, payload.toInput())
	if err != nil {
		return h.fail(c, "update product", err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invalid ID."})
	}

	removed, err := h.service.Delete(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "delete product", err)
	}
	return c.JSON(removed)
}

// parse reports ok=false once it has written the error response.
func (h *Handler) parse(c *fiber.Ctx) (productRequest, bool, error) {
	var payload productRequest
	if err := c.BodyParser(&payload); err != nil {
		return payload, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errs := validation.Struct(payload); errs != nil {
		return payload, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}
	return payload, true, nil
}

func (h *Handler) fail(c *fiber.Ctx, op string, err error) error {
	var imgErr *ImagesNotFoundError
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": notFoundMessage})
	case errors.Is(err, ErrManufacturerNotFound), errors.Is(err, ErrCategoryNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.As(err, &imgErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": imgErr.Messages})
	}
	h.log.Error(op, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "something failed"})
}
