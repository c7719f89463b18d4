package order

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wichananm65/pharmacy-backend/internal/user"
	"github.com/wichananm65/pharmacy-backend/internal/validation"
)

// Handler exposes the order service over HTTP. Every route needs a token.
type Handler struct {
	service *Service
	timeout time.Duration
}

func NewHandler(s *Service, timeout time.Duration) *Handler {
	return &Handler{service: s, timeout: timeout}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/orders", h.getOrders)
	app.Get("/api/orders/:id", h.getOrder)
	app.Post("/api/orders", h.createOrder)
	app.Put("/api/orders/:id", h.updateOrder)
	app.Delete("/api/orders/:id", user.AdminOnly, h.deleteOrder)
}

type itemRequest struct {
	ProductID int `json:"productId" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,gte=1"`
}

type createOrderRequest struct {
	UserID int           `json:"userId" validate:"gte=0"`
	Items  []itemRequest `json:"items" validate:"required,min=1,max=50,dive"`
}

type updateOrderRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	who, err := requester(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Access denied. No token provided"})
	}

	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errs := validation.Struct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	// only admins may place an order on behalf of another user
	buyerID := who.ID
	if who.IsAdmin && payload.UserID != 0 {
		buyerID = payload.UserID
	}

	in := PlaceOrderInput{BuyerID: buyerID, Items: make([]ItemInput, 0, len(payload.Items))}
	for _, item := range payload.Items {
		in.Items = append(in.Items, ItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	created, err := h.service.PlaceOrder(ctx, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(created)
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	who, err := requester(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Access denied. No token provided"})
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	orders, err := h.service.ListOrders(ctx, who)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	who, err := requester(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Access denied. No token provided"})
	}
	id, ok := orderID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invalid ID."})
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	o, err := h.service.GetOrder(ctx, id, who)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(o)
}

func (h *Handler) updateOrder(c *fiber.Ctx) error {
	who, err := requester(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Access denied. No token provided"})
	}
	id, ok := orderID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invalid ID."})
	}

	payload := new(updateOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if errs := validation.Struct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	updated, err := h.service.UpdateOrderStatus(ctx, id, who, payload.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteOrder(c *fiber.Ctx) error {
	id, ok := orderID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invalid ID."})
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	removed, err := h.service.DeleteOrder(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(removed)
}

func (h *Handler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), h.timeout)
}

func requester(c *fiber.Ctx) (Requester, error) {
	id, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return Requester{}, err
	}
	return Requester{ID: id, IsAdmin: user.IsAdminFromCtx(c)}, nil
}

func orderID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrInsufficientStock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": ErrOperationFailed.Error()})
	}
}
