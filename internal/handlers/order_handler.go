package handlers

import (
	"fmt"

	"trego/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/order-history", h.HandleGetOrders)
	orderRoutes.Post("/checkout", h.HandleCheckout)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/:id/process-payment", h.HandleProcessPayment)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
}

// HandleGetOrders lists the orders visible to the caller, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	orders, err := h.service.ListOrders(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	order, err := h.service.GetOrder(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(order)
}

// HandleCheckout converts the caller's cart into orders.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	result, err := h.service.Checkout(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": fmt.Sprintf("Order placed successfully: %d item(s)", len(result.Orders)),
		"orders":  result.Orders,
		"total":   result.Total,
	})
}

// HandleProcessPayment settles a pending order.
func (h *OrderHandler) HandleProcessPayment(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	order, err := h.service.ProcessPayment(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Payment processed, order %s shipped", order.ID),
		"order":   order,
	})
}

// HandleCancelOrder cancels a pending order.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	order, err := h.service.CancelOrder(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s cancelled", order.ID),
		"order":   order,
	})
}
