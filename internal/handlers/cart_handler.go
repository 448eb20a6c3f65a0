package handlers

import (
	"trego/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the caller's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{service: service, validate: validator.New()}
}

// RegisterRoutes registers the cart routes. The update-quantity and delete
// sub-paths are kept for the web client.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleListCart)
	cartRoutes.Post("/", h.HandleAddToCart)
	cartRoutes.Patch("/:id", h.HandleUpdateQuantity)
	cartRoutes.Patch("/:id/update-quantity", h.HandleUpdateQuantity)
	cartRoutes.Delete("/:id", h.HandleRemoveItem)
	cartRoutes.Delete("/:id/delete", h.HandleRemoveItem)
}

// AddToCartRequest is the body of POST /cart. A missing quantity means one.
type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  *int   `json:"quantity"`
}

// UpdateQuantityRequest is the body of PATCH /cart/:id.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *CartHandler) HandleListCart(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	items, err := h.service.ListItems(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req AddToCartRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := h.service.AddItem(c.UserContext(), p, req.ProductID, quantity)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req UpdateQuantityRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}

	item, err := h.service.UpdateQuantity(c.UserContext(), p, c.Params("id"), req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.service.RemoveItem(c.UserContext(), p, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
