package handlers

import (
	"fmt"

	"trego/internal/middleware"
	"trego/internal/models"
	"trego/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service, validate: validator.New()}
}

// RegisterRoutes registers the product routes. Reads are open to every
// authenticated caller, writes need the manage-catalog capability.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)

	manage := middleware.RequireCapability(models.CapManageCatalog)
	productRoutes.Post("/", manage, h.HandleCreateProduct)
	productRoutes.Put("/:id", manage, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", manage, h.HandleDeleteProduct)
}

// ProductRequest is the body for creating or replacing a product.
type ProductRequest struct {
	Name        string          `json:"name" validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *string         `json:"category_id" validate:"omitempty,uuid"`
	Image       string          `json:"image" validate:"omitempty,url,max=255"`
}

func (r ProductRequest) toModel(id string) *models.Product {
	return &models.Product{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		CategoryID:  r.CategoryID,
		Image:       r.Image,
	}
}

// HandleGetProducts lists products, optionally filtered by ?category_id=.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext(), c.Query("category_id"))
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(product)
}

func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	product := req.toModel("")
	if err := h.service.CreateProduct(c.UserContext(), product); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	if err := h.service.UpdateProduct(c.UserContext(), req.toModel(c.Params("id"))); err != nil {
		return err
	}
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(product)
}

func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted successfully", id),
	})
}

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service, validate: validator.New()}
}

func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategoryByID)

	manage := middleware.RequireCapability(models.CapManageCatalog)
	categoryRoutes.Post("/", manage, h.HandleCreateCategory)
	categoryRoutes.Put("/:id", manage, h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", manage, h.HandleDeleteCategory)
}

// CategoryRequest is the body for creating or renaming a category.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

func (h *CategoryHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	category, err := h.service.GetCategoryByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(category)
}

func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	category := &models.Category{Name: req.Name}
	if err := h.service.CreateCategory(c.UserContext(), category); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	if err := h.service.UpdateCategory(c.UserContext(), &models.Category{ID: c.Params("id"), Name: req.Name}); err != nil {
		return err
	}
	category, err := h.service.GetCategoryByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(category)
}

func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteCategory(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Category %s deleted successfully", id),
	})
}
