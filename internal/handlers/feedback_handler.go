package handlers

import (
	"trego/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// FeedbackHandler handles product feedback.
type FeedbackHandler struct {
	service  *services.FeedbackService
	validate *validator.Validate
}

func NewFeedbackHandler(service *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service, validate: validator.New()}
}

func (h *FeedbackHandler) RegisterRoutes(router fiber.Router) {
	feedbackRoutes := router.Group("/feedback")
	feedbackRoutes.Get("/", h.HandleListFeedback)
	feedbackRoutes.Post("/", h.HandleSubmitFeedback)
}

// FeedbackRequest is the body of POST /feedback.
type FeedbackRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=1000"`
}

func (h *FeedbackHandler) HandleSubmitFeedback(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req FeedbackRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	fb, err := h.service.Submit(c.UserContext(), p, req.ProductID, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fb)
}

func (h *FeedbackHandler) HandleListFeedback(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	list, err := h.service.List(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(list)
}
