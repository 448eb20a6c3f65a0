package handlers

import (
	"trego/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProfileHandler serves the caller's own profile.
type ProfileHandler struct {
	service  *services.ProfileService
	validate *validator.Validate
}

func NewProfileHandler(service *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service, validate: validator.New()}
}

func (h *ProfileHandler) RegisterRoutes(router fiber.Router) {
	profileRoutes := router.Group("/profiles")
	profileRoutes.Get("/me", h.HandleGetProfile)
	profileRoutes.Patch("/me", h.HandleUpdateProfile)
}

// UpdateProfileRequest is the body of PATCH /profiles/me.
type UpdateProfileRequest struct {
	Bio string `json:"bio" validate:"max=500"`
}

func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	user, err := h.service.GetProfile(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *ProfileHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}
	user, err := h.service.UpdateBio(c.UserContext(), p, req.Bio)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
