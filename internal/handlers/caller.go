package handlers

import (
	"trego/internal/apperr"
	"trego/internal/middleware"
	"trego/internal/models"

	"github.com/gofiber/fiber/v2"
)

// caller returns the authenticated principal of the request.
func caller(c *fiber.Ctx) (models.Principal, error) {
	p, ok := middleware.Principal(c)
	if !ok {
		return models.Principal{}, apperr.Unauthorized("not authenticated")
	}
	return p, nil
}
