package server

import (
	"aura/internal/models"
	"aura/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		DisplayName    string `json:"display_name"`
		Bio            string `json:"bio"`
		Avatar         string `json:"avatar"`
		DefaultPrivacy string `json:"default_privacy"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:         userID,
		DisplayName:    req.DisplayName,
		Bio:            req.Bio,
		Avatar:         req.Avatar,
		DefaultPrivacy: models.Privacy(req.DefaultPrivacy),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetAllUsers handles GET /api/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	users, err := s.userService.ListUsers(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// SearchUsers handles GET /api/users/search?q=...
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	users, err := s.userService.SearchUsers(c.Context(), c.Query("q"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	viewerID := currentUserID(c)

	posts, err := s.contentService.UserPosts(c.Context(), id, viewerID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetUserAura handles GET /api/users/:id/aura
func (s *Server) GetUserAura(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	summary, err := s.ratingService.GetAura(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(summary)
}

// RateUser handles POST /api/users/:id/rate
func (s *Server) RateUser(c *fiber.Ctx) error {
	raterID := c.Locals("userID").(uint)
	rateeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Value int `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.ratingService.RateUser(c.Context(), raterID, rateeID, req.Value); err != nil {
		return respondServiceError(c, err)
	}

	summary, err := s.ratingService.GetAura(c.Context(), rateeID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(summary)
}

// GetSavedPosts handles GET /api/users/me/saved
func (s *Server) GetSavedPosts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	posts, err := s.engService.SavedPosts(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetFeatureFlags handles GET /api/feature-flags
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(s.featureFlags.Snapshot(currentUserID(c)))
}
