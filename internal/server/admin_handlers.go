package server

import (
	"errors"

	"aura/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AdminLogin handles POST /api/admin/login
func (s *Server) AdminLogin(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	session, err := s.adminService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "UNAUTHORIZED" {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
	})
}

// AdminLogout handles POST /api/admin/logout
func (s *Server) AdminLogout(c *fiber.Ctx) error {
	token := c.Locals("adminToken").(string)

	if err := s.adminService.Logout(c.Context(), token); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminAnalytics handles GET /api/admin/analytics
func (s *Server) AdminAnalytics(c *fiber.Ctx) error {
	analytics, err := s.adminService.Analytics(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(analytics)
}

// AdminAuditTrail handles GET /api/admin/audit-log
func (s *Server) AdminAuditTrail(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	entries, err := s.adminService.AuditTrail(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(entries)
}

// AdminFeatureFlags handles GET /api/admin/feature-flags
func (s *Server) AdminFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(s.featureFlags.Raw())
}

// AdminBanUser handles POST /api/admin/users/:id/ban
func (s *Server) AdminBanUser(c *fiber.Ctx) error {
	adminID := c.Locals("adminID").(uint)
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.adminService.BanUser(c.Context(), adminID, userID, req.Reason); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminUnbanUser handles POST /api/admin/users/:id/unban
func (s *Server) AdminUnbanUser(c *fiber.Ctx) error {
	adminID := c.Locals("adminID").(uint)
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.adminService.UnbanUser(c.Context(), adminID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminRemovePost handles DELETE /api/admin/posts/:id
func (s *Server) AdminRemovePost(c *fiber.Ctx) error {
	adminID := c.Locals("adminID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.adminService.RemovePost(c.Context(), adminID, postID, req.Reason); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminReverseAction handles POST /api/admin/actions/:id/reverse
func (s *Server) AdminReverseAction(c *fiber.Ctx) error {
	adminID := c.Locals("adminID").(uint)
	actionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.adminService.ReverseAction(c.Context(), adminID, actionID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminReviewQueue handles GET /api/admin/review-queue
func (s *Server) AdminReviewQueue(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	status := models.ReviewStatus(c.Query("status"))

	items, err := s.adminService.ReviewQueue(c.Context(), status, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(items)
}

// AdminAssignReview handles POST /api/admin/review-queue/:id/assign
func (s *Server) AdminAssignReview(c *fiber.Ctx) error {
	adminID := c.Locals("adminID").(uint)
	itemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.adminService.AssignReview(c.Context(), adminID, itemID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminResolveReview handles POST /api/admin/review-queue/:id/resolve
func (s *Server) AdminResolveReview(c *fiber.Ctx) error {
	adminID := c.Locals("adminID").(uint)
	itemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.adminService.ResolveReview(c.Context(), adminID, itemID, req.Notes); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
