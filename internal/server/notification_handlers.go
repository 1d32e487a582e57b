package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	notifs, err := s.notifService.List(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(notifs)
}

// GetUnreadCount handles GET /api/notifications/unread-count
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	count, err := s.notifService.UnreadCount(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// MarkNotificationViewed handles POST /api/notifications/:id/read
func (s *Server) MarkNotificationViewed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	notifID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notifService.MarkViewed(c.Context(), userID, notifID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllNotificationsViewed handles POST /api/notifications/read-all
func (s *Server) MarkAllNotificationsViewed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.notifService.MarkAllViewed(c.Context(), userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
