package server

import (
	"aura/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateList handles POST /api/lists
func (s *Server) CreateList(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Privacy     string `json:"privacy"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	list, err := s.collabService.CreateList(c.Context(), userID, req.Name, req.Description, models.Privacy(req.Privacy))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(list)
}

// GetMyLists handles GET /api/lists
func (s *Server) GetMyLists(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	lists, err := s.collabService.MyLists(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(lists)
}

// GetList handles GET /api/lists/:id
func (s *Server) GetList(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	listID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	list, err := s.collabService.GetList(c.Context(), listID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(list)
}

// UpdateList handles PUT /api/lists/:id
func (s *Server) UpdateList(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	listID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Privacy     string `json:"privacy"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	list, err := s.collabService.UpdateList(c.Context(), userID, listID, req.Name, req.Description, models.Privacy(req.Privacy))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(list)
}

// DeleteList handles DELETE /api/lists/:id
func (s *Server) DeleteList(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	listID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.collabService.DeleteList(c.Context(), userID, listID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetListPosts handles GET /api/lists/:id/posts
func (s *Server) GetListPosts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	listID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	posts, err := s.contentService.ListPosts(c.Context(), listID, userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetListMembers handles GET /api/lists/:id/members
func (s *Server) GetListMembers(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	listID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	members, err := s.collabService.ListMembers(c.Context(), userID, listID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(members)
}

// InviteToList handles POST /api/lists/:id/invites
func (s *Server) InviteToList(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	listID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	access, err := s.collabService.Invite(c.Context(), userID, listID, req.UserID, models.ListRole(req.Role))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(access)
}

// AcceptListInvite handles POST /api/invites/:id/accept
func (s *Server) AcceptListInvite(c *fiber.Ctx) error {
	return s.respondToInvite(c, true)
}

// RejectListInvite handles POST /api/invites/:id/reject
func (s *Server) RejectListInvite(c *fiber.Ctx) error {
	return s.respondToInvite(c, false)
}

func (s *Server) respondToInvite(c *fiber.Ctx, accept bool) error {
	userID := c.Locals("userID").(uint)
	accessID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	access, err := s.collabService.RespondToInvite(c.Context(), userID, accessID, accept)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(access)
}

// RequestListAccess handles POST /api/lists/:id/requests
func (s *Server) RequestListAccess(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	listID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Role    string `json:"role"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	request, err := s.collabService.RequestAccess(c.Context(), userID, listID, models.ListRole(req.Role), req.Message)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

// GetListAccessRequests handles GET /api/lists/:id/requests
func (s *Server) GetListAccessRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	listID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	requests, err := s.collabService.ListAccessRequests(c.Context(), userID, listID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

// ApproveListAccessRequest handles POST /api/access-requests/:id/approve
func (s *Server) ApproveListAccessRequest(c *fiber.Ctx) error {
	return s.respondToAccessRequest(c, true)
}

// DenyListAccessRequest handles POST /api/access-requests/:id/deny
func (s *Server) DenyListAccessRequest(c *fiber.Ctx) error {
	return s.respondToAccessRequest(c, false)
}

func (s *Server) respondToAccessRequest(c *fiber.Ctx, approve bool) error {
	userID := c.Locals("userID").(uint)
	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.collabService.RespondToAccessRequest(c.Context(), userID, requestID, approve); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RevokeListAccess handles DELETE /api/lists/:id/members/:userId
func (s *Server) RevokeListAccess(c *fiber.Ctx) error {
	ownerID := c.Locals("userID").(uint)
	listID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	memberID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.collabService.RevokeAccess(c.Context(), ownerID, listID, memberID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
