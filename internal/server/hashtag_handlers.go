package server

import (
	"aura/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetTrendingHashtags handles GET /api/hashtags/trending
func (s *Server) GetTrendingHashtags(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)

	tags, err := s.contentService.TrendingHashtags(c.Context(), limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tags)
}

// GetHashtagPosts handles GET /api/hashtags/:tag/posts
func (s *Server) GetHashtagPosts(c *fiber.Ctx) error {
	tag := c.Params("tag")
	if tag == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Hashtag is required"))
	}
	page := parsePagination(c, 20)
	viewerID := currentUserID(c)

	posts, err := s.contentService.HashtagPosts(c.Context(), tag, viewerID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// FollowHashtag handles POST /api/hashtags/:tag/follow
func (s *Server) FollowHashtag(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	tag := c.Params("tag")
	if tag == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Hashtag is required"))
	}

	if err := s.contentService.FollowHashtag(c.Context(), userID, tag); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnfollowHashtag handles DELETE /api/hashtags/:tag/follow
func (s *Server) UnfollowHashtag(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	tag := c.Params("tag")
	if tag == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Hashtag is required"))
	}

	if err := s.contentService.UnfollowHashtag(c.Context(), userID, tag); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetFollowedHashtags handles GET /api/hashtags/followed
func (s *Server) GetFollowedHashtags(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	tags, err := s.contentService.FollowedHashtags(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tags)
}
