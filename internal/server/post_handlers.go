package server

import (
	"time"

	"aura/internal/models"
	"aura/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title         string   `json:"title"`
		Content       string   `json:"content"`
		ListID        uint     `json:"list_id"`
		Privacy       string   `json:"privacy"`
		LinkURL       string   `json:"link_url,omitempty"`
		MediaURL      string   `json:"media_url,omitempty"`
		EventDate     *string  `json:"event_date,omitempty"`
		Recurrence    string   `json:"recurrence,omitempty"`
		TaskList      string   `json:"task_list,omitempty"`
		AllowRSVP     bool     `json:"allow_rsvp"`
		Hashtags      []string `json:"hashtags,omitempty"`
		TaggedUserIDs []uint   `json:"tagged_user_ids,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var eventDate *time.Time
	if req.EventDate != nil && *req.EventDate != "" {
		parsed, err := time.Parse(time.RFC3339, *req.EventDate)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("event_date must be RFC3339"))
		}
		eventDate = &parsed
	}

	post, err := s.contentService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:        userID,
		Title:         req.Title,
		Content:       req.Content,
		ListID:        req.ListID,
		Privacy:       models.Privacy(req.Privacy),
		LinkURL:       req.LinkURL,
		MediaURL:      req.MediaURL,
		EventDate:     eventDate,
		Recurrence:    req.Recurrence,
		TaskList:      req.TaskList,
		AllowRSVP:     req.AllowRSVP,
		Hashtags:      req.Hashtags,
		TaggedUserIDs: req.TaggedUserIDs,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetFeed handles GET /api/posts
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	viewerID := currentUserID(c)

	posts, err := s.contentService.Feed(c.Context(), viewerID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID := currentUserID(c)

	post, err := s.contentService.GetPost(c.Context(), id, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// SearchPosts handles GET /api/posts/search?q=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 10)
	viewerID := currentUserID(c)

	posts, err := s.contentService.SearchPosts(c.Context(), c.Query("q"), viewerID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Privacy  string `json:"privacy"`
		LinkURL  string `json:"link_url,omitempty"`
		MediaURL string `json:"media_url,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.contentService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:   userID,
		PostID:   postID,
		Title:    req.Title,
		Content:  req.Content,
		Privacy:  models.Privacy(req.Privacy),
		LinkURL:  req.LinkURL,
		MediaURL: req.MediaURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.contentService.DeletePost(c.Context(), userID, postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// refreshedPost reloads a post after an engagement change so the response
// carries updated counters.
func (s *Server) refreshedPost(c *fiber.Ctx, postID, userID uint) error {
	post, err := s.contentService.GetPost(c.Context(), postID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.engService.Like(c.Context(), userID, postID); err != nil {
		return respondServiceError(c, err)
	}
	return s.refreshedPost(c, postID, userID)
}

// UnlikePost handles DELETE /api/posts/:id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.engService.Unlike(c.Context(), userID, postID); err != nil {
		return respondServiceError(c, err)
	}
	return s.refreshedPost(c, postID, userID)
}

// SavePost handles POST /api/posts/:id/save
func (s *Server) SavePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.engService.Save(c.Context(), userID, postID); err != nil {
		return respondServiceError(c, err)
	}
	return s.refreshedPost(c, postID, userID)
}

// UnsavePost handles DELETE /api/posts/:id/save
func (s *Server) UnsavePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.engService.Unsave(c.Context(), userID, postID); err != nil {
		return respondServiceError(c, err)
	}
	return s.refreshedPost(c, postID, userID)
}

// SharePost handles POST /api/posts/:id/share
func (s *Server) SharePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.engService.Share(c.Context(), userID, postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RepostPost handles POST /api/posts/:id/repost
func (s *Server) RepostPost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.engService.Repost(c.Context(), userID, postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ViewPost handles POST /api/posts/:id/view
func (s *Server) ViewPost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.engService.RecordView(c.Context(), userID, postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// FlagPost handles POST /api/posts/:id/flag
func (s *Server) FlagPost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
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

	result, err := s.modService.FlagPost(c.Context(), userID, postID, req.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// RSVPToPost handles POST /api/posts/:id/rsvp
func (s *Server) RSVPToPost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.engService.RSVP(c.Context(), userID, postID, models.RSVPStatus(req.Status)); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetRSVPs handles GET /api/posts/:id/rsvps
func (s *Server) GetRSVPs(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID := currentUserID(c)

	rsvps, err := s.engService.ListRSVPs(c.Context(), viewerID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(rsvps)
}
