package server

import (
	"ecoblog/internal/middleware"
	"ecoblog/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListComments handles GET /api/posts/:id/comments
func (s *Server) ListComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), postID, middleware.ViewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		PostID:   postID,
		AuthorID: middleware.ViewerID(c),
		Text:     req.Text,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ToggleCommentLike handles POST /api/posts/:postId/comments/:commentId/like
func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.ToggleLike(c.UserContext(), postID, commentID, middleware.ViewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}
