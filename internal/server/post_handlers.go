package server

import (
	"ecoblog/internal/middleware"
	"ecoblog/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListPosts handles GET /api/posts?query=&sort=&page=&limit=
func (s *Server) ListPosts(c *fiber.Ctx) error {
	list, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Query:    c.Query("query"),
		Sort:     c.Query("sort"),
		Page:     c.QueryInt("page", service.DefaultPage),
		Limit:    c.QueryInt("limit", service.DefaultLimit),
		ViewerID: middleware.ViewerID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), postID, middleware.ViewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: middleware.ViewerID(c),
		Title:    req.Title,
		Text:     req.Text,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// TogglePostLike handles POST /api/posts/:id/like
func (s *Server) TogglePostLike(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.ToggleLike(c.UserContext(), postID, middleware.ViewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}
