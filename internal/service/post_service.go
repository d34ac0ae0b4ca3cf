package service

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"ecoblog/internal/models"
	"ecoblog/internal/observability"
	"ecoblog/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Pagination defaults for ListPosts.
const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100
)

const (
	maxTitleLen = 300
	maxTextLen  = 50000
)

type PostService struct {
	postRepo repository.PostRepository
}

type ListPostsInput struct {
	Query    string
	Sort     string
	Page     int
	Limit    int
	ViewerID string
}

type CreatePostInput struct {
	AuthorID string
	Title    string
	Text     string
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// ListPosts returns one page of posts matching the query, projected for the viewer.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (_ *PostList, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "ListPosts")
	defer func() { observability.EndSpan(span, err) }()

	page, limit := normalizePage(in.Page, in.Limit)
	sort := in.Sort
	if sort != repository.SortLikes {
		sort = repository.SortDate
	}

	posts, total, err := s.postRepo.List(ctx, repository.PostFilter{
		Query:    strings.TrimSpace(in.Query),
		Sort:     sort,
		Limit:    limit,
		Offset:   (page - 1) * limit,
		ViewerID: in.ViewerID,
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, FormatPost(p, in.ViewerID))
	}
	return &PostList{Posts: views, Total: total}, nil
}

// GetPost returns the detail projection of a post with its comments.
func (s *PostService) GetPost(ctx context.Context, postID uint, viewerID string) (_ *PostDetailView, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "GetPost",
		attribute.Int64("post.id", int64(postID)))
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.postRepo.GetDetail(ctx, postID, viewerID)
	if err != nil {
		return nil, mapRepoError(err, "Post", postID)
	}
	view := FormatPostDetail(post, viewerID)
	return &view, nil
}

// CreatePost stores a new post with zeroed counters and returns it with no viewer.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (_ *PostView, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "CreatePost")
	defer func() { observability.EndSpan(span, err) }()

	if err := requireViewer(in.AuthorID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	text := strings.TrimSpace(in.Text)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if utf8.RuneCountInString(text) > maxTextLen {
		return nil, models.NewValidationError("Text too long (max 50000 characters)")
	}

	post := &models.Post{AuthorID: in.AuthorID, Title: title, Text: text}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.PostsCreated.Inc()

	created, err := s.postRepo.GetByID(ctx, post.ID, "")
	if err != nil {
		return nil, mapRepoError(err, "Post", post.ID)
	}
	view := FormatPost(created, "")
	return &view, nil
}

// ToggleLike flips the viewer's like on a post and returns the post as the viewer now sees it.
func (s *PostService) ToggleLike(ctx context.Context, postID uint, viewerID string) (_ *PostView, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "ToggleLike",
		attribute.Int64("post.id", int64(postID)))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireViewer(viewerID); err != nil {
		return nil, err
	}

	liked, err := s.postRepo.ToggleLike(ctx, postID, viewerID)
	if err != nil {
		return nil, mapRepoError(err, "Post", postID)
	}
	observability.RecordToggle("post", liked)
	span.SetAttributes(attribute.Bool("like.liked", liked))

	post, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if err != nil {
		return nil, mapRepoError(err, "Post", postID)
	}
	view := FormatPost(post, viewerID)
	return &view, nil
}

func normalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	// Keep (page-1)*limit from overflowing; such a page is past the end anyway.
	if page-1 > math.MaxInt/limit {
		page = math.MaxInt/limit + 1
	}
	return page, limit
}
