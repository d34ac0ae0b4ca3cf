package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"ecoblog/internal/models"
	"ecoblog/internal/observability"
	"ecoblog/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
}

type CreateCommentInput struct {
	PostID   uint
	AuthorID string
	Text     string
}

func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

// ListComments returns the post's comments, newest first. An unknown post has no comments.
func (s *CommentService) ListComments(ctx context.Context, postID uint, viewerID string) (_ []CommentView, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "CommentService", "ListComments",
		attribute.Int64("post.id", int64(postID)))
	defer func() { observability.EndSpan(span, err) }()

	comments, err := s.commentRepo.ListByPost(ctx, postID, viewerID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, FormatComment(c, viewerID))
	}
	return views, nil
}

// CreateComment adds a comment to an existing post and returns it with no viewer.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (_ *CommentView, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "CommentService", "CreateComment",
		attribute.Int64("post.id", int64(in.PostID)))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireViewer(in.AuthorID); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if utf8.RuneCountInString(text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{PostID: in.PostID, AuthorID: in.AuthorID, Text: text}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, mapRepoError(err, "Post", in.PostID)
	}
	observability.CommentsCreated.Inc()

	created, err := s.commentRepo.GetByID(ctx, comment.ID, "")
	if err != nil {
		return nil, mapRepoError(err, "Comment", comment.ID)
	}
	view := FormatComment(created, "")
	return &view, nil
}

// ToggleLike flips the viewer's like on a comment belonging to postID.
func (s *CommentService) ToggleLike(ctx context.Context, postID, commentID uint, viewerID string) (_ *CommentView, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "CommentService", "ToggleLike",
		attribute.Int64("post.id", int64(postID)),
		attribute.Int64("comment.id", int64(commentID)))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireViewer(viewerID); err != nil {
		return nil, err
	}

	liked, err := s.commentRepo.ToggleLike(ctx, postID, commentID, viewerID)
	if err != nil {
		return nil, mapRepoError(err, "Comment", commentID)
	}
	observability.RecordToggle("comment", liked)
	span.SetAttributes(attribute.Bool("like.liked", liked))

	comment, err := s.commentRepo.GetByID(ctx, commentID, viewerID)
	if err != nil {
		return nil, mapRepoError(err, "Comment", commentID)
	}
	view := FormatComment(comment, viewerID)
	return &view, nil
}
