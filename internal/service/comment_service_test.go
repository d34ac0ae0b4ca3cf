package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ecoblog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentService_CreateComment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopCommentRepo())
	ctx := context.Background()

	_, err := svc.CreateComment(ctx, CreateCommentInput{PostID: 1, AuthorID: "u1", Text: "  "})
	assertValidationError(t, err)

	_, err = svc.CreateComment(ctx, CreateCommentInput{PostID: 1, AuthorID: "u1", Text: strings.Repeat("x", 10001)})
	assertValidationError(t, err)

	_, err = svc.CreateComment(ctx, CreateCommentInput{PostID: 1, Text: "hi"})
	assertUnauthorizedError(t, err)
}

func TestCommentService_CreateComment_MissingPost(t *testing.T) {
	t.Parallel()

	repo := noopCommentRepo()
	repo.createFn = func(_ context.Context, _ *models.Comment) error { return gorm.ErrRecordNotFound }

	_, err := NewCommentService(repo).CreateComment(context.Background(), CreateCommentInput{PostID: 8, AuthorID: "u1", Text: "hi"})
	assertNotFoundError(t, err)
	assert.Contains(t, err.Error(), "Post with ID 8")
}

func TestCommentService_CreateComment_Success(t *testing.T) {
	t.Parallel()

	repo := noopCommentRepo()
	repo.createFn = func(_ context.Context, c *models.Comment) error {
		assert.Equal(t, "hi there", c.Text)
		c.ID = 3
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id uint, viewerID string) (*models.Comment, error) {
		assert.Empty(t, viewerID)
		return &models.Comment{ID: id, Text: "hi there", Author: &models.User{Name: "Ada"}}, nil
	}

	view, err := NewCommentService(repo).CreateComment(context.Background(), CreateCommentInput{PostID: 1, AuthorID: "u1", Text: " hi there "})
	require.NoError(t, err)
	assert.Equal(t, uint(3), view.ID)
	assert.Equal(t, "Ada", view.Author)
	assert.False(t, view.IsLiked)
}

func TestCommentService_ListComments(t *testing.T) {
	t.Parallel()

	repo := noopCommentRepo()
	svc := NewCommentService(repo)

	views, err := svc.ListComments(context.Background(), 999, "")
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)

	repo.listByPostFn = func(_ context.Context, _ uint, _ string) ([]*models.Comment, error) {
		return nil, errors.New("boom")
	}
	_, err = svc.ListComments(context.Background(), 1, "")
	assertInternalError(t, err)
}

func TestCommentService_ToggleLike(t *testing.T) {
	t.Parallel()

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		_, err := NewCommentService(noopCommentRepo()).ToggleLike(context.Background(), 1, 2, "")
		assertUnauthorizedError(t, err)
	})

	t.Run("missing comment", func(t *testing.T) {
		t.Parallel()
		repo := noopCommentRepo()
		repo.toggleLikeFn = func(_ context.Context, _, _ uint, _ string) (bool, error) {
			return false, gorm.ErrRecordNotFound
		}
		_, err := NewCommentService(repo).ToggleLike(context.Background(), 1, 2, "v")
		assertNotFoundError(t, err)
	})

	t.Run("reprojects for viewer", func(t *testing.T) {
		t.Parallel()
		repo := noopCommentRepo()
		var gotPost, gotComment uint
		repo.toggleLikeFn = func(_ context.Context, postID, commentID uint, _ string) (bool, error) {
			gotPost, gotComment = postID, commentID
			return true, nil
		}
		repo.getByIDFn = func(_ context.Context, id uint, viewerID string) (*models.Comment, error) {
			return &models.Comment{ID: id, LikesCount: 1, Likes: []models.CommentLike{{CommentID: id, UserID: viewerID}}}, nil
		}
		view, err := NewCommentService(repo).ToggleLike(context.Background(), 1, 2, "v")
		require.NoError(t, err)
		assert.Equal(t, uint(1), gotPost)
		assert.Equal(t, uint(2), gotComment)
		assert.True(t, view.IsLiked)
		assert.Equal(t, 1, view.Likes)
	})
}
