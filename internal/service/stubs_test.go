package service

import (
	"context"
	"errors"
	"testing"

	"ecoblog/internal/models"
	"ecoblog/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn     func(context.Context, *models.Post) error
	getByIDFn    func(context.Context, uint, string) (*models.Post, error)
	getDetailFn  func(context.Context, uint, string) (*models.Post, error)
	listFn       func(context.Context, repository.PostFilter) ([]*models.Post, int64, error)
	toggleLikeFn func(context.Context, uint, string) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint, viewerID string) (*models.Post, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *postRepoStub) GetDetail(ctx context.Context, id uint, viewerID string) (*models.Post, error) {
	return s.getDetailFn(ctx, id, viewerID)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter) ([]*models.Post, int64, error) {
	return s.listFn(ctx, filter)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, postID uint, userID string) (bool, error) {
	return s.toggleLikeFn(ctx, postID, userID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:     func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:    func(_ context.Context, _ uint, _ string) (*models.Post, error) { return &models.Post{}, nil },
		getDetailFn:  func(_ context.Context, _ uint, _ string) (*models.Post, error) { return &models.Post{}, nil },
		listFn:       func(_ context.Context, _ repository.PostFilter) ([]*models.Post, int64, error) { return nil, 0, nil },
		toggleLikeFn: func(_ context.Context, _ uint, _ string) (bool, error) { return true, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint, string) (*models.Comment, error)
	listByPostFn func(context.Context, uint, string) ([]*models.Comment, error)
	toggleLikeFn func(context.Context, uint, uint, string) (bool, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint, viewerID string) (*models.Comment, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, viewerID string) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, viewerID)
}
func (s *commentRepoStub) ToggleLike(ctx context.Context, postID, commentID uint, userID string) (bool, error) {
	return s.toggleLikeFn(ctx, postID, commentID, userID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, _ uint, _ string) (*models.Comment, error) { return &models.Comment{}, nil },
		listByPostFn: func(_ context.Context, _ uint, _ string) ([]*models.Comment, error) { return nil, nil },
		toggleLikeFn: func(_ context.Context, _, _ uint, _ string) (bool, error) { return true, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	upsertFn func(context.Context, *models.User) error
}

func (s *userRepoStub) Upsert(ctx context.Context, user *models.User) error {
	return s.upsertFn(ctx, user)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeUnauthorized)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func assertInternalError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeInternal)
}
