package repository

import (
	"context"

	"ecoblog/internal/database"
	"ecoblog/internal/models"
	"ecoblog/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	// Create inserts the comment and bumps the parent's comments_count in one transaction.
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint, viewerID string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, viewerID string) ([]*models.Comment, error)
	// ToggleLike flips the viewer's like on a comment of postID.
	ToggleLike(ctx context.Context, postID, commentID uint, userID string) (bool, error)
}

type commentRepository struct {
	db      *gorm.DB
	logger  *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{
		db:      db,
		logger:  observability.NewRepoLogger("comments"),
		metrics: observability.NewDatabaseMetrics(),
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer r.metrics.TrackQuery("create", "comments")()

	comment.LikesCount = 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Post{}, comment.PostID).Error; err != nil {
			return err
		}
		if err := tx.Omit("Author").Create(comment).Error; err != nil {
			if database.IsForeignKeyViolation(err) {
				return gorm.ErrRecordNotFound
			}
			return err
		}
		return adjustCounter(tx, &models.Post{}, comment.PostID, "comments_count", 1)
	})
	if err != nil {
		r.logger.LogError(ctx, err, "create")
		return err
	}

	r.logger.LogCreate(ctx, map[string]any{"comment_id": comment.ID, "post_id": comment.PostID})
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint, viewerID string) (*models.Comment, error) {
	defer r.metrics.TrackQuery("get", "comments")()

	var comment models.Comment
	q := viewerLikes(r.db.WithContext(ctx).Preload("Author"), "Likes", viewerID)
	if err := q.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint, viewerID string) ([]*models.Comment, error) {
	defer r.metrics.TrackQuery("list", "comments")()

	var comments []*models.Comment
	q := viewerLikes(r.db.WithContext(ctx).Preload("Author"), "Likes", viewerID)
	err := q.Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) ToggleLike(ctx context.Context, postID, commentID uint, userID string) (bool, error) {
	defer r.metrics.TrackQuery("toggle_like", "comment_likes")()

	liked, err := r.toggleLike(ctx, postID, commentID, userID)
	if err != nil && database.IsUniqueViolation(err) {
		observability.ToggleRetries.WithLabelValues("comment").Inc()
		liked, err = r.toggleLike(ctx, postID, commentID, userID)
	}
	if err != nil {
		r.logger.LogError(ctx, err, "toggle_like")
		return false, err
	}

	fields := map[string]any{"comment_id": commentID, "user_id": userID}
	if liked {
		r.logger.LogCreate(ctx, fields)
	} else {
		r.logger.LogDelete(ctx, fields)
	}
	return liked, nil
}

func (r *commentRepository) toggleLike(ctx context.Context, postID, commentID uint, userID string) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Select("id").
			Where("id = ? AND post_id = ?", commentID, postID).
			First(&models.Comment{}).Error
		if err != nil {
			return err
		}

		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return adjustCounter(tx, &models.Comment{}, commentID, "likes_count", -1)
		}

		if err := tx.Create(&models.CommentLike{CommentID: commentID, UserID: userID}).Error; err != nil {
			if database.IsForeignKeyViolation(err) {
				return gorm.ErrRecordNotFound
			}
			return err
		}
		liked = true
		return adjustCounter(tx, &models.Comment{}, commentID, "likes_count", 1)
	})
	return liked, err
}
