package repository

import (
	"context"

	"ecoblog/internal/database"
	"ecoblog/internal/models"
	"ecoblog/internal/observability"

	"gorm.io/gorm"
)

// Sort orders accepted by PostFilter.
const (
	SortDate  = "date"
	SortLikes = "likes"
)

// PostFilter selects one page of posts.
type PostFilter struct {
	Query    string
	Sort     string
	Limit    int
	Offset   int
	ViewerID string
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetByID loads a post with its author and, for a viewer, the viewer's like.
	GetByID(ctx context.Context, id uint, viewerID string) (*models.Post, error)
	// GetDetail additionally loads comments, newest first, with their authors.
	GetDetail(ctx context.Context, id uint, viewerID string) (*models.Post, error)
	// List returns one page and the number of posts matching the filter.
	List(ctx context.Context, filter PostFilter) ([]*models.Post, int64, error)
	// ToggleLike flips the viewer's like and reports whether the post is now liked.
	ToggleLike(ctx context.Context, postID uint, userID string) (bool, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db      *gorm.DB
	logger  *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{
		db:      db,
		logger:  observability.NewRepoLogger("posts"),
		metrics: observability.NewDatabaseMetrics(),
	}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer r.metrics.TrackQuery("create", "posts")()

	post.LikesCount = 0
	post.CommentsCount = 0
	if err := r.db.WithContext(ctx).Omit("Author").Create(post).Error; err != nil {
		r.logger.LogError(ctx, err, "create")
		return err
	}
	r.logger.LogCreate(ctx, map[string]any{"post_id": post.ID, "author_id": post.AuthorID})
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewerID string) (*models.Post, error) {
	defer r.metrics.TrackQuery("get", "posts")()

	var post models.Post
	q := viewerLikes(r.db.WithContext(ctx).Preload("Author"), "Likes", viewerID)
	if err := q.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetDetail(ctx context.Context, id uint, viewerID string) (*models.Post, error) {
	defer r.metrics.TrackQuery("get_detail", "posts")()

	q := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		Preload("Comments.Author")
	q = viewerLikes(q, "Likes", viewerID)
	q = viewerLikes(q, "Comments.Likes", viewerID)

	var post models.Post
	if err := q.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]*models.Post, int64, error) {
	defer r.metrics.TrackQuery("list", "posts")()

	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Post{})
		if filter.Query != "" {
			q = q.Where(titleMatch(r.db), containsPattern(filter.Query))
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	q := viewerLikes(filtered().Preload("Author"), "Likes", filter.ViewerID)
	err := applySort(q, filter.Sort).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// applySort appends the ORDER BY clause; unknown sorts fall back to newest first.
func applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case SortLikes:
		return db.Order("likes_count DESC, id DESC")
	default:
		return db.Order("created_at DESC, id DESC")
	}
}

func (r *postRepository) ToggleLike(ctx context.Context, postID uint, userID string) (bool, error) {
	defer r.metrics.TrackQuery("toggle_like", "likes")()

	liked, err := r.toggleLike(ctx, postID, userID)
	if err != nil && database.IsUniqueViolation(err) {
		// A concurrent toggle inserted the same row first; a fresh attempt sees it and removes it.
		observability.ToggleRetries.WithLabelValues("post").Inc()
		liked, err = r.toggleLike(ctx, postID, userID)
	}
	if err != nil {
		r.logger.LogError(ctx, err, "toggle_like")
		return false, err
	}

	fields := map[string]any{"post_id": postID, "user_id": userID}
	if liked {
		r.logger.LogCreate(ctx, fields)
	} else {
		r.logger.LogDelete(ctx, fields)
	}
	return liked, nil
}

func (r *postRepository) toggleLike(ctx context.Context, postID uint, userID string) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Post{}, postID).Error; err != nil {
			return err
		}

		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return adjustCounter(tx, &models.Post{}, postID, "likes_count", -1)
		}

		if err := tx.Create(&models.Like{PostID: postID, UserID: userID}).Error; err != nil {
			if database.IsForeignKeyViolation(err) {
				return gorm.ErrRecordNotFound
			}
			return err
		}
		liked = true
		return adjustCounter(tx, &models.Post{}, postID, "likes_count", 1)
	})
	return liked, err
}
