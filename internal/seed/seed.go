// Package seed populates the database with demo users, posts, comments and likes.
// Everything is written through the services so the denormalized counters stay
// consistent with the membership rows.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ecoblog/internal/auth"
	"ecoblog/internal/models"
	"ecoblog/internal/observability"
	"ecoblog/internal/repository"
	"ecoblog/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers           int
	NumPosts           int
	MaxCommentsPerPost int
	// LikeChance is the probability that a given user likes a given post or comment.
	LikeChance float64
}

// DefaultOptions is a small, browsable data set.
var DefaultOptions = Options{
	NumUsers:           20,
	NumPosts:           50,
	MaxCommentsPerPost: 5,
	LikeChance:         0.2,
}

// Result counts what a run created.
type Result struct {
	Users    int
	Posts    int
	Comments int
	Likes    int
}

// Seeder generates demo data with a deterministic faker.
type Seeder struct {
	db       *gorm.DB
	users    *service.UserService
	posts    *service.PostService
	comments *service.CommentService
	faker    *gofakeit.Faker
}

// NewSeeder creates a Seeder bound to db. The same seed yields the same content.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	return &Seeder{
		db:       db,
		users:    service.NewUserService(repository.NewUserRepository(db)),
		posts:    service.NewPostService(repository.NewPostRepository(db)),
		comments: service.NewCommentService(repository.NewCommentRepository(db)),
		faker:    gofakeit.New(seed),
	}
}

// ClearAll deletes every row, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	observability.Logger.InfoContext(ctx, "clearing existing data")
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{
		&models.CommentLike{},
		&models.Like{},
		&models.Comment{},
		&models.Post{},
		&models.User{},
	} {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run creates users, then posts by random authors, then comments and likes.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.NumUsers <= 0 {
		return nil, fmt.Errorf("seed needs at least one user, got %d", opts.NumUsers)
	}

	res := &Result{}

	users, err := s.seedUsers(ctx, opts.NumUsers)
	if err != nil {
		return res, err
	}
	res.Users = len(users)

	for i := 0; i < opts.NumPosts; i++ {
		author := users[s.faker.IntRange(0, len(users)-1)]
		post, err := s.posts.CreatePost(ctx, service.CreatePostInput{
			AuthorID: author.ID,
			Title:    strings.TrimSuffix(s.faker.Sentence(s.faker.IntRange(3, 8)), "."),
			Text:     s.faker.Paragraph(s.faker.IntRange(1, 3), 4, 12, "\n\n"),
		})
		if err != nil {
			return res, fmt.Errorf("create post: %w", err)
		}
		res.Posts++

		comments, likes, err := s.seedEngagement(ctx, post.ID, users, opts)
		res.Comments += comments
		res.Likes += likes
		if err != nil {
			return res, err
		}
	}

	observability.Logger.InfoContext(ctx, "seeding complete",
		slog.Int("users", res.Users),
		slog.Int("posts", res.Posts),
		slog.Int("comments", res.Comments),
		slog.Int("likes", res.Likes),
	)
	return res, nil
}

func (s *Seeder) seedUsers(ctx context.Context, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := s.users.EnsureUser(ctx, auth.Identity{
			Subject: s.faker.UUID(),
			Name:    s.faker.Name(),
			Email:   s.faker.Email(),
		})
		if err != nil {
			return users, fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedEngagement(ctx context.Context, postID uint, users []*models.User, opts Options) (comments, likes int, err error) {
	for _, u := range users {
		if s.faker.Float64Range(0, 1) >= opts.LikeChance {
			continue
		}
		if _, err := s.posts.ToggleLike(ctx, postID, u.ID); err != nil {
			return comments, likes, fmt.Errorf("like post: %w", err)
		}
		likes++
	}

	if opts.MaxCommentsPerPost <= 0 {
		return comments, likes, nil
	}
	for i := s.faker.IntRange(0, opts.MaxCommentsPerPost); i > 0; i-- {
		author := users[s.faker.IntRange(0, len(users)-1)]
		comment, err := s.comments.CreateComment(ctx, service.CreateCommentInput{
			PostID:   postID,
			AuthorID: author.ID,
			Text:     s.faker.Sentence(s.faker.IntRange(4, 20)),
		})
		if err != nil {
			return comments, likes, fmt.Errorf("create comment: %w", err)
		}
		comments++

		for _, u := range users {
			if s.faker.Float64Range(0, 1) >= opts.LikeChance {
				continue
			}
			if _, err := s.comments.ToggleLike(ctx, postID, comment.ID, u.ID); err != nil {
				return comments, likes, fmt.Errorf("like comment: %w", err)
			}
			likes++
		}
	}
	return comments, likes, nil
}
