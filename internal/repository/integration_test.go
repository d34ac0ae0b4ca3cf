//go:build integration

package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"ecoblog/internal/config"
	"ecoblog/internal/database"
	"ecoblog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("ecoblog"),
		postgres.WithUsername("ecoblog"),
		postgres.WithPassword("ecoblog"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := database.Connect(&config.Config{
		Env:            "test",
		DBDriver:       config.DriverPostgres,
		DBHost:         host,
		DBPort:         port.Port(),
		DBUser:         "ecoblog",
		DBPassword:     "ecoblog",
		DBName:         "ecoblog",
		DBSSLMode:      "disable",
		DBMaxOpenConns: 32,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPostgres_ConcurrentToggles(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.User{ID: "author", Name: "Author"}).Error)
	post := &models.Post{AuthorID: "author", Title: "A", Text: "B"}
	require.NoError(t, db.Create(post).Error)
	comment := &models.Comment{PostID: post.ID, AuthorID: "author", Text: "hi"}
	require.NoError(t, db.Create(comment).Error)

	posts := NewPostRepository(db)
	comments := NewCommentRepository(db)

	const viewers = 20
	for i := 0; i < viewers; i++ {
		require.NoError(t, db.Create(&models.User{ID: fmt.Sprintf("viewer-%d", i), Name: "Viewer"}).Error)
	}
	var wg sync.WaitGroup
	errs := make(chan error, 2*viewers)
	for i := 0; i < viewers; i++ {
		wg.Add(2)
		viewer := fmt.Sprintf("viewer-%d", i)
		go func() {
			defer wg.Done()
			if _, err := posts.ToggleLike(ctx, post.ID, viewer); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := comments.ToggleLike(ctx, post.ID, comment.ID, viewer); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	var storedPost models.Post
	require.NoError(t, db.First(&storedPost, post.ID).Error)
	assert.Equal(t, viewers, storedPost.LikesCount)

	var storedComment models.Comment
	require.NoError(t, db.First(&storedComment, comment.ID).Error)
	assert.Equal(t, viewers, storedComment.LikesCount)

	var rows int64
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&rows).Error)
	assert.Equal(t, int64(viewers), rows)
}

func TestPostgres_SameViewerRaceKeepsCounterConsistent(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.User{ID: "author", Name: "Author"}).Error)
	post := &models.Post{AuthorID: "author", Title: "A", Text: "B"}
	require.NoError(t, db.Create(post).Error)

	require.NoError(t, db.Create(&models.User{ID: "viewer", Name: "Viewer"}).Error)
	posts := NewPostRepository(db)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := posts.ToggleLike(ctx, post.ID, "viewer")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	var rows int64
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&rows).Error)
	assert.Equal(t, int64(stored.LikesCount), rows)
	assert.Zero(t, rows)
}
