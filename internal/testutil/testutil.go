// Package testutil holds shared helpers for package tests.
package testutil

import (
	"fmt"
	"testing"

	"ecoblog/internal/config"
	"ecoblog/internal/database"
	"ecoblog/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewSQLiteDB returns a migrated, private in-memory database closed at test end.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Env:          "test",
		DBDriver:     config.DriverSQLite,
		DBSQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
	db, err := database.Connect(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with the given id and name.
func CreateUser(t testing.TB, db *gorm.DB, id, name string) *models.User {
	t.Helper()
	user := &models.User{ID: id, Name: name}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateUsers inserts one user per id, named after the id.
func CreateUsers(t testing.TB, db *gorm.DB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		CreateUser(t, db, id, id)
	}
}

// CreatePost inserts a post authored by authorID.
func CreatePost(t testing.TB, db *gorm.DB, authorID, title, text string) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: authorID, Title: title, Text: text}
	require.NoError(t, db.Create(post).Error)
	return post
}

// CreateComment inserts a comment and keeps the parent's comments_count in step.
func CreateComment(t testing.TB, db *gorm.DB, postID uint, authorID, text string) *models.Comment {
	t.Helper()
	comment := &models.Comment{PostID: postID, AuthorID: authorID, Text: text}
	require.NoError(t, db.Create(comment).Error)
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error)
	return comment
}
