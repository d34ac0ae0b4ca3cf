package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ecoblog/internal/config"
	"ecoblog/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sqliteConfig() *config.Config {
	return &config.Config{
		Env:          "test",
		DBDriver:     config.DriverSQLite,
		DBSQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
}

func TestConnect_SQLiteMigratesSchema(t *testing.T) {
	db, err := Connect(sqliteConfig())
	require.NoError(t, err)

	for _, m := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(m), "%T should be migrated", m)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Like{}, "idx_like_post_user"))
	assert.True(t, db.Migrator().HasIndex(&models.CommentLike{}, "idx_comment_like_user"))
	assert.NoError(t, Ping(context.Background(), db))
}

func TestConfigurePool(t *testing.T) {
	db, err := Connect(sqliteConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	cfg := &config.Config{
		DBDriver:                 config.DriverPostgres,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
	require.NoError(t, configurePool(db, cfg))
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "app.db?_foreign_keys=on", sqliteDSN("app.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "file:x?_foreign_keys=off", sqliteDSN("file:x?_foreign_keys=off"))
	assert.Equal(t, "ecoblog.db?_foreign_keys=on", sqliteDSN(""))
}

func TestUniqueViolationDetection(t *testing.T) {
	db, err := Connect(sqliteConfig())
	require.NoError(t, err)

	user := models.User{ID: "u1", Name: "Ada"}
	require.NoError(t, db.Create(&user).Error)
	post := models.Post{Title: "t", Text: "x", AuthorID: user.ID}
	require.NoError(t, db.Create(&post).Error)

	require.NoError(t, db.Create(&models.Like{PostID: post.ID, UserID: user.ID}).Error)
	err = db.Create(&models.Like{PostID: post.ID, UserID: user.ID}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	err = db.Create(&models.Like{PostID: post.ID + 100, UserID: user.ID}).Error
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err))
}

func TestConstraintClassification(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, IsUniqueViolation(errors.New("other")))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
}
