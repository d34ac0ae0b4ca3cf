package repository

import (
	"context"

	"ecoblog/internal/models"
	"ecoblog/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Upsert inserts user, or only refreshes last_login_at when the id exists.
	Upsert(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db      *gorm.DB
	logger  *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db:      db,
		logger:  observability.NewRepoLogger("users"),
		metrics: observability.NewDatabaseMetrics(),
	}
}

func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	defer r.metrics.TrackQuery("upsert", "users")()

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_login_at", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		r.logger.LogError(ctx, err, "upsert")
		return err
	}
	return nil
}

