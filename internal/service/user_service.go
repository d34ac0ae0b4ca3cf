package service

import (
	"context"
	"strings"
	"time"

	"ecoblog/internal/auth"
	"ecoblog/internal/models"
	"ecoblog/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo, now: time.Now}
}

// EnsureUser creates the user for a verified identity on first sight and
// refreshes last_login_at on every later call.
func (s *UserService) EnsureUser(ctx context.Context, id auth.Identity) (*models.User, error) {
	if id.Subject == "" {
		return nil, models.NewUnauthorizedError("Invalid token")
	}

	name := strings.TrimSpace(id.Name)
	if name == "" {
		name = models.DefaultUserName
	}
	user := &models.User{
		ID:          id.Subject,
		Name:        name,
		LastLoginAt: s.now().UTC(),
	}
	if email := strings.TrimSpace(id.Email); email != "" {
		user.Email = &email
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}
	return user, nil
}
