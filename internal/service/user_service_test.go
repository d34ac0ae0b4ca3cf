package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ecoblog/internal/auth"
	"ecoblog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_EnsureUser(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name      string
		identity  auth.Identity
		wantName  string
		wantEmail *string
	}{
		{"named with email", auth.Identity{Subject: "u1", Name: "Ada", Email: "ada@example.com"}, "Ada", ptr("ada@example.com")},
		{"no name defaults", auth.Identity{Subject: "u2"}, models.DefaultUserName, nil},
		{"whitespace name defaults", auth.Identity{Subject: "u3", Name: "  "}, models.DefaultUserName, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var upserted *models.User
			svc := NewUserService(&userRepoStub{upsertFn: func(_ context.Context, u *models.User) error {
				upserted = u
				return nil
			}})
			svc.now = func() time.Time { return fixed }

			user, err := svc.EnsureUser(context.Background(), tt.identity)
			require.NoError(t, err)
			assert.Same(t, upserted, user)
			assert.Equal(t, tt.identity.Subject, user.ID)
			assert.Equal(t, tt.wantName, user.Name)
			assert.Equal(t, tt.wantEmail, user.Email)
			assert.Equal(t, fixed, user.LastLoginAt)
		})
	}
}

func TestUserService_EnsureUser_Errors(t *testing.T) {
	t.Parallel()

	svc := NewUserService(&userRepoStub{upsertFn: func(_ context.Context, _ *models.User) error {
		return errors.New("db down")
	}})

	_, err := svc.EnsureUser(context.Background(), auth.Identity{})
	assertUnauthorizedError(t, err)

	_, err = svc.EnsureUser(context.Background(), auth.Identity{Subject: "u1"})
	assertInternalError(t, err)
}

func ptr(s string) *string { return &s }
