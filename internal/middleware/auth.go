package middleware

import (
	"context"
	"errors"
	"log/slog"

	"ecoblog/internal/auth"
	"ecoblog/internal/models"
	"ecoblog/internal/observability"

	"github.com/gofiber/fiber/v2"
)

const (
	viewerIDKey    = "viewerID"
	authFailureKey = "authFailure"
)

// UserEnsurer creates or refreshes the user row for a verified identity.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, id auth.Identity) (*models.User, error)
}

// Authenticate resolves the bearer credential, if any, once per request. A missing
// or rejected credential leaves the request anonymous; RequireViewer decides
// whether that is acceptable for the route.
func Authenticate(verifier auth.Verifier, users UserEnsurer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			if c.Get(fiber.HeaderAuthorization) != "" {
				c.Locals(authFailureKey, "Invalid authorization header format")
			}
			return c.Next()
		}

		ctx := c.UserContext()
		identity, err := verifier.Verify(ctx, token)
		if err != nil {
			observability.Logger.DebugContext(ctx, "credential rejected", slog.String("error", err.Error()))
			c.Locals(authFailureKey, "Invalid token")
			return c.Next()
		}

		user, err := users.EnsureUser(ctx, identity)
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == models.CodeUnauthorized {
				c.Locals(authFailureKey, appErr.Message)
				return c.Next()
			}
			observability.Logger.ErrorContext(ctx, "failed to record login", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		}

		c.Locals(viewerIDKey, user.ID)
		c.SetUserContext(observability.WithUserID(ctx, user.ID))
		return c.Next()
	}
}

// RequireViewer rejects anonymous requests with 401.
func RequireViewer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ViewerID(c) != "" {
			return c.Next()
		}
		msg := "No token provided"
		if reason, ok := c.Locals(authFailureKey).(string); ok && reason != "" {
			msg = reason
		}
		return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(msg))
	}
}

// ViewerID returns the authenticated subject id, or "" for anonymous requests.
func ViewerID(c *fiber.Ctx) string {
	id, _ := c.Locals(viewerIDKey).(string)
	return id
}
