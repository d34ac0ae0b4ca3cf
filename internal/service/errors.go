// Package service implements the blog's use cases on top of the repositories.
package service

import (
	"errors"

	"ecoblog/internal/models"

	"gorm.io/gorm"
)

// mapRepoError converts repository errors into AppErrors: missing rows become
// NotFound for resource, everything else is an internal error.
func mapRepoError(err error, resource string, id interface{}) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

func requireViewer(viewerID string) error {
	if viewerID == "" {
		return models.NewUnauthorizedError("Authentication required")
	}
	return nil
}
