// Package models contains data structures for the application's domain models.
package models

import "time"

// DefaultUserName is stored when the identity provider supplies no display name.
const DefaultUserName = "Anonymous"

// User is an authenticated principal. ID is the identity provider's subject id.
type User struct {
	ID          string    `gorm:"primaryKey;size:128" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Email       *string   `gorm:"size:320" json:"email,omitempty"`
	LastLoginAt time.Time `json:"last_login_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
