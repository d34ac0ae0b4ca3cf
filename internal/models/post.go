package models

import "time"

// Post is a blog entry. LikesCount and CommentsCount are denormalized counters
// maintained by the repository in the same transaction as the rows they count.
type Post struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:300;not null" json:"title"`
	Text          string    `gorm:"type:text;not null" json:"text"`
	AuthorID      string    `gorm:"size:128;not null;index" json:"author_id"`
	Author        *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	LikesCount    int       `gorm:"not null;default:0;index" json:"likes_count"`
	CommentsCount int       `gorm:"not null;default:0" json:"comments_count"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Likes    []Like    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Comments []Comment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Like records that a user likes a post. (PostID, UserID) is unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_post_user" json:"post_id"`
	UserID    string    `gorm:"size:128;not null;uniqueIndex:idx_like_post_user" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
