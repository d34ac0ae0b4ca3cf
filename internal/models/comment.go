package models

import "time"

// Comment is a reply attached to a post.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	AuthorID   string    `gorm:"size:128;not null;index" json:"author_id"`
	Author     *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	LikesCount int       `gorm:"not null;default:0" json:"likes_count"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Likes []CommentLike `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// CommentLike records that a user likes a comment. (CommentID, UserID) is unique.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_like_user" json:"comment_id"`
	UserID    string    `gorm:"size:128;not null;uniqueIndex:idx_comment_like_user" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
