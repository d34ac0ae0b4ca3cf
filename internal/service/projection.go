package service

import (
	"time"

	"ecoblog/internal/models"
)

// DateLayout renders timestamps as ISO-8601 UTC with millisecond precision.
const DateLayout = "2006-01-02T15:04:05.000Z"

// UnknownAuthor is shown when a post or comment has no loaded author.
const UnknownAuthor = "Unknown"

// PostView is the list shape of a post as seen by one viewer.
type PostView struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Text          string `json:"text"`
	Author        string `json:"author"`
	Date          string `json:"date"`
	Likes         int    `json:"likes"`
	IsLiked       bool   `json:"isLiked"`
	CommentsCount int    `json:"commentsCount"`
}

// PostDetailView is a post together with its projected comments.
type PostDetailView struct {
	PostView
	Comments []CommentView `json:"comments"`
}

// CommentView is a comment as seen by one viewer.
type CommentView struct {
	ID      uint   `json:"id"`
	Text    string `json:"text"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Likes   int    `json:"likes"`
	IsLiked bool   `json:"isLiked"`
}

// PostList is one page of posts plus the filtered total.
type PostList struct {
	Posts []PostView `json:"posts"`
	Total int64      `json:"total"`
}

// FormatPost projects p for viewerID; "" is the anonymous viewer.
func FormatPost(p *models.Post, viewerID string) PostView {
	return PostView{
		ID:            p.ID,
		Title:         p.Title,
		Text:          p.Text,
		Author:        authorName(p.Author),
		Date:          formatDate(p.CreatedAt),
		Likes:         p.LikesCount,
		IsLiked:       likedBy(p.Likes, viewerID, func(l models.Like) string { return l.UserID }),
		CommentsCount: p.CommentsCount,
	}
}

// FormatPostDetail projects p and every loaded comment for the same viewer.
func FormatPostDetail(p *models.Post, viewerID string) PostDetailView {
	comments := make([]CommentView, 0, len(p.Comments))
	for i := range p.Comments {
		comments = append(comments, FormatComment(&p.Comments[i], viewerID))
	}
	return PostDetailView{
		PostView: FormatPost(p, viewerID),
		Comments: comments,
	}
}

// FormatComment projects c for viewerID; "" is the anonymous viewer.
func FormatComment(c *models.Comment, viewerID string) CommentView {
	return CommentView{
		ID:      c.ID,
		Text:    c.Text,
		Author:  authorName(c.Author),
		Date:    formatDate(c.CreatedAt),
		Likes:   c.LikesCount,
		IsLiked: likedBy(c.Likes, viewerID, func(l models.CommentLike) string { return l.UserID }),
	}
}

func authorName(u *models.User) string {
	if u == nil {
		return UnknownAuthor
	}
	return u.Name
}

func formatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func likedBy[L any](likes []L, viewerID string, userOf func(L) string) bool {
	if viewerID == "" {
		return false
	}
	for _, l := range likes {
		if userOf(l) == viewerID {
			return true
		}
	}
	return false
}
