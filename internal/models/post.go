// internal/models/post.go
package models

import "time"

// Post mirrors the post service's response shape. Like state is tracked
// separately per viewer (see the feed package) and is not part of the wire
// format.
type Post struct {
	ID             int64     `json:"id"`
	AuthorUsername string    `json:"authorUsername"`
	Content        string    `json:"content"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	CommentCount   int       `json:"commentCount"`
}

// Comment is a child of exactly one post; append-only from this client.
type Comment struct {
	ID             int64     `json:"id"`
	PostID         int64     `json:"postId,omitempty"`
	AuthorUsername string    `json:"authorUsername"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

type CreatePostRequest struct {
	Content  string `form:"content" json:"content" validate:"required,max=2000"`
	ImageURL string `form:"imageUrl" json:"imageUrl,omitempty" validate:"omitempty,url"`
}

type CreateCommentRequest struct {
	Content string `form:"content" json:"content" validate:"required,max=1000"`
}
