// internal/models/social.go
package models

import "time"

// Like is a unique (postId, username) relation owned by the social service.
type Like struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeInfo is the per-post like state a viewer sees: aggregate count plus
// whether the viewer is among the likers.
type LikeInfo struct {
	Count         int  `json:"count"`
	LikedByViewer bool `json:"likedByViewer"`
}
