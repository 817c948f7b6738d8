// internal/services/social_service.go
package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/friendstream/webapp/internal/config"
	"github.com/friendstream/webapp/internal/models"
)

// SocialService wraps the follow/likes service. Follow edges are directed;
// following someone implies nothing about being followed back.
type SocialService struct {
	client *client
}

func NewSocialService(cfg *config.Config, onUnauthorized UnauthorizedHook) *SocialService {
	return &SocialService{
		client: newClient(cfg.Services.SocialURL, time.Duration(cfg.Services.Timeout)*time.Second, onUnauthorized),
	}
}

func (s *SocialService) Follow(ctx context.Context, username string) error {
	return s.client.do(ctx, http.MethodPost, "/follow/"+username, nil, nil, nil)
}

func (s *SocialService) Unfollow(ctx context.Context, username string) error {
	return s.client.do(ctx, http.MethodDelete, "/follow/"+username, nil, nil, nil)
}

func (s *SocialService) Followers(ctx context.Context, username string) ([]string, error) {
	var followers []string
	if err := s.client.do(ctx, http.MethodGet, "/followers/"+username, nil, nil, &followers); err != nil {
		return nil, err
	}
	return followers, nil
}

func (s *SocialService) Following(ctx context.Context, username string) ([]string, error) {
	var following []string
	if err := s.client.do(ctx, http.MethodGet, "/following/"+username, nil, nil, &following); err != nil {
		return nil, err
	}
	return following, nil
}

func (s *SocialService) Like(ctx context.Context, postID int64, username string) (*models.Like, error) {
	var like models.Like
	if err := s.client.do(ctx, http.MethodPost, fmt.Sprintf("/like/%d/%s", postID, username), nil, nil, &like); err != nil {
		return nil, err
	}
	return &like, nil
}

func (s *SocialService) Unlike(ctx context.Context, postID int64, username string) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/like/%d/%s", postID, username), nil, nil, nil)
}

func (s *SocialService) LikesForPost(ctx context.Context, postID int64) ([]models.Like, error) {
	var likes []models.Like
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/likes/post/%d", postID), nil, nil, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func (s *SocialService) LikeCountForPost(ctx context.Context, postID int64) (int, error) {
	var count int
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/likes/post/%d/count", postID), nil, nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *SocialService) LikesByUser(ctx context.Context, username string) ([]models.Like, error) {
	var likes []models.Like
	if err := s.client.do(ctx, http.MethodGet, "/likes/user/"+username, nil, nil, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func (s *SocialService) LikeCountByUser(ctx context.Context, username string) (int, error) {
	var count int
	if err := s.client.do(ctx, http.MethodGet, "/likes/user/"+username+"/count", nil, nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}
