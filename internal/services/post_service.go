// internal/services/post_service.go
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/friendstream/webapp/internal/config"
	"github.com/friendstream/webapp/internal/models"
)

const DefaultPostLimit = 50

// PostService wraps the post/comment service.
type PostService struct {
	client *client
}

func NewPostService(cfg *config.Config, onUnauthorized UnauthorizedHook) *PostService {
	return &PostService{
		client: newClient(cfg.Services.PostURL, time.Duration(cfg.Services.Timeout)*time.Second, onUnauthorized),
	}
}

func (s *PostService) Create(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error) {
	var post models.Post
	if err := s.client.do(ctx, http.MethodPost, "/posts", nil, req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", id), nil, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns up to limit posts, optionally filtered to a set of authors.
// A non-positive limit falls back to the default of 50.
func (s *PostService) List(ctx context.Context, authorUsernames []string, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = DefaultPostLimit
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	for _, author := range authorUsernames {
		query.Add("authorUsernames[]", author)
	}

	var posts []models.Post
	if err := s.client.do(ctx, http.MethodGet, "/posts", query, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Delete removes a post. The backend authorizes the author; a 403 means the
// caller tried to delete someone else's post.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, nil, nil)
}

func (s *PostService) AddComment(ctx context.Context, postID int64, req *models.CreateCommentRequest) (*models.Comment, error) {
	var comment models.Comment
	if err := s.client.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/comments", postID), nil, req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *PostService) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d/comments", postID), nil, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// Exists asks the post service's internal existence endpoint.
func (s *PostService) Exists(ctx context.Context, postID int64) (bool, error) {
	var resp struct {
		Exists bool `json:"exists"`
	}
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/posts/internal/%d/exists", postID), nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}
