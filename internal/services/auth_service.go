// internal/services/auth_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/friendstream/webapp/internal/config"
	"github.com/friendstream/webapp/internal/models"
)

// AuthService wraps the auth/user service.
type AuthService struct {
	client *client
}

func NewAuthService(cfg *config.Config, onUnauthorized UnauthorizedHook) *AuthService {
	return &AuthService{
		client: newClient(cfg.Services.AuthURL, time.Duration(cfg.Services.Timeout)*time.Second, onUnauthorized),
	}
}

// Register creates an account. A taken username comes back as an *APIError
// carrying the backend's message and its username suggestions.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) error {
	return s.client.do(ctx, http.MethodPost, "/users/register", nil, req, nil)
}

// Login exchanges credentials for a bearer token. The token field has
// drifted across deployments of the auth service, so the response is
// decoded leniently: {token}, {accessToken}, {access_token} or a bare
// JSON string are all accepted.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	req := &models.LoginRequest{Username: username, Password: password}

	var raw json.RawMessage
	if err := s.client.do(ctx, http.MethodPost, "/users/login", nil, req, &raw); err != nil {
		return "", err
	}

	token, err := extractToken(raw)
	if err != nil {
		return "", err
	}
	return token, nil
}

func extractToken(raw json.RawMessage) (string, error) {
	var object struct {
		Token       string `json:"token"`
		AccessToken string `json:"accessToken"`
		SnakeToken  string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &object); err == nil {
		for _, candidate := range []string{object.Token, object.AccessToken, object.SnakeToken} {
			if candidate != "" {
				return candidate, nil
			}
		}
	}

	var bare string
	if err := json.Unmarshal(raw, &bare); err == nil && bare != "" {
		return bare, nil
	}

	return "", fmt.Errorf("login succeeded but no token was returned")
}
