// internal/services/auth_service_test.go
package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/friendstream/webapp/internal/config"
	"github.com/friendstream/webapp/internal/models"
)

func testConfig(authURL string) *config.Config {
	return &config.Config{
		Services: config.ServicesConfig{
			AuthURL:    authURL,
			ProfileURL: authURL,
			PostURL:    authURL,
			SocialURL:  authURL,
			Timeout:    2,
		},
		Cache: config.CacheConfig{ProfileTTL: 30, CleanupInterval: 300},
	}
}

func TestLoginAcceptsEveryTokenShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"token field", `{"token":"jwt-a"}`},
		{"accessToken field", `{"accessToken":"jwt-a"}`},
		{"access_token field", `{"access_token":"jwt-a"}`},
		{"bare string", `"jwt-a"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/users/login", r.URL.Path)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			svc := NewAuthService(testConfig(server.URL), nil)
			token, err := svc.Login(context.Background(), "alice", "pw")
			assert.NoError(t, err)
			assert.Equal(t, "jwt-a", token)
		})
	}
}

func TestLoginRejectsTokenlessSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	svc := NewAuthService(testConfig(server.URL), nil)
	_, err := svc.Login(context.Background(), "alice", "pw")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no token")
}

func TestRegisterPostsCredentials(t *testing.T) {
	var got models.RegisterRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/register", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	svc := NewAuthService(testConfig(server.URL), nil)
	err := svc.Register(context.Background(), &models.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "pw3",
	})
	assert.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestRegisterSurfacesSuggestions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"errorMessage":"Username alice is taken","suggestionNames":["alice22","alice_b"]}`))
	}))
	defer server.Close()

	svc := NewAuthService(testConfig(server.URL), nil)
	err := svc.Register(context.Background(), &models.RegisterRequest{Username: "alice", Email: "a@b.c", Password: "pw3"})

	apiErr, ok := AsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "Username alice is taken", apiErr.Message)
	assert.Equal(t, []string{"alice22", "alice_b"}, apiErr.Suggestions)
}
