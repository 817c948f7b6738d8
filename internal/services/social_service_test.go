// internal/services/social_service_test.go
package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newSocialService(t *testing.T, handler http.Handler) *SocialService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewSocialService(testConfig(server.URL), nil)
}

func TestLikeCountForPost(t *testing.T) {
	var gotPath string
	svc := newSocialService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`4`))
	}))

	count, err := svc.LikeCountForPost(context.Background(), 9)
	assert.NoError(t, err)
	assert.Equal(t, "/likes/post/9/count", gotPath)
	assert.Equal(t, 4, count)
}

func TestLikesByUser(t *testing.T) {
	var gotPath string
	svc := newSocialService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`[{"id":1,"postId":3,"username":"carol"},{"id":2,"postId":5,"username":"carol"}]`))
	}))

	likes, err := svc.LikesByUser(context.Background(), "carol")
	assert.NoError(t, err)
	assert.Equal(t, "/likes/user/carol", gotPath)
	assert.Len(t, likes, 2)
	assert.Equal(t, int64(3), likes[0].PostID)
	assert.Equal(t, "carol", likes[1].Username)
}

func TestLikeCountByUser(t *testing.T) {
	svc := newSocialService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/likes/user/carol/count", r.URL.Path)
		w.Write([]byte(`12`))
	}))

	count, err := svc.LikeCountByUser(context.Background(), "carol")
	assert.NoError(t, err)
	assert.Equal(t, 12, count)
}

func TestFollowAndUnfollowMethods(t *testing.T) {
	var gotMethod, gotPath string
	svc := newSocialService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Write([]byte(`{}`))
	}))

	assert.NoError(t, svc.Follow(context.Background(), "alice"))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/follow/alice", gotPath)

	assert.NoError(t, svc.Unfollow(context.Background(), "alice"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/follow/alice", gotPath)
}
