// internal/services/post_service_test.go
package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/friendstream/webapp/internal/models"
)

func newPostService(t *testing.T, handler http.Handler) *PostService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewPostService(testConfig(server.URL), nil)
}

func TestListSendsLimitAndAuthorFilter(t *testing.T) {
	var gotQuery url.Values
	svc := newPostService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}))

	_, err := svc.List(context.Background(), []string{"alice", "bob"}, 20)
	assert.NoError(t, err)
	assert.Equal(t, "20", gotQuery.Get("limit"))
	assert.Equal(t, []string{"alice", "bob"}, gotQuery["authorUsernames[]"])
}

func TestListDefaultsLimitTo50(t *testing.T) {
	var gotQuery url.Values
	svc := newPostService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}))

	_, err := svc.List(context.Background(), nil, 0)
	assert.NoError(t, err)
	assert.Equal(t, "50", gotQuery.Get("limit"))
	assert.NotContains(t, gotQuery, "authorUsernames[]")
}

func TestDeleteForeignPostIsForbidden(t *testing.T) {
	svc := newPostService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"not the author"}`))
	}))

	err := svc.Delete(context.Background(), 12)
	assert.True(t, IsForbidden(err))
}

func TestAddCommentReturnsCreatedComment(t *testing.T) {
	svc := newPostService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/5/comments", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":31,"postId":5,"authorUsername":"alice","content":"nice"}`))
	}))

	comment, err := svc.AddComment(context.Background(), 5, &models.CreateCommentRequest{Content: "nice"})
	assert.NoError(t, err)
	assert.Equal(t, int64(31), comment.ID)
	assert.Equal(t, int64(5), comment.PostID)
}

func TestExistsUsesInternalEndpoint(t *testing.T) {
	svc := newPostService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/internal/8/exists", r.URL.Path)
		w.Write([]byte(`{"exists":true}`))
	}))

	exists, err := svc.Exists(context.Background(), 8)
	assert.NoError(t, err)
	assert.True(t, exists)
}
