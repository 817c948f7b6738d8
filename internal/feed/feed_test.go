// internal/feed/feed_test.go
package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/friendstream/webapp/internal/models"
)

type fakePosts struct {
	mu       sync.Mutex
	list     []models.Post
	comments map[int64][]models.Comment
	listErr  error
	getErr   error
	delErr   error
	commErr  error
	nextID   int64

	// listGate, when set, runs at the start of List so a test can hold a
	// list fetch in flight.
	listGate func()
}

func newFakePosts(posts ...models.Post) *fakePosts {
	return &fakePosts{list: posts, comments: make(map[int64][]models.Comment), nextID: 100}
}

func (f *fakePosts) Get(ctx context.Context, id int64) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, post := range f.list {
		if post.ID == id {
			copied := post
			copied.CommentCount = len(f.comments[id])
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("post %d not found", id)
}

func (f *fakePosts) List(ctx context.Context, authorUsernames []string, limit int) ([]models.Post, error) {
	if f.listGate != nil {
		f.listGate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Post{}, f.list...), nil
}

func (f *fakePosts) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	kept := f.list[:0]
	for _, post := range f.list {
		if post.ID != id {
			kept = append(kept, post)
		}
	}
	f.list = kept
	return nil
}

func (f *fakePosts) AddComment(ctx context.Context, postID int64, req *models.CreateCommentRequest) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commErr != nil {
		return nil, f.commErr
	}
	f.nextID++
	comment := models.Comment{ID: f.nextID, PostID: postID, AuthorUsername: "viewer", Content: req.Content}
	f.comments[postID] = append(f.comments[postID], comment)
	return &comment, nil
}

func (f *fakePosts) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Comment{}, f.comments[postID]...), nil
}

type fakeSocial struct {
	mu       sync.Mutex
	likes    map[int64][]models.Like
	likeErr  error
	fetchErr error
}

func newFakeSocial() *fakeSocial {
	return &fakeSocial{likes: make(map[int64][]models.Like)}
}

func (f *fakeSocial) Like(ctx context.Context, postID int64, username string) (*models.Like, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.likeErr != nil {
		return nil, f.likeErr
	}
	like := models.Like{ID: int64(len(f.likes[postID]) + 1), PostID: postID, Username: username}
	f.likes[postID] = append(f.likes[postID], like)
	return &like, nil
}

func (f *fakeSocial) Unlike(ctx context.Context, postID int64, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.likeErr != nil {
		return f.likeErr
	}
	kept := f.likes[postID][:0]
	for _, like := range f.likes[postID] {
		if like.Username != username {
			kept = append(kept, like)
		}
	}
	f.likes[postID] = kept
	return nil
}

func (f *fakeSocial) LikesForPost(ctx context.Context, postID int64) ([]models.Like, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]models.Like{}, f.likes[postID]...), nil
}

func (f *fakeSocial) seed(postID int64, usernames ...string) {
	for _, username := range usernames {
		f.likes[postID] = append(f.likes[postID], models.Like{PostID: postID, Username: username})
	}
}

func TestLoadBuildsLikeMapAndSelectsFirstPost(t *testing.T) {
	posts := newFakePosts(
		models.Post{ID: 1, AuthorUsername: "alice", Content: "first"},
		models.Post{ID: 2, AuthorUsername: "bob", Content: "second"},
	)
	social := newFakeSocial()
	social.seed(1, "bob", "carol", "viewer")
	social.seed(2, "alice")

	st := NewState(posts, social, "viewer", nil, 50)
	assert.NoError(t, st.Load(context.Background()))

	snap := st.Snapshot()
	assert.Len(t, snap.Posts, 2)
	assert.Equal(t, models.LikeInfo{Count: 3, LikedByViewer: true}, snap.Likes[1])
	assert.Equal(t, models.LikeInfo{Count: 1, LikedByViewer: false}, snap.Likes[2])
	// The first post is auto-selected, comments and all.
	assert.NotNil(t, snap.Selected)
	assert.Equal(t, int64(1), snap.Selected.ID)
}

func TestLoadSurvivesLikeLookupFailure(t *testing.T) {
	posts := newFakePosts(models.Post{ID: 1, AuthorUsername: "alice"})
	social := newFakeSocial()
	social.fetchErr = errors.New("social service down")

	st := NewState(posts, social, "viewer", nil, 50)
	assert.NoError(t, st.Load(context.Background()))

	snap := st.Snapshot()
	assert.Len(t, snap.Posts, 1)
	assert.Equal(t, models.LikeInfo{}, snap.Likes[1])
}

func TestToggleLikeOptimisticFlip(t *testing.T) {
	posts := newFakePosts(models.Post{ID: 1, AuthorUsername: "alice"})
	social := newFakeSocial()
	social.seed(1, "a", "b", "c")

	st := NewState(posts, social, "viewer", nil, 50)
	assert.NoError(t, st.Load(context.Background()))
	assert.Equal(t, models.LikeInfo{Count: 3, LikedByViewer: false}, st.LikeInfoFor(1))

	assert.NoError(t, st.ToggleLike(context.Background(), 1))
	assert.Equal(t, models.LikeInfo{Count: 4, LikedByViewer: true}, st.LikeInfoFor(1))

	assert.NoError(t, st.ToggleLike(context.Background(), 1))
	assert.Equal(t, models.LikeInfo{Count: 3, LikedByViewer: false}, st.LikeInfoFor(1))
}

func TestToggleLikeRollsBackExactlyOnFailure(t *testing.T) {
	posts := newFakePosts(models.Post{ID: 1, AuthorUsername: "alice"})
	social := newFakeSocial()
	social.seed(1, "a", "b", "c")

	st := NewState(posts, social, "viewer", nil, 50)
	assert.NoError(t, st.Load(context.Background()))

	social.likeErr = errors.New("social service down")
	err := st.ToggleLike(context.Background(), 1)
	assert.Error(t, err)
	assert.Equal(t, models.LikeInfo{Count: 3, LikedByViewer: false}, st.LikeInfoFor(1))
}

func TestAddCommentRequiresSelection(t *testing.T) {
	st := NewState(newFakePosts(), newFakeSocial(), "viewer", nil, 50)
	_, err := st.AddComment(context.Background(), &models.CreateCommentRequest{Content: "hi"})
	assert.True(t, errors.Is(err, ErrNoSelection))
}

func TestAddCommentBumpsCountsEverywhere(t *testing.T) {
	posts := newFakePosts(
		models.Post{ID: 1, AuthorUsername: "alice"},
		models.Post{ID: 2, AuthorUsername: "bob"},
	)
	st := NewState(posts, newFakeSocial(), "viewer", nil, 50)
	assert.NoError(t, st.Load(context.Background()))
	assert.NoError(t, st.Select(context.Background(), 2))

	created, err := st.AddComment(context.Background(), &models.CreateCommentRequest{Content: "hello"})
	assert.NoError(t, err)
	assert.Equal(t, "hello", created.Content)

	snap := st.Snapshot()
	assert.Equal(t, int64(2), snap.Selected.ID)
	assert.Equal(t, 1, snap.Selected.CommentCount)
	assert.Len(t, snap.Comments, 1)
	for _, post := range snap.Posts {
		if post.ID == 2 {
			assert.Equal(t, 1, post.CommentCount)
		} else {
			assert.Zero(t, post.CommentCount)
		}
	}
}

func TestDeleteReselectsFirstRemaining(t *testing.T) {
	posts := newFakePosts(
		models.Post{ID: 1, AuthorUsername: "viewer"},
		models.Post{ID: 2, AuthorUsername: "alice"},
		models.Post{ID: 3, AuthorUsername: "bob"},
	)
	st := NewState(posts, newFakeSocial(), "viewer", nil, 50)
	assert.NoError(t, st.Load(context.Background()))

	// Selected post 1 goes away; selection moves to the first remaining.
	assert.NoError(t, st.Delete(context.Background(), 1))
	snap := st.Snapshot()
	assert.Len(t, snap.Posts, 2)
	assert.NotNil(t, snap.Selected)
	assert.Equal(t, int64(2), snap.Selected.ID)
}

func TestDeleteUnselectedPostKeepsSelection(t *testing.T) {
	posts := newFakePosts(
		models.Post{ID: 1, AuthorUsername: "viewer"},
		models.Post{ID: 2, AuthorUsername: "alice"},
	)
	st := NewState(posts, newFakeSocial(), "viewer", nil, 50)
	assert.NoError(t, st.Load(context.Background()))

	assert.NoError(t, st.Delete(context.Background(), 2))
	snap := st.Snapshot()
	assert.Len(t, snap.Posts, 1)
	assert.Equal(t, int64(1), snap.Selected.ID)
}

func TestDeleteLastPostClearsSelection(t *testing.T) {
	posts := newFakePosts(models.Post{ID: 1, AuthorUsername: "viewer"})
	st := NewState(posts, newFakeSocial(), "viewer", nil, 50)
	assert.NoError(t, st.Load(context.Background()))

	assert.NoError(t, st.Delete(context.Background(), 1))
	snap := st.Snapshot()
	assert.Empty(t, snap.Posts)
	assert.Nil(t, snap.Selected)
	assert.Empty(t, snap.Comments)
}

func TestDeleteFailureChangesNothing(t *testing.T) {
	posts := newFakePosts(
		models.Post{ID: 1, AuthorUsername: "alice"},
		models.Post{ID: 2, AuthorUsername: "bob"},
	)
	st := NewState(posts, newFakeSocial(), "viewer", nil, 50)
	assert.NoError(t, st.Load(context.Background()))

	posts.delErr = errors.New("forbidden")
	assert.Error(t, st.Delete(context.Background(), 2))

	snap := st.Snapshot()
	assert.Len(t, snap.Posts, 2)
	assert.Equal(t, int64(1), snap.Selected.ID)
}

func TestSelectFailureClearsSelection(t *testing.T) {
	posts := newFakePosts(models.Post{ID: 1, AuthorUsername: "alice"})
	st := NewState(posts, newFakeSocial(), "viewer", nil, 50)
	assert.NoError(t, st.Load(context.Background()))

	posts.getErr = errors.New("post service down")
	assert.Error(t, st.Select(context.Background(), 1))

	snap := st.Snapshot()
	assert.Nil(t, snap.Selected)
	assert.Empty(t, snap.Comments)
}

func TestEnsureLikeInfoFetchesOnlyUnknownPosts(t *testing.T) {
	posts := newFakePosts(models.Post{ID: 1, AuthorUsername: "alice"})
	social := newFakeSocial()
	social.seed(7, "viewer", "bob")

	st := NewState(posts, social, "viewer", nil, 50)

	assert.NoError(t, st.EnsureLikeInfo(context.Background(), 7))
	assert.Equal(t, models.LikeInfo{Count: 2, LikedByViewer: true}, st.LikeInfoFor(7))

	// Already-known state is left alone even if the backend changed.
	social.seed(7, "carol")
	assert.NoError(t, st.EnsureLikeInfo(context.Background(), 7))
	assert.Equal(t, models.LikeInfo{Count: 2, LikedByViewer: true}, st.LikeInfoFor(7))
}

func TestStaleLoadResponseIsDiscarded(t *testing.T) {
	posts := newFakePosts(
		models.Post{ID: 1, AuthorUsername: "alice", Content: "first"},
		models.Post{ID: 2, AuthorUsername: "bob", Content: "second"},
	)
	social := newFakeSocial()
	social.seed(1, "viewer")

	started := make(chan struct{})
	release := make(chan struct{})
	posts.listGate = func() {
		close(started)
		<-release
	}

	st := NewState(posts, social, "viewer", nil, 50)

	// Hold the list fetch in flight, then run a newer operation past it.
	done := make(chan error, 1)
	go func() { done <- st.Load(context.Background()) }()
	<-started

	assert.NoError(t, st.Select(context.Background(), 2))

	close(release)
	assert.NoError(t, <-done)

	// The load finished after Select started, so its results are dropped:
	// no list, no like map, and the selection it would have made is absent.
	snap := st.Snapshot()
	assert.Empty(t, snap.Posts)
	assert.Empty(t, snap.Likes)
	assert.NotNil(t, snap.Selected)
	assert.Equal(t, int64(2), snap.Selected.ID)
}
