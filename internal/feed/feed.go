// internal/feed/feed.go
//
// Package feed keeps one viewer's post list, like map and selected-post
// detail consistent across likes, comments and deletes without refetching
// the whole feed. It is the stateful heart of the app: the backends own the
// data, this owns what the viewer currently sees.
package feed

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/friendstream/webapp/internal/models"
)

type postClient interface {
	Get(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context, authorUsernames []string, limit int) ([]models.Post, error)
	Delete(ctx context.Context, id int64) error
	AddComment(ctx context.Context, postID int64, req *models.CreateCommentRequest) (*models.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]models.Comment, error)
}

type socialClient interface {
	Like(ctx context.Context, postID int64, username string) (*models.Like, error)
	Unlike(ctx context.Context, postID int64, username string) error
	LikesForPost(ctx context.Context, postID int64) ([]models.Like, error)
}

// State is one viewer's feed. All mutating operations are generation
// numbered: a fetch that completes after a newer operation has started is
// discarded instead of overwriting fresher state.
type State struct {
	posts  postClient
	social socialClient

	viewer  string
	authors []string
	limit   int

	mu         sync.Mutex
	generation uint64

	list       []models.Post
	likes      map[int64]models.LikeInfo
	selectedID int64
	selected   *models.Post
	comments   []models.Comment
}

// Snapshot is a render-ready copy of the state.
type Snapshot struct {
	Posts    []models.Post
	Likes    map[int64]models.LikeInfo
	Selected *models.Post
	Comments []models.Comment
}

// NewState builds a feed for viewer, optionally filtered to a set of
// authors (profile pages, "following" feeds).
func NewState(posts postClient, social socialClient, viewer string, authors []string, limit int) *State {
	return &State{
		posts:   posts,
		social:  social,
		viewer:  viewer,
		authors: authors,
		limit:   limit,
		likes:   make(map[int64]models.LikeInfo),
	}
}

func (s *State) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// commit applies fn only if no newer operation has started since g.
func (s *State) commit(g uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g != s.generation {
		return false
	}
	fn()
	return true
}

// Load fetches the post list and rebuilds the like map, then selects the
// first post if nothing is selected yet. Like lookups run concurrently, one
// per post; a failed lookup leaves that post with zero like state rather
// than failing the feed.
func (s *State) Load(ctx context.Context) error {
	g := s.begin()

	list, err := s.posts.List(ctx, s.authors, s.limit)
	if err != nil {
		return err
	}

	likes := make(map[int64]models.LikeInfo, len(list))
	var likesMu sync.Mutex
	var wg sync.WaitGroup
	for _, post := range list {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			postLikes, err := s.social.LikesForPost(ctx, id)
			if err != nil {
				logrus.WithError(err).WithField("post_id", id).Debug("like lookup failed")
				return
			}
			info := models.LikeInfo{Count: len(postLikes)}
			for _, like := range postLikes {
				if like.Username == s.viewer {
					info.LikedByViewer = true
					break
				}
			}
			likesMu.Lock()
			likes[id] = info
			likesMu.Unlock()
		}(post.ID)
	}
	wg.Wait()

	var selectFirst int64
	applied := s.commit(g, func() {
		s.list = list
		s.likes = likes
		if s.selectedID == 0 && len(list) > 0 {
			selectFirst = list[0].ID
		}
	})
	if !applied || selectFirst == 0 {
		return nil
	}
	return s.fetchAndSelect(ctx, g, selectFirst)
}

// Select loads the full detail and comment thread for one post. Comments
// are only ever fetched here, never with the list.
func (s *State) Select(ctx context.Context, id int64) error {
	return s.fetchAndSelect(ctx, s.begin(), id)
}

func (s *State) fetchAndSelect(ctx context.Context, g uint64, id int64) error {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		s.commit(g, func() {
			s.selectedID = 0
			s.selected = nil
			s.comments = nil
		})
		return err
	}
	comments, err := s.posts.ListComments(ctx, id)
	if err != nil {
		return err
	}

	s.commit(g, func() {
		s.selectedID = id
		s.selected = post
		s.comments = comments
	})
	return nil
}

// ToggleLike flips the viewer's like on a post optimistically: the local
// state changes first, and is restored to exactly its prior value if the
// social service call fails.
func (s *State) ToggleLike(ctx context.Context, id int64) error {
	s.mu.Lock()
	prev := s.likes[id]
	next := models.LikeInfo{LikedByViewer: !prev.LikedByViewer}
	if prev.LikedByViewer {
		next.Count = prev.Count - 1
	} else {
		next.Count = prev.Count + 1
	}
	s.likes[id] = next
	s.mu.Unlock()

	var err error
	if prev.LikedByViewer {
		err = s.social.Unlike(ctx, id, s.viewer)
	} else {
		_, err = s.social.Like(ctx, id, s.viewer)
	}
	if err != nil {
		s.mu.Lock()
		s.likes[id] = prev
		s.mu.Unlock()
		return err
	}
	return nil
}

// AddComment appends to the selected post's thread and bumps the comment
// count in both the detail view and the feed list, without reloading
// either.
func (s *State) AddComment(ctx context.Context, req *models.CreateCommentRequest) (*models.Comment, error) {
	s.mu.Lock()
	id := s.selectedID
	s.mu.Unlock()
	if id == 0 {
		return nil, ErrNoSelection
	}

	created, err := s.posts.AddComment(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.selectedID == id {
		s.comments = append([]models.Comment{*created}, s.comments...)
		if s.selected != nil {
			s.selected.CommentCount++
		}
	}
	for i := range s.list {
		if s.list[i].ID == id {
			s.list[i].CommentCount++
			break
		}
	}
	s.mu.Unlock()

	// Aggregate counts are reconciled from the server on a best-effort
	// basis; the local bump already happened.
	s.RefreshCounts(ctx, id)

	return created, nil
}

// RefreshCounts refetches a single post and reconciles its comment count in
// the detail view and the list. Failures are ignored.
func (s *State) RefreshCounts(ctx context.Context, id int64) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected != nil && s.selected.ID == id {
		s.selected.CommentCount = post.CommentCount
	}
	for i := range s.list {
		if s.list[i].ID == id {
			s.list[i].CommentCount = post.CommentCount
			break
		}
	}
}

// Delete removes a post and, if it was selected, moves the selection to the
// first remaining post (or clears it). The backend authorizes the author;
// this does not pre-check.
func (s *State) Delete(ctx context.Context, id int64) error {
	g := s.begin()

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	var next int64
	var reselect bool
	s.commit(g, func() {
		kept := s.list[:0]
		for _, post := range s.list {
			if post.ID != id {
				kept = append(kept, post)
			}
		}
		s.list = kept
		delete(s.likes, id)

		if s.selectedID == id {
			s.selectedID = 0
			s.selected = nil
			s.comments = nil
			if len(kept) > 0 {
				next = kept[0].ID
				reselect = true
			}
		}
	})

	if reselect {
		if err := s.fetchAndSelect(ctx, g, next); err != nil {
			logrus.WithError(err).WithField("post_id", next).Debug("reselect after delete failed")
		}
	}
	return nil
}

// Snapshot returns a copy safe to hand to a template.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Posts: make([]models.Post, len(s.list)),
		Likes: make(map[int64]models.LikeInfo, len(s.likes)),
	}
	copy(snap.Posts, s.list)
	for id, info := range s.likes {
		snap.Likes[id] = info
	}
	if s.selected != nil {
		selected := *s.selected
		snap.Selected = &selected
	}
	snap.Comments = make([]models.Comment, len(s.comments))
	copy(snap.Comments, s.comments)
	return snap
}

// LikeInfoFor returns the viewer's like state for one post.
func (s *State) LikeInfoFor(id int64) models.LikeInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.likes[id]
}

// EnsureLikeInfo fetches a post's like state if it has never been loaded,
// so a toggle from the detail page starts from the server's truth rather
// than an empty entry.
func (s *State) EnsureLikeInfo(ctx context.Context, id int64) error {
	s.mu.Lock()
	_, known := s.likes[id]
	s.mu.Unlock()
	if known {
		return nil
	}

	postLikes, err := s.social.LikesForPost(ctx, id)
	if err != nil {
		return err
	}
	info := models.LikeInfo{Count: len(postLikes)}
	for _, like := range postLikes {
		if like.Username == s.viewer {
			info.LikedByViewer = true
			break
		}
	}

	s.mu.Lock()
	if _, known := s.likes[id]; !known {
		s.likes[id] = info
	}
	s.mu.Unlock()
	return nil
}
