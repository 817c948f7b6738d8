// internal/profileview/view.go
//
// Package profileview assembles everything a profile page shows: the
// profile itself, follower/following lists and the like-count aggregate,
// fetched concurrently and collected independently, plus the viewer's
// follow relationship to the target.
package profileview

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/friendstream/webapp/internal/models"
	"github.com/friendstream/webapp/internal/services"
)

type profileClient interface {
	Get(ctx context.Context, username string) (*models.Profile, error)
}

type socialClient interface {
	Follow(ctx context.Context, username string) error
	Unfollow(ctx context.Context, username string) error
	Followers(ctx context.Context, username string) ([]string, error)
	Following(ctx context.Context, username string) ([]string, error)
	LikeCountByUser(ctx context.Context, username string) (int, error)
}

// View is one viewer's look at one profile.
type View struct {
	profiles profileClient
	social   socialClient
	viewer   string

	mu         sync.Mutex
	generation uint64
	target     string
	profile    *models.Profile
	notFound   bool
	followers  []string
	following  []string
	likeCount  int
}

// Snapshot is a render-ready copy of the view.
type Snapshot struct {
	Target      string
	Profile     *models.Profile
	NotFound    bool
	Followers   []string
	Following   []string
	LikeCount   int
	IsOwn       bool
	IsFollowing bool
}

func New(profiles profileClient, social socialClient, viewer string) *View {
	return &View{profiles: profiles, social: social, viewer: viewer}
}

// Resolve maps the route parameter to a concrete username: "me" and an
// absent parameter mean the session user.
func (v *View) Resolve(param string) string {
	if param == "" || param == "me" {
		return v.viewer
	}
	return param
}

// Load fetches the profile, both follow lists and the like aggregate
// concurrently. Each result is applied independently as it arrives, and
// only if no newer Load has started since. A missing profile is a state,
// not an error; anything else from the profile fetch is returned.
func (v *View) Load(ctx context.Context, param string) error {
	target := v.Resolve(param)

	v.mu.Lock()
	v.generation++
	g := v.generation
	v.target = target
	v.profile = nil
	v.notFound = false
	v.followers = nil
	v.following = nil
	v.likeCount = 0
	v.mu.Unlock()

	var profileErr error
	var wg sync.WaitGroup

	wg.Add(4)
	go func() {
		defer wg.Done()
		profile, err := v.profiles.Get(ctx, target)
		v.apply(g, func() {
			switch {
			case err == nil:
				v.profile = profile
			case errors.Is(err, services.ErrProfileNotFound):
				v.notFound = true
			default:
				profileErr = err
			}
		})
	}()
	go func() {
		defer wg.Done()
		followers, err := v.social.Followers(ctx, target)
		if err != nil {
			logrus.WithError(err).WithField("username", target).Debug("follower fetch failed")
			return
		}
		v.apply(g, func() { v.followers = followers })
	}()
	go func() {
		defer wg.Done()
		following, err := v.social.Following(ctx, target)
		if err != nil {
			logrus.WithError(err).WithField("username", target).Debug("following fetch failed")
			return
		}
		v.apply(g, func() { v.following = following })
	}()
	go func() {
		defer wg.Done()
		count, err := v.social.LikeCountByUser(ctx, target)
		if err != nil {
			logrus.WithError(err).WithField("username", target).Debug("like count fetch failed")
			return
		}
		v.apply(g, func() { v.likeCount = count })
	}()
	wg.Wait()

	return profileErr
}

func (v *View) apply(g uint64, fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if g != v.generation {
		return
	}
	fn()
}

// IsFollowing is a membership test of the viewer in the fetched follower
// list.
func (v *View) IsFollowing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return contains(v.followers, v.viewer)
}

// ToggleFollow follows or unfollows the target optimistically: the local
// follower list changes first and is restored if the request fails.
func (v *View) ToggleFollow(ctx context.Context) error {
	v.mu.Lock()
	target := v.target
	prev := v.followers
	wasFollowing := contains(prev, v.viewer)
	if wasFollowing {
		next := make([]string, 0, len(prev))
		for _, username := range prev {
			if username != v.viewer {
				next = append(next, username)
			}
		}
		v.followers = next
	} else {
		v.followers = append(append([]string{}, prev...), v.viewer)
	}
	v.mu.Unlock()

	var err error
	if wasFollowing {
		err = v.social.Unfollow(ctx, target)
	} else {
		err = v.social.Follow(ctx, target)
	}
	if err != nil {
		v.mu.Lock()
		v.followers = prev
		v.mu.Unlock()
		return err
	}
	return nil
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := Snapshot{
		Target:      v.target,
		NotFound:    v.notFound,
		Followers:   append([]string{}, v.followers...),
		Following:   append([]string{}, v.following...),
		LikeCount:   v.likeCount,
		IsOwn:       v.target == v.viewer,
		IsFollowing: contains(v.followers, v.viewer),
	}
	if v.profile != nil {
		profile := *v.profile
		snap.Profile = &profile
	}
	return snap
}

func contains(usernames []string, username string) bool {
	for _, candidate := range usernames {
		if candidate == username {
			return true
		}
	}
	return false
}
