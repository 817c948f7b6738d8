// internal/services/profile_service.go
package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/friendstream/webapp/internal/cache"
	"github.com/friendstream/webapp/internal/config"
	"github.com/friendstream/webapp/internal/models"
)

// ProfileService wraps the profile service. Successful lookups go through a
// short-TTL cache so that resolving a follower list to profiles does not
// refetch the same username over and over.
type ProfileService struct {
	client *client
	cache  *cache.Expiring[string, *models.Profile]
}

func NewProfileService(cfg *config.Config, onUnauthorized UnauthorizedHook) (*ProfileService, error) {
	profiles, err := cache.NewExpiring[string, *models.Profile](cache.Config{
		Name:            "profiles",
		TTL:             time.Duration(cfg.Cache.ProfileTTL) * time.Second,
		CleanupInterval: time.Duration(cfg.Cache.CleanupInterval) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	return &ProfileService{
		client: newClient(cfg.Services.ProfileURL, time.Duration(cfg.Services.Timeout)*time.Second, onUnauthorized),
		cache:  profiles,
	}, nil
}

// Get fetches a profile by username. Some deployments of the profile
// service answer 500 instead of 404 for a missing profile; both are
// reported as ErrProfileNotFound here so no view has to tell them apart.
func (s *ProfileService) Get(ctx context.Context, username string) (*models.Profile, error) {
	if profile, ok := s.cache.Get(username); ok {
		return profile, nil
	}

	var profile models.Profile
	err := s.client.do(ctx, http.MethodGet, "/profiles/"+username, nil, nil, &profile)
	if err != nil {
		if apiErr, ok := AsAPIError(err); ok &&
			(apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusInternalServerError) {
			return nil, fmt.Errorf("profile %q: %w", username, ErrProfileNotFound)
		}
		return nil, err
	}

	s.cache.Set(username, &profile)
	return &profile, nil
}

// GetMany resolves usernames to profiles concurrently, preserving order.
// A username whose lookup fails degrades to a bare profile instead of
// failing the whole page.
func (s *ProfileService) GetMany(ctx context.Context, usernames []string) []*models.Profile {
	profiles := make([]*models.Profile, len(usernames))

	var wg sync.WaitGroup
	for i, username := range usernames {
		wg.Add(1)
		go func(i int, username string) {
			defer wg.Done()
			profile, err := s.Get(ctx, username)
			if err != nil {
				profiles[i] = &models.Profile{Username: username}
				return
			}
			profiles[i] = profile
		}(i, username)
	}
	wg.Wait()

	return profiles
}

// Create registers a profile for the session user.
func (s *ProfileService) Create(ctx context.Context, form *models.ProfileForm) (*models.Profile, error) {
	var profile models.Profile
	if err := s.client.do(ctx, http.MethodPost, "/profiles", nil, form, &profile); err != nil {
		return nil, err
	}
	s.cache.Delete(form.Username)
	return &profile, nil
}

// Update replaces the profile identified by id. Only the owner may do this;
// the backend enforces it.
func (s *ProfileService) Update(ctx context.Context, id int64, form *models.ProfileForm) (*models.Profile, error) {
	var profile models.Profile
	if err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/profiles/%d", id), nil, form, &profile); err != nil {
		return nil, err
	}
	s.cache.Delete(form.Username)
	return &profile, nil
}
