// internal/handlers/profile.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/friendstream/webapp/internal/cache"
	"github.com/friendstream/webapp/internal/i18n"
	"github.com/friendstream/webapp/internal/middleware"
	"github.com/friendstream/webapp/internal/models"
	"github.com/friendstream/webapp/internal/profileview"
	"github.com/friendstream/webapp/internal/services"
	"github.com/friendstream/webapp/internal/utils"
)

// ProfileHandler serves profile pages, the create/edit forms and the
// follower/following lists.
type ProfileHandler struct {
	profiles *services.ProfileService
	social   *services.SocialService
	views    *cache.Expiring[string, *profileview.View]
}

func NewProfileHandler(profiles *services.ProfileService, social *services.SocialService, views *cache.Expiring[string, *profileview.View]) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, social: social, views: views}
}

func (h *ProfileHandler) view(c *gin.Context) (*profileview.View, bool) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return nil, false
	}
	if view, ok := h.views.Get(sess.ID); ok {
		return view, true
	}
	view := profileview.New(h.profiles, h.social, sess.Username)
	h.views.Set(sess.ID, view)
	return view, true
}

// GET /profile/:username   (":username" may be "me")
func (h *ProfileHandler) Show(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	err := view.Load(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, services.ErrSessionExpired) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		render(c, http.StatusBadGateway, "profile.tmpl", gin.H{
			"Error": i18n.T(lang(c), i18n.KeyProfileLoadFailed),
		})
		return
	}

	snap := view.Snapshot()
	if snap.NotFound {
		if snap.IsOwn {
			// Your own profile is missing: invite, don't 404.
			render(c, http.StatusOK, "profile_missing.tmpl", gin.H{
				"Prompt": i18n.T(lang(c), i18n.KeyProfileCreatePrompt),
				"IsOwn":  true,
			})
			return
		}
		render(c, http.StatusNotFound, "profile_missing.tmpl", gin.H{
			"Error":  i18n.T(lang(c), i18n.KeyProfileNotFound),
			"Target": snap.Target,
		})
		return
	}

	render(c, http.StatusOK, "profile.tmpl", gin.H{
		"Profile":     snap.Profile,
		"Target":      snap.Target,
		"Followers":   snap.Followers,
		"Following":   snap.Following,
		"LikeCount":   snap.LikeCount,
		"IsOwn":       snap.IsOwn,
		"IsFollowing": snap.IsFollowing,
	})
}

// POST /profile/:username/follow
func (h *ProfileHandler) ToggleFollow(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	ctx := c.Request.Context()
	target := view.Resolve(c.Param("username"))
	if view.Snapshot().Target != target {
		if err := view.Load(ctx, target); err != nil {
			logDebug(c, err, "profile load before follow failed")
		}
	}

	if err := view.ToggleFollow(ctx); err != nil {
		if errors.Is(err, services.ErrSessionExpired) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		snap := view.Snapshot()
		render(c, http.StatusBadGateway, "profile.tmpl", gin.H{
			"Error":       i18n.T(lang(c), i18n.KeyFollowFailed),
			"Profile":     snap.Profile,
			"Target":      snap.Target,
			"Followers":   snap.Followers,
			"Following":   snap.Following,
			"LikeCount":   snap.LikeCount,
			"IsOwn":       snap.IsOwn,
			"IsFollowing": snap.IsFollowing,
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/profile/"+c.Param("username"))
}

// GET /profile/:username/followers and /profile/:username/following
func (h *ProfileHandler) FollowList(c *gin.Context, listType string) {
	view, ok := h.view(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	ctx := c.Request.Context()
	target := view.Resolve(c.Param("username"))

	var usernames []string
	var err error
	if listType == "followers" {
		usernames, err = h.social.Followers(ctx, target)
	} else {
		usernames, err = h.social.Following(ctx, target)
	}
	if err != nil {
		if errors.Is(err, services.ErrSessionExpired) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		render(c, http.StatusBadGateway, "follow_list.tmpl", gin.H{
			"Error":  i18n.T(lang(c), i18n.KeyGenericFailure),
			"Title":  listTitle(listType),
			"Target": target,
		})
		return
	}

	// Resolve each username to a profile; failures degrade to bare names.
	profiles := h.profiles.GetMany(ctx, usernames)

	render(c, http.StatusOK, "follow_list.tmpl", gin.H{
		"Title":    listTitle(listType),
		"Target":   target,
		"Profiles": profiles,
	})
}

func listTitle(listType string) string {
	if listType == "followers" {
		return "Followers"
	}
	return "Following"
}

// GET /create-profile
func (h *ProfileHandler) ShowCreate(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	render(c, http.StatusOK, "profile_form.tmpl", gin.H{
		"Prompt": i18n.T(lang(c), i18n.KeyProfileCreatePrompt),
		"Form":   models.ProfileForm{Username: sess.Username},
		"Action": "/profile",
	})
}

// POST /profile
func (h *ProfileHandler) Create(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	form, validationErrors, err := h.bindProfileForm(c, sess.Username)
	if err != nil || len(validationErrors) > 0 {
		render(c, http.StatusBadRequest, "profile_form.tmpl", gin.H{
			"Form":             form,
			"Action":           "/profile",
			"ValidationErrors": validationErrors,
			"Error":            errText(c, err, i18n.KeyProfileSaveFailed),
		})
		return
	}

	if _, err := h.profiles.Create(c.Request.Context(), form); err != nil {
		if errors.Is(err, services.ErrSessionExpired) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		render(c, http.StatusBadGateway, "profile_form.tmpl", gin.H{
			"Form":   form,
			"Action": "/profile",
			"Error":  backendMessage(c, err, i18n.KeyProfileSaveFailed),
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/profile/me")
}

// GET /profile/:username/edit  (own profile only)
func (h *ProfileHandler) ShowEdit(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	if target := c.Param("username"); target != "me" && target != sess.Username {
		c.Redirect(http.StatusSeeOther, "/profile/"+target)
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), sess.Username)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			c.Redirect(http.StatusSeeOther, "/create-profile")
			return
		}
		if errors.Is(err, services.ErrSessionExpired) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		render(c, http.StatusBadGateway, "profile_form.tmpl", gin.H{
			"Error": i18n.T(lang(c), i18n.KeyProfileLoadFailed),
		})
		return
	}

	render(c, http.StatusOK, "profile_form.tmpl", gin.H{
		"Form": models.ProfileForm{
			ID:                profile.ID,
			Username:          profile.Username,
			DisplayName:       profile.DisplayName,
			AboutMe:           profile.AboutMe,
			Location:          profile.Location,
			Birthdate:         profile.Birthdate,
			Gender:            profile.Gender,
			PhoneNumber:       profile.PhoneNumber,
			ProfilePictureURL: profile.ProfilePictureURL,
			SecondaryImageURL: profile.SecondaryImageURL,
		},
		"Action":  "/profile/me/edit",
		"Editing": true,
	})
}

// POST /profile/:username/edit
func (h *ProfileHandler) Update(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	form, validationErrors, err := h.bindProfileForm(c, sess.Username)
	if err != nil || len(validationErrors) > 0 {
		render(c, http.StatusBadRequest, "profile_form.tmpl", gin.H{
			"Form":             form,
			"Action":           "/profile/me/edit",
			"Editing":          true,
			"ValidationErrors": validationErrors,
			"Error":            errText(c, err, i18n.KeyProfileSaveFailed),
		})
		return
	}

	if _, err := h.profiles.Update(c.Request.Context(), form.ID, form); err != nil {
		if errors.Is(err, services.ErrSessionExpired) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		render(c, http.StatusBadGateway, "profile_form.tmpl", gin.H{
			"Form":    form,
			"Action":  "/profile/me/edit",
			"Editing": true,
			"Error":   backendMessage(c, err, i18n.KeyProfileSaveFailed),
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/profile/me")
}

// bindProfileForm binds and validates the profile form. The username is
// always the session user's; profiles are mutable by their owner only and
// the form is not trusted on this.
func (h *ProfileHandler) bindProfileForm(c *gin.Context, username string) (*models.ProfileForm, []utils.ValidationError, error) {
	var form models.ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		return &form, nil, err
	}
	form.Username = username
	if form.DisplayName == "" {
		form.DisplayName = username
	}
	return &form, utils.GetValidationErrors(utils.ValidateStruct(&form)), nil
}

func errText(c *gin.Context, err error, key string) string {
	if err == nil {
		return ""
	}
	return i18n.T(lang(c), key)
}

func backendMessage(c *gin.Context, err error, fallbackKey string) string {
	if apiErr, ok := services.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return i18n.T(lang(c), fallbackKey)
}
