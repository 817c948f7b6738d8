// internal/handlers/feed.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/friendstream/webapp/internal/cache"
	"github.com/friendstream/webapp/internal/feed"
	"github.com/friendstream/webapp/internal/i18n"
	"github.com/friendstream/webapp/internal/middleware"
	"github.com/friendstream/webapp/internal/models"
	"github.com/friendstream/webapp/internal/services"
	"github.com/friendstream/webapp/internal/utils"
)

// FeedHandler serves the home feed and the post detail view, both backed by
// one per-session feed state so likes, comments and deletes stay consistent
// between pages without refetching everything.
type FeedHandler struct {
	posts  *services.PostService
	social *services.SocialService
	states *cache.Expiring[string, *feed.State]
	limit  int
}

func NewFeedHandler(posts *services.PostService, social *services.SocialService, states *cache.Expiring[string, *feed.State], limit int) *FeedHandler {
	return &FeedHandler{posts: posts, social: social, states: states, limit: limit}
}

func (h *FeedHandler) state(c *gin.Context) (*feed.State, bool) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return nil, false
	}
	if st, ok := h.states.Get(sess.ID); ok {
		return st, true
	}
	st := feed.NewState(h.posts, h.social, sess.Username, nil, h.limit)
	h.states.Set(sess.ID, st)
	return st, true
}

// GET /
func (h *FeedHandler) Home(c *gin.Context) {
	st, ok := h.state(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	ctx := c.Request.Context()
	var loadErr string
	if err := st.Load(ctx); err != nil {
		if errors.Is(err, services.ErrSessionExpired) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		loadErr = i18n.T(lang(c), i18n.KeyPostLoadFailed)
	}

	if selected := c.Query("select"); selected != "" {
		if id, err := strconv.ParseInt(selected, 10, 64); err == nil {
			if err := st.Select(ctx, id); err != nil && loadErr == "" {
				loadErr = i18n.T(lang(c), i18n.KeyPostLoadFailed)
			}
		}
	}

	h.renderFeed(c, st, loadErr)
}

// GET /posts/:id
func (h *FeedHandler) ShowPost(c *gin.Context) {
	st, ok := h.state(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	ctx := c.Request.Context()
	if err := st.Select(ctx, id); err != nil {
		if errors.Is(err, services.ErrSessionExpired) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		render(c, http.StatusNotFound, "post.tmpl", gin.H{
			"Error": i18n.T(lang(c), i18n.KeyPostLoadFailed),
		})
		return
	}
	if err := st.EnsureLikeInfo(ctx, id); err != nil {
		logDebug(c, err, "like info load failed")
	}

	snap := st.Snapshot()
	render(c, http.StatusOK, "post.tmpl", gin.H{
		"Post":     snap.Selected,
		"Comments": snap.Comments,
		"Likes":    st.LikeInfoFor(id),
	})
}

// POST /posts
func (h *FeedHandler) CreatePost(c *gin.Context) {
	st, ok := h.state(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	var form models.CreatePostRequest
	if err := c.ShouldBind(&form); err != nil {
		h.renderFeed(c, st, i18n.T(lang(c), i18n.KeyPostCreateFailed))
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&form)); len(validationErrors) > 0 {
		h.renderFeedWithValidation(c, st, validationErrors)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.posts.Create(ctx, &form); err != nil {
		if errors.Is(err, services.ErrSessionExpired) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		h.renderFeed(c, st, i18n.T(lang(c), i18n.KeyPostCreateFailed))
		return
	}

	// Reload so the new post shows up at the top.
	if err := st.Load(ctx); err != nil {
		logDebug(c, err, "feed reload after create failed")
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// POST /posts/:id/delete
func (h *FeedHandler) DeletePost(c *gin.Context) {
	st, ok := h.state(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	if err := st.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrSessionExpired):
			c.Redirect(http.StatusSeeOther, "/login")
		case services.IsForbidden(err):
			// The delete control is hidden for other people's posts, but
			// that is cosmetic; the backend has the final word.
			h.renderFeed(c, st, i18n.T(lang(c), i18n.KeyPostDeleteOwnOnly))
		default:
			h.renderFeed(c, st, i18n.T(lang(c), i18n.KeyPostDeleteFailed))
		}
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// POST /posts/:id/like
func (h *FeedHandler) ToggleLike(c *gin.Context) {
	st, ok := h.state(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	ctx := c.Request.Context()
	if err := st.EnsureLikeInfo(ctx, id); err != nil {
		logDebug(c, err, "like info load failed")
	}
	if err := st.ToggleLike(ctx, id); err != nil {
		if errors.Is(err, services.ErrSessionExpired) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		h.renderFeed(c, st, i18n.T(lang(c), i18n.KeyLikeFailed))
		return
	}
	c.Redirect(http.StatusSeeOther, backTarget(c))
}

// POST /posts/:id/comments
func (h *FeedHandler) AddComment(c *gin.Context) {
	st, ok := h.state(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	var form models.CreateCommentRequest
	if err := c.ShouldBind(&form); err != nil {
		h.renderFeed(c, st, i18n.T(lang(c), i18n.KeyCommentAddFailed))
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&form)); len(validationErrors) > 0 {
		h.renderFeedWithValidation(c, st, validationErrors)
		return
	}

	ctx := c.Request.Context()
	if snap := st.Snapshot(); snap.Selected == nil || snap.Selected.ID != id {
		if err := st.Select(ctx, id); err != nil {
			h.renderFeed(c, st, i18n.T(lang(c), i18n.KeyCommentLoadFailed))
			return
		}
	}
	if _, err := st.AddComment(ctx, &form); err != nil {
		if errors.Is(err, services.ErrSessionExpired) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		h.renderFeed(c, st, i18n.T(lang(c), i18n.KeyCommentAddFailed))
		return
	}
	c.Redirect(http.StatusSeeOther, backTarget(c))
}

func (h *FeedHandler) renderFeed(c *gin.Context, st *feed.State, errText string) {
	snap := st.Snapshot()
	data := gin.H{
		"Posts":    snap.Posts,
		"Likes":    snap.Likes,
		"Selected": snap.Selected,
		"Comments": snap.Comments,
	}
	if errText != "" {
		data["Error"] = errText
	}
	status := http.StatusOK
	if errText != "" {
		status = http.StatusBadGateway
		if errText == i18n.T(lang(c), i18n.KeyPostDeleteOwnOnly) {
			status = http.StatusForbidden
		}
	}
	render(c, status, "feed.tmpl", data)
}

func (h *FeedHandler) renderFeedWithValidation(c *gin.Context, st *feed.State, validationErrors []utils.ValidationError) {
	snap := st.Snapshot()
	render(c, http.StatusBadRequest, "feed.tmpl", gin.H{
		"Posts":            snap.Posts,
		"Likes":            snap.Likes,
		"Selected":         snap.Selected,
		"Comments":         snap.Comments,
		"ValidationErrors": validationErrors,
	})
}

// backTarget sends a form action back to the page it came from: the post
// detail page when the form says so, the feed otherwise.
func backTarget(c *gin.Context) string {
	if c.PostForm("back") == "detail" {
		if id := c.Param("id"); id != "" {
			return "/posts/" + id
		}
	}
	return "/"
}
