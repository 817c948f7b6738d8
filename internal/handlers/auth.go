// internal/handlers/auth.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/friendstream/webapp/internal/config"
	"github.com/friendstream/webapp/internal/i18n"
	"github.com/friendstream/webapp/internal/models"
	"github.com/friendstream/webapp/internal/services"
	"github.com/friendstream/webapp/internal/session"
	"github.com/friendstream/webapp/internal/utils"
)

type AuthHandler struct {
	store  *session.Store
	cookie config.SessionConfig
}

func NewAuthHandler(store *session.Store, cookie config.SessionConfig) *AuthHandler {
	return &AuthHandler{store: store, cookie: cookie}
}

// GET /login
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.tmpl", gin.H{
		"From": safeFrom(c.Query("from")),
	})
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var form models.LoginRequest
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "login.tmpl", gin.H{"Error": i18n.T(lang(c), i18n.KeyAuthInvalidCredentials)})
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&form)); len(validationErrors) > 0 {
		render(c, http.StatusBadRequest, "login.tmpl", gin.H{
			"ValidationErrors": validationErrors,
			"Username":         form.Username,
		})
		return
	}

	sess, destination, err := h.store.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		message := i18n.T(lang(c), i18n.KeyAuthInvalidCredentials)
		if apiErr, ok := services.AsAPIError(err); ok && apiErr.Message != "" {
			message = apiErr.Message
		}
		render(c, http.StatusUnauthorized, "login.tmpl", gin.H{
			"Error":    message,
			"Username": form.Username,
		})
		return
	}

	c.SetCookie(h.cookie.CookieName, sess.ID, h.cookie.TTL*3600, "/", "", h.cookie.Secure, true)

	// A preserved location wins over the profile-based destination, except
	// when the user still has to create a profile.
	target := string(destination)
	if from := safeFrom(c.PostForm("from")); from != "" && destination == session.DestinationHome {
		target = from
	}
	c.Redirect(http.StatusSeeOther, target)
}

// GET /signup
func (h *AuthHandler) ShowSignup(c *gin.Context) {
	render(c, http.StatusOK, "signup.tmpl", nil)
}

// POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var form models.RegisterRequest
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "signup.tmpl", gin.H{"Error": i18n.T(lang(c), i18n.KeyAuthRegisterFailed)})
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&form)); len(validationErrors) > 0 {
		render(c, http.StatusBadRequest, "signup.tmpl", gin.H{
			"ValidationErrors": validationErrors,
			"Form":             form,
		})
		return
	}

	if err := h.store.Signup(c.Request.Context(), &form); err != nil {
		message := i18n.T(lang(c), i18n.KeyAuthRegisterFailed)
		var suggestions []string
		if apiErr, ok := services.AsAPIError(err); ok {
			if apiErr.Message != "" {
				message = apiErr.Message
			}
			suggestions = apiErr.Suggestions
		}
		render(c, http.StatusBadRequest, "signup.tmpl", gin.H{
			"Error":       message,
			"Suggestions": suggestions,
			"Form":        form,
		})
		return
	}

	// Registration does not log the user in; send them to the login view.
	c.Redirect(http.StatusSeeOther, "/login")
}

// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if id, err := c.Cookie(h.cookie.CookieName); err == nil && id != "" {
		h.store.Logout(id)
	}
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

// safeFrom keeps the post-login redirect inside the app: only local
// absolute paths survive.
func safeFrom(from string) string {
	if strings.HasPrefix(from, "/") && !strings.HasPrefix(from, "//") {
		return from
	}
	return ""
}
