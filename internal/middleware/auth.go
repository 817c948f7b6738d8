// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/friendstream/webapp/internal/config"
	"github.com/friendstream/webapp/internal/services"
	"github.com/friendstream/webapp/internal/session"
)

const sessionContextKey = "session"

// RequireSession is the route guard: requests without a restorable session
// are redirected to the login view, preserving the originally requested
// location so login can send the visitor back. Requests with one get the
// session installed into the request context (ID for the 401 invalidation
// path, token for the API clients) and pass through.
func RequireSession(store *session.Store, cookie config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookie.CookieName)
		if err != nil || id == "" {
			redirectToLogin(c)
			return
		}

		sess, ok := store.Get(id)
		if !ok {
			// Stale cookie; drop it so the browser stops sending it.
			c.SetCookie(cookie.CookieName, "", -1, "/", "", cookie.Secure, true)
			redirectToLogin(c)
			return
		}

		ctx := session.WithID(c.Request.Context(), sess.ID)
		ctx = services.WithToken(ctx, sess.Token)
		c.Request = c.Request.WithContext(ctx)
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	target := "/login"
	if from := c.Request.URL.Path; from != "" && from != "/" {
		target += "?from=" + url.QueryEscape(from)
	}
	c.Redirect(http.StatusSeeOther, target)
	c.Abort()
}

// CurrentSession returns the session installed by RequireSession.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok
}
