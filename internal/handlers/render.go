// internal/handlers/render.go
package handlers

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/friendstream/webapp/internal/middleware"
)

// render wraps c.HTML, injecting what every page needs: the locale and the
// logged-in user (when there is one) for the navbar.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Lang"] = lang(c)
	if sess, ok := middleware.CurrentSession(c); ok {
		data["CurrentUsername"] = sess.Username
	}
	c.HTML(status, name, data)
}

func logDebug(c *gin.Context, err error, message string) {
	logrus.WithError(err).WithField("path", c.Request.URL.Path).Debug(message)
}

func lang(c *gin.Context) string {
	if value, exists := c.Get("lang"); exists {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return "en"
}

// TemplateFuncs are installed on the gin engine before templates load.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"initial":     initial,
		"avatarColor": avatarColor,
	}
}

func initial(username string) string {
	if username == "" {
		return "?"
	}
	return strings.ToUpper(username[:1])
}

// avatarColor derives a stable placeholder color from a username, for users
// without a profile picture.
func avatarColor(username string) string {
	var hash int32
	for _, r := range username {
		hash = r + ((hash << 5) - hash)
	}
	return fmt.Sprintf("#%06X", uint32(hash)&0x00ffffff)
}
