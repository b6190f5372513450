package middleware

import (
	"net/http"
	"strings"

	"footnote/auth"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	// ContextLoggedIn holds a bool: whether the request carried a valid session.
	ContextLoggedIn = "isLoggedIn"
	// ContextUsername holds the lowercased username of the session.
	ContextUsername = "username"
)

// Session reads the session token from cookieName or a Bearer header and
// records isLoggedIn/username on the context. The Bearer token is tried
// when the cookie is missing or rejected. Requests without a valid
// session continue as anonymous.
func Session(secret, cookieName string, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextLoggedIn, false)
		c.Set(ContextUsername, "")

		for _, token := range sessionTokens(c, cookieName) {
			username, err := auth.ParseSessionToken(secret, token)
			if err != nil {
				log.WithError(err).WithField("path", c.Request.URL.Path).Debug("Rejected session token")
				continue
			}

			c.Set(ContextLoggedIn, true)
			c.Set(ContextUsername, username)
			break
		}
		c.Next()
	}
}

// RequireSession aborts with 401 unless Session accepted the request.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextLoggedIn) || c.GetString(ContextUsername) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Username returns the session username, or "" for anonymous requests.
func Username(c *gin.Context) string {
	return c.GetString(ContextUsername)
}

// sessionTokens returns the cookie token, then the Bearer token, skipping
// whichever is absent.
func sessionTokens(c *gin.Context, cookieName string) []string {
	var tokens []string
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		tokens = append(tokens, cookie)
	}

	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
		tokens = append(tokens, parts[1])
	}
	return tokens
}
