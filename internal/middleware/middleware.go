package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"gearbay/internal/config"
	"gearbay/internal/database"

	"github.com/gin-gonic/gin"
)

const SessionCookie = "session_id"

// AuthRequired resolves the session cookie into an account and aborts to the
// login page when there is no valid session. The resolved identity is the
// only session state threaded through the request.
func AuthRequired(sessions database.SessionStore, accounts database.AccountStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionCookie, err := c.Cookie(SessionCookie)
		if err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		name, err := sessions.Validate(c.Request.Context(), sessionCookie)
		if err != nil {
			clearSessionCookie(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		account, err := accounts.FindByName(c.Request.Context(), name)
		if err != nil {
			// Session outlived its account (self-deletion); treat as logged out.
			clearSessionCookie(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set("account", account)
		c.Set("account_name", account.Name)
		c.Next()
	}
}

// AuthOptional resolves the session if one exists but lets anonymous
// requests through.
func AuthOptional(sessions database.SessionStore, accounts database.AccountStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionCookie, err := c.Cookie(SessionCookie)
		if err == nil {
			name, err := sessions.Validate(c.Request.Context(), sessionCookie)
			if err == nil {
				if account, err := accounts.FindByName(c.Request.Context(), name); err == nil {
					c.Set("account", account)
					c.Set("account_name", account.Name)
				}
			}
		}
		c.Next()
	}
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}

func SecurityHeaders(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip in development to keep browser tooling usable
		if cfg.IsDevelopment() {
			c.Next()
			return
		}

		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Next()
	}
}

func LogRequests() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("[%s] %s %s %d %s %s\n",
			param.TimeStamp.Format("2006/01/02 15:04:05"),
			param.Method,
			param.Path,
			param.StatusCode,
			param.Latency,
			param.ClientIP,
		)
	})
}

func TrimSpaces() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "POST" || c.Request.Method == "PUT" {
			c.Request.ParseForm()
			for key, values := range c.Request.PostForm {
				for i, value := range values {
					c.Request.PostForm[key][i] = strings.TrimSpace(value)
				}
			}
		}
		c.Next()
	}
}
