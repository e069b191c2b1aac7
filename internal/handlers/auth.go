package handlers

import (
	"errors"
	"net/http"

	"gearbay/internal/database"
	"gearbay/internal/logger"
	"gearbay/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (app *App) handleSignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{
		"Title": "Sign Up - GearBay",
	})
}

func (app *App) handleSignup(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	formErrors := make(map[string]string)

	if username == "" {
		formErrors["username"] = "Username is required"
	}
	if password == "" {
		formErrors["password"] = "Password is required"
	}

	if len(formErrors) > 0 {
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{
			"Title":    "Sign Up - GearBay",
			"Errors":   formErrors,
			"Username": username,
		})
		return
	}

	account, err := app.Accounts.Create(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateName) {
			c.HTML(http.StatusBadRequest, "signup.html", gin.H{
				"Title":    "Sign Up - GearBay",
				"Errors":   map[string]string{"username": "That username is already taken"},
				"Username": username,
			})
			return
		}
		logger.Error("Failed to create account", "username", username, "error", err)
		app.renderServerError(c, "Failed to create your account. Please try again.")
		return
	}

	logger.Info("Account created", "username", account.Name)
	app.startSession(c, account.Name)
}

func (app *App) handleLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title": "Login - GearBay",
	})
}

func (app *App) handleLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	_, err := app.Accounts.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		// NotFound and BadPassword collapse into one message on purpose
		if errors.Is(err, database.ErrNotFound) || errors.Is(err, database.ErrBadPassword) {
			c.HTML(http.StatusBadRequest, "login.html", gin.H{
				"Title":    "Login - GearBay",
				"Errors":   map[string]string{"general": "Invalid username or password"},
				"Username": username,
			})
			return
		}
		logger.Error("Login failed", "username", username, "error", err)
		app.renderServerError(c, "Login failed. Please try again.")
		return
	}

	app.startSession(c, username)
}

// handleLogout ends the session bound to the cookie. Logging out without a
// session is not an error.
func (app *App) handleLogout(c *gin.Context) {
	if sessionCookie, err := c.Cookie(middleware.SessionCookie); err == nil {
		if err := app.Sessions.Delete(c.Request.Context(), sessionCookie); err != nil {
			logger.Warn("Failed to delete session", "session_id", sessionCookie, "error", err)
		}
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", !app.Cfg.IsDevelopment(), true)
	c.Redirect(http.StatusFound, "/")
}

func (app *App) startSession(c *gin.Context, name string) {
	session, err := app.Sessions.Create(c.Request.Context(), name, app.Cfg.SessionDuration)
	if err != nil {
		logger.Error("Failed to create session", "username", name, "error", err)
		app.renderServerError(c, "Failed to start your session. Please try again.")
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	cookieMaxAge := int(app.Cfg.SessionDuration.Seconds())
	c.SetCookie(middleware.SessionCookie, session.Token, cookieMaxAge, "/", "", !app.Cfg.IsDevelopment(), true)
	c.Redirect(http.StatusFound, "/")
}
