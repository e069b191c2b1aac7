package handlers

import (
	"errors"
	"net/http"

	"gearbay/internal/database"
	"gearbay/internal/logger"
	"gearbay/internal/middleware"
	"gearbay/internal/models"

	"github.com/gin-gonic/gin"
)

// handleMyProfile only ever shows the caller their own profile. Requesting
// another account's page is denied without leaking whether it exists.
func (app *App) handleMyProfile(c *gin.Context) {
	account := c.MustGet("account").(*models.Account)

	if c.Param("name") != account.Name {
		app.renderForbidden(c, "You can only view your own profile.")
		return
	}

	listings, err := app.Listings.FindByAuthor(c.Request.Context(), account.Name)
	if err != nil {
		app.renderServerError(c, "Failed to load your listings")
		return
	}

	c.HTML(http.StatusOK, "myprofile.html", gin.H{
		"Title":    account.Name + " - GearBay",
		"Account":  account,
		"Listings": listings,
	})
}

// handleDeleteAccount removes the caller's own account. Listings keep their
// author value and stay up; only account deletion is self-gated this way.
func (app *App) handleDeleteAccount(c *gin.Context) {
	account := c.MustGet("account").(*models.Account)

	if c.Param("id") != account.ID.Hex() {
		app.renderForbidden(c, "You can only delete your own account.")
		return
	}

	err := app.Accounts.Delete(c.Request.Context(), account.ID.Hex())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			app.renderNotFound(c)
			return
		}
		logger.Error("Failed to delete account", "username", account.Name, "error", err)
		app.renderServerError(c, "Failed to delete your account. Please try again.")
		return
	}

	if sessionCookie, err := c.Cookie(middleware.SessionCookie); err == nil {
		if err := app.Sessions.Delete(c.Request.Context(), sessionCookie); err != nil {
			logger.Warn("Failed to delete session", "session_id", sessionCookie, "error", err)
		}
	}

	logger.Info("Account deleted", "username", account.Name)
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", !app.Cfg.IsDevelopment(), true)
	c.Redirect(http.StatusFound, "/")
}
