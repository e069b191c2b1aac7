package handlers

import (
	"net/http"

	"gearbay/internal/config"
	"gearbay/internal/database"
	"gearbay/internal/middleware"

	"github.com/gin-gonic/gin"
)

const landingPreviewSize = 6

// App holds the store clients and configuration the handlers operate on.
// It is constructed once at startup and passed to SetupRoutes; there are no
// package-level store handles.
type App struct {
	Accounts   database.AccountStore
	Listings   database.ListingStore
	Categories database.CategoryStore
	Sessions   database.SessionStore
	Cfg        *config.Config
}

func SetupRoutes(r *gin.Engine, app *App) {
	r.Use(middleware.LogRequests())
	r.Use(middleware.SecurityHeaders(app.Cfg))
	r.Use(middleware.TrimSpaces())

	authOptional := middleware.AuthOptional(app.Sessions, app.Accounts)
	authRequired := middleware.AuthRequired(app.Sessions, app.Accounts)

	r.GET("/", authOptional, app.handleHome)
	r.POST("/", authOptional, app.handleSearch)
	r.GET("/get_gear", authOptional, app.handleGallery)
	r.GET("/gear_details/:id", authOptional, app.handleGearDetails)
	r.GET("/browsecategory/:category", authOptional, app.handleBrowseCategory)
	r.GET("/about", authOptional, app.handleAbout)

	r.GET("/signup", app.handleSignupPage)
	r.POST("/signup", app.handleSignup)
	r.GET("/login", app.handleLoginPage)
	r.POST("/login", app.handleLogin)
	r.GET("/logout", app.handleLogout)

	protected := r.Group("/")
	protected.Use(authRequired)
	{
		protected.GET("/add_gear", app.handleAddGearPage)
		protected.POST("/insert_gear", app.handleInsertGear)
		protected.GET("/edit_gear/:id", app.handleEditGearPage)
		protected.POST("/update_gear/:id", app.handleUpdateGear)
		protected.GET("/delete_gear/:id", app.handleDeleteGear)
		protected.GET("/myprofile/:name", app.handleMyProfile)
		protected.GET("/delete_account/:id", app.handleDeleteAccount)
	}
}

func (app *App) handleHome(c *gin.Context) {
	account, _ := c.Get("account")

	recent, err := app.Listings.FindRecent(c.Request.Context(), landingPreviewSize)
	if err != nil {
		app.renderServerError(c, "Failed to load recent listings")
		return
	}

	featured, err := app.Listings.SampleFeatured(c.Request.Context())
	if err != nil {
		app.renderServerError(c, "Failed to load featured listings")
		return
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Title":    "GearBay - Used Gear Classifieds",
		"Account":  account,
		"Recent":   recent,
		"Featured": featured,
	})
}

func (app *App) handleSearch(c *gin.Context) {
	account, _ := c.Get("account")
	query := c.PostForm("query")

	listings, err := app.Listings.Search(c.Request.Context(), query)
	if err != nil {
		app.renderServerError(c, "Search failed")
		return
	}

	c.HTML(http.StatusOK, "gallery.html", gin.H{
		"Title":    "Search Results - GearBay",
		"Account":  account,
		"Listings": listings,
		"Query":    query,
	})
}

func (app *App) handleAbout(c *gin.Context) {
	account, _ := c.Get("account")
	c.HTML(http.StatusOK, "about.html", gin.H{
		"Title":   "About - GearBay",
		"Account": account,
	})
}

// renderServerError is the single recovery point for store failures: a
// generic page, no internals leaked to the caller.
func (app *App) renderServerError(c *gin.Context, message string) {
	account, _ := c.Get("account")
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Something went wrong - GearBay",
		"Account": account,
		"Message": message,
	})
}

func (app *App) renderNotFound(c *gin.Context) {
	account, _ := c.Get("account")
	c.HTML(http.StatusNotFound, "error.html", gin.H{
		"Title":   "Not Found - GearBay",
		"Account": account,
		"Message": "We couldn't find what you were looking for.",
	})
}

func (app *App) renderForbidden(c *gin.Context, message string) {
	account, _ := c.Get("account")
	c.HTML(http.StatusForbidden, "error.html", gin.H{
		"Title":   "Forbidden - GearBay",
		"Account": account,
		"Message": message,
	})
}
