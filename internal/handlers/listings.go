package handlers

import (
	"errors"
	"net/http"

	"gearbay/internal/database"
	"gearbay/internal/logger"
	"gearbay/internal/models"

	"github.com/gin-gonic/gin"
)

func (app *App) handleGallery(c *gin.Context) {
	account, _ := c.Get("account")

	listings, err := app.Listings.FindRecent(c.Request.Context(), 0)
	if err != nil {
		app.renderServerError(c, "Failed to load listings")
		return
	}

	c.HTML(http.StatusOK, "gallery.html", gin.H{
		"Title":    "All Gear - GearBay",
		"Account":  account,
		"Listings": listings,
	})
}

func (app *App) handleGearDetails(c *gin.Context) {
	account, _ := c.Get("account")

	listing, err := app.Listings.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			app.renderNotFound(c)
			return
		}
		app.renderServerError(c, "Failed to load listing")
		return
	}

	c.HTML(http.StatusOK, "gear_details.html", gin.H{
		"Title":   listing.Brand + " " + listing.Model + " - GearBay",
		"Account": account,
		"Listing": listing,
	})
}

func (app *App) handleBrowseCategory(c *gin.Context) {
	account, _ := c.Get("account")
	category := c.Param("category")

	listings, err := app.Listings.FindByCategory(c.Request.Context(), category)
	if err != nil {
		app.renderServerError(c, "Failed to load category")
		return
	}

	c.HTML(http.StatusOK, "gallery.html", gin.H{
		"Title":    category + " - GearBay",
		"Account":  account,
		"Listings": listings,
		"Category": category,
	})
}

func (app *App) handleAddGearPage(c *gin.Context) {
	account := c.MustGet("account").(*models.Account)

	categories, err := app.Categories.All(c.Request.Context())
	if err != nil {
		app.renderServerError(c, "Failed to load categories")
		return
	}

	c.HTML(http.StatusOK, "add_gear.html", gin.H{
		"Title":      "Add Gear - GearBay",
		"Account":    account,
		"Categories": categories,
	})
}

// handleInsertGear stores the form fields verbatim. The store enforces no
// schema, so empty fields stay empty; the only server-side contribution is
// the author, the creation date and the featured default.
func (app *App) handleInsertGear(c *gin.Context) {
	account := c.MustGet("account").(*models.Account)

	listing := models.Listing{
		Model:        c.PostForm("model"),
		Brand:        c.PostForm("brand"),
		CategoryName: c.PostForm("category_name"),
		Description:  c.PostForm("description"),
		Score:        c.PostForm("score"),
		ImgURL:       c.PostForm("img_url"),
		Author:       account.Name,
	}

	created, err := app.Listings.Create(c.Request.Context(), listing)
	if err != nil {
		logger.Error("Failed to create listing", "author", account.Name, "error", err)
		app.renderServerError(c, "Failed to create your listing. Please try again.")
		return
	}

	logger.Info("Listing created", "author", account.Name, "listing_id", created.ID.Hex())
	c.Redirect(http.StatusFound, "/get_gear")
}

func (app *App) handleEditGearPage(c *gin.Context) {
	account := c.MustGet("account").(*models.Account)

	listing, ok := app.authorizeListingMutation(c, account)
	if !ok {
		return
	}

	categories, err := app.Categories.All(c.Request.Context())
	if err != nil {
		app.renderServerError(c, "Failed to load categories")
		return
	}

	c.HTML(http.StatusOK, "edit_gear.html", gin.H{
		"Title":      "Edit Gear - GearBay",
		"Account":    account,
		"Listing":    listing,
		"Categories": categories,
	})
}

func (app *App) handleUpdateGear(c *gin.Context) {
	account := c.MustGet("account").(*models.Account)

	if _, ok := app.authorizeListingMutation(c, account); !ok {
		return
	}

	updated := models.Listing{
		Model:        c.PostForm("model"),
		Brand:        c.PostForm("brand"),
		CategoryName: c.PostForm("category_name"),
		Description:  c.PostForm("description"),
		Score:        c.PostForm("score"),
		ImgURL:       c.PostForm("img_url"),
	}

	err := app.Listings.Update(c.Request.Context(), c.Param("id"), updated)
	if err != nil {
		// The listing can vanish between the ownership check and the write
		if errors.Is(err, database.ErrNotFound) {
			app.renderNotFound(c)
			return
		}
		logger.Error("Failed to update listing", "listing_id", c.Param("id"), "error", err)
		app.renderServerError(c, "Failed to update the listing. Please try again.")
		return
	}

	c.Redirect(http.StatusFound, "/gear_details/"+c.Param("id"))
}

func (app *App) handleDeleteGear(c *gin.Context) {
	account := c.MustGet("account").(*models.Account)

	if _, ok := app.authorizeListingMutation(c, account); !ok {
		return
	}

	err := app.Listings.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			app.renderNotFound(c)
			return
		}
		logger.Error("Failed to delete listing", "listing_id", c.Param("id"), "error", err)
		app.renderServerError(c, "Failed to delete the listing. Please try again.")
		return
	}

	logger.Info("Listing deleted", "listing_id", c.Param("id"), "by", account.Name)
	c.Redirect(http.StatusFound, "/get_gear")
}

// authorizeListingMutation loads the listing named in the route and checks
// that the caller may mutate it: only the author or an admin. On failure it
// has already rendered the response.
func (app *App) authorizeListingMutation(c *gin.Context, account *models.Account) (*models.Listing, bool) {
	listing, err := app.Listings.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			app.renderNotFound(c)
			return nil, false
		}
		app.renderServerError(c, "Failed to load listing")
		return nil, false
	}

	if listing.Author != account.Name && !account.IsAdmin {
		logger.Warn("Rejected listing mutation by non-owner",
			"listing_id", listing.ID.Hex(),
			"author", listing.Author,
			"caller", account.Name)
		app.renderForbidden(c, "Only the listing's author can change it.")
		return nil, false
	}

	return listing, true
}
