package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"gearbay/internal/config"
	"gearbay/internal/database"
	"gearbay/internal/models"

	"github.com/gin-gonic/gin"
)

func setupTestApp(t *testing.T) (*gin.Engine, *App) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := &App{
		Accounts:   database.NewInMemoryAccountStore(),
		Listings:   database.NewInMemoryListingStore(),
		Categories: database.NewInMemoryCategoryStore(),
		Sessions:   database.NewInMemorySessionStore(),
		Cfg: &config.Config{
			SessionDuration: time.Hour,
			Env:             "development",
		},
	}

	if err := app.Categories.Seed(context.Background(), database.DefaultCategories); err != nil {
		t.Fatal("Failed to seed categories:", err)
	}

	r := gin.New()
	r.LoadHTMLGlob("../../templates/*.html")
	SetupRoutes(r, app)

	return r, app
}

func get(r *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(r *gin.Engine, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "session_id" && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("Expected a session cookie in the response")
	return nil
}

func signup(t *testing.T, r *gin.Engine, username, password string) *http.Cookie {
	t.Helper()
	w := postForm(r, "/signup", url.Values{"username": {username}, "password": {password}}, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("Signup for %s: expected redirect, got %d", username, w.Code)
	}
	return sessionCookie(t, w)
}

func TestSignupLoginAndListingFlow(t *testing.T) {
	r, app := setupTestApp(t)

	alice := signup(t, r, "alice", "pw1")

	// A fresh login also works and issues its own session
	w := postForm(r, "/login", url.Values{"username": {"alice"}, "password": {"pw1"}}, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("Login: expected redirect, got %d", w.Code)
	}
	sessionCookie(t, w)

	w = postForm(r, "/insert_gear", url.Values{
		"model":         {"Hubba Hubba NX"},
		"brand":         {"MSR"},
		"category_name": {"Tents"},
		"description":   {"Two person tent"},
		"score":         {"9/10"},
	}, alice)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/get_gear" {
		t.Fatalf("Insert: expected redirect to /get_gear, got %d %s", w.Code, w.Header().Get("Location"))
	}

	listings, err := app.Listings.FindByAuthor(context.Background(), "alice")
	if err != nil || len(listings) != 1 {
		t.Fatalf("Expected one listing by alice, got %d (err %v)", len(listings), err)
	}
	listing := listings[0]
	if listing.Author != "alice" {
		t.Errorf("Expected author 'alice', got %s", listing.Author)
	}
	if listing.IsFeatured {
		t.Error("New listing must not be featured")
	}
	if listing.DateCreated != models.Today() {
		t.Errorf("Expected date_created %s, got %s", models.Today(), listing.DateCreated)
	}

	w = get(r, "/get_gear", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Hubba Hubba NX") {
		t.Error("Gallery should include the new listing")
	}

	w = get(r, "/gear_details/"+listing.ID.Hex(), nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Two person tent") {
		t.Error("Details page should render the listing")
	}

	w = get(r, "/delete_gear/"+listing.ID.Hex(), alice)
	if w.Code != http.StatusFound {
		t.Fatalf("Delete: expected redirect, got %d", w.Code)
	}

	w = get(r, "/get_gear", nil)
	if strings.Contains(w.Body.String(), "Hubba Hubba NX") {
		t.Error("Gallery should no longer include the deleted listing")
	}
}

func TestDuplicateSignupRejected(t *testing.T) {
	r, _ := setupTestApp(t)

	signup(t, r, "alice", "pw1")

	w := postForm(r, "/signup", url.Values{"username": {"alice"}, "password": {"pw2"}}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on duplicate signup, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already taken") {
		t.Error("Expected a duplicate-name message")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	r, _ := setupTestApp(t)

	signup(t, r, "alice", "pw1")

	w := postForm(r, "/login", url.Values{"username": {"alice"}, "password": {"nope"}}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on bad password, got %d", w.Code)
	}

	w = postForm(r, "/login", url.Values{"username": {"nobody"}, "password": {"pw1"}}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on unknown account, got %d", w.Code)
	}
}

func TestAnonymousCreateRequiresLogin(t *testing.T) {
	r, app := setupTestApp(t)

	w := postForm(r, "/insert_gear", url.Values{"model": {"X"}}, nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Errorf("Expected redirect to /login, got %d %s", w.Code, w.Header().Get("Location"))
	}

	all, err := app.Listings.FindRecent(context.Background(), 0)
	if err != nil || len(all) != 0 {
		t.Errorf("No listing must be created anonymously, got %d (err %v)", len(all), err)
	}
}

func TestNonOwnerCannotMutateListing(t *testing.T) {
	r, app := setupTestApp(t)

	alice := signup(t, r, "alice", "pw1")
	bob := signup(t, r, "bob", "pw2")

	postForm(r, "/insert_gear", url.Values{"model": {"Exos 58"}, "brand": {"Osprey"}}, alice)
	listings, _ := app.Listings.FindByAuthor(context.Background(), "alice")
	if len(listings) != 1 {
		t.Fatal("Expected alice's listing to exist")
	}
	id := listings[0].ID.Hex()

	if w := get(r, "/edit_gear/"+id, bob); w.Code != http.StatusForbidden {
		t.Errorf("Edit form: expected 403 for non-owner, got %d", w.Code)
	}
	if w := postForm(r, "/update_gear/"+id, url.Values{"model": {"hijacked"}}, bob); w.Code != http.StatusForbidden {
		t.Errorf("Update: expected 403 for non-owner, got %d", w.Code)
	}
	if w := get(r, "/delete_gear/"+id, bob); w.Code != http.StatusForbidden {
		t.Errorf("Delete: expected 403 for non-owner, got %d", w.Code)
	}

	listing, err := app.Listings.FindByID(context.Background(), id)
	if err != nil {
		t.Fatal("Listing must survive rejected mutations:", err)
	}
	if listing.Model != "Exos 58" {
		t.Errorf("Listing must be unchanged, got model %s", listing.Model)
	}
}

func TestOwnerCanEditButImmutableFieldsSurvive(t *testing.T) {
	r, app := setupTestApp(t)

	alice := signup(t, r, "alice", "pw1")

	postForm(r, "/insert_gear", url.Values{
		"model": {"Exos 58"}, "brand": {"Osprey"}, "category_name": {"Backpacks"},
	}, alice)
	listings, _ := app.Listings.FindByAuthor(context.Background(), "alice")
	created := listings[0]

	w := postForm(r, "/update_gear/"+created.ID.Hex(), url.Values{
		"model": {"Exos 48"}, "brand": {"Osprey"}, "category_name": {"Backpacks"},
		"description": {"relisting"},
	}, alice)
	if w.Code != http.StatusFound {
		t.Fatalf("Update: expected redirect, got %d", w.Code)
	}

	updated, err := app.Listings.FindByID(context.Background(), created.ID.Hex())
	if err != nil {
		t.Fatal("Failed to fetch updated listing:", err)
	}
	if updated.Model != "Exos 48" || updated.Description != "relisting" {
		t.Errorf("Edited fields must be applied, got %+v", updated)
	}
	if updated.Author != "alice" || updated.DateCreated != created.DateCreated || updated.IsFeatured != created.IsFeatured {
		t.Error("author, date_created and is_featured must survive the edit")
	}
}

func TestMyProfileIsPrivate(t *testing.T) {
	r, _ := setupTestApp(t)

	alice := signup(t, r, "alice", "pw1")
	signup(t, r, "bob", "pw2")

	w := get(r, "/myprofile/alice", alice)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "alice") {
		t.Errorf("Own profile: expected 200 with name, got %d", w.Code)
	}

	w = get(r, "/myprofile/bob", alice)
	if w.Code != http.StatusForbidden {
		t.Errorf("Other profile: expected 403, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "Member since") {
		t.Error("Another account's profile data must not leak")
	}

	w = get(r, "/myprofile/alice", nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Errorf("Anonymous profile view: expected redirect to /login, got %d", w.Code)
	}
}

func TestDeleteAccountSelfOnlyAndOrphansListings(t *testing.T) {
	r, app := setupTestApp(t)

	alice := signup(t, r, "alice", "pw1")
	bob := signup(t, r, "bob", "pw2")

	postForm(r, "/insert_gear", url.Values{"model": {"survivor"}}, alice)

	aliceAccount, err := app.Accounts.FindByName(context.Background(), "alice")
	if err != nil {
		t.Fatal("Failed to look up alice:", err)
	}

	// Bob cannot delete alice's account
	if w := get(r, "/delete_account/"+aliceAccount.ID.Hex(), bob); w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 deleting someone else's account, got %d", w.Code)
	}

	// Alice deletes her own account
	if w := get(r, "/delete_account/"+aliceAccount.ID.Hex(), alice); w.Code != http.StatusFound {
		t.Errorf("Expected redirect after self-deletion, got %d", w.Code)
	}

	if _, err := app.Accounts.FindByName(context.Background(), "alice"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("Expected alice's account to be gone, got %v", err)
	}

	orphans, err := app.Listings.FindByAuthor(context.Background(), "alice")
	if err != nil || len(orphans) != 1 {
		t.Errorf("Listings must be orphaned, not deleted; got %d (err %v)", len(orphans), err)
	}
}

func TestSearchNoMatchRendersEmpty(t *testing.T) {
	r, _ := setupTestApp(t)

	w := postForm(r, "/", url.Values{"query": {"unicycle"}}, nil)
	if w.Code != http.StatusOK {
		t.Errorf("No-match search must render normally, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Nothing here yet") {
		t.Error("Expected the empty-results message")
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	r, _ := setupTestApp(t)

	alice := signup(t, r, "alice", "pw1")

	if w := get(r, "/logout", alice); w.Code != http.StatusFound {
		t.Errorf("Logout: expected redirect, got %d", w.Code)
	}
	// Logging out again, and without any session at all, is fine
	if w := get(r, "/logout", alice); w.Code != http.StatusFound {
		t.Errorf("Repeated logout: expected redirect, got %d", w.Code)
	}
	if w := get(r, "/logout", nil); w.Code != http.StatusFound {
		t.Errorf("Anonymous logout: expected redirect, got %d", w.Code)
	}

	// The old session no longer authenticates
	if w := get(r, "/add_gear", alice); w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Errorf("Expected stale session to be rejected, got %d", w.Code)
	}
}

func TestBadListingIDRendersNotFound(t *testing.T) {
	r, _ := setupTestApp(t)

	if w := get(r, "/gear_details/not-a-real-id", nil); w.Code != http.StatusNotFound {
		t.Errorf("Malformed id: expected 404, got %d", w.Code)
	}
	if w := get(r, "/gear_details/65f000000000000000000000", nil); w.Code != http.StatusNotFound {
		t.Errorf("Unknown id: expected 404, got %d", w.Code)
	}
}
