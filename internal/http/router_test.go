package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booklore/homeshelf/internal/auth"
	"github.com/booklore/homeshelf/internal/backup"
	"github.com/booklore/homeshelf/internal/config"
	"github.com/booklore/homeshelf/internal/database"
	"github.com/booklore/homeshelf/internal/database/books"
	"github.com/booklore/homeshelf/internal/database/categories"
	"github.com/booklore/homeshelf/internal/database/shelf"
	"github.com/booklore/homeshelf/internal/database/stats"
)

func setupFullRouter(t *testing.T, debug bool) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_router_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cfg := &config.Config{
		Site: config.Site{Name: "HomeShelf", Version: "test"},
		Auth: config.Auth{SessionMaxAgeDays: 1},
		Debug: config.Debug{
			Enabled: debug,
		},
	}

	service, err := auth.NewService(config.Admin{Username: "admin", Password: "s3cret"})
	require.NoError(t, err)

	sqlDB, err := db.SQLDB()
	require.NoError(t, err)
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Config:         cfg,
		Database:       db,
		Books:          books.NewRepository(db.DB),
		Categories:     categories.NewRepository(db.DB),
		Shelf:          shelf.NewRepository(db.DB),
		Stats:          stats.NewRepository(db.DB),
		AuthService:    service,
		SessionManager: sessionManager,
		Backups:        backup.NewService(dbPath, t.TempDir()),
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, cleanup
}

func loginCookie(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()
	w := doJSON(router, "POST", "/auth/login", `{"username":"admin","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == auth.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func doAuthed(router *gin.Engine, cookie *http.Cookie, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicEndpoints(t *testing.T) {
	router, cleanup := setupFullRouter(t, false)
	defer cleanup()

	for _, path := range []string{"/health", "/ping", "/site-config", "/auth/verify"} {
		w := doJSON(router, "GET", path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_CatalogIsGated(t *testing.T) {
	router, cleanup := setupFullRouter(t, false)
	defer cleanup()

	gated := []struct{ method, path string }{
		{"GET", "/books"},
		{"POST", "/books"},
		{"GET", "/books/1"},
		{"GET", "/books/stats"},
		{"GET", "/categories"},
		{"GET", "/book-categories?categoryId=1"},
		{"GET", "/system/info"},
		{"POST", "/system/backup-database"},
	}
	for _, tc := range gated {
		w := doJSON(router, tc.method, tc.path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouter_FullCatalogFlow(t *testing.T) {
	router, cleanup := setupFullRouter(t, false)
	defer cleanup()

	cookie := loginCookie(t, router)

	w := doAuthed(router, cookie, "POST", "/books", `{"title":"Dune","price":"49.90"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doAuthed(router, cookie, "POST", "/categories", `{"name":"Sci-Fi"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doAuthed(router, cookie, "POST", "/book-categories", `{"bookId":1,"categoryId":1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doAuthed(router, cookie, "GET", "/book-categories?categoryId=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dune")

	w = doAuthed(router, cookie, "GET", "/books/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalBooks":1`)

	w = doAuthed(router, cookie, "GET", "/system/database-status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"connected":true`)
}

func TestRouter_DebugEndpointHiddenByDefault(t *testing.T) {
	router, cleanup := setupFullRouter(t, false)
	defer cleanup()

	w := doJSON(router, "GET", "/debug/session", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_DebugEndpointWhenEnabled(t *testing.T) {
	router, cleanup := setupFullRouter(t, true)
	defer cleanup()

	w := doJSON(router, "GET", "/debug/session", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isLoggedIn":false`)
}
