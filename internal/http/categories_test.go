package http

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booklore/homeshelf/internal/database"
	"github.com/booklore/homeshelf/internal/database/categories"
	"github.com/booklore/homeshelf/internal/entities"
)

func setupCategoriesTest(t *testing.T) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_categories_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	controller := NewCategoriesController(categories.NewRepository(db.DB))

	router := gin.New()
	router.GET("/categories", controller.ListCategories)
	router.POST("/categories", controller.CreateCategory)
	router.PUT("/categories", controller.UpdateCategory)
	router.DELETE("/categories", controller.DeleteCategory)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, cleanup
}

func TestCategoriesController_Update(t *testing.T) {
	t.Run("rename without a description keeps it", func(t *testing.T) {
		router, cleanup := setupCategoriesTest(t)
		defer cleanup()

		w := doJSON(router, "POST", "/categories", `{"name":"Keeper","description":"stays put"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(router, "PUT", "/categories", `{"id":1,"name":"Keeper renamed"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var updated entities.Category
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, "Keeper renamed", updated.Name)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "stays put", *updated.Description)
	})

	t.Run("explicit null clears the description", func(t *testing.T) {
		router, cleanup := setupCategoriesTest(t)
		defer cleanup()

		w := doJSON(router, "POST", "/categories", `{"name":"Wiped","description":"temporary"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(router, "PUT", "/categories", `{"id":1,"name":"Wiped","description":null}`)
		require.Equal(t, http.StatusOK, w.Code)

		var updated entities.Category
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Nil(t, updated.Description)
	})

	t.Run("rejects a non-string description", func(t *testing.T) {
		router, cleanup := setupCategoriesTest(t)
		defer cleanup()

		w := doJSON(router, "POST", "/categories", `{"name":"Typed"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(router, "PUT", "/categories", `{"id":1,"name":"Typed","description":42}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "description must be a string or null")
	})

	t.Run("rename onto another category answers 409", func(t *testing.T) {
		router, cleanup := setupCategoriesTest(t)
		defer cleanup()

		w := doJSON(router, "POST", "/categories", `{"name":"First"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		w = doJSON(router, "POST", "/categories", `{"name":"Second"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(router, "PUT", "/categories", `{"id":2,"name":"First"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestCategoriesController_CreateAndDelete(t *testing.T) {
	router, cleanup := setupCategoriesTest(t)
	defer cleanup()

	w := doJSON(router, "POST", "/categories", `{"name":"  Trimmed  "}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created entities.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Trimmed", created.Name)

	w = doJSON(router, "POST", "/categories", `{"name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "DELETE", "/categories", `{"id":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "DELETE", "/categories", `{"id":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
