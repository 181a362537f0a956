package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booklore/homeshelf/internal/database"
	"github.com/booklore/homeshelf/internal/database/shelf"
	"github.com/booklore/homeshelf/internal/entities"
)

func setupShelfTest(t *testing.T) (*gin.Engine, *database.Database, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_shelf_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	controller := NewBookCategoriesController(shelf.NewRepository(db.DB))

	router := gin.New()
	router.GET("/book-categories", controller.List)
	router.POST("/book-categories", controller.Link)
	router.PUT("/book-categories", controller.Reorder)
	router.DELETE("/book-categories", controller.Unlink)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, db, cleanup
}

func seedShelf(t *testing.T, db *database.Database) (entities.Category, []entities.Book) {
	t.Helper()

	category := entities.Category{Name: "Shelf"}
	require.NoError(t, db.DB.Create(&category).Error)

	list := make([]entities.Book, 3)
	for i, title := range []string{"First", "Second", "Third"} {
		list[i] = entities.Book{Title: title}
		require.NoError(t, db.DB.Create(&list[i]).Error)
	}
	return category, list
}

func TestBookCategoriesController_LinkAndList(t *testing.T) {
	router, db, cleanup := setupShelfTest(t)
	defer cleanup()

	category, list := seedShelf(t, db)

	for _, book := range list {
		w := doJSON(router, "POST", "/book-categories",
			fmt.Sprintf(`{"bookId":%d,"categoryId":%d}`, book.ID, category.ID))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// Linking the same pair again conflicts.
	w := doJSON(router, "POST", "/book-categories",
		fmt.Sprintf(`{"bookId":%d,"categoryId":%d}`, list[0].ID, category.ID))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(router, "GET", fmt.Sprintf("/book-categories?categoryId=%d", category.ID), "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "First", got[0].Title)
	assert.Equal(t, "Second", got[1].Title)
	assert.Equal(t, "Third", got[2].Title)
}

func TestBookCategoriesController_ListValidation(t *testing.T) {
	router, _, cleanup := setupShelfTest(t)
	defer cleanup()

	w := doJSON(router, "GET", "/book-categories", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "GET", "/book-categories?categoryId=999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, "GET", "/book-categories?bookId=999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookCategoriesController_Reorder(t *testing.T) {
	router, db, cleanup := setupShelfTest(t)
	defer cleanup()

	category, list := seedShelf(t, db)
	repo := shelf.NewRepository(db.DB)
	for _, book := range list {
		_, err := repo.Add(book.ID, category.ID)
		require.NoError(t, err)
	}

	w := doJSON(router, "PUT", "/book-categories", fmt.Sprintf(
		`{"categoryId":%d,"books":[{"bookId":%d,"sortOrder":3},{"bookId":%d,"sortOrder":1},{"bookId":%d,"sortOrder":2}]}`,
		category.ID, list[0].ID, list[2].ID, list[1].ID))
	require.Equal(t, http.StatusOK, w.Code)

	got, err := repo.ListBooksForCategory(category.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Third", got[0].Title)
	assert.Equal(t, "Second", got[1].Title)
	assert.Equal(t, "First", got[2].Title)
}

func TestBookCategoriesController_ReorderUnlinkedBookAborts(t *testing.T) {
	router, db, cleanup := setupShelfTest(t)
	defer cleanup()

	category, list := seedShelf(t, db)
	repo := shelf.NewRepository(db.DB)
	_, err := repo.Add(list[0].ID, category.ID)
	require.NoError(t, err)

	w := doJSON(router, "PUT", "/book-categories", fmt.Sprintf(
		`{"categoryId":%d,"books":[{"bookId":%d,"sortOrder":9},{"bookId":%d,"sortOrder":1}]}`,
		category.ID, list[0].ID, list[1].ID))
	assert.Equal(t, http.StatusNotFound, w.Code)

	got, err := repo.ListBooksForCategory(category.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "First", got[0].Title)
}

func TestBookCategoriesController_Unlink(t *testing.T) {
	router, db, cleanup := setupShelfTest(t)
	defer cleanup()

	category, list := seedShelf(t, db)
	repo := shelf.NewRepository(db.DB)
	_, err := repo.Add(list[0].ID, category.ID)
	require.NoError(t, err)

	body := fmt.Sprintf(`{"bookId":%d,"categoryId":%d}`, list[0].ID, category.ID)
	w := doJSON(router, "DELETE", "/book-categories", body)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "DELETE", "/book-categories", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
