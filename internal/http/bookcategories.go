package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/booklore/homeshelf/internal/database/shelf"
)

// BookCategoriesController serves the association endpoints: linking books to
// categories, listing either side in rank order, and the atomic per-category
// reorder.
type BookCategoriesController struct {
	repo *shelf.Repository
}

func NewBookCategoriesController(repo *shelf.Repository) *BookCategoriesController {
	return &BookCategoriesController{repo: repo}
}

// List answers either ?bookId= (categories of a book) or ?categoryId=
// (books in a category), both in per-category rank order.
func (bcc *BookCategoriesController) List(c *gin.Context) {
	if c.Query("bookId") != "" {
		bookID, ok := parseQueryID(c, "bookId")
		if !ok {
			return
		}
		cats, err := bcc.repo.ListCategoriesForBook(bookID)
		if err != nil {
			respondStoreError(c, err, "book")
			return
		}
		c.JSON(http.StatusOK, cats)
		return
	}

	if c.Query("categoryId") != "" {
		categoryID, ok := parseQueryID(c, "categoryId")
		if !ok {
			return
		}
		list, err := bcc.repo.ListBooksForCategory(categoryID)
		if err != nil {
			respondStoreError(c, err, "category")
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	respondBadRequest(c, "bookId or categoryId query parameter is required")
}

type linkPayload struct {
	BookID     uint `json:"bookId"`
	CategoryID uint `json:"categoryId"`
}

// Link adds a book to a category at the end of its ordering.
func (bcc *BookCategoriesController) Link(c *gin.Context) {
	var payload linkPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.BookID == 0 || payload.CategoryID == 0 {
		respondBadRequest(c, "bookId and categoryId are required")
		return
	}

	link, err := bcc.repo.Add(payload.BookID, payload.CategoryID)
	if err != nil {
		respondStoreError(c, err, "book/category link")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    link,
	})
}

// Unlink removes a book from a category.
func (bcc *BookCategoriesController) Unlink(c *gin.Context) {
	var payload linkPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.BookID == 0 || payload.CategoryID == 0 {
		respondBadRequest(c, "bookId and categoryId are required")
		return
	}

	if err := bcc.repo.Remove(payload.BookID, payload.CategoryID); err != nil {
		respondStoreError(c, err, "book/category link")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type reorderRequest struct {
	CategoryID uint                   `json:"categoryId"`
	Books      []shelf.SortAssignment `json:"books"`
}

// Reorder applies a batch of rank assignments within one category as a single
// atomic operation.
func (bcc *BookCategoriesController) Reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CategoryID == 0 || len(req.Books) == 0 {
		respondBadRequest(c, "categoryId and a non-empty books array are required")
		return
	}

	if err := bcc.repo.Reorder(req.CategoryID, req.Books); err != nil {
		respondStoreError(c, err, "book/category link")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "sort order updated"})
}
