package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/booklore/homeshelf/internal/database/categories"
)

// CategoriesController serves the category CRUD endpoints. The target id
// travels in the body for PUT/DELETE, not in the path.
type CategoriesController struct {
	repo *categories.Repository
}

func NewCategoriesController(repo *categories.Repository) *CategoriesController {
	return &CategoriesController{repo: repo}
}

// categoryPayload carries the description as a RawMessage so an absent field
// (leave it alone) is distinguishable from an explicit null (clear it).
type categoryPayload struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description json.RawMessage `json:"description"`
}

// ListCategories returns all categories with book counts, by name.
func (cc *CategoriesController) ListCategories(c *gin.Context) {
	list, err := cc.repo.List()
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateCategory adds a category with a unique, non-empty name.
func (cc *CategoriesController) CreateCategory(c *gin.Context) {
	var payload categoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	description, _, err := decodeNullableString(payload.Description)
	if err != nil {
		respondBadRequest(c, "description must be a string or null")
		return
	}

	category, err := cc.repo.Create(payload.Name, description)
	if err != nil {
		respondStoreError(c, err, "category name")
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory renames a category. The description only changes when the
// field is present in the body; an explicit null clears it.
func (cc *CategoriesController) UpdateCategory(c *gin.Context) {
	var payload categoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.ID == 0 {
		respondBadRequest(c, "category id and name are required")
		return
	}

	description, supplied, err := decodeNullableString(payload.Description)
	if err != nil {
		respondBadRequest(c, "description must be a string or null")
		return
	}

	category, err := cc.repo.Update(payload.ID, payload.Name, description, supplied)
	if err != nil {
		respondStoreError(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category; its book links cascade away while the
// books stay in the catalog.
func (cc *CategoriesController) DeleteCategory(c *gin.Context) {
	var payload categoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.ID == 0 {
		respondBadRequest(c, "category id is required")
		return
	}

	if err := cc.repo.Delete(payload.ID); err != nil {
		respondStoreError(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "category deleted"})
}
