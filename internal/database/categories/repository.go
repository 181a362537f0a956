// Package categories implements the category side of the catalog repository.
package categories

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/booklore/homeshelf/internal/database"
	"github.com/booklore/homeshelf/internal/entities"
)

// WithCount is a category together with the number of books linked to it.
type WithCount struct {
	entities.Category
	BookCount int64 `json:"bookCount"`
}

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create adds a category. The name is trimmed and must be non-empty; a
// duplicate name surfaces as database.ErrConflict via the unique index.
func (r *Repository) Create(name string, description *string) (*entities.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name must not be empty", database.ErrValidation)
	}

	category := &entities.Category{
		Name:        name,
		Description: description,
	}
	if err := r.db.Create(category).Error; err != nil {
		return nil, database.Translate(err)
	}
	return category, nil
}

// GetByID retrieves a single category.
func (r *Repository) GetByID(id uint) (*entities.Category, error) {
	var category entities.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &category, nil
}

// Update renames a category and, when updateDescription is set, replaces its
// description (nil clears it). A rename alone leaves the stored description
// untouched. Renaming onto another category's name fails with
// database.ErrConflict; renaming onto its own current name is a no-op and
// succeeds.
func (r *Repository) Update(id uint, name string, description *string, updateDescription bool) (*entities.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name must not be empty", database.ErrValidation)
	}

	category, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"name": name}
	if updateDescription {
		updates["description"] = description
	}
	if err := r.db.Model(category).Updates(updates).Error; err != nil {
		return nil, database.Translate(err)
	}
	return r.GetByID(id)
}

// Delete removes a category; the store cascades removal of its book links.
// The books themselves stay in the catalog.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Category{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// List returns all categories ordered by name, each with its book count.
func (r *Repository) List() ([]WithCount, error) {
	var cats []entities.Category
	if err := r.db.Order("name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}

	type countRow struct {
		CategoryID uint
		Count      int64
	}
	var rows []countRow
	err := r.db.Model(&entities.BookCategory{}).
		Select("category_id, COUNT(*) as count").
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}

	result := make([]WithCount, 0, len(cats))
	for _, c := range cats {
		result = append(result, WithCount{Category: c, BookCount: counts[c.ID]})
	}
	return result, nil
}
