// Package shelf manages the book/category association and the per-category
// display order carried on it.
package shelf

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/booklore/homeshelf/internal/database"
	"github.com/booklore/homeshelf/internal/entities"
)

// SortAssignment pairs a book with its new rank inside one category.
type SortAssignment struct {
	BookID    uint `json:"bookId" binding:"required"`
	SortOrder int  `json:"sortOrder"`
}

// Repository handles the book_categories association table.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new shelf repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListCategoriesForBook returns the categories a book belongs to, in the
// book's per-category rank order.
func (r *Repository) ListCategoriesForBook(bookID uint) ([]entities.Category, error) {
	if err := r.ensureBook(r.db, bookID); err != nil {
		return nil, err
	}

	var cats []entities.Category
	err := r.db.Model(&entities.Category{}).
		Joins("JOIN book_categories bc ON bc.category_id = categories.id").
		Where("bc.book_id = ?", bookID).
		Order("bc.sort_order ASC, bc.id ASC").
		Find(&cats).Error
	return cats, err
}

// ListBooksForCategory returns the books in a category, ordered by the
// category-scoped sort order with ties broken by link id.
func (r *Repository) ListBooksForCategory(categoryID uint) ([]entities.Book, error) {
	if err := r.ensureCategory(r.db, categoryID); err != nil {
		return nil, err
	}

	var list []entities.Book
	err := r.db.Model(&entities.Book{}).
		Joins("JOIN book_categories bc ON bc.book_id = books.id").
		Where("bc.category_id = ?", categoryID).
		Order("bc.sort_order ASC, bc.id ASC").
		Find(&list).Error
	return list, err
}

// Add links a book to a category, ranking it after everything already there:
// sort order = current max in the category + 1, or 1 for an empty category.
// Linking the same pair twice fails with database.ErrConflict.
func (r *Repository) Add(bookID, categoryID uint) (*entities.BookCategory, error) {
	var link entities.BookCategory

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.ensureBook(tx, bookID); err != nil {
			return err
		}
		if err := r.ensureCategory(tx, categoryID); err != nil {
			return err
		}

		var maxOrder int
		err := tx.Model(&entities.BookCategory{}).
			Where("category_id = ?", categoryID).
			Select("COALESCE(MAX(sort_order), 0)").
			Scan(&maxOrder).Error
		if err != nil {
			return err
		}

		link = entities.BookCategory{
			BookID:     bookID,
			CategoryID: categoryID,
			SortOrder:  maxOrder + 1,
		}
		return tx.Create(&link).Error
	})
	if err != nil {
		return nil, database.Translate(err)
	}

	if err := r.db.Preload("Book").Preload("Category").First(&link, link.ID).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &link, nil
}

// Remove unlinks a book from a category. A pair that was never linked fails
// with database.ErrNotFound.
func (r *Repository) Remove(bookID, categoryID uint) error {
	result := r.db.
		Where("book_id = ? AND category_id = ?", bookID, categoryID).
		Delete(&entities.BookCategory{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Reorder applies a batch of rank assignments inside one category as a single
// transaction. A book that is not linked to the category aborts the whole
// batch; no partial reordering ever becomes visible.
func (r *Repository) Reorder(categoryID uint, assignments []SortAssignment) error {
	if len(assignments) == 0 {
		return fmt.Errorf("%w: empty sort batch", database.ErrValidation)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.ensureCategory(tx, categoryID); err != nil {
			return err
		}

		for _, a := range assignments {
			result := tx.Model(&entities.BookCategory{}).
				Where("book_id = ? AND category_id = ?", a.BookID, categoryID).
				Update("sort_order", a.SortOrder)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("book %d is not in category %d: %w", a.BookID, categoryID, database.ErrNotFound)
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, database.ErrNotFound) && !errors.Is(err, database.ErrValidation) {
		return database.Translate(err)
	}
	return err
}

func (r *Repository) ensureBook(tx *gorm.DB, bookID uint) error {
	var count int64
	if err := tx.Model(&entities.Book{}).Where("id = ?", bookID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("book %d: %w", bookID, database.ErrNotFound)
	}
	return nil
}

func (r *Repository) ensureCategory(tx *gorm.DB, categoryID uint) error {
	var count int64
	if err := tx.Model(&entities.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("category %d: %w", categoryID, database.ErrNotFound)
	}
	return nil
}
