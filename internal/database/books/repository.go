// Package books implements the book side of the catalog repository plus the
// global display-order maintenance.
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/booklore/homeshelf/internal/database"
	"github.com/booklore/homeshelf/internal/entities"
)

// SortAssignment pairs a book with its new global sort order.
type SortAssignment struct {
	ID        uint `json:"id" binding:"required"`
	SortOrder int  `json:"sortOrder"`
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new book. A duplicate non-nil ISBN surfaces as
// database.ErrConflict; the unique index does the real enforcement so there
// is no check-then-insert race.
func (r *Repository) Create(book *entities.Book) error {
	if err := r.db.Create(book).Error; err != nil {
		return database.Translate(err)
	}
	return nil
}

// GetByID retrieves a single book.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &book, nil
}

// FindByISBN retrieves the book carrying the given ISBN.
func (r *Repository) FindByISBN(isbn string) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.Where("isbn = ?", isbn).First(&book).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &book, nil
}

// List returns all books, newest first.
func (r *Repository) List() ([]entities.Book, error) {
	var list []entities.Book
	err := r.db.Order("added_at DESC").Find(&list).Error
	return list, err
}

// Update applies a partial update: only the supplied columns change. Returns
// the refreshed book, database.ErrNotFound for an unknown id, or
// database.ErrConflict when an ISBN change collides with another book.
func (r *Repository) Update(id uint, fields map[string]any) (*entities.Book, error) {
	if len(fields) == 0 {
		return r.GetByID(id)
	}

	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, database.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, database.ErrNotFound
	}
	return r.GetByID(id)
}

// Delete removes a book; the store cascades removal of its category links.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// ReorderGlobal applies a batch of global sort-order assignments as one
// transaction. Any unknown book id aborts the whole batch and the prior
// order stays visible.
func (r *Repository) ReorderGlobal(assignments []SortAssignment) error {
	if len(assignments) == 0 {
		return fmt.Errorf("%w: empty sort batch", database.ErrValidation)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, a := range assignments {
			result := tx.Model(&entities.Book{}).
				Where("id = ?", a.ID).
				Update("sort_order", a.SortOrder)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("book %d: %w", a.ID, database.ErrNotFound)
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return database.Translate(err)
	}
	return err
}
