// Package stats derives read-only aggregates over the catalog: counts,
// borrow status and total value, overall and per category.
package stats

import (
	"gorm.io/gorm"

	"github.com/booklore/homeshelf/internal/database"
	"github.com/booklore/homeshelf/internal/entities"
	"github.com/booklore/homeshelf/internal/pricing"
)

// Summary aggregates one set of books.
type Summary struct {
	TotalBooks     int64   `json:"totalBooks"`
	BorrowedBooks  int64   `json:"borrowedBooks"`
	AvailableBooks int64   `json:"availableBooks"`
	TotalValue     float64 `json:"totalValue"`
}

// CategoryValue is one row of the per-category breakdown.
type CategoryValue struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	BookCount  int64   `json:"bookCount"`
	TotalValue float64 `json:"totalValue"`
}

// Report is the stats endpoint payload. Category is set when the caller asked
// about one category; CategoryBreakdown accompanies the unscoped report.
type Report struct {
	Overall           Summary         `json:"overall"`
	Category          *Summary        `json:"category,omitempty"`
	CategoryBreakdown []CategoryValue `json:"categoryBreakdown,omitempty"`
}

// Repository computes catalog aggregates.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new stats repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Compute builds the stats report. With a categoryID it adds that category's
// summary (database.ErrNotFound for an unknown id); without one it adds the
// per-category breakdown instead.
func (r *Repository) Compute(categoryID *uint) (*Report, error) {
	overall, err := r.summarize(r.db.Model(&entities.Book{}))
	if err != nil {
		return nil, err
	}

	report := &Report{Overall: *overall}

	if categoryID != nil {
		var count int64
		if err := r.db.Model(&entities.Category{}).Where("id = ?", *categoryID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, database.ErrNotFound
		}

		scoped := r.db.Model(&entities.Book{}).
			Joins("JOIN book_categories bc ON bc.book_id = books.id").
			Where("bc.category_id = ?", *categoryID)
		summary, err := r.summarize(scoped)
		if err != nil {
			return nil, err
		}
		report.Category = summary
		return report, nil
	}

	breakdown, err := r.breakdown()
	if err != nil {
		return nil, err
	}
	report.CategoryBreakdown = breakdown
	return report, nil
}

// summarize runs the counting queries against an already-scoped book query.
// Prices are parsed in Go because the stored form may carry currency markers
// from pre-canonicalization data.
func (r *Repository) summarize(query *gorm.DB) (*Summary, error) {
	var s Summary

	if err := query.Session(&gorm.Session{}).Count(&s.TotalBooks).Error; err != nil {
		return nil, err
	}
	if err := query.Session(&gorm.Session{}).Where("borrowed_by IS NOT NULL").Count(&s.BorrowedBooks).Error; err != nil {
		return nil, err
	}
	s.AvailableBooks = s.TotalBooks - s.BorrowedBooks

	var prices []*string
	if err := query.Session(&gorm.Session{}).Pluck("books.price", &prices).Error; err != nil {
		return nil, err
	}
	for _, p := range prices {
		s.TotalValue += pricing.Parse(p)
	}
	return &s, nil
}

func (r *Repository) breakdown() ([]CategoryValue, error) {
	var cats []entities.Category
	if err := r.db.Order("name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}

	result := make([]CategoryValue, 0, len(cats))
	for _, c := range cats {
		scoped := r.db.Model(&entities.Book{}).
			Joins("JOIN book_categories bc ON bc.book_id = books.id").
			Where("bc.category_id = ?", c.ID)
		summary, err := r.summarize(scoped)
		if err != nil {
			return nil, err
		}
		result = append(result, CategoryValue{
			ID:         c.ID,
			Name:       c.Name,
			BookCount:  summary.TotalBooks,
			TotalValue: summary.TotalValue,
		})
	}
	return result, nil
}
