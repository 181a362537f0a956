package entities

import (
	"time"
)

// Book is a physical book in the household catalog.
//
// ISBN, Price and BorrowedBy are pointers: absence is meaningful (no ISBN on
// old books, unknown price, not currently lent out) and must survive the
// round trip to the store as NULL rather than "".
type Book struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ISBN      *string `gorm:"uniqueIndex;size:20" json:"isbn"`
	Title     string  `gorm:"index;size:512" json:"title"`
	Author    string  `gorm:"size:256" json:"author"`
	Publisher string  `gorm:"size:256" json:"publisher,omitempty"`
	Pubdate   string  `gorm:"size:32" json:"pubdate,omitempty"`
	// Price is the canonical two-decimal string (e.g. "29.90"), nil when unknown.
	Price    *string `gorm:"size:32" json:"price"`
	Summary  string  `gorm:"type:text" json:"summary,omitempty"`
	Pages    int     `json:"pages,omitempty"`
	CoverURL string  `gorm:"size:2048" json:"coverUrl,omitempty"`

	// Extended bibliographic fields from the ISBN lookup service.
	Binding  string `gorm:"size:64" json:"binding,omitempty"`
	Language string `gorm:"size:64" json:"language,omitempty"`
	Edition  string `gorm:"size:64" json:"edition,omitempty"`
	CLCCode  string `gorm:"column:clc_code;size:32" json:"clcCode,omitempty"`

	// BorrowedBy holds the borrower identifier; non-nil means lent out.
	BorrowedBy *string `gorm:"size:256" json:"borrowedBy"`

	// SortOrder ranks the book in the unscoped "all books" view. Independent
	// of the per-category order kept on BookCategory.
	SortOrder int `gorm:"index;default:0" json:"sortOrder"`

	AddedAt   time.Time `gorm:"autoCreateTime;index" json:"addedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Category groups books. Name is unique case-sensitively and stored trimmed.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description *string   `gorm:"size:1024" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BookCategory links a book to a category and carries the book's rank within
// that category's listing. The (BookID, CategoryID) pair is unique and both
// foreign keys cascade on delete, so removing a book or a category can never
// leave orphaned rows behind.
type BookCategory struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BookID     uint `gorm:"uniqueIndex:idx_book_category;not null" json:"bookId"`
	CategoryID uint `gorm:"uniqueIndex:idx_book_category;not null" json:"categoryId"`
	SortOrder  int  `gorm:"not null;default:1" json:"sortOrder"`

	Book     Book     `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"book,omitempty"`
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Book) TableName() string {
	return "books"
}

func (Category) TableName() string {
	return "categories"
}

func (BookCategory) TableName() string {
	return "book_categories"
}
