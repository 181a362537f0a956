package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/booklore/homeshelf/internal/database/books"
	"github.com/booklore/homeshelf/internal/entities"
	"github.com/booklore/homeshelf/internal/pricing"
)

// BooksController serves the book CRUD and global reorder endpoints.
type BooksController struct {
	repo *books.Repository
}

func NewBooksController(repo *books.Repository) *BooksController {
	return &BooksController{repo: repo}
}

// bookPayload is the create/update body. Optional-and-nullable fields use
// json.RawMessage so an explicit null (clear the value) is distinguishable
// from the field being absent (leave it alone).
type bookPayload struct {
	ISBN       json.RawMessage `json:"isbn"`
	Title      *string         `json:"title"`
	Author     *string         `json:"author"`
	Publisher  *string         `json:"publisher"`
	Pubdate    *string         `json:"pubdate"`
	Price      json.RawMessage `json:"price"`
	Summary    *string         `json:"summary"`
	Pages      *int            `json:"pages"`
	CoverURL   *string         `json:"coverUrl"`
	Binding    *string         `json:"binding"`
	Language   *string         `json:"language"`
	Edition    *string         `json:"edition"`
	CLCCode    *string         `json:"clcCode"`
	BorrowedBy json.RawMessage `json:"borrowedBy"`
	SortOrder  *int            `json:"sortOrder"`
}

// decodeNullableString resolves a RawMessage into (value, supplied). A value
// of the wrong JSON type is an error, not an absent field.
func decodeNullableString(raw json.RawMessage) (*string, bool, error) {
	if len(raw) == 0 {
		return nil, false, nil
	}
	var v *string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// decodePrice resolves the price field into its canonical stored form.
func decodePrice(raw json.RawMessage) (*string, bool, error) {
	if len(raw) == 0 {
		return nil, false, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, err
	}
	switch v.(type) {
	case nil, string, float64:
		return pricing.Canonicalize(v), true, nil
	}
	return nil, false, errors.New("price must be a number, string or null")
}

// updates builds the column map for a partial update.
func (p *bookPayload) updates() (map[string]any, error) {
	u := make(map[string]any)

	isbn, ok, err := decodeNullableString(p.ISBN)
	if err != nil {
		return nil, errors.New("isbn must be a string or null")
	}
	if ok {
		u["isbn"] = emptyToNil(isbn)
	}
	if p.Title != nil {
		u["title"] = *p.Title
	}
	if p.Author != nil {
		u["author"] = *p.Author
	}
	if p.Publisher != nil {
		u["publisher"] = *p.Publisher
	}
	if p.Pubdate != nil {
		u["pubdate"] = *p.Pubdate
	}
	price, ok, err := decodePrice(p.Price)
	if err != nil {
		return nil, errors.New("price must be a number, string or null")
	}
	if ok {
		u["price"] = price
	}
	if p.Summary != nil {
		u["summary"] = *p.Summary
	}
	if p.Pages != nil {
		u["pages"] = *p.Pages
	}
	if p.CoverURL != nil {
		u["cover_url"] = *p.CoverURL
	}
	if p.Binding != nil {
		u["binding"] = *p.Binding
	}
	if p.Language != nil {
		u["language"] = *p.Language
	}
	if p.Edition != nil {
		u["edition"] = *p.Edition
	}
	if p.CLCCode != nil {
		u["clc_code"] = *p.CLCCode
	}
	borrowed, ok, err := decodeNullableString(p.BorrowedBy)
	if err != nil {
		return nil, errors.New("borrowedBy must be a string or null")
	}
	if ok {
		u["borrowed_by"] = emptyToNil(borrowed)
	}
	if p.SortOrder != nil {
		u["sort_order"] = *p.SortOrder
	}
	return u, nil
}

// toEntity builds a new Book for creation.
func (p *bookPayload) toEntity() (*entities.Book, error) {
	book := &entities.Book{}
	isbn, ok, err := decodeNullableString(p.ISBN)
	if err != nil {
		return nil, errors.New("isbn must be a string or null")
	}
	if ok {
		book.ISBN = emptyToNil(isbn)
	}
	if p.Title != nil {
		book.Title = *p.Title
	}
	if p.Author != nil {
		book.Author = *p.Author
	}
	if p.Publisher != nil {
		book.Publisher = *p.Publisher
	}
	if p.Pubdate != nil {
		book.Pubdate = *p.Pubdate
	}
	price, ok, err := decodePrice(p.Price)
	if err != nil {
		return nil, errors.New("price must be a number, string or null")
	}
	if ok {
		book.Price = price
	}
	if p.Summary != nil {
		book.Summary = *p.Summary
	}
	if p.Pages != nil {
		book.Pages = *p.Pages
	}
	if p.CoverURL != nil {
		book.CoverURL = *p.CoverURL
	}
	if p.Binding != nil {
		book.Binding = *p.Binding
	}
	if p.Language != nil {
		book.Language = *p.Language
	}
	if p.Edition != nil {
		book.Edition = *p.Edition
	}
	if p.CLCCode != nil {
		book.CLCCode = *p.CLCCode
	}
	borrowed, ok, err := decodeNullableString(p.BorrowedBy)
	if err != nil {
		return nil, errors.New("borrowedBy must be a string or null")
	}
	if ok {
		book.BorrowedBy = emptyToNil(borrowed)
	}
	if p.SortOrder != nil {
		book.SortOrder = *p.SortOrder
	}
	return book, nil
}

// emptyToNil stores blank strings as NULL so they never collide on unique
// indexes.
func emptyToNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ListBooks returns the whole catalog newest-first, or a single book when an
// isbn query parameter is present.
func (bc *BooksController) ListBooks(c *gin.Context) {
	if isbn := c.Query("isbn"); isbn != "" {
		book, err := bc.repo.FindByISBN(isbn)
		if err != nil {
			respondStoreError(c, err, "book")
			return
		}
		c.JSON(http.StatusOK, book)
		return
	}

	list, err := bc.repo.List()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateBook adds a book to the catalog.
func (bc *BooksController) CreateBook(c *gin.Context) {
	var payload bookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if payload.Title == nil || strings.TrimSpace(*payload.Title) == "" {
		respondBadRequest(c, "title is required")
		return
	}

	book, err := payload.toEntity()
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := bc.repo.Create(book); err != nil {
		respondStoreError(c, err, "book with this ISBN")
		return
	}
	c.JSON(http.StatusCreated, book)
}

// GetBook returns one book by id.
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.repo.GetByID(id)
	if err != nil {
		respondStoreError(c, err, "book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// UpdateBook applies a partial update; only supplied fields change.
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var payload bookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	fields, err := payload.updates()
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	book, err := bc.repo.Update(id, fields)
	if err != nil {
		respondStoreError(c, err, "book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a book and, via the store's cascade, its category links.
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.repo.Delete(id); err != nil {
		respondStoreError(c, err, "book")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type sortBooksRequest struct {
	Books []books.SortAssignment `json:"books"`
}

// SortBooks applies a batch of global sort-order assignments atomically.
func (bc *BooksController) SortBooks(c *gin.Context) {
	var req sortBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Books) == 0 {
		respondBadRequest(c, "books must be a non-empty array of {id, sortOrder}")
		return
	}

	if err := bc.repo.ReorderGlobal(req.Books); err != nil {
		respondStoreError(c, err, "book")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "sort order updated"})
}
