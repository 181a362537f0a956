package stats

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/booklore/homeshelf/internal/database"
	"github.com/booklore/homeshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_stats_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Book{},
		&entities.Category{},
		&entities.BookCategory{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func strPtr(s string) *string { return &s }

func seedCatalog(t *testing.T, db *gorm.DB) (entities.Category, entities.Category) {
	t.Helper()

	fiction := entities.Category{Name: "Fiction"}
	reference := entities.Category{Name: "Reference"}
	require.NoError(t, db.Create(&fiction).Error)
	require.NoError(t, db.Create(&reference).Error)

	books := []entities.Book{
		{Title: "Priced", Price: strPtr("29.90")},
		{Title: "Borrowed", Price: strPtr("10.10"), BorrowedBy: strPtr("alice")},
		{Title: "Priceless"},
		{Title: "Garbage price", Price: strPtr("out of print")},
	}
	for i := range books {
		require.NoError(t, db.Create(&books[i]).Error)
	}

	// Priced and Borrowed on Fiction, Priceless on Reference,
	// Garbage price uncategorized.
	require.NoError(t, db.Create(&entities.BookCategory{BookID: books[0].ID, CategoryID: fiction.ID, SortOrder: 1}).Error)
	require.NoError(t, db.Create(&entities.BookCategory{BookID: books[1].ID, CategoryID: fiction.ID, SortOrder: 2}).Error)
	require.NoError(t, db.Create(&entities.BookCategory{BookID: books[2].ID, CategoryID: reference.ID, SortOrder: 1}).Error)

	return fiction, reference
}

func TestRepository_ComputeOverall(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	seedCatalog(t, db)

	report, err := repo.Compute(nil)
	require.NoError(t, err)

	assert.EqualValues(t, 4, report.Overall.TotalBooks)
	assert.EqualValues(t, 1, report.Overall.BorrowedBooks)
	assert.EqualValues(t, 3, report.Overall.AvailableBooks)
	// Unparseable and missing prices count as zero.
	assert.InDelta(t, 40.0, report.Overall.TotalValue, 0.001)

	assert.Nil(t, report.Category)
	require.Len(t, report.CategoryBreakdown, 2)
	assert.Equal(t, "Fiction", report.CategoryBreakdown[0].Name)
	assert.EqualValues(t, 2, report.CategoryBreakdown[0].BookCount)
	assert.InDelta(t, 40.0, report.CategoryBreakdown[0].TotalValue, 0.001)
	assert.Equal(t, "Reference", report.CategoryBreakdown[1].Name)
	assert.EqualValues(t, 1, report.CategoryBreakdown[1].BookCount)
	assert.InDelta(t, 0.0, report.CategoryBreakdown[1].TotalValue, 0.001)
}

func TestRepository_ComputeScopedToCategory(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	fiction, _ := seedCatalog(t, db)

	report, err := repo.Compute(&fiction.ID)
	require.NoError(t, err)

	require.NotNil(t, report.Category)
	assert.EqualValues(t, 2, report.Category.TotalBooks)
	assert.EqualValues(t, 1, report.Category.BorrowedBooks)
	assert.EqualValues(t, 1, report.Category.AvailableBooks)
	assert.InDelta(t, 40.0, report.Category.TotalValue, 0.001)

	// Overall still covers the whole catalog.
	assert.EqualValues(t, 4, report.Overall.TotalBooks)
	assert.Empty(t, report.CategoryBreakdown)
}

func TestRepository_ComputeUnknownCategory(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	unknown := uint(999)
	_, err := repo.Compute(&unknown)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_ComputeEmptyCatalog(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	report, err := repo.Compute(nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, report.Overall.TotalBooks)
	assert.Zero(t, report.Overall.TotalValue)
	assert.Empty(t, report.CategoryBreakdown)
}
