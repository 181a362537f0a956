package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/booklore/homeshelf/internal/database/stats"
)

// StatsController serves the catalog aggregate report.
type StatsController struct {
	repo *stats.Repository
}

func NewStatsController(repo *stats.Repository) *StatsController {
	return &StatsController{repo: repo}
}

// GetStats returns overall counts and value, plus either one category's
// summary (?categoryId=) or the full per-category breakdown.
func (sc *StatsController) GetStats(c *gin.Context) {
	var categoryID *uint
	if c.Query("categoryId") != "" {
		id, ok := parseQueryID(c, "categoryId")
		if !ok {
			return
		}
		categoryID = &id
	}

	report, err := sc.repo.Compute(categoryID)
	if err != nil {
		respondStoreError(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, report)
}
