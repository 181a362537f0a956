package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/booklore/homeshelf/internal/isbn"
)

// ISBNController proxies metadata lookups to the external ISBN service.
type ISBNController struct {
	client *isbn.Client
}

func NewISBNController(client *isbn.Client) *ISBNController {
	return &ISBNController{client: client}
}

// Lookup fetches metadata for ?isbn= and wraps it in a data envelope.
func (ic *ISBNController) Lookup(c *gin.Context) {
	code := c.Query("isbn")
	if code == "" {
		respondBadRequest(c, "isbn is required")
		return
	}

	meta, err := ic.client.Lookup(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, isbn.ErrNotFound):
			respondNotFound(c, "isbn")
		case errors.Is(err, isbn.ErrUpstream):
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "isbn service unavailable"})
		default:
			respondBadRequest(c, "invalid isbn")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": meta})
}
