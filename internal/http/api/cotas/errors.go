package cotas

import (
	"errors"
	"net/http"

	"github.com/Mavegui/API-Investimentos/internal/store"
	"github.com/Mavegui/API-Investimentos/internal/valuation"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Fixed client-facing messages. Internal error detail is logged, never leaked.
const (
	detailNotFound   = "cota not found"
	detailValidation = "validation failed for the provided data"
	detailBadBody    = "invalid request body"
	detailStorage    = "internal database error"
)

// respondValidation writes a 422 with the per-field violation list.
func respondValidation(c *gin.Context, fields []store.FieldError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"detail": detailValidation,
		"errors": fields,
	})
}

// respondError maps a domain error from the store to an HTTP response.
// Validation and not-found are expected caller-recoverable outcomes; anything
// else is logged and surfaced as a generic server error.
func respondError(c *gin.Context, err error) {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		respondValidation(c, verr.Fields)
	case errors.Is(err, valuation.ErrInvalidInput):
		// Boundary validation passed but the calculator refused the values.
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"detail": detailValidation,
			"errors": []store.FieldError{{Field: "input", Message: err.Error()}},
		})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": detailNotFound})
	default:
		log.WithError(err).Error("cotas: storage operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": detailStorage})
	}
}
