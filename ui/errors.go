package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gocause/domain/core"
	apperrors "gocause/internal/errors"
)

// respondError maps domain and application errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case core.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case core.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		switch apperrors.GetCode(err) {
		case apperrors.CodeValidationError, apperrors.CodeInvalidInput:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case apperrors.CodeNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	}
}
