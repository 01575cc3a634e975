// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/modules/location"
	"courier/internal/modules/pricing"
	"courier/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID accepts short alphanumeric ids (with - and _), as issued by the app backend.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidPoint),
		errors.Is(err, pricing.ErrInvalidConfig),
		errors.Is(err, location.ErrInvalidRadius),
		errors.Is(err, location.ErrInvalidListing):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, location.ErrNotListingOwner):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, location.ErrListingNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		log.Printf("unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
