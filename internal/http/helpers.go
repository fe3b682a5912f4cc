package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookcatalog/internal/catalog"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasMore    bool  `json:"has_more"`
	TotalPages int   `json:"total_pages,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: "bad_request"})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: "not_found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, log logrus.FieldLogger, err error, context string) {
	log.WithError(err).WithField("context", context).Error("Internal error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "persistence"})
}

// respondCatalogError maps a catalog.Service error to its API response.
func respondCatalogError(c *gin.Context, log logrus.FieldLogger, err error, context string) {
	status := statusFor(err)
	switch status {
	case http.StatusNotFound:
		respondNotFound(c, "book")
	case http.StatusUnprocessableEntity:
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: catalog.Reason(err), Details: errorDetails(err)})
	default:
		respondInternalError(c, log, err, context)
	}
}

// statusFor returns the HTTP status for an error returned by catalog.Service.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrBookNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrValidation),
		errors.Is(err, catalog.ErrLabelNotFound),
		errors.Is(err, catalog.ErrLabelAmbiguous):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func errorDetails(err error) any {
	var ve *catalog.ValidationError
	if errors.As(err, &ve) {
		return gin.H{"field": ve.Field}
	}
	var re *catalog.ResolutionError
	if errors.As(err, &re) {
		return gin.H{"kind": re.Kind, "label": re.Label, "matches": re.Matches}
	}
	return nil
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := parseID(c.Param(paramName))
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return id, true
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, strconv.ErrRange
	}
	return uint(id), nil
}
