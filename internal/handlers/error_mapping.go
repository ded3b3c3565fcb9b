package handlers

import (
	"errors"
	"net/http"
	"strings"

	"compliance-service/internal/services"
)

// MapErrorToHTTPStatus routes service errors to an error code and HTTP
// status. Input-shape failures are 400; row parse failures and persistence
// failures stay 500, matching the behavior the reporting clients rely on.
func MapErrorToHTTPStatus(err error) (string, int) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return "VALIDATION_ERROR", http.StatusBadRequest
	}

	message := err.Error()
	if strings.Contains(message, "no rows") || strings.Contains(message, "not found") {
		return "NOT_FOUND", http.StatusNotFound
	}

	return "INTERNAL_ERROR", http.StatusInternalServerError
}
