package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"compliance-service/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{
			name:       "validation error is a client error",
			err:        &services.ValidationError{Message: "El archivo debe contener exactamente 18 muestras"},
			wantCode:   "VALIDATION_ERROR",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrapped validation error is still a client error",
			err:        fmt.Errorf("upload failed: %w", &services.ValidationError{Message: "Estación inválida"}),
			wantCode:   "VALIDATION_ERROR",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing rows map to not found",
			err:        errors.New("failed to get station summary: sql: no rows in result set"),
			wantCode:   "NOT_FOUND",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "parse errors stay internal",
			err:        errors.New(`muestra "1.5": campo hora_muestra: hora inválida "25:99:99" (normalizada a "25:99:99")`),
			wantCode:   "INTERNAL_ERROR",
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, status := MapErrorToHTTPStatus(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}
