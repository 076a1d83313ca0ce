package nats

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wilmangio/orders-ms/internal/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantInMsg  string
	}{
		{
			name:       "not found carries the order id",
			err:        domain.NewNotFoundError("abc-123"),
			wantStatus: http.StatusNotFound,
			wantInMsg:  "abc-123",
		},
		{
			name:       "wrapped not found still matches",
			err:        fmt.Errorf("lookup: %w", domain.NewNotFoundError("abc-123")),
			wantStatus: http.StatusNotFound,
			wantInMsg:  "abc-123",
		},
		{
			name:       "unresolved product is a rejection",
			err:        fmt.Errorf("%w: B", domain.ErrUnresolvedProduct),
			wantStatus: http.StatusBadRequest,
			wantInMsg:  "could not be validated",
		},
		{
			name:       "empty order is a rejection",
			err:        domain.ErrEmptyOrder,
			wantStatus: http.StatusBadRequest,
			wantInMsg:  "at least one item",
		},
		{
			name:       "catalog unavailable stays internal",
			err:        fmt.Errorf("product validation failed: %w", domain.ErrCatalogUnavailable),
			wantStatus: http.StatusInternalServerError,
			wantInMsg:  "internal error",
		},
		{
			name:       "unknown errors are not leaked",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantInMsg:  "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := mapError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, message, tt.wantInMsg)
		})
	}
}
