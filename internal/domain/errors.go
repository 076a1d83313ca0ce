package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrUnresolvedProduct  = errors.New("product could not be validated against the catalog")
	ErrCatalogUnavailable = errors.New("product catalog did not respond")
)

// NotFoundError identifies the missing order so callers can report the id.
type NotFoundError struct {
	OrderID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("order with id %s not found", e.OrderID)
}

func NewNotFoundError(id string) error {
	return &NotFoundError{OrderID: id}
}
