package domain

import (
	"context"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

type Order struct {
	ID          string      `json:"id"`
	TotalAmount float64     `json:"totalAmount"`
	TotalItems  int         `json:"totalItems"`
	Status      OrderStatus `json:"status"`
	Paid        bool        `json:"paid"`
	PaidAt      *time.Time  `json:"paidAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Items       []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	// Name is resolved from the catalog at read time; it is never persisted.
	Name string `json:"name,omitempty"`
}

// OrderItemRequest is an unvalidated line item as received from the caller,
// before the product has been resolved or priced.
type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type PageMeta struct {
	Page     int `json:"page"`
	Total    int `json:"total"`
	LastPage int `json:"lastPage"`
}

type OrderPage struct {
	Data []Order  `json:"data"`
	Meta PageMeta `json:"meta"`
}

type OrderRepository interface {
	// CreateWithItems persists the order and all of its items in a single
	// transaction. Either everything exists afterwards or nothing does.
	CreateWithItems(ctx context.Context, order *Order) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	CountByStatus(ctx context.Context, status *OrderStatus) (int, error)
	ListPage(ctx context.Context, status *OrderStatus, page, limit int) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) (*Order, error)
}

type OrderUseCase interface {
	CreateOrder(ctx context.Context, items []OrderItemRequest) (*Order, error)
	FindAll(ctx context.Context, page, limit int, status *OrderStatus) (*OrderPage, error)
	FindOne(ctx context.Context, id string) (*Order, error)
	ChangeStatus(ctx context.Context, id string, status OrderStatus) (*Order, error)
}

func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusPending, StatusPaid, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}
