package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wilmangio/orders-ms/internal/clients"
	"github.com/wilmangio/orders-ms/internal/domain"
)

var _ domain.OrderUseCase = (*orderUseCase)(nil)

type orderUseCase struct {
	orderRepo domain.OrderRepository
	products  clients.ProductsClient
	log       *logrus.Logger
}

func NewOrderUseCase(repo domain.OrderRepository, products clients.ProductsClient, logger *logrus.Logger) domain.OrderUseCase {
	return &orderUseCase{
		orderRepo: repo,
		products:  products,
		log:       logger,
	}
}

// CreateOrder runs the validation/aggregation pipeline: one batched catalog
// round trip, price snapshot per item, totals, then a single transactional
// write. Any failure rejects the whole request; nothing is persisted.
func (uc *orderUseCase) CreateOrder(ctx context.Context, items []domain.OrderItemRequest) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	productsByID, err := uc.validateProducts(ctx, items)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:     uuid.NewString(),
		Status: domain.StatusPending,
		Items:  make([]domain.OrderItem, 0, len(items)),
	}
	for _, item := range items {
		product, ok := productsByID[item.ProductID]
		if !ok {
			uc.log.Warnf("Use Case: Product %s was not resolved by the catalog, rejecting order", item.ProductID)
			return nil, fmt.Errorf("%w: %s", domain.ErrUnresolvedProduct, item.ProductID)
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		order.TotalAmount = round2(order.TotalAmount + product.Price*float64(item.Quantity))
		order.TotalItems += item.Quantity
	}

	created, err := uc.orderRepo.CreateWithItems(ctx, order)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to persist order with %d items: %v", len(order.Items), err)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	annotateNames(created.Items, productsByID)
	uc.log.Infof("Use Case: Order %s created (totalAmount=%.2f, totalItems=%d)", created.ID, created.TotalAmount, created.TotalItems)
	return created, nil
}

func (uc *orderUseCase) FindAll(ctx context.Context, page, limit int, status *domain.OrderStatus) (*domain.OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := uc.orderRepo.CountByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	lastPage := int(math.Ceil(float64(total) / float64(limit)))

	orders, err := uc.orderRepo.ListPage(ctx, status, page, limit)
	if err != nil {
		return nil, err
	}

	return &domain.OrderPage{
		Data: orders,
		Meta: domain.PageMeta{
			Page:     page,
			Total:    total,
			LastPage: lastPage,
		},
	}, nil
}

// FindOne loads a stored order and enriches each item with the live product
// name from the catalog. A product the catalog no longer resolves is treated
// as a data-integrity fault and fails the read.
func (uc *orderUseCase) FindOne(ctx context.Context, id string) (*domain.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Could not load order %s: %v", id, err)
		return nil, err
	}

	requests := make([]domain.OrderItemRequest, 0, len(order.Items))
	for _, item := range order.Items {
		requests = append(requests, domain.OrderItemRequest{ProductID: item.ProductID})
	}
	productsByID, err := uc.validateProducts(ctx, requests)
	if err != nil {
		return nil, err
	}

	for _, item := range order.Items {
		if _, ok := productsByID[item.ProductID]; !ok {
			uc.log.Errorf("Use Case: Stored order %s references product %s the catalog no longer resolves", id, item.ProductID)
			return nil, fmt.Errorf("%w: %s", domain.ErrUnresolvedProduct, item.ProductID)
		}
	}
	annotateNames(order.Items, productsByID)

	return order, nil
}

// ChangeStatus is idempotent: a request matching the current status returns
// the order as-is without touching the store.
func (uc *orderUseCase) ChangeStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := uc.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == status {
		uc.log.Infof("Use Case: Order %s already has status '%s', skipping write", id, status)
		return order, nil
	}

	updated, err := uc.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to update status for order %s: %v", id, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Order %s status changed from '%s' to '%s'", id, order.Status, updated.Status)
	return updated, nil
}

// validateProducts issues the single batched catalog round trip and indexes
// the resolvable subset by product id. Duplicated ids are sent once.
func (uc *orderUseCase) validateProducts(ctx context.Context, items []domain.OrderItemRequest) (map[string]clients.Product, error) {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := uc.products.Validate(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("product validation failed: %w", err)
	}

	productsByID := make(map[string]clients.Product, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
	}
	return productsByID, nil
}

func annotateNames(items []domain.OrderItem, productsByID map[string]clients.Product) {
	for i := range items {
		if product, ok := productsByID[items[i].ProductID]; ok {
			items[i].Name = product.Name
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
