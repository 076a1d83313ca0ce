package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/wilmangio/orders-ms/internal/domain"
)

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresOrderRepository) CreateWithItems(ctx context.Context, order *domain.Order) (created *domain.Order, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Failed to begin transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Recovered from panic, rolling back transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			r.log.Warnf("Rolling back transaction due to error: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Failed to rollback transaction: %v", rbErr)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				r.log.Errorf("Failed to commit transaction: %v", cErr)
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()

	orderQuery := `
        INSERT INTO orders (id, total_amount, total_items, status)
        VALUES ($1, $2, $3, $4)
        RETURNING paid, created_at, updated_at
    `
	err = tx.QueryRowContext(ctx, orderQuery, order.ID, order.TotalAmount, order.TotalItems, order.Status).Scan(
		&order.Paid,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		r.log.Errorf("Failed to insert order %s: %v", order.ID, err)
		return nil, fmt.Errorf("could not create order entry: %w", err)
	}

	itemQuery := `
        INSERT INTO order_items (order_id, product_id, quantity, price)
        VALUES ($1, $2, $3, $4)
    `
	stmt, err := tx.PrepareContext(ctx, itemQuery)
	if err != nil {
		r.log.Errorf("Failed to prepare order item statement: %v", err)
		return nil, fmt.Errorf("could not prepare item statement: %w", err)
	}
	defer stmt.Close()

	for i := range order.Items {
		item := &order.Items[i]
		_, err = stmt.ExecContext(ctx, order.ID, item.ProductID, item.Quantity, item.Price)
		if err != nil {
			r.log.Errorf("Failed to insert order item (product %s) for order %s: %v", item.ProductID, order.ID, err)
			return nil, fmt.Errorf("could not create order item (product %s): %w", item.ProductID, err)
		}
	}

	r.log.Infof("Order %s created with %d items", order.ID, len(order.Items))
	return order, err
}

func (r *postgresOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order := &domain.Order{}
	orderQuery := `
        SELECT id, total_amount, total_items, status, paid, paid_at, created_at, updated_at
        FROM orders
        WHERE id = $1
    `
	err := r.db.QueryRowContext(ctx, orderQuery, id).Scan(
		&order.ID,
		&order.TotalAmount,
		&order.TotalItems,
		&order.Status,
		&order.Paid,
		&order.PaidAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order %s not found", id)
			return nil, domain.NewNotFoundError(id)
		}
		r.log.Errorf("Failed to get order %s: %v", id, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}

	items, err := r.getOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *postgresOrderRepository) getOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	itemsQuery := `
        SELECT product_id, quantity, price
        FROM order_items
        WHERE order_id = $1
        ORDER BY id
    `
	rows, err := r.db.QueryContext(ctx, itemsQuery, orderID)
	if err != nil {
		r.log.Errorf("Failed to query order items for order %s: %v", orderID, err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			r.log.Errorf("Failed to scan order item row for order %s: %v", orderID, err)
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during order items iteration for order %s: %v", orderID, err)
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

func (r *postgresOrderRepository) CountByStatus(ctx context.Context, status *domain.OrderStatus) (int, error) {
	var total int
	var err error
	if status != nil {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1`, *status).Scan(&total)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total)
	}
	if err != nil {
		r.log.Errorf("Failed to count orders: %v", err)
		return 0, fmt.Errorf("could not count orders: %w", err)
	}
	return total, nil
}

func (r *postgresOrderRepository) ListPage(ctx context.Context, status *domain.OrderStatus, page, limit int) ([]domain.Order, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var rows *sql.Rows
	var err error
	if status != nil {
		ordersQuery := `
            SELECT id, total_amount, total_items, status, paid, paid_at, created_at, updated_at
            FROM orders
            WHERE status = $1
            ORDER BY created_at
            LIMIT $2 OFFSET $3
        `
		rows, err = r.db.QueryContext(ctx, ordersQuery, *status, limit, offset)
	} else {
		ordersQuery := `
            SELECT id, total_amount, total_items, status, paid, paid_at, created_at, updated_at
            FROM orders
            ORDER BY created_at
            LIMIT $1 OFFSET $2
        `
		rows, err = r.db.QueryContext(ctx, ordersQuery, limit, offset)
	}
	if err != nil {
		r.log.Errorf("Failed to list orders (page %d, limit %d): %v", page, limit, err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.TotalAmount,
			&order.TotalItems,
			&order.Status,
			&order.Paid,
			&order.PaidAt,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			r.log.Errorf("Failed to scan order row: %v", err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during orders iteration: %v", err)
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	r.log.Debugf("Retrieved %d orders (page %d, limit %d)", len(orders), page, limit)
	return orders, nil
}

func (r *postgresOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	query := `
        UPDATE orders
        SET status = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING id, total_amount, total_items, status, paid, paid_at, created_at, updated_at
    `
	updatedOrder := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, status, id).Scan(
		&updatedOrder.ID,
		&updatedOrder.TotalAmount,
		&updatedOrder.TotalItems,
		&updatedOrder.Status,
		&updatedOrder.Paid,
		&updatedOrder.PaidAt,
		&updatedOrder.CreatedAt,
		&updatedOrder.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order %s not found for status update", id)
			return nil, domain.NewNotFoundError(id)
		}
		r.log.Errorf("Failed to update status for order %s: %v", id, err)
		return nil, fmt.Errorf("could not update order status: %w", err)
	}

	items, err := r.getOrderItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order status updated, but failed to retrieve items: %w", err)
	}
	updatedOrder.Items = items

	r.log.Infof("Order %s status updated to '%s'", updatedOrder.ID, updatedOrder.Status)
	return updatedOrder, nil
}
