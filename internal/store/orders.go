package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-service/internal/models"

	"github.com/jmoiron/sqlx"
)

const orderColumns = "id, customer_name, customer_email, customer_phone, user_id, total, payment_method, status, created_at"

// orderItemRow adds the join keys to the embedded line-item shape.
type orderItemRow struct {
	OrderID  string `db:"order_id"`
	Position int    `db:"position"`
	models.OrderItem
}

// CreateOrder persists an order and its snapshot line items in one
// transaction, so a failed insert never leaves a partial order behind.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_name, customer_email, customer_phone, user_id, total, payment_method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.UserID,
		o.Total, o.PaymentMethod, o.Status, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, product_id, quantity, product_name, product_image, product_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			o.ID, i, item.ProductID, item.Quantity,
			item.ProductName, item.ProductImage, item.ProductPrice)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return tx.Commit()
}

// GetOrder retrieves an order with its line items in input order.
func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, notFound("Order", id)
	}
	if err != nil {
		return nil, err
	}

	order.Items = []models.OrderItem{}
	var rows []orderItemRow
	err = s.db.SelectContext(ctx, &rows,
		"SELECT order_id, position, product_id, quantity, product_name, product_image, product_price FROM order_items WHERE order_id = $1 ORDER BY position",
		id)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		order.Items = append(order.Items, r.OrderItem)
	}
	return &order, nil
}

// ListOrders retrieves a page of orders, newest first, with an optional
// status filter and the total matching count.
func (s *Store) ListOrders(ctx context.Context, status string, limit, offset int) ([]models.Order, int64, error) {
	var (
		orders = []models.Order{}
		total  int64
		err    error
	)

	if status != "" {
		err = s.db.GetContext(ctx, &total,
			"SELECT COUNT(*) FROM orders WHERE status = $1", status)
		if err != nil {
			return nil, 0, err
		}
		err = s.db.SelectContext(ctx, &orders,
			"SELECT "+orderColumns+" FROM orders WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
			status, limit, offset)
	} else {
		err = s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM orders")
		if err != nil {
			return nil, 0, err
		}
		err = s.db.SelectContext(ctx, &orders,
			"SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2",
			limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}

	if err := s.attachItems(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// attachItems loads line items for a batch of orders in one query.
func (s *Store) attachItems(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	byID := make(map[string]*models.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		orders[i].Items = []models.OrderItem{}
		byID[orders[i].ID] = &orders[i]
	}

	query, args, err := sqlx.In(
		"SELECT order_id, position, product_id, quantity, product_name, product_image, product_price FROM order_items WHERE order_id IN (?) ORDER BY order_id, position",
		ids)
	if err != nil {
		return err
	}
	query = s.db.Rebind(query)

	var rows []orderItemRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return err
	}
	for _, r := range rows {
		if o, ok := byID[r.OrderID]; ok {
			o.Items = append(o.Items, r.OrderItem)
		}
	}
	return nil
}

// UpdateOrderStatus sets the status of an order and returns the updated
// order. Status membership is validated by the caller.
func (s *Store) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, notFound("Order", id)
	}
	return s.GetOrder(ctx, id)
}

// OrderStats aggregates order counts and revenue server-side.
func (s *Store) OrderStats(ctx context.Context) (total int64, revenue float64, pending int64, err error) {
	row := struct {
		Total   int64   `db:"total"`
		Revenue float64 `db:"revenue"`
		Pending int64   `db:"pending"`
	}{}
	err = s.db.GetContext(ctx, &row, `
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(total), 0) AS revenue,
		       COUNT(*) FILTER (WHERE status = 'pending') AS pending
		FROM orders`)
	if err != nil {
		return 0, 0, 0, err
	}
	return row.Total, row.Revenue, row.Pending, nil
}

// RecentOrders retrieves the n most recently created orders.
func (s *Store) RecentOrders(ctx context.Context, n int) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC LIMIT $1", n)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}
