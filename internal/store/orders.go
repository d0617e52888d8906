package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"checkout-service/internal/models"
)

// orderRow mirrors the orders table; addresses stay JSON until this edge.
type orderRow struct {
	ID              int64     `db:"id"`
	OrderNumber     string    `db:"order_number"`
	CustomerEmail   string    `db:"customer_email"`
	CustomerName    string    `db:"customer_name"`
	CustomerPhone   string    `db:"customer_phone"`
	ShippingAddress []byte    `db:"shipping_address"`
	BillingAddress  []byte    `db:"billing_address"`
	Subtotal        float64   `db:"subtotal"`
	ShippingCost    float64   `db:"shipping_cost"`
	ShippingMethod  string    `db:"shipping_method"`
	TaxAmount       float64   `db:"tax_amount"`
	Total           float64   `db:"total"`
	Status          string    `db:"status"`
	PaymentIntentID string    `db:"payment_intent_id"`
	TrackingNumber  string    `db:"tracking_number"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r *orderRow) toOrder() (*models.Order, error) {
	order := &models.Order{
		ID:              r.ID,
		OrderNumber:     r.OrderNumber,
		CustomerEmail:   r.CustomerEmail,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		Subtotal:        r.Subtotal,
		ShippingCost:    r.ShippingCost,
		ShippingMethod:  r.ShippingMethod,
		TaxAmount:       r.TaxAmount,
		Total:           r.Total,
		Status:          r.Status,
		PaymentIntentID: r.PaymentIntentID,
		TrackingNumber:  r.TrackingNumber,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if err := json.Unmarshal(r.ShippingAddress, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("failed to decode shipping address: %w", err)
	}
	if err := json.Unmarshal(r.BillingAddress, &order.BillingAddress); err != nil {
		return nil, fmt.Errorf("failed to decode billing address: %w", err)
	}
	return order, nil
}

// CreateOrder inserts the order, its items, and applies every stock decrement
// in a single transaction. Decrements are atomic relative updates guarded by
// the current count; a shortfall aborts the whole transaction with
// models.ErrInsufficientStock.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order, decrements []models.StockDecrement) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	shipAddr, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to encode shipping address: %w", err)
	}
	billAddr, err := json.Marshal(order.BillingAddress)
	if err != nil {
		return fmt.Errorf("failed to encode billing address: %w", err)
	}

	query := `
		INSERT INTO orders (
			order_number, customer_email, customer_name, customer_phone,
			shipping_address, billing_address,
			subtotal, shipping_cost, shipping_method, tax_amount, total,
			status, payment_intent_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	row := tx.QueryRowxContext(ctx, query,
		order.OrderNumber, order.CustomerEmail, order.CustomerName, order.CustomerPhone,
		shipAddr, billAddr,
		order.Subtotal, order.ShippingCost, order.ShippingMethod, order.TaxAmount, order.Total,
		order.Status, order.PaymentIntentID)
	if err := row.Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err := tx.GetContext(ctx, &item.ID, `
			INSERT INTO order_items (order_id, product_id, title, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			item.OrderID, item.ProductID, item.Title, item.Quantity, item.UnitPrice)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	for _, d := range decrements {
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET inventory_count = inventory_count - $1
			WHERE id = $2 AND inventory_count >= $1`,
			d.Quantity, d.ProductID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock for product %d: %w", d.ProductID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: product %d", models.ErrInsufficientStock, d.ProductID)
		}
	}

	return tx.Commit()
}

// GetOrderByNumber retrieves an order with its items.
func (s *Store) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var row orderRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM orders WHERE order_number = $1", orderNumber)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", models.ErrOrderNotFound, orderNumber)
	}
	if err != nil {
		return nil, err
	}

	order, err := row.toOrder()
	if err != nil {
		return nil, err
	}

	err = s.db.SelectContext(ctx, &order.Items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", order.ID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrderStatus updates status and tracking, the only mutable order fields.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderNumber, status, trackingNumber string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, tracking_number = $2, updated_at = NOW()
		WHERE order_number = $3`,
		status, trackingNumber, orderNumber)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", models.ErrOrderNotFound, orderNumber)
	}
	return nil
}
