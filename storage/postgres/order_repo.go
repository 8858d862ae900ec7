package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AliIzzat/FlamingoBackend/pkg/logger"
	"github.com/AliIzzat/FlamingoBackend/pkg/models"
	"github.com/AliIzzat/FlamingoBackend/storage"
)

type orderRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewOrderRepo(db *pgxpool.Pool, log logger.ILogger) storage.IOrderStorage {
	return &orderRepo{db: db, log: log}
}

const orderColumns = `
	id,
	customer_name, customer_phone, customer_address, customer_lat, customer_lng,
	pickup_store_id, pickup_address, pickup_lat, pickup_lng,
	subtotal, delivery_fee, total,
	payment_method, payment_status, invoice_id, payment_id,
	delivery_status, assigned_driver_id, claimed_at, picked_up_at, delivered_at,
	dispute_status, dispute_reason, dispute_notes_customer, dispute_notes_admin,
	dispute_created_at, dispute_updated_at,
	refund_amount, refund_currency, refund_method, refund_id, refunded_at,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID,
		&o.Customer.Name, &o.Customer.Phone, &o.Customer.AddressText, &o.Customer.Location.Lat, &o.Customer.Location.Lng,
		&o.Pickup.StoreID, &o.Pickup.AddressText, &o.Pickup.Location.Lat, &o.Pickup.Location.Lng,
		&o.Totals.Subtotal, &o.Totals.DeliveryFee, &o.Totals.Total,
		&o.Payment.Method, &o.Payment.Status, &o.Payment.InvoiceID, &o.Payment.PaymentID,
		&o.Delivery.Status, &o.Delivery.AssignedDriverID, &o.Delivery.ClaimedAt, &o.Delivery.PickedUpAt, &o.Delivery.DeliveredAt,
		&o.Dispute.Status, &o.Dispute.Reason, &o.Dispute.NotesCustomer, &o.Dispute.NotesAdmin,
		&o.Dispute.CreatedAt, &o.Dispute.UpdatedAt,
		&o.Dispute.Refund.Amount, &o.Dispute.Refund.Currency, &o.Dispute.Refund.Method, &o.Dispute.Refund.RefundID, &o.Dispute.Refund.RefundedAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) (created *models.Order, err error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create order tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	query := `
		INSERT INTO orders (
			id,
			customer_name, customer_phone, customer_address, customer_lat, customer_lng,
			pickup_store_id, pickup_address, pickup_lat, pickup_lng,
			subtotal, delivery_fee, total,
			payment_method, payment_status,
			delivery_status, dispute_status,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err = tx.Exec(ctx, query,
		order.ID,
		order.Customer.Name, order.Customer.Phone, order.Customer.AddressText, order.Customer.Location.Lat, order.Customer.Location.Lng,
		order.Pickup.StoreID, order.Pickup.AddressText, order.Pickup.Location.Lat, order.Pickup.Location.Lng,
		order.Totals.Subtotal, order.Totals.DeliveryFee, order.Totals.Total,
		order.Payment.Method, order.Payment.Status,
		order.Delivery.Status, order.Dispute.Status,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.log.Error("failed to insert order", logger.Error(err))
		return nil, fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, position, product_id, store_id, category, name, unit_price, qty, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for i, item := range order.Items {
		_, err = tx.Exec(ctx, itemQuery,
			order.ID, i, item.ProductID, item.StoreID, item.Category, item.Name, item.UnitPrice, item.Qty, item.Image,
		)
		if err != nil {
			r.log.Error("failed to insert order item", logger.String("order_id", order.ID.String()), logger.Error(err))
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create order tx: %w", err)
	}
	return order, nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get order by id", logger.String("id", id.String()), logger.Error(err))
		return nil, err
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) loadItems(ctx context.Context, order *models.Order) error {
	query := `
		SELECT product_id, store_id, category, name, unit_price, qty, image
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`
	rows, err := r.db.Query(ctx, query, order.ID)
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	items := make([]models.OrderItem, 0)
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ProductID, &item.StoreID, &item.Category, &item.Name, &item.UnitPrice, &item.Qty, &item.Image); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	order.Items = items
	return nil
}

func (r *orderRepo) GetByCustomerPhone(ctx context.Context, phone string) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_phone = $1 ORDER BY created_at DESC`
	return r.scanOrders(ctx, query, phone)
}

func (r *orderRepo) GetAvailable(ctx context.Context) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE delivery_status = 'Pending'
		  AND assigned_driver_id IS NULL
		  AND (payment_method = 'cash' OR payment_status = 'paid')
		ORDER BY created_at DESC`
	return r.scanOrders(ctx, query)
}

func (r *orderRepo) GetDriverOrders(ctx context.Context, driverID uuid.UUID) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE assigned_driver_id = $1
		  AND delivery_status IN ('Claimed', 'PickedUp', 'Delivered')
		ORDER BY created_at DESC`
	return r.scanOrders(ctx, query, driverID)
}

func (r *orderRepo) GetAll(ctx context.Context) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.scanOrders(ctx, query)
}

func (r *orderRepo) scanOrders(ctx context.Context, query string, args ...interface{}) ([]*models.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range orders {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// conditionalUpdate runs a single UPDATE whose WHERE clause carries the
// expected current state. (nil, nil) means the precondition did not match.
func (r *orderRepo) conditionalUpdate(ctx context.Context, query string, args ...interface{}) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) Claim(ctx context.Context, orderID, driverID uuid.UUID, at time.Time) (*models.Order, error) {
	query := `
		UPDATE orders
		SET delivery_status = 'Claimed', assigned_driver_id = $2, claimed_at = $3, updated_at = $3
		WHERE id = $1 AND delivery_status = 'Pending' AND assigned_driver_id IS NULL
		RETURNING ` + orderColumns
	return r.conditionalUpdate(ctx, query, orderID, driverID, at)
}

func (r *orderRepo) AdvanceStatus(ctx context.Context, orderID, driverID uuid.UUID, from, to models.DeliveryStatus, at time.Time) (*models.Order, error) {
	var query string
	switch to {
	case models.DeliveryPickedUp:
		query = `
			UPDATE orders
			SET delivery_status = $4, picked_up_at = $5, updated_at = $5
			WHERE id = $1 AND assigned_driver_id = $2 AND delivery_status = $3
			RETURNING ` + orderColumns
	case models.DeliveryDelivered:
		query = `
			UPDATE orders
			SET delivery_status = $4, delivered_at = $5, updated_at = $5
			WHERE id = $1 AND assigned_driver_id = $2 AND delivery_status = $3
			RETURNING ` + orderColumns
	default:
		return nil, fmt.Errorf("unsupported target status %s", to)
	}
	return r.conditionalUpdate(ctx, query, orderID, driverID, from, to, at)
}

func (r *orderRepo) Cancel(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	query := `
		UPDATE orders
		SET delivery_status = 'Cancelled',
		    assigned_driver_id = NULL,
		    claimed_at = NULL,
		    picked_up_at = NULL,
		    delivered_at = NULL,
		    updated_at = $2
		WHERE id = $1 AND delivery_status IN ('Pending', 'Claimed', 'PickedUp')
		RETURNING ` + orderColumns
	return r.conditionalUpdate(ctx, query, orderID, time.Now().UTC())
}

func (r *orderRepo) SetInvoiceID(ctx context.Context, orderID uuid.UUID, invoiceID string) error {
	query := `UPDATE orders SET invoice_id = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, orderID, invoiceID, time.Now().UTC())
	if err != nil {
		r.log.Error("failed to set invoice id", logger.String("order_id", orderID.String()), logger.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *orderRepo) SetPaymentResult(ctx context.Context, orderID uuid.UUID, status models.PaymentStatus, paymentID, invoiceID string) (*models.Order, error) {
	// Only unpaid orders move; a repeated terminal callback matches zero rows.
	query := `
		UPDATE orders
		SET payment_status = $2,
		    payment_id = $3,
		    invoice_id = COALESCE(NULLIF($4, ''), invoice_id),
		    updated_at = $5
		WHERE id = $1 AND payment_status = 'unpaid'
		RETURNING ` + orderColumns
	return r.conditionalUpdate(ctx, query, orderID, status, paymentID, invoiceID, time.Now().UTC())
}

func (r *orderRepo) OpenDispute(ctx context.Context, orderID uuid.UUID, reason, notesCustomer, currency string, at time.Time) (*models.Order, error) {
	query := `
		UPDATE orders
		SET dispute_status = 'Open',
		    dispute_reason = $2,
		    dispute_notes_customer = $3,
		    dispute_notes_admin = '',
		    dispute_created_at = $5,
		    dispute_updated_at = $5,
		    refund_amount = 0,
		    refund_currency = $4,
		    refund_method = '',
		    refund_id = '',
		    refunded_at = NULL,
		    updated_at = $5
		WHERE id = $1 AND dispute_status = 'None' AND delivery_status = 'Delivered'
		RETURNING ` + orderColumns
	return r.conditionalUpdate(ctx, query, orderID, reason, notesCustomer, currency, at)
}

func (r *orderRepo) ResolveDispute(ctx context.Context, orderID uuid.UUID, status models.DisputeStatus, notesAdmin string, refund *models.Refund, at time.Time) (*models.Order, error) {
	if refund != nil {
		query := `
			UPDATE orders
			SET dispute_status = $2,
			    dispute_notes_admin = $3,
			    dispute_updated_at = $4,
			    refund_amount = $5,
			    refund_currency = $6,
			    refund_method = $7,
			    refund_id = $8,
			    refunded_at = $9,
			    updated_at = $4
			WHERE id = $1 AND dispute_status IN ('Open', 'UnderReview')
			RETURNING ` + orderColumns
		return r.conditionalUpdate(ctx, query, orderID, status, notesAdmin, at,
			refund.Amount, refund.Currency, refund.Method, refund.RefundID, refund.RefundedAt)
	}
	query := `
		UPDATE orders
		SET dispute_status = $2, dispute_notes_admin = $3, dispute_updated_at = $4, updated_at = $4
		WHERE id = $1 AND dispute_status IN ('Open', 'UnderReview')
		RETURNING ` + orderColumns
	return r.conditionalUpdate(ctx, query, orderID, status, notesAdmin, at)
}
