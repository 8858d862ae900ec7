package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AliIzzat/FlamingoBackend/pkg/models"
)

type IStorage interface {
	Order() IOrderStorage
	Driver() IDriverStorage
	Notification() INotificationStorage
	Close()
	GetPool() *pgxpool.Pool
}

// IOrderStorage is the only mutation path for order state. Every
// state-changing method is a single conditional UPDATE: the expected
// current state is part of the WHERE clause and Postgres guarantees the
// read-check-write is indivisible. Conditional methods return (nil, nil)
// when the precondition did not match; callers classify the outcome.
type IOrderStorage interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByCustomerPhone(ctx context.Context, phone string) ([]*models.Order, error)
	GetAvailable(ctx context.Context) ([]*models.Order, error)
	GetDriverOrders(ctx context.Context, driverID uuid.UUID) ([]*models.Order, error)
	GetAll(ctx context.Context) ([]*models.Order, error)

	Claim(ctx context.Context, orderID, driverID uuid.UUID, at time.Time) (*models.Order, error)
	AdvanceStatus(ctx context.Context, orderID, driverID uuid.UUID, from, to models.DeliveryStatus, at time.Time) (*models.Order, error)
	Cancel(ctx context.Context, orderID uuid.UUID) (*models.Order, error)

	SetInvoiceID(ctx context.Context, orderID uuid.UUID, invoiceID string) error
	SetPaymentResult(ctx context.Context, orderID uuid.UUID, status models.PaymentStatus, paymentID, invoiceID string) (*models.Order, error)

	OpenDispute(ctx context.Context, orderID uuid.UUID, reason, notesCustomer, currency string, at time.Time) (*models.Order, error)
	ResolveDispute(ctx context.Context, orderID uuid.UUID, status models.DisputeStatus, notesAdmin string, refund *models.Refund, at time.Time) (*models.Order, error)
}

type IDriverStorage interface {
	Create(ctx context.Context, driver *models.Driver) (*models.Driver, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	GetAll(ctx context.Context) ([]*models.Driver, error)
	GetActive(ctx context.Context) ([]*models.Driver, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SetTelegramChatID(ctx context.Context, id uuid.UUID, chatID int64) error
}

type INotificationStorage interface {
	UpsertForOrder(ctx context.Context, orderID uuid.UUID, driverID *uuid.UUID, status models.NotificationStatus, message string) (*models.Notification, error)
	GetForDriver(ctx context.Context, driverID uuid.UUID) ([]*models.Notification, error)
	GetRecent(ctx context.Context, limit int) ([]*models.Notification, error)
}
