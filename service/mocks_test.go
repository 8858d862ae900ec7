package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AliIzzat/FlamingoBackend/pkg/logger"
	"github.com/AliIzzat/FlamingoBackend/pkg/models"
	"github.com/AliIzzat/FlamingoBackend/pkg/myfatoorah"
	"github.com/AliIzzat/FlamingoBackend/storage"
)

var testLog = logger.New("test", "error")

type mockStorage struct {
	orders        *mockOrderRepo
	drivers       *mockDriverRepo
	notifications *mockNotificationRepo
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		orders:        &mockOrderRepo{},
		drivers:       &mockDriverRepo{},
		notifications: &mockNotificationRepo{},
	}
}

func (m *mockStorage) Order() storage.IOrderStorage               { return m.orders }
func (m *mockStorage) Driver() storage.IDriverStorage             { return m.drivers }
func (m *mockStorage) Notification() storage.INotificationStorage { return m.notifications }
func (m *mockStorage) Close()                                     {}
func (m *mockStorage) GetPool() *pgxpool.Pool                     { return nil }

type mockOrderRepo struct {
	createFunc           func(ctx context.Context, order *models.Order) (*models.Order, error)
	getByIDFunc          func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	getByPhoneFunc       func(ctx context.Context, phone string) ([]*models.Order, error)
	getAvailableFunc     func(ctx context.Context) ([]*models.Order, error)
	getDriverOrdersFunc  func(ctx context.Context, driverID uuid.UUID) ([]*models.Order, error)
	getAllFunc           func(ctx context.Context) ([]*models.Order, error)
	claimFunc            func(ctx context.Context, orderID, driverID uuid.UUID, at time.Time) (*models.Order, error)
	advanceStatusFunc    func(ctx context.Context, orderID, driverID uuid.UUID, from, to models.DeliveryStatus, at time.Time) (*models.Order, error)
	cancelFunc           func(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	setInvoiceIDFunc     func(ctx context.Context, orderID uuid.UUID, invoiceID string) error
	setPaymentResultFunc func(ctx context.Context, orderID uuid.UUID, status models.PaymentStatus, paymentID, invoiceID string) (*models.Order, error)
	openDisputeFunc      func(ctx context.Context, orderID uuid.UUID, reason, notesCustomer, currency string, at time.Time) (*models.Order, error)
	resolveDisputeFunc   func(ctx context.Context, orderID uuid.UUID, status models.DisputeStatus, notesAdmin string, refund *models.Refund, at time.Time) (*models.Order, error)
}

func (m *mockOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if m.createFunc == nil {
		if order.ID == uuid.Nil {
			order.ID = uuid.New()
		}
		return order, nil
	}
	return m.createFunc(ctx, order)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.getByIDFunc == nil {
		return nil, nil
	}
	return m.getByIDFunc(ctx, id)
}

func (m *mockOrderRepo) GetByCustomerPhone(ctx context.Context, phone string) ([]*models.Order, error) {
	if m.getByPhoneFunc == nil {
		return nil, nil
	}
	return m.getByPhoneFunc(ctx, phone)
}

func (m *mockOrderRepo) GetAvailable(ctx context.Context) ([]*models.Order, error) {
	if m.getAvailableFunc == nil {
		return nil, nil
	}
	return m.getAvailableFunc(ctx)
}

func (m *mockOrderRepo) GetDriverOrders(ctx context.Context, driverID uuid.UUID) ([]*models.Order, error) {
	if m.getDriverOrdersFunc == nil {
		return nil, nil
	}
	return m.getDriverOrdersFunc(ctx, driverID)
}

func (m *mockOrderRepo) GetAll(ctx context.Context) ([]*models.Order, error) {
	if m.getAllFunc == nil {
		return nil, nil
	}
	return m.getAllFunc(ctx)
}

func (m *mockOrderRepo) Claim(ctx context.Context, orderID, driverID uuid.UUID, at time.Time) (*models.Order, error) {
	return m.claimFunc(ctx, orderID, driverID, at)
}

func (m *mockOrderRepo) AdvanceStatus(ctx context.Context, orderID, driverID uuid.UUID, from, to models.DeliveryStatus, at time.Time) (*models.Order, error) {
	return m.advanceStatusFunc(ctx, orderID, driverID, from, to, at)
}

func (m *mockOrderRepo) Cancel(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return m.cancelFunc(ctx, orderID)
}

func (m *mockOrderRepo) SetInvoiceID(ctx context.Context, orderID uuid.UUID, invoiceID string) error {
	if m.setInvoiceIDFunc == nil {
		return nil
	}
	return m.setInvoiceIDFunc(ctx, orderID, invoiceID)
}

func (m *mockOrderRepo) SetPaymentResult(ctx context.Context, orderID uuid.UUID, status models.PaymentStatus, paymentID, invoiceID string) (*models.Order, error) {
	return m.setPaymentResultFunc(ctx, orderID, status, paymentID, invoiceID)
}

func (m *mockOrderRepo) OpenDispute(ctx context.Context, orderID uuid.UUID, reason, notesCustomer, currency string, at time.Time) (*models.Order, error) {
	return m.openDisputeFunc(ctx, orderID, reason, notesCustomer, currency, at)
}

func (m *mockOrderRepo) ResolveDispute(ctx context.Context, orderID uuid.UUID, status models.DisputeStatus, notesAdmin string, refund *models.Refund, at time.Time) (*models.Order, error) {
	return m.resolveDisputeFunc(ctx, orderID, status, notesAdmin, refund, at)
}

type mockDriverRepo struct {
	createFunc    func(ctx context.Context, driver *models.Driver) (*models.Driver, error)
	getByIDFunc   func(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	getAllFunc    func(ctx context.Context) ([]*models.Driver, error)
	getActiveFunc func(ctx context.Context) ([]*models.Driver, error)
}

func (m *mockDriverRepo) Create(ctx context.Context, driver *models.Driver) (*models.Driver, error) {
	if m.createFunc == nil {
		if driver.ID == uuid.Nil {
			driver.ID = uuid.New()
		}
		return driver, nil
	}
	return m.createFunc(ctx, driver)
}

func (m *mockDriverRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	if m.getByIDFunc == nil {
		return &models.Driver{ID: id, Name: "Test Driver", Status: models.DriverActive}, nil
	}
	return m.getByIDFunc(ctx, id)
}

func (m *mockDriverRepo) GetAll(ctx context.Context) ([]*models.Driver, error) {
	if m.getAllFunc == nil {
		return nil, nil
	}
	return m.getAllFunc(ctx)
}

func (m *mockDriverRepo) GetActive(ctx context.Context) ([]*models.Driver, error) {
	if m.getActiveFunc == nil {
		return nil, nil
	}
	return m.getActiveFunc(ctx)
}

func (m *mockDriverRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}

func (m *mockDriverRepo) SetTelegramChatID(ctx context.Context, id uuid.UUID, chatID int64) error {
	return nil
}

type mockNotificationRepo struct {
	upsertFunc func(ctx context.Context, orderID uuid.UUID, driverID *uuid.UUID, status models.NotificationStatus, message string) (*models.Notification, error)
	upserts    []models.NotificationStatus
}

func (m *mockNotificationRepo) UpsertForOrder(ctx context.Context, orderID uuid.UUID, driverID *uuid.UUID, status models.NotificationStatus, message string) (*models.Notification, error) {
	m.upserts = append(m.upserts, status)
	if m.upsertFunc == nil {
		return &models.Notification{OrderID: orderID, DriverID: driverID, Status: status, Message: message}, nil
	}
	return m.upsertFunc(ctx, orderID, driverID, status, message)
}

func (m *mockNotificationRepo) GetForDriver(ctx context.Context, driverID uuid.UUID) ([]*models.Notification, error) {
	return nil, nil
}

func (m *mockNotificationRepo) GetRecent(ctx context.Context, limit int) ([]*models.Notification, error) {
	return nil, nil
}

type mockGateway struct {
	createInvoiceFunc func(ctx context.Context, req myfatoorah.InvoiceRequest) (*myfatoorah.Invoice, error)
	statusFunc        func(ctx context.Context, key string, keyType myfatoorah.KeyType) (*myfatoorah.PaymentState, error)
	statusCalls       []myfatoorah.KeyType
}

func (m *mockGateway) CreateInvoice(ctx context.Context, req myfatoorah.InvoiceRequest) (*myfatoorah.Invoice, error) {
	return m.createInvoiceFunc(ctx, req)
}

func (m *mockGateway) GetPaymentStatus(ctx context.Context, key string, keyType myfatoorah.KeyType) (*myfatoorah.PaymentState, error) {
	m.statusCalls = append(m.statusCalls, keyType)
	return m.statusFunc(ctx, key, keyType)
}

type mockAlerter struct {
	available int
	claimed   int
	disputes  int
}

func (m *mockAlerter) OrderAvailable(order *models.Order, drivers []*models.Driver) { m.available++ }
func (m *mockAlerter) OrderClaimed(order *models.Order, driver *models.Driver)     { m.claimed++ }
func (m *mockAlerter) DisputeOpened(order *models.Order)                           { m.disputes++ }
