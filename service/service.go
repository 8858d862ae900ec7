package service

import (
	"context"
	"time"

	"github.com/AliIzzat/FlamingoBackend/pkg/logger"
	"github.com/AliIzzat/FlamingoBackend/pkg/models"
	"github.com/AliIzzat/FlamingoBackend/pkg/myfatoorah"
	"github.com/AliIzzat/FlamingoBackend/storage"
)

// Pricing is the server-controlled money configuration. The delivery
// fee is never trusted from a client.
type Pricing struct {
	DeliveryFee float64
	Currency    string
}

type Options struct {
	Pricing       Pricing
	DisputeWindow time.Duration
	AppBaseURL    string
}

// PaymentGateway is the narrow boundary to the external payment
// provider. It is treated as unreliable: calls may time out and status
// strings may be ambiguous.
type PaymentGateway interface {
	CreateInvoice(ctx context.Context, req myfatoorah.InvoiceRequest) (*myfatoorah.Invoice, error)
	GetPaymentStatus(ctx context.Context, key string, keyType myfatoorah.KeyType) (*myfatoorah.PaymentState, error)
}

// Alerter is a fire-and-observe side channel; failures never affect the
// order mutation that triggered them.
type Alerter interface {
	OrderAvailable(order *models.Order, drivers []*models.Driver)
	OrderClaimed(order *models.Order, driver *models.Driver)
	DisputeOpened(order *models.Order)
}

type IServiceManager interface {
	Order() OrderService
	Delivery() DeliveryService
	Payment() PaymentService
	Dispute() DisputeService
	Driver() DriverService
	Notification() NotificationService
}

type service struct {
	orderService        OrderService
	deliveryService     DeliveryService
	paymentService      PaymentService
	disputeService      DisputeService
	driverService       DriverService
	notificationService NotificationService
}

func New(stg storage.IStorage, gw PaymentGateway, alerts Alerter, opts Options, log logger.ILogger) IServiceManager {
	notifications := NewNotificationService(stg, log)
	return &service{
		orderService:        NewOrderService(stg, opts.Pricing, log),
		deliveryService:     NewDeliveryService(stg, notifications, alerts, log),
		paymentService:      NewPaymentService(stg, gw, alerts, opts, log),
		disputeService:      NewDisputeService(stg, alerts, opts, log),
		driverService:       NewDriverService(stg, log),
		notificationService: notifications,
	}
}

func (s *service) Order() OrderService               { return s.orderService }
func (s *service) Delivery() DeliveryService         { return s.deliveryService }
func (s *service) Payment() PaymentService           { return s.paymentService }
func (s *service) Dispute() DisputeService           { return s.disputeService }
func (s *service) Driver() DriverService             { return s.driverService }
func (s *service) Notification() NotificationService { return s.notificationService }
