package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AliIzzat/FlamingoBackend/pkg/logger"
	"github.com/AliIzzat/FlamingoBackend/pkg/models"
	"github.com/AliIzzat/FlamingoBackend/pkg/myfatoorah"
	"github.com/AliIzzat/FlamingoBackend/storage"
)

type PaymentContact struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Email  string `json:"email"`
}

// PaymentSession is what checkout hands back to the client so it can
// open the gateway's hosted payment page.
type PaymentSession struct {
	InvoiceID  string `json:"invoice_id"`
	PaymentURL string `json:"payment_url"`
}

type PaymentService interface {
	Initiate(ctx context.Context, orderID uuid.UUID, contact PaymentContact) (*PaymentSession, error)
	Reconcile(ctx context.Context, orderID uuid.UUID, paymentID string) (*models.Order, error)
	MarkFailed(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

type paymentService struct {
	orders  storage.IOrderStorage
	drivers storage.IDriverStorage
	gateway PaymentGateway
	alerts  Alerter
	opts    Options
	log     logger.ILogger
}

func NewPaymentService(stg storage.IStorage, gw PaymentGateway, alerts Alerter, opts Options, log logger.ILogger) PaymentService {
	return &paymentService{
		orders:  stg.Order(),
		drivers: stg.Driver(),
		gateway: gw,
		alerts:  alerts,
		opts:    opts,
		log:     log,
	}
}

// Initiate registers the order's invoice with the gateway. The invoice
// value is always the stored total; a client-supplied amount is never
// used. A gateway failure leaves the order untouched and re-attemptable.
func (s *paymentService) Initiate(ctx context.Context, orderID uuid.UUID, contact PaymentContact) (*PaymentSession, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %s", models.ErrNotFound, orderID)
	}
	if order.Payment.Method != models.PaymentMethodGateway {
		return nil, fmt.Errorf("%w: order is not a gateway payment", models.ErrValidation)
	}
	if order.Payment.Status != models.PaymentUnpaid {
		return nil, fmt.Errorf("%w: payment already %s", models.ErrConflict, order.Payment.Status)
	}

	name := contact.Name
	if name == "" {
		name = order.Customer.Name
	}
	mobile := contact.Mobile
	if mobile == "" {
		mobile = order.Customer.Phone
	}

	ref := order.ID.String()
	invoice, err := s.gateway.CreateInvoice(ctx, myfatoorah.InvoiceRequest{
		Amount:         order.Totals.Total,
		Currency:       s.opts.Pricing.Currency,
		CustomerName:   name,
		CustomerMobile: mobile,
		CustomerEmail:  contact.Email,
		Reference:      ref,
		CallbackURL:    fmt.Sprintf("%s/api/payments/myfatoorah/callback?orderId=%s", s.opts.AppBaseURL, ref),
		ErrorURL:       fmt.Sprintf("%s/api/payments/myfatoorah/error?orderId=%s", s.opts.AppBaseURL, ref),
	})
	if err != nil {
		s.log.Error("payment initiation failed", logger.String("order_id", ref), logger.Error(err))
		return nil, fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}

	// Persist immediately so a crash after this point still leaves the
	// order→invoice mapping recoverable.
	if err := s.orders.SetInvoiceID(ctx, orderID, invoice.ID); err != nil {
		return nil, fmt.Errorf("store invoice id: %w", err)
	}

	s.log.Info("payment initiated",
		logger.String("order_id", ref),
		logger.String("invoice_id", invoice.ID),
		logger.Float64("amount", order.Totals.Total),
	)
	return &PaymentSession{InvoiceID: invoice.ID, PaymentURL: invoice.PaymentURL}, nil
}

// Reconcile drives payment status from the gateway's view of the invoice.
// It verifies by payment id first, retries once by invoice id (callback
// payload shapes vary), and is idempotent: a repeated terminal callback
// changes nothing and fires no downstream effects.
func (s *paymentService) Reconcile(ctx context.Context, orderID uuid.UUID, paymentID string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %s", models.ErrNotFound, orderID)
	}

	state, err := s.gateway.GetPaymentStatus(ctx, paymentID, myfatoorah.KeyPaymentID)
	if err != nil {
		s.log.Warning("verify by payment id failed, retrying by invoice id",
			logger.String("order_id", orderID.String()),
			logger.Error(err),
		)
		state, err = s.gateway.GetPaymentStatus(ctx, paymentID, myfatoorah.KeyInvoiceID)
		if err != nil {
			// Inconclusive: leave payment.status untouched rather than guess.
			return nil, fmt.Errorf("%w: payment verification inconclusive: %v", models.ErrUpstream, err)
		}
	}

	// Fail closed: only an explicit "Paid" marks the order paid.
	status := models.PaymentFailed
	if state.Paid() {
		status = models.PaymentPaid
	}

	updated, err := s.orders.SetPaymentResult(ctx, orderID, status, paymentID, state.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("apply payment result: %w", err)
	}
	if updated == nil {
		if order.Payment.Status == status {
			// Duplicate callback; terminal state already applied.
			return order, nil
		}
		return nil, fmt.Errorf("%w: payment already %s", models.ErrConflict, order.Payment.Status)
	}

	s.log.Info("payment reconciled",
		logger.String("order_id", orderID.String()),
		logger.String("status", string(status)),
	)

	if status == models.PaymentPaid {
		s.announceAvailable(ctx, updated)
	}
	return updated, nil
}

// MarkFailed handles the gateway's error-return URL: the customer
// abandoned or the charge was declined before any callback fired.
func (s *paymentService) MarkFailed(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	updated, err := s.orders.SetPaymentResult(ctx, orderID, models.PaymentFailed, "", "")
	if err != nil {
		return nil, fmt.Errorf("mark payment failed: %w", err)
	}
	if updated == nil {
		order, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, fmt.Errorf("%w: order %s", models.ErrNotFound, orderID)
		}
		if order.Payment.Status == models.PaymentFailed {
			return order, nil
		}
		return nil, fmt.Errorf("%w: payment already %s", models.ErrConflict, order.Payment.Status)
	}
	return updated, nil
}

func (s *paymentService) announceAvailable(ctx context.Context, order *models.Order) {
	if s.alerts == nil {
		return
	}
	drivers, err := s.drivers.GetActive(ctx)
	if err != nil {
		s.log.Warning("failed to load drivers for alert", logger.Error(err))
		return
	}
	s.alerts.OrderAvailable(order, drivers)
}
