package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AliIzzat/FlamingoBackend/pkg/logger"
	"github.com/AliIzzat/FlamingoBackend/pkg/models"
	"github.com/AliIzzat/FlamingoBackend/storage"
)

var resolvableStatuses = map[models.DisputeStatus]bool{
	models.DisputeUnderReview:    true,
	models.DisputeApprovedRefund: true,
	models.DisputeRejected:       true,
	models.DisputeResolved:       true,
}

type DisputeService interface {
	Open(ctx context.Context, orderID uuid.UUID, customerPhone, reason, notes string) (*models.Order, error)
	Resolve(ctx context.Context, orderID uuid.UUID, status models.DisputeStatus, adminNotes string, refundAmount float64) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID, customerPhone string) (*models.Dispute, error)
}

type disputeService struct {
	orders storage.IOrderStorage
	alerts Alerter
	opts   Options
	log    logger.ILogger
}

func NewDisputeService(stg storage.IStorage, alerts Alerter, opts Options, log logger.ILogger) DisputeService {
	return &disputeService{
		orders: stg.Order(),
		alerts: alerts,
		opts:   opts,
		log:    log,
	}
}

// Open starts a dispute on a delivered order. Each precondition fails
// with its own distinguishable outcome. A window of zero or less means
// disputes are disabled, which is a valid operating mode.
func (s *disputeService) Open(ctx context.Context, orderID uuid.UUID, customerPhone, reason, notes string) (*models.Order, error) {
	if s.opts.DisputeWindow <= 0 {
		return nil, fmt.Errorf("%w: disputes are disabled", models.ErrForbidden)
	}
	if customerPhone == "" {
		return nil, fmt.Errorf("%w: customer phone is required", models.ErrValidation)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %s", models.ErrNotFound, orderID)
	}
	if order.Customer.Phone != customerPhone {
		return nil, fmt.Errorf("%w: order does not belong to this customer", models.ErrForbidden)
	}
	if order.Delivery.Status != models.DeliveryDelivered {
		return nil, fmt.Errorf("%w: disputes require a delivered order", models.ErrInvalidTransition)
	}
	if order.Dispute.Status != models.DisputeNone {
		return nil, fmt.Errorf("%w: dispute already exists for this order", models.ErrConflict)
	}
	if order.Delivery.DeliveredAt == nil {
		return nil, fmt.Errorf("%w: delivery time missing, cannot open dispute", models.ErrValidation)
	}
	if time.Since(*order.Delivery.DeliveredAt) > s.opts.DisputeWindow {
		return nil, fmt.Errorf("%w: dispute window expired", models.ErrForbidden)
	}

	updated, err := s.orders.OpenDispute(ctx, orderID, reason, notes, s.opts.Pricing.Currency, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("open dispute: %w", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: dispute already exists for this order", models.ErrConflict)
	}

	s.log.Info("dispute opened", logger.String("order_id", orderID.String()))
	if s.alerts != nil {
		s.alerts.DisputeOpened(updated)
	}
	return updated, nil
}

// Resolve is admin-driven. Refund amounts are not checked against the
// order total; admins are trusted.
func (s *disputeService) Resolve(ctx context.Context, orderID uuid.UUID, status models.DisputeStatus, adminNotes string, refundAmount float64) (*models.Order, error) {
	if !resolvableStatuses[status] {
		return nil, fmt.Errorf("%w: %q is not a valid resolution status", models.ErrValidation, status)
	}
	if refundAmount < 0 {
		return nil, fmt.Errorf("%w: refund amount cannot be negative", models.ErrValidation)
	}

	var refund *models.Refund
	if status == models.DisputeApprovedRefund {
		now := time.Now().UTC()
		refund = &models.Refund{
			Amount:     refundAmount,
			Currency:   s.opts.Pricing.Currency,
			Method:     "manual",
			RefundedAt: &now,
		}
	}

	updated, err := s.orders.ResolveDispute(ctx, orderID, status, adminNotes, refund, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("resolve dispute: %w", err)
	}
	if updated == nil {
		order, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, fmt.Errorf("%w: order %s", models.ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("%w: dispute is %s, not resolvable", models.ErrConflict, order.Dispute.Status)
	}

	s.log.Info("dispute resolved",
		logger.String("order_id", orderID.String()),
		logger.String("status", string(status)),
	)
	return updated, nil
}

func (s *disputeService) Get(ctx context.Context, orderID uuid.UUID, customerPhone string) (*models.Dispute, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %s", models.ErrNotFound, orderID)
	}
	if order.Customer.Phone != customerPhone {
		return nil, fmt.Errorf("%w: order does not belong to this customer", models.ErrForbidden)
	}
	dispute := order.Dispute
	return &dispute, nil
}
