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

// allowedNext is the delivery transition table a driver may walk.
// Claiming and cancelling are separate operations with their own
// preconditions.
var allowedNext = map[models.DeliveryStatus]models.DeliveryStatus{
	models.DeliveryClaimed:  models.DeliveryPickedUp,
	models.DeliveryPickedUp: models.DeliveryDelivered,
}

// requiredFrom inverts the table: the state an order must be in for a
// given target to apply.
var requiredFrom = map[models.DeliveryStatus]models.DeliveryStatus{
	models.DeliveryPickedUp:  models.DeliveryClaimed,
	models.DeliveryDelivered: models.DeliveryPickedUp,
}

type DeliveryService interface {
	Claim(ctx context.Context, orderID, driverID uuid.UUID) (*models.Order, error)
	Advance(ctx context.Context, orderID, driverID uuid.UUID, target models.DeliveryStatus) (*models.Order, error)
	Cancel(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	AssignDriver(ctx context.Context, orderID, driverID uuid.UUID) (*models.Order, error)
	Available(ctx context.Context) ([]*models.Order, error)
	DriverOrders(ctx context.Context, driverID uuid.UUID) ([]*models.Order, error)
}

type deliveryService struct {
	orders        storage.IOrderStorage
	drivers       storage.IDriverStorage
	notifications NotificationService
	alerts        Alerter
	log           logger.ILogger
}

func NewDeliveryService(stg storage.IStorage, notifications NotificationService, alerts Alerter, log logger.ILogger) DeliveryService {
	return &deliveryService{
		orders:        stg.Order(),
		drivers:       stg.Driver(),
		notifications: notifications,
		alerts:        alerts,
		log:           log,
	}
}

func (s *deliveryService) activeDriver(ctx context.Context, driverID uuid.UUID) (*models.Driver, error) {
	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("get driver: %w", err)
	}
	if driver == nil {
		return nil, fmt.Errorf("%w: driver %s", models.ErrNotFound, driverID)
	}
	if driver.Status != models.DriverActive {
		return nil, fmt.Errorf("%w: driver %s is not active", models.ErrForbidden, driverID)
	}
	return driver, nil
}

// Claim assigns the order to the driver only if it is still Pending and
// unassigned. The precondition lives in the store's conditional update,
// so two racing drivers cannot both win.
func (s *deliveryService) Claim(ctx context.Context, orderID, driverID uuid.UUID) (*models.Order, error) {
	driver, err := s.activeDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	updated, err := s.orders.Claim(ctx, orderID, driverID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("claim order: %w", err)
	}
	if updated == nil {
		existing, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("%w: order %s", models.ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("%w: order already claimed or not pending", models.ErrConflict)
	}

	s.log.Info("order claimed",
		logger.String("order_id", orderID.String()),
		logger.String("driver_id", driverID.String()),
	)
	s.project(ctx, updated, "Order claimed by driver")
	if s.alerts != nil {
		s.alerts.OrderClaimed(updated, driver)
	}
	return updated, nil
}

// Advance moves a claimed order along Claimed→PickedUp→Delivered. The
// caller must be the assigned driver.
func (s *deliveryService) Advance(ctx context.Context, orderID, driverID uuid.UUID, target models.DeliveryStatus) (*models.Order, error) {
	from, ok := requiredFrom[target]
	if !ok {
		return nil, fmt.Errorf("%w: cannot advance to %s", models.ErrInvalidTransition, target)
	}
	if _, err := s.activeDriver(ctx, driverID); err != nil {
		return nil, err
	}

	updated, err := s.orders.AdvanceStatus(ctx, orderID, driverID, from, target, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("advance order: %w", err)
	}
	if updated == nil {
		return nil, s.classifyAdvanceFailure(ctx, orderID, driverID, target)
	}

	s.log.Info("order advanced",
		logger.String("order_id", orderID.String()),
		logger.String("status", target.String()),
	)
	s.project(ctx, updated, fmt.Sprintf("Order %s", target))
	return updated, nil
}

func (s *deliveryService) classifyAdvanceFailure(ctx context.Context, orderID, driverID uuid.UUID, target models.DeliveryStatus) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return fmt.Errorf("%w: order %s", models.ErrNotFound, orderID)
	}
	if order.Delivery.AssignedDriverID == nil || *order.Delivery.AssignedDriverID != driverID {
		return fmt.Errorf("%w: order is not assigned to this driver", models.ErrForbidden)
	}
	if order.Delivery.Status == target {
		return fmt.Errorf("%w: order is already %s", models.ErrConflict, target)
	}
	if allowedNext[order.Delivery.Status] == target {
		// Preconditions re-check fine; the conditional update lost a race.
		return fmt.Errorf("%w: concurrent update, retry", models.ErrConflict)
	}
	return fmt.Errorf("%w: cannot move from %s to %s", models.ErrInvalidTransition, order.Delivery.Status, target)
}

// Cancel is admin-only. Delivered and Cancelled orders are terminal.
func (s *deliveryService) Cancel(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	updated, err := s.orders.Cancel(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	if updated == nil {
		order, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, fmt.Errorf("%w: order %s", models.ErrNotFound, orderID)
		}
		if order.Delivery.Status == models.DeliveryCancelled {
			return nil, fmt.Errorf("%w: order already cancelled", models.ErrConflict)
		}
		return nil, fmt.Errorf("%w: delivered orders cannot be cancelled", models.ErrInvalidTransition)
	}

	s.log.Info("order cancelled", logger.String("order_id", orderID.String()))
	s.project(ctx, updated, "Order cancelled by admin")
	return updated, nil
}

// AssignDriver is the admin variant of Claim; it uses the same
// conditional update so it cannot race a driver's own claim.
func (s *deliveryService) AssignDriver(ctx context.Context, orderID, driverID uuid.UUID) (*models.Order, error) {
	if _, err := s.activeDriver(ctx, driverID); err != nil {
		return nil, err
	}

	updated, err := s.orders.Claim(ctx, orderID, driverID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("assign driver: %w", err)
	}
	if updated == nil {
		existing, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("%w: order %s", models.ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("%w: order already assigned or not pending", models.ErrConflict)
	}

	s.project(ctx, updated, "Order assigned to driver")
	return updated, nil
}

func (s *deliveryService) Available(ctx context.Context) ([]*models.Order, error) {
	return s.orders.GetAvailable(ctx)
}

func (s *deliveryService) DriverOrders(ctx context.Context, driverID uuid.UUID) ([]*models.Order, error) {
	return s.orders.GetDriverOrders(ctx, driverID)
}

// project keeps the Notification row aligned with the order. Projection
// failures are logged, never propagated: the order mutation already
// committed and must not be rolled back for a UI feed.
func (s *deliveryService) project(ctx context.Context, order *models.Order, message string) {
	status := models.NotificationStatusFor(order.Delivery.Status)
	if _, err := s.notifications.UpsertForOrder(ctx, order.ID, order.Delivery.AssignedDriverID, status, message); err != nil {
		s.log.Warning("notification projection failed",
			logger.String("order_id", order.ID.String()),
			logger.Error(err),
		)
	}
}
