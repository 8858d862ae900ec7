package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliIzzat/FlamingoBackend/pkg/models"
	"github.com/AliIzzat/FlamingoBackend/service"
)

const disputeWindow = 48 * time.Hour

func disputeOptions() service.Options {
	opts := testOptions()
	opts.DisputeWindow = disputeWindow
	return opts
}

func deliveredOrder(id uuid.UUID, deliveredAgo time.Duration) *models.Order {
	order := pendingOrder(id)
	order.Delivery.Status = models.DeliveryDelivered
	deliveredAt := time.Now().UTC().Add(-deliveredAgo)
	order.Delivery.DeliveredAt = &deliveredAt
	return order
}

func TestOpenDisputeWithinWindow(t *testing.T) {
	orderID := uuid.New()
	order := deliveredOrder(orderID, disputeWindow-time.Hour)
	stg := newMockStorage()
	stg.orders.getByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
		return order, nil
	}
	stg.orders.openDisputeFunc = func(ctx context.Context, oid uuid.UUID, reason, notes, currency string, at time.Time) (*models.Order, error) {
		assert.Equal(t, "wrong items", reason)
		assert.Equal(t, "IQD", currency)
		order.Dispute.Status = models.DisputeOpen
		order.Dispute.Reason = reason
		order.Dispute.NotesCustomer = notes
		order.Dispute.CreatedAt = &at
		return order, nil
	}
	alerts := &mockAlerter{}
	svc := service.NewDisputeService(stg, alerts, disputeOptions(), testLog)

	updated, err := svc.Open(context.Background(), orderID, order.Customer.Phone, "wrong items", "half the order was missing")
	require.NoError(t, err)

	assert.Equal(t, models.DisputeOpen, updated.Dispute.Status)
	assert.Equal(t, 1, alerts.disputes)
}

func TestOpenDisputeAfterWindow(t *testing.T) {
	orderID := uuid.New()
	order := deliveredOrder(orderID, disputeWindow+time.Hour)
	stg := newMockStorage()
	stg.orders.getByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
		return order, nil
	}
	svc := service.NewDisputeService(stg, &mockAlerter{}, disputeOptions(), testLog)

	_, err := svc.Open(context.Background(), orderID, order.Customer.Phone, "wrong items", "")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestOpenDisputeDisabledWindow(t *testing.T) {
	opts := testOptions()
	opts.DisputeWindow = 0
	svc := service.NewDisputeService(newMockStorage(), &mockAlerter{}, opts, testLog)

	_, err := svc.Open(context.Background(), uuid.New(), "+9647701234567", "wrong items", "")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestOpenDisputePreconditions(t *testing.T) {
	orderID := uuid.New()
	ownerPhone := "+9647701234567"

	tests := []struct {
		name    string
		order   func() *models.Order
		phone   string
		wantErr error
	}{
		{
			name:    "order not found",
			order:   func() *models.Order { return nil },
			phone:   ownerPhone,
			wantErr: models.ErrNotFound,
		},
		{
			name:    "wrong customer",
			order:   func() *models.Order { return deliveredOrder(orderID, time.Hour) },
			phone:   "+9647709999999",
			wantErr: models.ErrForbidden,
		},
		{
			name: "not delivered yet",
			order: func() *models.Order {
				order := pendingOrder(orderID)
				order.Delivery.Status = models.DeliveryPickedUp
				return order
			},
			phone:   ownerPhone,
			wantErr: models.ErrInvalidTransition,
		},
		{
			name: "dispute already open",
			order: func() *models.Order {
				order := deliveredOrder(orderID, time.Hour)
				order.Dispute.Status = models.DisputeOpen
				return order
			},
			phone:   ownerPhone,
			wantErr: models.ErrConflict,
		},
		{
			name: "delivery timestamp missing",
			order: func() *models.Order {
				order := deliveredOrder(orderID, time.Hour)
				order.Delivery.DeliveredAt = nil
				return order
			},
			phone:   ownerPhone,
			wantErr: models.ErrValidation,
		},
		{
			name:    "missing phone",
			order:   func() *models.Order { return deliveredOrder(orderID, time.Hour) },
			phone:   "",
			wantErr: models.ErrValidation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stg := newMockStorage()
			stg.orders.getByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
				return tc.order(), nil
			}
			svc := service.NewDisputeService(stg, &mockAlerter{}, disputeOptions(), testLog)

			_, err := svc.Open(context.Background(), orderID, tc.phone, "wrong items", "")
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestOpenDisputeLosesRace(t *testing.T) {
	// The read saw no dispute, but another request opened one between the
	// read and the conditional update.
	orderID := uuid.New()
	order := deliveredOrder(orderID, time.Hour)
	stg := newMockStorage()
	stg.orders.getByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
		return order, nil
	}
	stg.orders.openDisputeFunc = func(ctx context.Context, oid uuid.UUID, reason, notes, currency string, at time.Time) (*models.Order, error) {
		return nil, nil
	}
	svc := service.NewDisputeService(stg, &mockAlerter{}, disputeOptions(), testLog)

	_, err := svc.Open(context.Background(), orderID, order.Customer.Phone, "wrong items", "")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestResolveDisputeStatuses(t *testing.T) {
	tests := []struct {
		name    string
		status  models.DisputeStatus
		wantErr error
	}{
		{"under review", models.DisputeUnderReview, nil},
		{"approved refund", models.DisputeApprovedRefund, nil},
		{"rejected", models.DisputeRejected, nil},
		{"resolved", models.DisputeResolved, nil},
		{"cannot resolve to none", models.DisputeNone, models.ErrValidation},
		{"cannot resolve to open", models.DisputeOpen, models.ErrValidation},
		{"unknown status", models.DisputeStatus("Escalated"), models.ErrValidation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			orderID := uuid.New()
			order := deliveredOrder(orderID, time.Hour)
			order.Dispute.Status = models.DisputeOpen

			stg := newMockStorage()
			stg.orders.resolveDisputeFunc = func(ctx context.Context, oid uuid.UUID, status models.DisputeStatus, notesAdmin string, refund *models.Refund, at time.Time) (*models.Order, error) {
				order.Dispute.Status = status
				order.Dispute.NotesAdmin = notesAdmin
				if refund != nil {
					order.Dispute.Refund = *refund
				}
				return order, nil
			}
			svc := service.NewDisputeService(stg, &mockAlerter{}, disputeOptions(), testLog)

			updated, err := svc.Resolve(context.Background(), orderID, tc.status, "reviewed", 0)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.status, updated.Dispute.Status)
		})
	}
}

func TestResolveApprovedRefundRecordsRefund(t *testing.T) {
	orderID := uuid.New()
	order := deliveredOrder(orderID, time.Hour)
	order.Dispute.Status = models.DisputeOpen

	stg := newMockStorage()
	var gotRefund *models.Refund
	stg.orders.resolveDisputeFunc = func(ctx context.Context, oid uuid.UUID, status models.DisputeStatus, notesAdmin string, refund *models.Refund, at time.Time) (*models.Order, error) {
		gotRefund = refund
		order.Dispute.Status = status
		return order, nil
	}
	svc := service.NewDisputeService(stg, &mockAlerter{}, disputeOptions(), testLog)

	_, err := svc.Resolve(context.Background(), orderID, models.DisputeApprovedRefund, "refund approved", 35.50)
	require.NoError(t, err)

	require.NotNil(t, gotRefund)
	assert.Equal(t, 35.50, gotRefund.Amount)
	assert.Equal(t, "IQD", gotRefund.Currency)
	assert.Equal(t, "manual", gotRefund.Method)
	assert.NotNil(t, gotRefund.RefundedAt)
}

func TestResolveRejectionCarriesNoRefund(t *testing.T) {
	orderID := uuid.New()
	order := deliveredOrder(orderID, time.Hour)
	order.Dispute.Status = models.DisputeOpen

	stg := newMockStorage()
	var gotRefund *models.Refund
	stg.orders.resolveDisputeFunc = func(ctx context.Context, oid uuid.UUID, status models.DisputeStatus, notesAdmin string, refund *models.Refund, at time.Time) (*models.Order, error) {
		gotRefund = refund
		order.Dispute.Status = status
		return order, nil
	}
	svc := service.NewDisputeService(stg, &mockAlerter{}, disputeOptions(), testLog)

	_, err := svc.Resolve(context.Background(), orderID, models.DisputeRejected, "no evidence", 35.50)
	require.NoError(t, err)
	assert.Nil(t, gotRefund)
}

func TestResolveNegativeRefund(t *testing.T) {
	svc := service.NewDisputeService(newMockStorage(), &mockAlerter{}, disputeOptions(), testLog)

	_, err := svc.Resolve(context.Background(), uuid.New(), models.DisputeApprovedRefund, "", -1)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestResolveConflictWhenNotOpen(t *testing.T) {
	orderID := uuid.New()
	order := deliveredOrder(orderID, time.Hour)
	order.Dispute.Status = models.DisputeRejected

	stg := newMockStorage()
	stg.orders.getByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
		return order, nil
	}
	stg.orders.resolveDisputeFunc = func(ctx context.Context, oid uuid.UUID, status models.DisputeStatus, notesAdmin string, refund *models.Refund, at time.Time) (*models.Order, error) {
		return nil, nil
	}
	svc := service.NewDisputeService(stg, &mockAlerter{}, disputeOptions(), testLog)

	_, err := svc.Resolve(context.Background(), orderID, models.DisputeResolved, "", 0)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestGetDisputeOwnership(t *testing.T) {
	orderID := uuid.New()
	order := deliveredOrder(orderID, time.Hour)
	order.Dispute.Status = models.DisputeOpen
	order.Dispute.Reason = "wrong items"

	stg := newMockStorage()
	stg.orders.getByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
		return order, nil
	}
	svc := service.NewDisputeService(stg, &mockAlerter{}, disputeOptions(), testLog)

	dispute, err := svc.Get(context.Background(), orderID, order.Customer.Phone)
	require.NoError(t, err)
	assert.Equal(t, models.DisputeOpen, dispute.Status)

	_, err = svc.Get(context.Background(), orderID, "+9647709999999")
	assert.ErrorIs(t, err, models.ErrForbidden)
}
