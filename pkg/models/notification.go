package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationStatus uses the UI vocabulary, not the delivery enum.
type NotificationStatus string

const (
	NotificationUnpicked  NotificationStatus = "unpicked"
	NotificationClaimed   NotificationStatus = "claimed"
	NotificationPicked    NotificationStatus = "picked"
	NotificationDelivered NotificationStatus = "delivered"
	NotificationCancelled NotificationStatus = "cancelled"
)

// Notification is a denormalized projection of order+driver state that
// drives the admin and driver screens. It is keyed by order id and is
// never a source of truth for delivery state.
type Notification struct {
	ID        int64              `json:"id"`
	OrderID   uuid.UUID          `json:"order_id"`
	DriverID  *uuid.UUID         `json:"driver_id"`
	Status    NotificationStatus `json:"status"`
	Message   string             `json:"message"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt *time.Time         `json:"updated_at"`
}

// NotificationStatusFor maps a delivery status to the projection vocabulary.
func NotificationStatusFor(s DeliveryStatus) NotificationStatus {
	switch s {
	case DeliveryClaimed:
		return NotificationClaimed
	case DeliveryPickedUp:
		return NotificationPicked
	case DeliveryDelivered:
		return NotificationDelivered
	case DeliveryCancelled:
		return NotificationCancelled
	default:
		return NotificationUnpicked
	}
}
