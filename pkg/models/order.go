package models

import (
	"time"

	"github.com/google/uuid"
)

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "Pending"
	DeliveryClaimed   DeliveryStatus = "Claimed"
	DeliveryPickedUp  DeliveryStatus = "PickedUp"
	DeliveryDelivered DeliveryStatus = "Delivered"
	DeliveryCancelled DeliveryStatus = "Cancelled"
)

func (s DeliveryStatus) String() string { return string(s) }

// Terminal reports whether no further delivery transition is permitted.
func (s DeliveryStatus) Terminal() bool {
	return s == DeliveryDelivered || s == DeliveryCancelled
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
	PaymentFailed PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodGateway PaymentMethod = "myfatoorah"
	PaymentMethodCash    PaymentMethod = "cash"
)

type DisputeStatus string

const (
	DisputeNone           DisputeStatus = "None"
	DisputeOpen           DisputeStatus = "Open"
	DisputeUnderReview    DisputeStatus = "UnderReview"
	DisputeApprovedRefund DisputeStatus = "ApprovedRefund"
	DisputeRejected       DisputeStatus = "Rejected"
	DisputeResolved       DisputeStatus = "Resolved"
)

type GeoPoint struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type Customer struct {
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	AddressText string   `json:"address_text"`
	Location    GeoPoint `json:"location"`
}

type Pickup struct {
	StoreID     *uuid.UUID `json:"store_id"`
	AddressText string     `json:"address_text"`
	Location    GeoPoint   `json:"location"`
}

// OrderItem is an immutable snapshot taken at checkout. Later catalog
// edits never change historical orders.
type OrderItem struct {
	ProductID uuid.UUID  `json:"product_id"`
	StoreID   *uuid.UUID `json:"store_id"`
	Category  string     `json:"category"`
	Name      string     `json:"name"`
	UnitPrice float64    `json:"unit_price"`
	Qty       int        `json:"qty"`
	Image     string     `json:"image"`
}

type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`
}

type Payment struct {
	Method    PaymentMethod `json:"method"`
	Status    PaymentStatus `json:"status"`
	InvoiceID string        `json:"invoice_id"`
	PaymentID string        `json:"payment_id"`
}

type Delivery struct {
	Status           DeliveryStatus `json:"status"`
	AssignedDriverID *uuid.UUID     `json:"assigned_driver_id"`
	ClaimedAt        *time.Time     `json:"claimed_at"`
	PickedUpAt       *time.Time     `json:"picked_up_at"`
	DeliveredAt      *time.Time     `json:"delivered_at"`
}

type Refund struct {
	Amount     float64    `json:"amount"`
	Currency   string     `json:"currency"`
	Method     string     `json:"method"`
	RefundID   string     `json:"refund_id"`
	RefundedAt *time.Time `json:"refunded_at"`
}

type Dispute struct {
	Status        DisputeStatus `json:"status"`
	Reason        string        `json:"reason"`
	NotesCustomer string        `json:"notes_customer"`
	NotesAdmin    string        `json:"notes_admin"`
	CreatedAt     *time.Time    `json:"created_at"`
	UpdatedAt     *time.Time    `json:"updated_at"`
	Refund        Refund        `json:"refund"`
}

type Order struct {
	ID        uuid.UUID   `json:"id"`
	Customer  Customer    `json:"customer"`
	Pickup    Pickup      `json:"pickup"`
	Items     []OrderItem `json:"items"`
	Totals    Totals      `json:"totals"`
	Payment   Payment     `json:"payment"`
	Delivery  Delivery    `json:"delivery"`
	Dispute   Dispute     `json:"dispute"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// PaymentSettled reports whether the order may be offered to drivers:
// gateway orders must be paid first, cash orders are collectable on delivery.
func (o *Order) PaymentSettled() bool {
	if o.Payment.Method == PaymentMethodCash {
		return true
	}
	return o.Payment.Status == PaymentPaid
}
