package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AliIzzat/FlamingoBackend/pkg/logger"
	"github.com/AliIzzat/FlamingoBackend/pkg/models"
	"github.com/AliIzzat/FlamingoBackend/storage"
)

// CartItem is what checkout receives from a client. Prices are taken as
// candidates only; the snapshot rule below decides the final unit price
// and totals are always recomputed server-side.
type CartItem struct {
	ProductID  string  `json:"product_id"`
	StoreID    string  `json:"store_id"`
	Category   string  `json:"category"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	OfferPrice float64 `json:"offer_price"`
	Offer      bool    `json:"offer"`
	Qty        int     `json:"qty"`
	Image      string  `json:"image"`
}

// UnitPrice applies the snapshot rule: offerPrice wins when the item is
// on offer and the offer price is positive.
func (c CartItem) UnitPrice() float64 {
	if c.Offer && c.OfferPrice > 0 {
		return c.OfferPrice
	}
	return c.Price
}

type CheckoutInput struct {
	Customer models.Customer      `json:"customer"`
	Pickup   *models.Pickup       `json:"pickup"`
	Method   models.PaymentMethod `json:"payment_method"`
	Items    []CartItem           `json:"items"`
}

type OrderService interface {
	Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByCustomerPhone(ctx context.Context, phone string) ([]*models.Order, error)
	GetAll(ctx context.Context) ([]*models.Order, error)
}

type orderService struct {
	stg     storage.IOrderStorage
	pricing Pricing
	log     logger.ILogger
}

func NewOrderService(stg storage.IStorage, pricing Pricing, log logger.ILogger) OrderService {
	return &orderService{
		stg:     stg.Order(),
		pricing: pricing,
		log:     log,
	}
}

func (s *orderService) Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	if input.Customer.Name == "" || input.Customer.Phone == "" || input.Customer.AddressText == "" {
		return nil, fmt.Errorf("%w: customer name, phone and address are required", models.ErrValidation)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", models.ErrValidation)
	}

	method := input.Method
	if method == "" {
		method = models.PaymentMethodGateway
	}
	if method != models.PaymentMethodGateway && method != models.PaymentMethodCash {
		return nil, fmt.Errorf("%w: unknown payment method %q", models.ErrValidation, input.Method)
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	subtotal := 0.0
	for i, c := range input.Items {
		productID, err := uuid.Parse(c.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid product id %q", models.ErrValidation, c.ProductID)
		}
		qty := c.Qty
		if qty == 0 {
			qty = 1
		}
		if qty < 1 {
			return nil, fmt.Errorf("%w: item %d qty must be at least 1", models.ErrValidation, i)
		}
		unit := c.UnitPrice()
		if unit < 0 {
			return nil, fmt.Errorf("%w: item %d price cannot be negative", models.ErrValidation, i)
		}

		var storeID *uuid.UUID
		if c.StoreID != "" {
			if id, err := uuid.Parse(c.StoreID); err == nil {
				storeID = &id
			}
		}

		name := c.Name
		if name == "" {
			name = "Item"
		}
		category := c.Category
		if category == "" {
			category = "unknown"
		}

		items = append(items, models.OrderItem{
			ProductID: productID,
			StoreID:   storeID,
			Category:  category,
			Name:      name,
			UnitPrice: unit,
			Qty:       qty,
			Image:     c.Image,
		})
		subtotal += unit * float64(qty)
	}

	order := &models.Order{
		Customer: input.Customer,
		Items:    items,
		Totals: models.Totals{
			Subtotal:    subtotal,
			DeliveryFee: s.pricing.DeliveryFee,
			Total:       subtotal + s.pricing.DeliveryFee,
		},
		Payment: models.Payment{
			Method: method,
			Status: models.PaymentUnpaid,
		},
		Delivery: models.Delivery{Status: models.DeliveryPending},
		Dispute:  models.Dispute{Status: models.DisputeNone},
	}
	if input.Pickup != nil {
		order.Pickup = *input.Pickup
	}

	created, err := s.stg.Create(ctx, order)
	if err != nil {
		s.log.Error("failed to create order", logger.Error(err))
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.log.Info("order created",
		logger.String("order_id", created.ID.String()),
		logger.Float64("total", created.Totals.Total),
		logger.String("method", string(created.Payment.Method)),
	)
	return created, nil
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.stg.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %s", models.ErrNotFound, id)
	}
	return order, nil
}

func (s *orderService) GetByCustomerPhone(ctx context.Context, phone string) ([]*models.Order, error) {
	if phone == "" {
		return nil, fmt.Errorf("%w: phone is required", models.ErrValidation)
	}
	return s.stg.GetByCustomerPhone(ctx, phone)
}

func (s *orderService) GetAll(ctx context.Context) ([]*models.Order, error) {
	return s.stg.GetAll(ctx)
}
