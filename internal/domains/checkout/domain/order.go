package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// PaymentMethod is the closed set of accepted payment methods.
type PaymentMethod string

const (
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
	PaymentCreditCard     PaymentMethod = "credit_card"
	PaymentCashOnDelivery PaymentMethod = "cod"
)

var (
	ErrInvalidPaymentMethod = errors.New("payment method is invalid")
	ErrInvalidStatus        = errors.New("order status is invalid")
	ErrInvalidTransition    = errors.New("order status transition is not allowed")
	ErrNoItems              = errors.New("order must contain at least one item")
	ErrInvalidQuantity      = errors.New("item quantity must be greater than zero")
	ErrNegativeTotal        = errors.New("order total must not be negative")
	ErrTotalMismatch        = errors.New("order total does not equal item total minus discount")
)

// Address is the shipping destination captured at placement time.
type Address struct {
	Recipient  string
	Line1      string
	Line2      string
	Line3      string
	City       string
	PostalCode string
	Country    string
}

// DeliverySnapshot freezes the distance/fee inputs that priced delivery.
// A zero Distance with an empty Tier means coordinates could not be resolved.
type DeliverySnapshot struct {
	DistanceKm float64
	Tier       string
	Fee        decimal.Decimal
}

// OrderItem is one purchased line. UnitPrice is the price-at-purchase and is
// never re-read from the live product after creation.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal is quantity times the frozen unit price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the aggregate created once by the placement transaction. Total is
// the post-discount item total; the delivery fee lives in Delivery and is not
// folded in.
type Order struct {
	ID            int64
	Number        string
	CustomerID    int64
	Locale        string
	Address       Address
	PaymentMethod PaymentMethod
	SlipPath      string
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	CouponID      *int64
	CouponCode    string
	Delivery      DeliverySnapshot
	Status        Status
	Items         []OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidPaymentMethod reports whether the tag is in the closed set.
func ValidPaymentMethod(method PaymentMethod) bool {
	switch method {
	case PaymentBankTransfer, PaymentCreditCard, PaymentCashOnDelivery:
		return true
	default:
		return false
	}
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if !ValidPaymentMethod(o.PaymentMethod) {
		return ErrInvalidPaymentMethod
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	subtotal := decimal.Zero
	for _, item := range o.Items {
		if item.Quantity < 1 {
			return ErrInvalidQuantity
		}
		subtotal = subtotal.Add(item.Subtotal())
	}
	if o.Total.IsNegative() {
		return ErrNegativeTotal
	}
	if !o.Total.Equal(subtotal.Sub(o.Discount)) {
		return ErrTotalMismatch
	}
	if !isValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// InitialStatus derives the status an order starts in. Bank transfers wait
// for proof of payment unless a slip arrived with the request; card payments
// are presented as already confirmed by the gateway.
func InitialStatus(method PaymentMethod, slipPresent bool) Status {
	switch method {
	case PaymentCreditCard:
		return StatusProcessing
	case PaymentBankTransfer:
		if slipPresent {
			return StatusProcessing
		}
		return StatusPending
	default:
		return StatusPending
	}
}

// transitions lists the allowed forward edges of the status machine.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusCompleted},
}

// Transition moves the order to the next state, rejecting illegal edges.
// Frozen fields (items, unit prices, coupon linkage) are untouched.
func (o *Order) Transition(next Status) error {
	if !isValidStatus(next) {
		return ErrInvalidStatus
	}
	for _, allowed := range transitions[o.Status] {
		if next == allowed {
			o.Status = next
			return nil
		}
	}
	return ErrInvalidTransition
}

// AttachSlip records a proof-of-payment reference uploaded after creation and
// advances a pending bank-transfer order to processing.
func (o *Order) AttachSlip(path string) error {
	if path == "" {
		return errors.New("slip path is empty")
	}
	o.SlipPath = path
	if o.Status == StatusPending {
		return o.Transition(StatusProcessing)
	}
	return nil
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}
