package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lamunshop/storefront-api/internal/domains/checkout/application/types"
	"github.com/lamunshop/storefront-api/internal/domains/checkout/domain"
	"github.com/lamunshop/storefront-api/internal/domains/checkout/ports"
	"github.com/lamunshop/storefront-api/internal/shared/locale"
)

// Config carries the pricing policy inputs for order placement.
type Config struct {
	// Warehouse is the delivery origin when the request names no origin
	// province.
	Warehouse domain.Coordinates
	// BaseFee is the flat delivery fee the tier surcharge is added to.
	BaseFee decimal.Decimal
	// DefaultLocale is frozen into orders whose request carried no locale.
	DefaultLocale string
}

// Service orchestrates the order placement pipeline: normalize, re-price and
// validate stock against the catalog, price delivery, pre-check the coupon,
// then hand the assembled aggregate to the transactional repository.
type Service struct {
	orders  ports.OrderRepository
	coupons ports.CouponRepository
	catalog ports.ProductGateway
	geo     ports.GeoResolver
	cfg     Config
	now     func() time.Time
}

type Option func(*Service)

// WithClock overrides the wall clock, used by coupon expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(orders ports.OrderRepository, coupons ports.CouponRepository, catalog ports.ProductGateway, geo ports.GeoResolver, cfg Config, opts ...Option) *Service {
	if cfg.BaseFee.IsZero() {
		cfg.BaseFee = domain.DefaultBaseFee
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = locale.Default
	}
	s := &Service{orders: orders, coupons: coupons, catalog: catalog, geo: geo, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder runs the full placement pipeline. All validation happens before
// the repository call; the repository call is the only step with side
// effects, and it is atomic.
func (s *Service) PlaceOrder(ctx context.Context, cmd types.PlaceOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	method := domain.PaymentMethod(cmd.PaymentMethod)
	if method == domain.PaymentBankTransfer && cmd.SlipPath == "" {
		return nil, ErrMissingSlip
	}
	orderLocale := locale.Normalize(cmd.Locale)
	if orderLocale == "" {
		orderLocale = s.cfg.DefaultLocale
	}

	items, subtotal, err := s.resolveItems(ctx, cmd.Items, orderLocale)
	if err != nil {
		return nil, err
	}
	delivery := s.resolveDelivery(cmd)

	discount := decimal.Zero
	var couponID *int64
	couponCode := ""
	if cmd.CouponCode != "" {
		coupon, err := s.coupons.GetByCode(ctx, cmd.CouponCode)
		if err != nil {
			return nil, err
		}
		if err := coupon.Validate(s.now()); err != nil {
			return nil, err
		}
		discount = coupon.Discount(subtotal)
		couponID = &coupon.ID
		couponCode = coupon.Code
	}

	order := &domain.Order{
		Number:     newOrderNumber(),
		CustomerID: cmd.CustomerID,
		Locale:     orderLocale,
		Address: domain.Address{
			Recipient:  cmd.Recipient,
			Line1:      cmd.Line1,
			Line2:      cmd.Line2,
			Line3:      cmd.Line3,
			City:       cmd.City,
			PostalCode: cmd.PostalCode,
			Country:    cmd.Country,
		},
		PaymentMethod: method,
		SlipPath:      cmd.SlipPath,
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         subtotal.Sub(discount),
		CouponID:      couponID,
		CouponCode:    couponCode,
		Delivery:      delivery,
		Status:        domain.InitialStatus(method, cmd.SlipPath != ""),
		Items:         items,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}

	placed, err := s.orders.PlaceOrder(ctx, order)
	if err != nil {
		return nil, s.mapPlacementError(ctx, err, orderLocale)
	}
	return placed, nil
}

func (s *Service) GetOrder(ctx context.Context, customerID, orderID int64) (*domain.Order, error) {
	return s.orders.GetByID(ctx, customerID, orderID)
}

func (s *Service) ListOrders(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}

// AttachSlip records a proof-of-payment uploaded after creation, advancing a
// pending bank-transfer order to processing.
func (s *Service) AttachSlip(ctx context.Context, customerID, orderID int64, slipPath string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.AttachSlip(slipPath); err != nil {
		return nil, err
	}
	return s.orders.UpdateSlip(ctx, order)
}

// resolveItems substitutes the authoritative unit price for every line and
// fast-fails on unknown products or obvious shortfalls. The transaction
// re-checks stock with a conditional decrement, so this check is advisory.
func (s *Service) resolveItems(ctx context.Context, inputs []types.ItemInput, orderLocale string) ([]domain.OrderItem, decimal.Decimal, error) {
	items := make([]domain.OrderItem, 0, len(inputs))
	subtotal := decimal.Zero
	for _, input := range inputs {
		product, err := s.catalog.Product(ctx, input.ProductID)
		if errors.Is(err, ports.ErrProductUnknown) {
			return nil, decimal.Zero, &UnknownProductError{ProductID: input.ProductID}
		}
		if err != nil {
			return nil, decimal.Zero, err
		}
		if product.Stock < input.Quantity {
			return nil, decimal.Zero, &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: locale.Resolve(product.Names, orderLocale, s.cfg.DefaultLocale),
				Requested:   input.Quantity,
				Available:   product.Stock,
			}
		}
		item := domain.OrderItem{
			ProductID: product.ID,
			Quantity:  input.Quantity,
			UnitPrice: product.UnitPrice,
		}
		items = append(items, item)
		subtotal = subtotal.Add(item.Subtotal())
	}
	return items, subtotal, nil
}

// resolveDelivery prices delivery from resolved coordinates when possible.
// When either endpoint is unknown, a non-negative finite caller-declared fee
// is accepted as-is; otherwise the fee is recorded as zero with an empty
// tier so downstream readers can tell it was never computed.
func (s *Service) resolveDelivery(cmd types.PlaceOrderCommand) domain.DeliverySnapshot {
	origin := s.cfg.Warehouse
	originKnown := origin.Lat != 0 || origin.Lng != 0
	if cmd.OriginProvince != "" {
		origin, originKnown = s.geo.Locate(cmd.OriginProvince)
	}
	dest, destKnown := s.geo.Locate(cmd.DestinationProvince)
	if !destKnown {
		dest, destKnown = s.geo.Locate(cmd.City)
	}
	if originKnown && destKnown {
		km := domain.HaversineKm(origin, dest)
		tier, _ := domain.DistanceTier(km)
		return domain.DeliverySnapshot{
			DistanceKm: km,
			Tier:       string(tier),
			Fee:        domain.DeliveryFee(km, s.cfg.BaseFee),
		}
	}
	if fee := cmd.DeclaredDeliveryFee; fee != nil && *fee >= 0 && !math.IsInf(*fee, 0) && !math.IsNaN(*fee) {
		return domain.DeliverySnapshot{Fee: decimal.NewFromFloat(*fee)}
	}
	return domain.DeliverySnapshot{Fee: decimal.Zero}
}

// mapPlacementError turns repository conflicts into caller-facing errors,
// resolving the product name for stock conflicts discovered inside the
// transaction.
func (s *Service) mapPlacementError(ctx context.Context, err error, orderLocale string) error {
	var conflict *ports.StockConflictError
	if errors.As(err, &conflict) {
		name := fmt.Sprintf("product %d", conflict.ProductID)
		available := 0
		if product, lookupErr := s.catalog.Product(ctx, conflict.ProductID); lookupErr == nil {
			name = locale.Resolve(product.Names, orderLocale, s.cfg.DefaultLocale)
			available = product.Stock
		}
		return &InsufficientStockError{ProductID: conflict.ProductID, ProductName: name, Available: available}
	}
	return err
}

func newOrderNumber() string {
	return "SO-" + strings.ToUpper(uuid.NewString()[:8])
}

var _ ports.Service = (*Service)(nil)
