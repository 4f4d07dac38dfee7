package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lamunshop/storefront-api/internal/domains/checkout/domain"
	"github.com/lamunshop/storefront-api/internal/domains/checkout/ports"
)

var (
	_ ports.OrderRepository  = (*Repository)(nil)
	_ ports.CouponRepository = (*CouponRepository)(nil)
)

// Repository persists orders in PostgreSQL using GORM. PlaceOrder runs the
// whole placement as one transaction.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID            int64             `gorm:"primaryKey;column:id"`
	Number        string            `gorm:"column:number;uniqueIndex;size:32"`
	CustomerID    int64             `gorm:"column:customer_id;index"`
	Locale        string            `gorm:"column:locale;size:8"`
	Recipient     string            `gorm:"column:recipient"`
	Line1         string            `gorm:"column:line1"`
	Line2         string            `gorm:"column:line2"`
	Line3         string            `gorm:"column:line3"`
	City          string            `gorm:"column:city"`
	PostalCode    string            `gorm:"column:postal_code;size:16"`
	Country       string            `gorm:"column:country;size:64"`
	PaymentMethod string            `gorm:"column:payment_method;type:varchar(32)"`
	SlipPath      string            `gorm:"column:slip_path"`
	Subtotal      decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2)"`
	Discount      decimal.Decimal   `gorm:"column:discount;type:numeric(12,2)"`
	Total         decimal.Decimal   `gorm:"column:total;type:numeric(12,2)"`
	CouponID      *int64            `gorm:"column:coupon_id;index"`
	CouponCode    string            `gorm:"column:coupon_code;size:64"`
	DistanceKm    float64           `gorm:"column:distance_km"`
	DistanceTier  string            `gorm:"column:distance_tier;size:16"`
	DeliveryFee   decimal.Decimal   `gorm:"column:delivery_fee;type:numeric(12,2)"`
	Status        string            `gorm:"column:status;type:varchar(32);index"`
	Items         []orderItemRecord `gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time         `gorm:"column:created_at;index"`
	UpdatedAt     time.Time         `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// orderItemRecord freezes one purchased line; rows are never updated after
// creation.
type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id;index"`
	ProductID int64           `gorm:"column:product_id;index"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// couponRecord mirrors the coupons table for the usage-count reservation.
type couponRecord struct {
	ID         int64            `gorm:"primaryKey;column:id"`
	Code       string           `gorm:"column:code;uniqueIndex;size:64"`
	Type       string           `gorm:"column:type;type:varchar(16)"`
	Value      decimal.Decimal  `gorm:"column:value;type:numeric(12,2)"`
	ExpiresAt  *time.Time       `gorm:"column:expires_at"`
	UsageLimit *int             `gorm:"column:usage_limit"`
	UsedCount  int              `gorm:"column:used_count"`
	CreatedAt  time.Time        `gorm:"column:created_at"`
	UpdatedAt  time.Time        `gorm:"column:updated_at"`
}

func (couponRecord) TableName() string { return "coupons" }

// PlaceOrder creates the order, its items, the coupon usage reservation, and
// the stock decrements in one transaction. The coupon reservation and each
// stock decrement are conditional updates; zero affected rows aborts the
// whole transaction, so concurrent placements can never oversubscribe a
// coupon or a product.
func (r *Repository) PlaceOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if record.CouponID != nil {
			result := tx.Model(&couponRecord{}).
				Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", *record.CouponID).
				UpdateColumn("used_count", gorm.Expr("used_count + 1"))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return domain.ErrCouponExhausted
			}
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		for _, item := range record.Items {
			result := tx.Table("products").
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return &ports.StockConflictError{ProductID: item.ProductID}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.getByRecordID(ctx, record.ID)
}

// GetByID fetches an order scoped to its owner.
func (r *Repository) GetByID(ctx context.Context, customerID, orderID int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	err := r.db.WithContext(ctx).Preload("Items").
		First(&record, "id = ? AND customer_id = ?", orderID, customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListByCustomer returns the customer's orders, newest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	err := r.db.WithContext(ctx).Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// UpdateSlip persists a post-creation slip attachment and its status advance.
// Items and money columns are deliberately untouched.
func (r *Repository) UpdateSlip(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("id = ? AND customer_id = ?", order.ID, order.CustomerID).
		Updates(map[string]any{
			"slip_path":  order.SlipPath,
			"status":     string(order.Status),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, order.CustomerID, order.ID)
}

func (r *Repository) getByRecordID(ctx context.Context, id int64) (*domain.Order, error) {
	var record orderRecord
	if err := r.db.WithContext(ctx).Preload("Items").First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	record := orderRecord{
		ID:            order.ID,
		Number:        order.Number,
		CustomerID:    order.CustomerID,
		Locale:        order.Locale,
		Recipient:     order.Address.Recipient,
		Line1:         order.Address.Line1,
		Line2:         order.Address.Line2,
		Line3:         order.Address.Line3,
		City:          order.Address.City,
		PostalCode:    order.Address.PostalCode,
		Country:       order.Address.Country,
		PaymentMethod: string(order.PaymentMethod),
		SlipPath:      order.SlipPath,
		Subtotal:      order.Subtotal,
		Discount:      order.Discount,
		Total:         order.Total,
		CouponID:      order.CouponID,
		CouponCode:    order.CouponCode,
		DistanceKm:    order.Delivery.DistanceKm,
		DistanceTier:  order.Delivery.Tier,
		DeliveryFee:   order.Delivery.Fee,
		Status:        string(order.Status),
	}
	for _, item := range order.Items {
		record.Items = append(record.Items, orderItemRecord{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return record
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:         r.ID,
		Number:     r.Number,
		CustomerID: r.CustomerID,
		Locale:     r.Locale,
		Address: domain.Address{
			Recipient:  r.Recipient,
			Line1:      r.Line1,
			Line2:      r.Line2,
			Line3:      r.Line3,
			City:       r.City,
			PostalCode: r.PostalCode,
			Country:    r.Country,
		},
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		SlipPath:      r.SlipPath,
		Subtotal:      r.Subtotal,
		Discount:      r.Discount,
		Total:         r.Total,
		CouponID:      r.CouponID,
		CouponCode:    r.CouponCode,
		Delivery: domain.DeliverySnapshot{
			DistanceKm: r.DistanceKm,
			Tier:       r.DistanceTier,
			Fee:        r.DeliveryFee,
		},
		Status:    domain.Status(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return order
}

// CouponRepository resolves coupons for the pre-transaction check.
type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres coupon repository not configured")
	}
	var record couponRecord
	if err := r.db.WithContext(ctx).First(&record, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, err
	}
	return &domain.Coupon{
		ID:         record.ID,
		Code:       record.Code,
		Type:       domain.DiscountType(record.Type),
		Value:      record.Value,
		ExpiresAt:  record.ExpiresAt,
		UsageLimit: record.UsageLimit,
		UsedCount:  record.UsedCount,
	}, nil
}
