package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&couponRecord{},
		&orderRecord{},
		&orderItemRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID           int64             `gorm:"primaryKey;column:id"`
	Names        map[string]string `gorm:"column:names;serializer:json"`
	Descriptions map[string]string `gorm:"column:descriptions;serializer:json"`
	Images       pq.StringArray    `gorm:"column:images;type:text[]"`
	Price        decimal.Decimal   `gorm:"column:price;type:numeric(12,2)"`
	SalePrice    *decimal.Decimal  `gorm:"column:sale_price;type:numeric(12,2)"`
	Stock        int               `gorm:"column:stock"`
	CreatedAt    time.Time         `gorm:"column:created_at"`
	UpdatedAt    time.Time         `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Coupon schema mirrors the checkout Postgres adapter.
type couponRecord struct {
	ID         int64           `gorm:"primaryKey;column:id"`
	Code       string          `gorm:"column:code;uniqueIndex;size:64"`
	Type       string          `gorm:"column:type;type:varchar(16)"`
	Value      decimal.Decimal `gorm:"column:value;type:numeric(12,2)"`
	ExpiresAt  *time.Time      `gorm:"column:expires_at"`
	UsageLimit *int            `gorm:"column:usage_limit"`
	UsedCount  int             `gorm:"column:used_count"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (couponRecord) TableName() string { return "coupons" }

// Order schema mirrors the checkout Postgres adapter.
type orderRecord struct {
	ID            int64           `gorm:"primaryKey;column:id"`
	Number        string          `gorm:"column:number;uniqueIndex;size:32"`
	CustomerID    int64           `gorm:"column:customer_id;index"`
	Locale        string          `gorm:"column:locale;size:8"`
	Recipient     string          `gorm:"column:recipient"`
	Line1         string          `gorm:"column:line1"`
	Line2         string          `gorm:"column:line2"`
	Line3         string          `gorm:"column:line3"`
	City          string          `gorm:"column:city"`
	PostalCode    string          `gorm:"column:postal_code;size:16"`
	Country       string          `gorm:"column:country;size:64"`
	PaymentMethod string          `gorm:"column:payment_method;type:varchar(32)"`
	SlipPath      string          `gorm:"column:slip_path"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2)"`
	Discount      decimal.Decimal `gorm:"column:discount;type:numeric(12,2)"`
	Total         decimal.Decimal `gorm:"column:total;type:numeric(12,2)"`
	CouponID      *int64          `gorm:"column:coupon_id;index"`
	CouponCode    string          `gorm:"column:coupon_code;size:64"`
	DistanceKm    float64         `gorm:"column:distance_km"`
	DistanceTier  string          `gorm:"column:distance_tier;size:16"`
	DeliveryFee   decimal.Decimal `gorm:"column:delivery_fee;type:numeric(12,2)"`
	Status        string          `gorm:"column:status;type:varchar(32);index"`
	CreatedAt     time.Time       `gorm:"column:created_at;index"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// OrderItem schema mirrors the checkout Postgres adapter.
type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id;index"`
	ProductID int64           `gorm:"column:product_id;index"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
}

func (orderItemRecord) TableName() string { return "order_items" }
