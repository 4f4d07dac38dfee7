package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lamunshop/storefront-api/internal/domains/catalog/domain"
	"github.com/lamunshop/storefront-api/internal/domains/catalog/ports"
)

var (
	_ ports.Repository    = (*Repository)(nil)
	_ ports.StockReserver = (*Repository)(nil)
)

// Repository persists catalog products in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// productRecord maps the product aggregate to a relational table.
type productRecord struct {
	ID           int64             `gorm:"primaryKey;column:id"`
	Names        map[string]string `gorm:"column:names;serializer:json"`
	Descriptions map[string]string `gorm:"column:descriptions;serializer:json"`
	Images       pq.StringArray    `gorm:"column:images;type:text[]"`
	Price        decimal.Decimal   `gorm:"column:price;type:numeric(12,2)"`
	SalePrice    *decimal.Decimal  `gorm:"column:sale_price;type:numeric(12,2)"`
	Stock        int               `gorm:"column:stock"`
	CreatedAt    time.Time         `gorm:"column:created_at;index"`
	UpdatedAt    time.Time         `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// GetByID fetches a product by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns all products.
func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

// Save inserts or updates a product.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"names":        record.Names,
				"descriptions": record.Descriptions,
				"images":       record.Images,
				"price":        record.Price,
				"sale_price":   record.SalePrice,
				"stock":        record.Stock,
				"updated_at":   gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// Reserve applies the conditional decrement outside any surrounding
// transaction. The checkout repository issues the same statement inside its
// transaction scope.
func (r *Repository) Reserve(ctx context.Context, productID int64, quantity int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &ports.StockConflictError{ProductID: productID}
	}
	return nil
}

// Release restores previously reserved stock.
func (r *Repository) Release(ctx context.Context, productID int64, quantity int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&productRecord{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity)).Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:           product.ID,
		Names:        product.Names,
		Descriptions: product.Descriptions,
		Images:       pq.StringArray(product.Images),
		Price:        product.Price,
		SalePrice:    product.SalePrice,
		Stock:        product.Stock,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:           r.ID,
		Names:        r.Names,
		Descriptions: r.Descriptions,
		Images:       []string(r.Images),
		Price:        r.Price,
		SalePrice:    r.SalePrice,
		Stock:        r.Stock,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
