package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/lamunshop/storefront-api/internal/domains/catalog/domain"
	"github.com/lamunshop/storefront-api/internal/domains/catalog/ports"
)

var (
	_ ports.Repository    = (*Repository)(nil)
	_ ports.StockReserver = (*Repository)(nil)
)

// Repository is an in-memory catalog adapter. Reserve/Release apply the same
// conditional stock semantics as the SQL adapter so concurrency tests hold.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
}

func NewRepository() *Repository {
	return &Repository{products: map[int64]*domain.Product{}}
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := cloneProduct(product)
	return clone, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		list = append(list, cloneProduct(product))
	}
	return list, nil
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := cloneProduct(product)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.products[clone.ID] = clone
	return cloneProduct(clone), nil
}

// Reserve decrements stock only while enough remains.
func (r *Repository) Reserve(_ context.Context, productID int64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[productID]
	if !ok || product.Stock < quantity {
		return &ports.StockConflictError{ProductID: productID}
	}
	product.Stock -= quantity
	return nil
}

// Release restores stock reserved by a transaction that later aborted.
func (r *Repository) Release(_ context.Context, productID int64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product, ok := r.products[productID]; ok {
		product.Stock += quantity
	}
	return nil
}

func cloneProduct(p *domain.Product) *domain.Product {
	clone := *p
	clone.Names = cloneMap(p.Names)
	clone.Descriptions = cloneMap(p.Descriptions)
	clone.Images = append([]string(nil), p.Images...)
	if p.SalePrice != nil {
		sale := *p.SalePrice
		clone.SalePrice = &sale
	}
	return &clone
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
