// internal/repository/memory/product_repo.go
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"sokohub-service/internal/domain/product"
	xerrors "sokohub-service/internal/pkg/errors"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*product.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]*product.Product)}
}

func cloneProduct(p *product.Product) *product.Product {
	c := *p
	return &c
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[p.ID]; exists {
		return xerrors.ErrDuplicateEntry
	}

	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	r.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[p.ID]
	if !ok {
		return xerrors.ErrNotFound
	}

	existing.Title = p.Title
	existing.Description = p.Description
	existing.Category = p.Category
	existing.Region = p.Region
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *ProductRepository) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return xerrors.ErrNotFound
	}

	p.Active = active
	p.UpdatedAt = at
	return nil
}

func (r *ProductRepository) Select(ctx context.Context, f product.Filters) ([]*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*product.Product
	for _, p := range r.products {
		if f.Region != "" && p.Region != f.Region {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.VendorID != "" && p.VendorID != f.VendorID {
			continue
		}
		if f.ActiveOnly && !p.Active {
			continue
		}
		matched = append(matched, cloneProduct(p))
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	return matched, nil
}
