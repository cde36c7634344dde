package repository

import (
	"context"

	"github.com/storelane/storelane-api/internal/domain/entity"
)

// ListQuery is the already-normalized shape of a product listing request.
// Category == "" means match-all; SortBy == "" means insertion order.
type ListQuery struct {
	Category string
	SortBy   string
	SortDesc bool
	Offset   int
	Limit    int
}

// ProductPatch carries a merge-update of a product. Nil fields keep their
// stored values.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Stock       *int
	ImageURL    *string
}

// ProductRepository defines the interface for product-related database
// operations. List returns the page slice plus the uncapped total count of
// rows matching the filter.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, q ListQuery) ([]entity.Product, int64, error)
	Update(ctx context.Context, id string, patch ProductPatch) (*entity.Product, error)
	Delete(ctx context.Context, id string) (*entity.Product, error)
}
