package product

import (
	"context"

	"github.com/fittingroom/fitsearch/internal/domain"
)

// Catalog is the relational store for product rows.
type Catalog interface {
	GetByID(ctx context.Context, id int64) (domain.Product, error)
	ListBrands(ctx context.Context) ([]string, error)
	Insert(ctx context.Context, p domain.Product) (int64, error)
}

// VectorIndex stores product vectors for retrieval.
type VectorIndex interface {
	Upsert(ctx context.Context, reference string, vector []float32) error
}
