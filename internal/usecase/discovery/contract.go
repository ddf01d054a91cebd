package discovery

import (
	"context"

	"github.com/fittingroom/fitsearch/internal/domain"
)

// Interpreter converts aesthetic text into structured attributes.
type Interpreter interface {
	Interpret(ctx context.Context, text string) domain.Interpretation
}

// VectorIndex answers nearest-neighbor queries over product vectors.
type VectorIndex interface {
	Query(ctx context.Context, vector []float32, topK int) ([]domain.Candidate, error)
}

// Catalog is the relational product store consulted after retrieval.
type Catalog interface {
	SearchPage(ctx context.Context, f domain.Filter, limit, offset int) ([]domain.Product, int, error)
}
