package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/fittingroom/fitsearch/internal/domain"
)

// Service handles direct product access and ingestion.
type Service struct {
	catalog Catalog
	vectors VectorIndex
	embed   domain.Embedder
}

// New creates a product service. vectors and embed may be nil, in which
// case Add only writes the catalog row.
func New(catalog Catalog, vectors VectorIndex, embed domain.Embedder) *Service {
	return &Service{catalog: catalog, vectors: vectors, embed: embed}
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Product, error) {
	p, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Brands returns the distinct brand list.
func (s *Service) Brands(ctx context.Context) ([]string, error) {
	brands, err := s.catalog.ListBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	return brands, nil
}

// Add ingests a product: the catalog row is upserted first, then the
// descriptive text is embedded and written to the vector index under the
// product's reference. Both writes are idempotent, so a failed ingestion
// can simply be retried.
func (s *Service) Add(ctx context.Context, p domain.Product) (int64, error) {
	if p.Name == "" {
		return 0, fmt.Errorf("name is required: %w", domain.ErrValidation)
	}

	id, err := s.catalog.Insert(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}

	if s.vectors == nil || s.embed == nil {
		return id, nil
	}

	result, err := s.embed.Embed(ctx, documentText(p))
	if err != nil {
		return 0, fmt.Errorf("embed product %s: %w", p.Reference, err)
	}
	if err := s.vectors.Upsert(ctx, p.Reference, result.Embedding); err != nil {
		return 0, fmt.Errorf("index product %s: %w", p.Reference, err)
	}

	return id, nil
}

// documentText composes the text embedded for a product. Field order is
// stable so re-ingesting an unchanged product hits the embedding cache.
func documentText(p domain.Product) string {
	parts := []string{p.Name, p.Brand, p.Category, p.Color, p.Styles, p.Description}
	fields := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			fields = append(fields, part)
		}
	}
	return strings.Join(fields, ". ")
}
