package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/fittingroom/fitsearch/internal/domain"
	"github.com/fittingroom/fitsearch/internal/logger"
	"github.com/fittingroom/fitsearch/internal/metrics"
)

// Config tunes the retrieval and pagination stages.
type Config struct {
	TopKPerAttribute int
	RetrievalTimeout time.Duration
	DefaultPageSize  int
	MaxPageSize      int
}

// Service orchestrates the discovery pipeline: interpret the aesthetic,
// retrieve vector candidates per attribute, then filter, rank, and
// paginate against the catalog. The vector stage degrades (a failed
// attribute just contributes nothing); the catalog stage is
// authoritative and its failures abort the request.
type Service struct {
	interp  Interpreter
	embed   domain.Embedder
	vectors VectorIndex
	catalog Catalog
	pool    *ants.Pool
	cfg     Config
}

// New creates a discovery service. pool bounds concurrent retrieval work
// across all in-flight requests.
func New(
	interp Interpreter,
	embed domain.Embedder,
	vectors VectorIndex,
	catalog Catalog,
	pool *ants.Pool,
	cfg Config,
) *Service {
	return &Service{
		interp:  interp,
		embed:   embed,
		vectors: vectors,
		catalog: catalog,
		pool:    pool,
		cfg:     cfg,
	}
}

// Search runs the full pipeline for one query.
func (s *Service) Search(ctx context.Context, q domain.SearchQuery) (domain.SearchPage, error) {
	q, err := s.normalize(q)
	if err != nil {
		return domain.SearchPage{}, err
	}

	interpretation := s.interp.Interpret(ctx, q.Aesthetic)

	var candidates []domain.Candidate
	if len(interpretation.Attributes) > 0 {
		candidates = s.retrieveAll(ctx, interpretation.Attributes)
	}

	f := domain.Filter{
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Sizes:    q.Sizes,
		Brands:   q.Brands,
	}

	switch {
	case len(candidates) > 0:
		f.References = references(candidates)
	case len(interpretation.Attributes) > 0:
		// Retrieval came back empty: fall back to textual relevance so
		// the aesthetic still constrains the result set.
		f.Keywords = keywords(interpretation.Attributes)
	}

	var (
		products []domain.Product
		total    int
	)
	if len(f.References) > 0 {
		// Ranking follows candidate order, which the database cannot
		// reproduce, so fetch the full (bounded) match set and page in
		// memory.
		products, total, err = s.catalog.SearchPage(ctx, f, 0, 0)
		if err != nil {
			return domain.SearchPage{}, fmt.Errorf("catalog search: %w", err)
		}
		products = rankByCandidates(products, candidates)
		products = page(products, q.Offset(), q.Limit)
	} else {
		products, total, err = s.catalog.SearchPage(ctx, f, q.Limit, q.Offset())
		if err != nil {
			return domain.SearchPage{}, fmt.Errorf("catalog search: %w", err)
		}
	}

	return domain.SearchPage{
		Results:         products,
		Total:           total,
		Page:            q.Page,
		Limit:           q.Limit,
		TotalPages:      domain.PageCount(total, q.Limit),
		Recommendations: interpretation.Attributes,
	}, nil
}

// normalize validates price bounds and clamps pagination.
func (s *Service) normalize(q domain.SearchQuery) (domain.SearchQuery, error) {
	if q.MinPrice != nil && *q.MinPrice < 0 {
		return q, fmt.Errorf("minPrice must be non-negative: %w", domain.ErrValidation)
	}
	if q.MaxPrice != nil && *q.MaxPrice < 0 {
		return q, fmt.Errorf("maxPrice must be non-negative: %w", domain.ErrValidation)
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return q, fmt.Errorf("minPrice exceeds maxPrice: %w", domain.ErrValidation)
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = s.cfg.DefaultPageSize
	}
	if q.Limit > s.cfg.MaxPageSize {
		q.Limit = s.cfg.MaxPageSize
	}
	return q, nil
}

// retrieveAll fans retrieval out across the worker pool, one task per
// attribute, under a shared deadline. Per-attribute failures are logged
// and dropped; the merged order is deterministic regardless of task
// completion order.
func (s *Service) retrieveAll(
	ctx context.Context, attrs []domain.StyleAttribute,
) []domain.Candidate {
	log := logger.FromContext(ctx)

	rctx, cancel := context.WithTimeout(ctx, s.cfg.RetrievalTimeout)
	defer cancel()

	perAttr := make([][]domain.Candidate, len(attrs))

	var wg sync.WaitGroup
	for i, attr := range attrs {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			cands, err := s.retrieve(rctx, attr)
			if err != nil {
				metrics.VectorQueriesTotal.WithLabelValues("error").Inc()
				log.Warn("attribute retrieval failed",
					zap.String("query", attr.QueryText()),
					zap.Error(err),
				)
				return
			}
			metrics.VectorQueriesTotal.WithLabelValues("success").Inc()
			perAttr[i] = cands
		}
		if err := s.pool.Submit(task); err != nil {
			wg.Done()
			log.Warn("submit retrieval task", zap.Error(err))
		}
	}
	wg.Wait()

	return mergeCandidates(perAttr)
}

func (s *Service) retrieve(ctx context.Context, attr domain.StyleAttribute) ([]domain.Candidate, error) {
	result, err := s.embed.Embed(ctx, attr.QueryText())
	if err != nil {
		return nil, fmt.Errorf("embed attribute: %w", err)
	}

	cands, err := s.vectors.Query(ctx, result.Embedding, s.cfg.TopKPerAttribute)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	return cands, nil
}

// mergeCandidates concatenates per-attribute candidate lists in attribute
// order, keeping the first occurrence of each reference. Within one
// attribute candidates are already sorted by descending score.
func mergeCandidates(perAttr [][]domain.Candidate) []domain.Candidate {
	seen := make(map[string]struct{})
	var merged []domain.Candidate
	for _, cands := range perAttr {
		for _, c := range cands {
			if _, ok := seen[c.Reference]; ok {
				continue
			}
			seen[c.Reference] = struct{}{}
			merged = append(merged, c)
		}
	}
	return merged
}

func references(candidates []domain.Candidate) []string {
	refs := make([]string, len(candidates))
	for i, c := range candidates {
		refs[i] = c.Reference
	}
	return refs
}

// keywords collects the distinct textual terms the attributes contribute.
func keywords(attrs []domain.StyleAttribute) []string {
	seen := make(map[string]struct{})
	var kw []string
	for _, a := range attrs {
		for _, k := range a.Keywords() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			kw = append(kw, k)
		}
	}
	return kw
}

// rankByCandidates reorders catalog rows to follow merged candidate rank.
// Rows the filter let through but the candidate set does not mention keep
// their relative order at the tail.
func rankByCandidates(products []domain.Product, candidates []domain.Candidate) []domain.Product {
	rank := make(map[string]int, len(candidates))
	for i, c := range candidates {
		rank[c.Reference] = i
	}

	ranked := make([]domain.Product, 0, len(products))
	tail := make([]domain.Product, 0)
	byRef := make(map[string]domain.Product, len(products))
	for _, p := range products {
		if _, ok := rank[p.Reference]; ok {
			byRef[p.Reference] = p
		} else {
			tail = append(tail, p)
		}
	}
	for _, c := range candidates {
		if p, ok := byRef[c.Reference]; ok {
			ranked = append(ranked, p)
		}
	}
	return append(ranked, tail...)
}

// page slices [offset, offset+limit) with bounds clamping.
func page(products []domain.Product, offset, limit int) []domain.Product {
	if offset >= len(products) {
		return nil
	}
	end := offset + limit
	if end > len(products) {
		end = len(products)
	}
	return products[offset:end]
}
