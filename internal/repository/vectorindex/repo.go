package vectorindex

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/fittingroom/fitsearch/internal/db"
	"github.com/fittingroom/fitsearch/internal/domain"
)

// store is the consumer interface for vector index operations (ISP).
type store interface {
	Ping(ctx context.Context) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// HNSWConfig tunes index construction.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Config holds index naming and dimensionality.
type Config struct {
	IndexName string
	KeyPrefix string
	Dim       int
	HNSW      HNSWConfig
}

// Repo is the product vector index. Documents are keyed by candidate
// reference under KeyPrefix; the reference is recovered from the key on
// query, making it the only join key shared with the catalog.
type Repo struct {
	store store
	cfg   Config
}

// New creates a vector index repository.
func New(s store, cfg Config) *Repo {
	return &Repo{store: s, cfg: cfg}
}

// Ping checks vector store availability.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.store.Ping(ctx); err != nil {
		return fmt.Errorf("vector store ping: %w", err)
	}
	return nil
}

// EnsureIndex creates the cosine HNSW index if absent and reuses it when
// present. Safe to call on every startup.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def := &db.IndexDefinition{
		Name:        r.cfg.IndexName,
		Prefix:      r.cfg.KeyPrefix,
		VectorDim:   r.cfg.Dim,
		HNSWM:       r.cfg.HNSW.M,
		EFConstruct: r.cfg.HNSW.EFConstruct,
	}

	err := r.store.CreateIndex(ctx, def)
	if errors.Is(err, db.ErrIndexExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create index %s: %w", r.cfg.IndexName, err)
	}
	return nil
}

// Upsert stores or replaces the vector for a candidate reference.
func (r *Repo) Upsert(ctx context.Context, reference string, vector []float32) error {
	if reference == "" {
		return fmt.Errorf("reference is required: %w", domain.ErrValidation)
	}
	if len(vector) != r.cfg.Dim {
		return fmt.Errorf("vector has %d dimensions, index expects %d: %w",
			len(vector), r.cfg.Dim, domain.ErrVectorDimMismatch)
	}

	key := r.cfg.KeyPrefix + reference
	fields := map[string]string{
		"__vector": encodeVector(vector),
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("upsert vector %s: %w: %w", reference, domain.ErrUpstream, err)
	}
	return nil
}

// Query returns up to topK candidates ordered by descending similarity.
// An empty or freshly created index yields an empty slice, not an error.
func (r *Repo) Query(ctx context.Context, vector []float32, topK int) ([]domain.Candidate, error) {
	if len(vector) != r.cfg.Dim {
		return nil, fmt.Errorf("query vector has %d dimensions, index expects %d: %w",
			len(vector), r.cfg.Dim, domain.ErrVectorDimMismatch)
	}
	if topK <= 0 {
		return nil, nil
	}

	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName: r.cfg.IndexName,
		Vector:    vector,
		K:         topK,
	})
	if err != nil {
		return nil, fmt.Errorf("knn query: %w: %w", domain.ErrUpstream, err)
	}
	if res == nil || res.Total == 0 {
		return nil, nil
	}

	candidates := make([]domain.Candidate, 0, len(res.Entries))
	for _, entry := range res.Entries {
		candidates = append(candidates, domain.Candidate{
			Reference: strings.TrimPrefix(entry.Key, r.cfg.KeyPrefix),
			Score:     entry.Score,
		})
	}
	return candidates, nil
}

// encodeVector serializes float32 values as little-endian bytes, the layout
// FT.SEARCH expects for FLOAT32 vector fields.
func encodeVector(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
