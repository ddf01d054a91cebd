package db

import (
	"context"
	"time"
)

// Store is the vector database facade. Consumers depend on the narrow
// sub-interfaces below.
type Store interface {
	Pinger
	KVStore
	HashStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations (embedding cache).
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// HashStore provides hash writes (vector document upserts).
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher provides KNN search over an FT index.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}

// IndexDefinition describes a product vector index: one HNSW vector field
// over hash keys sharing Prefix. Distance metric is always cosine.
type IndexDefinition struct {
	Name        string
	Prefix      string
	VectorDim   int
	HNSWM       int
	EFConstruct int
}

// KNNQuery is a K-nearest-neighbor query against an FT index.
type KNNQuery struct {
	IndexName string
	Vector    []float32
	K         int
}

// SearchEntry is one hit: the hash key and its similarity score.
type SearchEntry struct {
	Key   string
	Score float64
}

// SearchResult holds FT.SEARCH output.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}
