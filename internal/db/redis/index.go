package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/fittingroom/fitsearch/internal/db"
)

// CreateIndex creates the product FT index: hash storage under Prefix with
// a single HNSW FLOAT32 vector field using cosine distance.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// IndexExists probes index existence via FT.INFO; "unknown index name" means absent.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

func buildCreateArgs(def *db.IndexDefinition) ([]string, error) {
	if def.Name == "" {
		return nil, errors.New("index name is required")
	}
	if def.Prefix == "" {
		return nil, errors.New("index prefix is required")
	}
	if def.VectorDim <= 0 {
		return nil, errors.New("vector DIM must be positive")
	}

	attrs := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(def.VectorDim),
		"DISTANCE_METRIC", "COSINE",
	}
	if def.HNSWM > 0 {
		attrs = append(attrs, "M", strconv.Itoa(def.HNSWM))
	}
	if def.EFConstruct > 0 {
		attrs = append(attrs, "EF_CONSTRUCTION", strconv.Itoa(def.EFConstruct))
	}

	args := []string{
		def.Name,
		"ON", "HASH",
		"PREFIX", "1", def.Prefix,
		"SCHEMA",
		"__vector", "AS", "vector", "VECTOR", "HNSW", strconv.Itoa(len(attrs)),
	}
	args = append(args, attrs...)

	return args, nil
}
