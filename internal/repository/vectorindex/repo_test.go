package vectorindex

import (
	"context"
	"errors"
	"testing"

	"github.com/fittingroom/fitsearch/internal/db"
	"github.com/fittingroom/fitsearch/internal/domain"
)

func TestEnsureIndex(t *testing.T) {
	store := &mockStore{}
	repo := New(store, testConfig())

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if store.createdDef == nil {
		t.Fatal("CreateIndex not called")
	}
	if store.createdDef.Name != "test:idx" || store.createdDef.VectorDim != 4 {
		t.Errorf("unexpected definition: %+v", store.createdDef)
	}
	if store.createdDef.HNSWM != 16 || store.createdDef.EFConstruct != 200 {
		t.Errorf("HNSW params not propagated: %+v", store.createdDef)
	}
}

func TestEnsureIndex_AlreadyExists(t *testing.T) {
	store := &mockStore{createErr: db.ErrIndexExists}
	repo := New(store, testConfig())

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Errorf("existing index must be reused, got %v", err)
	}
}

func TestUpsert(t *testing.T) {
	store := &mockStore{}
	repo := New(store, testConfig())

	err := repo.Upsert(context.Background(), "sku-1", []float32{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if store.hsetKey != "test:products:sku-1" {
		t.Errorf("unexpected key: %s", store.hsetKey)
	}
	if _, ok := store.hsetFields["__vector"]; !ok {
		t.Error("vector field not written")
	}
	if len(store.hsetFields["__vector"]) != 16 {
		t.Errorf("expected 16 vector bytes, got %d", len(store.hsetFields["__vector"]))
	}
}

func TestUpsert_DimMismatch(t *testing.T) {
	repo := New(&mockStore{}, testConfig())

	err := repo.Upsert(context.Background(), "sku-1", []float32{1, 2})
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestUpsert_RequiresReference(t *testing.T) {
	repo := New(&mockStore{}, testConfig())

	err := repo.Upsert(context.Background(), "", []float32{1, 2, 3, 4})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestQuery(t *testing.T) {
	store := &mockStore{knnResult: &db.SearchResult{
		Total: 2,
		Entries: []db.SearchEntry{
			{Key: "test:products:sku-1", Score: 0.93},
			{Key: "test:products:sku-2", Score: 0.71},
		},
	}}
	repo := New(store, testConfig())

	cands, err := repo.Query(context.Background(), []float32{1, 2, 3, 4}, 5)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(cands))
	}
	if cands[0].Reference != "sku-1" || cands[0].Score != 0.93 {
		t.Errorf("prefix not stripped or score lost: %+v", cands[0])
	}
	if store.lastKNN.K != 5 || store.lastKNN.IndexName != "test:idx" {
		t.Errorf("unexpected KNN query: %+v", store.lastKNN)
	}
}

func TestQuery_EmptyIndex(t *testing.T) {
	store := &mockStore{knnResult: &db.SearchResult{Total: 0}}
	repo := New(store, testConfig())

	cands, err := repo.Query(context.Background(), []float32{1, 2, 3, 4}, 5)
	if err != nil {
		t.Fatalf("empty index must not error: %v", err)
	}
	if cands != nil {
		t.Errorf("expected nil candidates, got %v", cands)
	}
}

func TestQuery_DimMismatch(t *testing.T) {
	repo := New(&mockStore{}, testConfig())

	_, err := repo.Query(context.Background(), []float32{1}, 5)
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestQuery_StoreErrorWrapsUpstream(t *testing.T) {
	store := &mockStore{knnErr: errors.New("connection reset")}
	repo := New(store, testConfig())

	_, err := repo.Query(context.Background(), []float32{1, 2, 3, 4}, 5)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}

func TestQuery_NonPositiveTopK(t *testing.T) {
	store := &mockStore{}
	repo := New(store, testConfig())

	cands, err := repo.Query(context.Background(), []float32{1, 2, 3, 4}, 0)
	if err != nil || cands != nil {
		t.Errorf("topK 0 must return nothing, got %v %v", cands, err)
	}
	if store.lastKNN != nil {
		t.Error("store must not be queried for topK 0")
	}
}
