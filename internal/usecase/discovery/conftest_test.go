package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/fittingroom/fitsearch/internal/domain"
)

type mockInterpreter struct {
	out domain.Interpretation
}

func (m *mockInterpreter) Interpret(_ context.Context, _ string) domain.Interpretation {
	return m.out
}

type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

// mockVectorIndex returns candidates per query text, keyed by call order.
type mockVectorIndex struct {
	candidates []domain.Candidate
	err        error
}

func (m *mockVectorIndex) Query(_ context.Context, _ []float32, _ int) ([]domain.Candidate, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

type mockCatalog struct {
	products   []domain.Product
	total      int
	err        error
	lastFilter domain.Filter
	lastLimit  int
	lastOffset int
}

func (m *mockCatalog) SearchPage(
	_ context.Context, f domain.Filter, limit, offset int,
) ([]domain.Product, int, error) {
	m.lastFilter = f
	m.lastLimit = limit
	m.lastOffset = offset
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.products, m.total, nil
}

func testPool(t *testing.T) *ants.Pool {
	t.Helper()
	pool, err := ants.NewPool(4)
	if err != nil {
		t.Fatalf("ants.NewPool: %v", err)
	}
	t.Cleanup(pool.Release)
	return pool
}

func testConfig() Config {
	return Config{
		TopKPerAttribute: 5,
		RetrievalTimeout: 5 * time.Second,
		DefaultPageSize:  20,
		MaxPageSize:      100,
	}
}

func newTestService(
	t *testing.T,
	interp *mockInterpreter,
	embed *mockEmbedder,
	vectors *mockVectorIndex,
	catalog *mockCatalog,
) *Service {
	t.Helper()
	return New(interp, embed, vectors, catalog, testPool(t), testConfig())
}

func attrs(n int) []domain.StyleAttribute {
	out := make([]domain.StyleAttribute, n)
	for i := range out {
		out[i] = domain.StyleAttribute{
			ItemType: "item" + string(rune('a'+i)),
			Color:    "black",
			Style:    "plain",
		}
	}
	return out
}

func productsFor(refs ...string) []domain.Product {
	out := make([]domain.Product, len(refs))
	for i, r := range refs {
		out[i] = domain.Product{ID: int64(i + 1), Reference: r, Name: "p-" + r}
	}
	return out
}
