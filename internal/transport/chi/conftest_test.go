package chi

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/fittingroom/fitsearch/internal/domain"
	discoveryuc "github.com/fittingroom/fitsearch/internal/usecase/discovery"
	healthuc "github.com/fittingroom/fitsearch/internal/usecase/health"
	productuc "github.com/fittingroom/fitsearch/internal/usecase/product"
)

// --- Mocks for the usecase dependencies ---

type mockInterpreter struct {
	out domain.Interpretation
}

func (m *mockInterpreter) Interpret(_ context.Context, _ string) domain.Interpretation {
	return m.out
}

type mockEmbedder struct {
	vec []float32
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

func (m *mockEmbedder) HealthCheck(_ context.Context) error { return nil }

type mockVectorIndex struct {
	candidates []domain.Candidate
}

func (m *mockVectorIndex) Query(_ context.Context, _ []float32, _ int) ([]domain.Candidate, error) {
	return m.candidates, nil
}

func (m *mockVectorIndex) Upsert(_ context.Context, _ string, _ []float32) error { return nil }

type mockCatalog struct {
	products []domain.Product
	total    int
	pageErr  error

	product domain.Product
	getErr  error
	brands  []string
}

func (m *mockCatalog) SearchPage(
	_ context.Context, _ domain.Filter, _, _ int,
) ([]domain.Product, int, error) {
	return m.products, m.total, m.pageErr
}

func (m *mockCatalog) GetByID(_ context.Context, _ int64) (domain.Product, error) {
	return m.product, m.getErr
}

func (m *mockCatalog) ListBrands(_ context.Context) ([]string, error) {
	return m.brands, nil
}

func (m *mockCatalog) Insert(_ context.Context, _ domain.Product) (int64, error) {
	return 1, nil
}

func (m *mockCatalog) Ping(_ context.Context) error { return nil }

// newTestServer wires real services over mocks and serves them via httptest.
func newTestServer(t *testing.T, cat *mockCatalog, interp *mockInterpreter, vec *mockVectorIndex) *httptest.Server {
	t.Helper()

	pool, err := ants.NewPool(2)
	if err != nil {
		t.Fatalf("ants.NewPool: %v", err)
	}
	t.Cleanup(pool.Release)

	embed := &mockEmbedder{vec: []float32{0.1}}

	discoverySvc := discoveryuc.New(interp, embed, vec, cat, pool, discoveryuc.Config{
		TopKPerAttribute: 5,
		RetrievalTimeout: 5 * time.Second,
		DefaultPageSize:  20,
		MaxPageSize:      100,
	})
	productSvc := productuc.New(cat, vec, embed)
	healthSvc := healthuc.New(cat, nil, nil)

	server := NewServer(discoverySvc, productSvc, healthSvc, zap.NewNop())

	r := chi.NewRouter()
	server.Routes(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}
