package vectorindex

import (
	"context"

	"github.com/fittingroom/fitsearch/internal/db"
)

// mockStore implements the consumer store interface for tests.
type mockStore struct {
	pingErr     error
	createErr   error
	createdDef  *db.IndexDefinition
	exists      bool
	existsErr   error
	hsetKey     string
	hsetFields  map[string]string
	hsetErr     error
	knnResult   *db.SearchResult
	knnErr      error
	lastKNN     *db.KNNQuery
}

func (m *mockStore) Ping(_ context.Context) error { return m.pingErr }

func (m *mockStore) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	m.createdDef = def
	return m.createErr
}

func (m *mockStore) IndexExists(_ context.Context, _ string) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockStore) HSet(_ context.Context, key string, fields map[string]string) error {
	m.hsetKey = key
	m.hsetFields = fields
	return m.hsetErr
}

func (m *mockStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.lastKNN = q
	return m.knnResult, m.knnErr
}

func testConfig() Config {
	return Config{
		IndexName: "test:idx",
		KeyPrefix: "test:products:",
		Dim:       4,
		HNSW:      HNSWConfig{M: 16, EFConstruct: 200},
	}
}
