package config

import "testing"

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 0},
		Vector: VectorConfig{
			Addrs: []string{"localhost:6379"},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingVectorAddrs(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Vector: VectorConfig{
			Addrs: []string{},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing vector addrs")
	}
}

func TestValidate_PageSizeOrdering(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Vector: VectorConfig{
			Addrs: []string{"localhost:6379"},
		},
		Search: SearchConfig{
			DefaultPageSize: 200,
			MaxPageSize:     100,
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error when default page size exceeds max")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Catalog.Path != "data/fitsearch.db" {
		t.Errorf("expected default catalog path, got %q", cfg.Catalog.Path)
	}
	if cfg.Vector.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Vector.ReadinessTimeout)
	}
	if cfg.Vector.KeyPrefix != "fitsearch:products:" {
		t.Errorf("expected KeyPrefix='fitsearch:products:', got %q", cfg.Vector.KeyPrefix)
	}
	if cfg.Vector.HNSWM != 32 {
		t.Errorf("expected HNSWM=32, got %d", cfg.Vector.HNSWM)
	}
	if cfg.Vector.HNSWEFConstruct != 400 {
		t.Errorf("expected HNSWEFConstruct=400, got %d", cfg.Vector.HNSWEFConstruct)
	}
	if cfg.Embedding.Dimensions != 1024 {
		t.Errorf("expected Dimensions=1024, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Embedding.MaxAttempts != 4 {
		t.Errorf("expected MaxAttempts=4, got %d", cfg.Embedding.MaxAttempts)
	}
	if cfg.Search.TopKPerAttribute != 5 {
		t.Errorf("expected TopKPerAttribute=5, got %d", cfg.Search.TopKPerAttribute)
	}
	if cfg.Search.DefaultPageSize != 20 {
		t.Errorf("expected DefaultPageSize=20, got %d", cfg.Search.DefaultPageSize)
	}
	if cfg.Search.MaxPageSize != 100 {
		t.Errorf("expected MaxPageSize=100, got %d", cfg.Search.MaxPageSize)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Vector: VectorConfig{ReadinessTimeout: 15, HNSWM: 16, HNSWEFConstruct: 200, KeyPrefix: "custom:"},
		Search: SearchConfig{DefaultPageSize: 50, MaxPageSize: 500},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Vector.HNSWM != 16 {
		t.Errorf("expected HNSWM=16, got %d", cfg.Vector.HNSWM)
	}
	if cfg.Vector.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Vector.KeyPrefix)
	}
	if cfg.Search.DefaultPageSize != 50 {
		t.Errorf("expected DefaultPageSize=50, got %d", cfg.Search.DefaultPageSize)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FITSEARCH_TEST_PORT", "9090")

	in := []byte("port: ${FITSEARCH_TEST_PORT}\npath: ${FITSEARCH_TEST_MISSING:-data/test.db}\n")
	out := string(expandEnvVars(in))

	want := "port: 9090\npath: data/test.db\n"
	if out != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestExpandEnvVars_EmptyWithoutDefault(t *testing.T) {
	out := string(expandEnvVars([]byte("key: ${FITSEARCH_TEST_UNSET}")))
	if out != "key: " {
		t.Errorf("unexpected expansion: %q", out)
	}
}
