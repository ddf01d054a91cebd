package chi

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/fittingroom/fitsearch/internal/domain"
)

func getJSON(t *testing.T, url string, wantStatus int, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: status %d, want %d (body %s)", url, resp.StatusCode, wantStatus, body)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			t.Fatalf("decode %s: %v (body %s)", url, err, body)
		}
	}
}

func TestSearchEndpoint(t *testing.T) {
	cat := &mockCatalog{
		products: []domain.Product{{ID: 1, Reference: "r1", Name: "Hoodie"}},
		total:    1,
	}
	interp := &mockInterpreter{out: domain.Interpretation{
		Source: domain.SourceModel,
		Attributes: []domain.StyleAttribute{
			{ItemType: "hoodie", Color: "black", Style: "oversized"},
		},
	}}
	vec := &mockVectorIndex{candidates: []domain.Candidate{{Reference: "r1", Score: 0.9}}}
	ts := newTestServer(t, cat, interp, vec)

	var resp struct {
		Results         []domain.Product        `json:"results"`
		Total           int                     `json:"total"`
		Page            int                     `json:"page"`
		Limit           int                     `json:"limit"`
		TotalPages      int                     `json:"totalPages"`
		Recommendations []domain.StyleAttribute `json:"recommendations"`
	}
	getJSON(t, ts.URL+"/api/search?aesthetic=streetwear", http.StatusOK, &resp)

	if len(resp.Results) != 1 || resp.Results[0].Name != "Hoodie" {
		t.Errorf("unexpected results: %+v", resp.Results)
	}
	if resp.Total != 1 || resp.Page != 1 || resp.Limit != 20 || resp.TotalPages != 1 {
		t.Errorf("unexpected page meta: %+v", resp)
	}
	if len(resp.Recommendations) != 1 || resp.Recommendations[0].ItemType != "hoodie" {
		t.Errorf("unexpected recommendations: %+v", resp.Recommendations)
	}
}

func TestSearchEndpoint_EmptyResultKeepsArrays(t *testing.T) {
	cat := &mockCatalog{}
	interp := &mockInterpreter{out: domain.Interpretation{Source: domain.SourceNone}}
	ts := newTestServer(t, cat, interp, &mockVectorIndex{})

	resp, err := http.Get(ts.URL + "/api/search")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw["results"]) != "[]" {
		t.Errorf("results must be an empty array, got %s", raw["results"])
	}
	if string(raw["recommendations"]) != "[]" {
		t.Errorf("recommendations must be an empty array, got %s", raw["recommendations"])
	}
}

func TestSearchEndpoint_BadParams(t *testing.T) {
	ts := newTestServer(t, &mockCatalog{},
		&mockInterpreter{out: domain.Interpretation{Source: domain.SourceNone}}, &mockVectorIndex{})

	tests := []struct {
		name  string
		query string
	}{
		{"non-numeric price", "?minPrice=abc"},
		{"non-numeric page", "?page=x"},
		{"zero page", "?page=0"},
		{"min above max", "?minPrice=50&maxPrice=10"},
		{"negative price", "?minPrice=-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp map[string]string
			getJSON(t, ts.URL+"/api/search"+tt.query, http.StatusBadRequest, &resp)
			if resp["error"] == "" {
				t.Error("error body missing")
			}
		})
	}
}

func TestSearchEndpoint_StorageErrorDoesNotLeak(t *testing.T) {
	cat := &mockCatalog{pageErr: domain.ErrStorage}
	ts := newTestServer(t, cat,
		&mockInterpreter{out: domain.Interpretation{Source: domain.SourceNone}}, &mockVectorIndex{})

	var resp map[string]string
	getJSON(t, ts.URL+"/api/search", http.StatusInternalServerError, &resp)
	if resp["error"] != "internal error" {
		t.Errorf("storage details leaked: %q", resp["error"])
	}
}

func TestBrandsEndpoint(t *testing.T) {
	cat := &mockCatalog{brands: []string{"Acme", "Zara"}}
	ts := newTestServer(t, cat,
		&mockInterpreter{out: domain.Interpretation{Source: domain.SourceNone}}, &mockVectorIndex{})

	var resp map[string][]string
	getJSON(t, ts.URL+"/api/brands", http.StatusOK, &resp)
	if len(resp["brands"]) != 2 {
		t.Errorf("unexpected brands: %v", resp)
	}
}

func TestProductEndpoint(t *testing.T) {
	cat := &mockCatalog{product: domain.Product{ID: 7, Name: "Blazer"}}
	ts := newTestServer(t, cat,
		&mockInterpreter{out: domain.Interpretation{Source: domain.SourceNone}}, &mockVectorIndex{})

	var p domain.Product
	getJSON(t, ts.URL+"/api/product/7", http.StatusOK, &p)
	if p.Name != "Blazer" {
		t.Errorf("unexpected product: %+v", p)
	}
}

func TestProductEndpoint_NotFound(t *testing.T) {
	cat := &mockCatalog{getErr: domain.ErrNotFound}
	ts := newTestServer(t, cat,
		&mockInterpreter{out: domain.Interpretation{Source: domain.SourceNone}}, &mockVectorIndex{})

	var resp map[string]string
	getJSON(t, ts.URL+"/api/product/999", http.StatusNotFound, &resp)
	if resp["error"] != "Product not found" {
		t.Errorf("unexpected error body: %v", resp)
	}
}

func TestProductEndpoint_BadID(t *testing.T) {
	ts := newTestServer(t, &mockCatalog{},
		&mockInterpreter{out: domain.Interpretation{Source: domain.SourceNone}}, &mockVectorIndex{})

	var resp map[string]string
	getJSON(t, ts.URL+"/api/product/abc", http.StatusBadRequest, &resp)
	if resp["error"] == "" {
		t.Error("error body missing")
	}
}

func TestHealthzEndpoint(t *testing.T) {
	ts := newTestServer(t, &mockCatalog{},
		&mockInterpreter{out: domain.Interpretation{Source: domain.SourceNone}}, &mockVectorIndex{})

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	getJSON(t, ts.URL+"/healthz", http.StatusOK, &resp)
	if resp.Status != "ok" {
		t.Errorf("unexpected status: %s", resp.Status)
	}
	if resp.Checks["catalog"] != "ok" {
		t.Errorf("unexpected checks: %v", resp.Checks)
	}
}
