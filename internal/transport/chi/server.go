package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fittingroom/fitsearch/internal/domain"
	discoveryuc "github.com/fittingroom/fitsearch/internal/usecase/discovery"
	healthuc "github.com/fittingroom/fitsearch/internal/usecase/health"
	productuc "github.com/fittingroom/fitsearch/internal/usecase/product"
)

// Server exposes the discovery API over HTTP.
type Server struct {
	discovery *discoveryuc.Service
	products  *productuc.Service
	health    *healthuc.Service
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	discovery *discoveryuc.Service,
	products *productuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		discovery: discovery,
		products:  products,
		health:    health,
		logger:    logger,
	}
}

// Routes mounts all API endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/api/search", s.Search)
	r.Get("/api/brands", s.Brands)
	r.Get("/api/product/{id}", s.GetProduct)
	r.Post("/api/products", s.AddProduct)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type searchResponse struct {
	Results         []domain.Product        `json:"results"`
	Total           int                     `json:"total"`
	Page            int                     `json:"page"`
	Limit           int                     `json:"limit"`
	TotalPages      int                     `json:"totalPages"`
	Recommendations []domain.StyleAttribute `json:"recommendations"`
}

// Search handles GET /api/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q, err := parseSearchQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := s.discovery.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := searchResponse{
		Results:         page.Results,
		Total:           page.Total,
		Page:            page.Page,
		Limit:           page.Limit,
		TotalPages:      page.TotalPages,
		Recommendations: page.Recommendations,
	}
	if resp.Results == nil {
		resp.Results = []domain.Product{}
	}
	if resp.Recommendations == nil {
		resp.Recommendations = []domain.StyleAttribute{}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Brands handles GET /api/brands.
func (s *Server) Brands(w http.ResponseWriter, r *http.Request) {
	brands, err := s.products.Brands(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if brands == nil {
		brands = []string{}
	}

	writeJSON(w, http.StatusOK, map[string][]string{"brands": brands})
}

// GetProduct handles GET /api/product/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := s.products.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// AddProduct handles POST /api/products.
func (s *Server) AddProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.products.Add(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// parseSearchQuery parses and type-checks query parameters. Semantic
// validation (price bounds ordering) happens in the discovery service.
func parseSearchQuery(r *http.Request) (domain.SearchQuery, error) {
	qs := r.URL.Query()

	q := domain.SearchQuery{
		Aesthetic: qs.Get("aesthetic"),
		Sizes:     splitCSV(qs.Get("sizes")),
		Brands:    splitCSV(qs.Get("brands")),
	}

	var err error
	if q.MinPrice, err = parseFloatParam(qs.Get("minPrice"), "minPrice"); err != nil {
		return domain.SearchQuery{}, err
	}
	if q.MaxPrice, err = parseFloatParam(qs.Get("maxPrice"), "maxPrice"); err != nil {
		return domain.SearchQuery{}, err
	}
	if q.Page, err = parseIntParam(qs.Get("page"), "page", 1); err != nil {
		return domain.SearchQuery{}, err
	}
	if q.Limit, err = parseIntParam(qs.Get("limit"), "limit", 0); err != nil {
		return domain.SearchQuery{}, err
	}

	return q, nil
}

func parseFloatParam(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.New(name + " must be a number")
	}
	return &v, nil
}

func parseIntParam(raw, name string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return v, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleDomainError maps sentinel errors to HTTP statuses. Storage and
// unknown failures are logged server-side and answered with a generic
// message so internals never leak.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, domain.ErrValidation.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, domain.ErrNotFound.Error())
	case errors.Is(err, domain.ErrVectorDimMismatch):
		writeError(w, http.StatusBadRequest, domain.ErrVectorDimMismatch.Error())
	case errors.Is(err, domain.ErrUpstream):
		s.logger.Warn("upstream error", zap.Error(err))
		writeError(w, http.StatusBadGateway, domain.ErrUpstream.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
