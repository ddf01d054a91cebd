// Package fitsearch is a small HTTP client for the fitsearch API.
package fitsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fittingroom/fitsearch/internal/domain"
)

const defaultTimeout = 30 * time.Second

// Client talks to a running fitsearch server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the given base URL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SearchParams are the query parameters for a discovery search.
type SearchParams struct {
	Aesthetic string
	MinPrice  *float64
	MaxPrice  *float64
	Sizes     []string
	Brands    []string
	Page      int
	Limit     int
}

// SearchResult is one page of discovery results.
type SearchResult struct {
	Results         []domain.Product        `json:"results"`
	Total           int                     `json:"total"`
	Page            int                     `json:"page"`
	Limit           int                     `json:"limit"`
	TotalPages      int                     `json:"totalPages"`
	Recommendations []domain.StyleAttribute `json:"recommendations"`
}

// Search runs a discovery search.
func (c *Client) Search(ctx context.Context, p SearchParams) (SearchResult, error) {
	q := url.Values{}
	if p.Aesthetic != "" {
		q.Set("aesthetic", p.Aesthetic)
	}
	if p.MinPrice != nil {
		q.Set("minPrice", strconv.FormatFloat(*p.MinPrice, 'f', -1, 64))
	}
	if p.MaxPrice != nil {
		q.Set("maxPrice", strconv.FormatFloat(*p.MaxPrice, 'f', -1, 64))
	}
	if len(p.Sizes) > 0 {
		q.Set("sizes", strings.Join(p.Sizes, ","))
	}
	if len(p.Brands) > 0 {
		q.Set("brands", strings.Join(p.Brands, ","))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}

	var result SearchResult
	if err := c.get(ctx, "/api/search?"+q.Encode(), &result); err != nil {
		return SearchResult{}, err
	}
	return result, nil
}

// Brands returns the distinct brand list.
func (c *Client) Brands(ctx context.Context) ([]string, error) {
	var resp struct {
		Brands []string `json:"brands"`
	}
	if err := c.get(ctx, "/api/brands", &resp); err != nil {
		return nil, err
	}
	return resp.Brands, nil
}

// Product returns one product by id. A missing product yields domain.ErrNotFound.
func (c *Client) Product(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	if err := c.get(ctx, "/api/product/"+strconv.FormatInt(id, 10), &p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// AddProduct ingests a product and returns its id.
func (c *Client) AddProduct(ctx context.Context, p domain.Product) (int64, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("marshal product: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/api/products", strings.NewReader(string(body)),
	)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp struct {
		ID int64 `json:"id"`
	}
	if err := c.do(req, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// apiError maps error responses back to domain sentinels so callers can
// use errors.Is the same way on both sides of the wire.
func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%s: %w", msg, domain.ErrValidation)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, domain.ErrNotFound)
	case http.StatusBadGateway:
		return fmt.Errorf("%s: %w", msg, domain.ErrUpstream)
	default:
		return fmt.Errorf("api error %d: %s", resp.StatusCode, msg)
	}
}
