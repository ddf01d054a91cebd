package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // cgo-free SQLite driver

	"github.com/fittingroom/fitsearch/internal/domain"
)

// Repo is the relational product catalog backed by SQLite. WAL mode gives
// snapshot reads while an ingestion process writes concurrently.
type Repo struct {
	db *sql.DB
}

// Open opens (or creates) the catalog database and applies the schema.
func Open(path string) (*Repo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma failed: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Repo{db: db}, nil
}

// Close releases the database handle.
func (r *Repo) Close() error { return r.db.Close() }

// Ping checks catalog availability.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("catalog ping: %w", err)
	}
	return nil
}

// SearchPage runs count and search against one read transaction so the
// pre-pagination total can never diverge from the fetched rows, even under
// concurrent ingestion writes. limit <= 0 fetches every matching row
// (used when candidate-order ranking happens upstream of pagination).
func (r *Repo) SearchPage(
	ctx context.Context, f domain.Filter, limit, offset int,
) ([]domain.Product, int, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin read tx: %w: %w", domain.ErrStorage, err)
	}
	defer tx.Rollback() //nolint:errcheck // read-only

	where, args := buildPredicate(f)

	var total int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w: %w", domain.ErrStorage, err)
	}

	query := "SELECT " + productColumns + " FROM products" + where +
		" ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit read tx: %w: %w", domain.ErrStorage, err)
	}

	return products, total, nil
}

// Search returns matching rows in catalog default order (most recently
// ingested first).
func (r *Repo) Search(ctx context.Context, f domain.Filter, limit, offset int) ([]domain.Product, error) {
	products, _, err := r.SearchPage(ctx, f, limit, offset)
	return products, err
}

// Count returns the number of rows matching the filter.
func (r *Repo) Count(ctx context.Context, f domain.Filter) (int, error) {
	where, args := buildPredicate(f)

	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count products: %w: %w", domain.ErrStorage, err)
	}
	return total, nil
}

// GetByID returns a single product. A missing id yields domain.ErrNotFound,
// not a storage error.
func (r *Repo) GetByID(ctx context.Context, id int64) (domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = ?", id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("get product %d: %w: %w", id, domain.ErrStorage, err)
	}
	return p, nil
}

// ListBrands returns distinct brands sorted alphabetically, empty values excluded.
func (r *Repo) ListBrands(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT brand FROM products WHERE brand <> '' ORDER BY brand")
	if err != nil {
		return nil, fmt.Errorf("list brands: %w: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	var brands []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("scan brand: %w: %w", domain.ErrStorage, err)
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brands: %w: %w", domain.ErrStorage, err)
	}
	return brands, nil
}

// Insert upserts a product row, idempotent on (source, reference). A repeat
// insert refreshes mutable fields in place and returns the existing id;
// created_at is kept so the default ordering stays stable.
func (r *Repo) Insert(ctx context.Context, p domain.Product) (int64, error) {
	if p.Source == "" || p.Reference == "" {
		return 0, fmt.Errorf("source and reference are required: %w", domain.ErrValidation)
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (
			source, reference, name, brand, category, color, price, currency,
			availability, sizes, styles, description, image_url, product_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source, reference) DO UPDATE SET
			name = excluded.name,
			brand = excluded.brand,
			category = excluded.category,
			color = excluded.color,
			price = excluded.price,
			currency = excluded.currency,
			availability = excluded.availability,
			sizes = excluded.sizes,
			styles = excluded.styles,
			description = excluded.description,
			image_url = excluded.image_url,
			product_url = excluded.product_url
		RETURNING id`,
		p.Source, p.Reference, p.Name, p.Brand, p.Category, p.Color, p.Price,
		p.Currency, p.Availability, joinSizes(p.Sizes), p.Styles, p.Description,
		p.ImageURL, p.ProductURL,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w: %w", domain.ErrStorage, err)
	}
	return id, nil
}

// --- Row scanning ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var sizes string
	var createdAt int64

	err := row.Scan(
		&p.ID, &p.Source, &p.Reference, &p.Name, &p.Brand, &p.Category,
		&p.Color, &p.Price, &p.Currency, &p.Availability, &sizes, &p.Styles,
		&p.Description, &p.ImageURL, &p.ProductURL, &createdAt,
	)
	if err != nil {
		return domain.Product{}, err
	}

	p.Sizes = splitSizes(sizes)
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return p, nil
}

func scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w: %w", domain.ErrStorage, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w: %w", domain.ErrStorage, err)
	}
	return products, nil
}

func joinSizes(sizes []string) string {
	return strings.Join(sizes, ",")
}

func splitSizes(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
