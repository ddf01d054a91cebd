package catalog

// Bootstrap DDL. The unique index on (source, reference) backs the
// idempotent insert contract: re-inserting the same pair never creates a
// second row visible to search/count.
const schema = `
CREATE TABLE IF NOT EXISTS products (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    source       TEXT NOT NULL,
    reference    TEXT NOT NULL,
    name         TEXT NOT NULL DEFAULT '',
    brand        TEXT NOT NULL DEFAULT '',
    category     TEXT NOT NULL DEFAULT '',
    color        TEXT NOT NULL DEFAULT '',
    price        REAL NOT NULL DEFAULT 0 CHECK (price >= 0),
    currency     TEXT NOT NULL DEFAULT 'USD',
    availability TEXT NOT NULL DEFAULT '',
    sizes        TEXT NOT NULL DEFAULT '',
    styles       TEXT NOT NULL DEFAULT '',
    description  TEXT NOT NULL DEFAULT '',
    image_url    TEXT NOT NULL DEFAULT '',
    product_url  TEXT NOT NULL DEFAULT '',
    created_at   INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_products_source_reference ON products(source, reference);
CREATE INDEX IF NOT EXISTS idx_products_brand    ON products(brand);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_price    ON products(price);
CREATE INDEX IF NOT EXISTS idx_products_created  ON products(created_at);
`

const productColumns = `id, source, reference, name, brand, category, color, price, currency,
availability, sizes, styles, description, image_url, product_url, created_at`
