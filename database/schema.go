package database

// Schema is applied on every startup; all statements are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
    product_id   INTEGER PRIMARY KEY,
    product_name TEXT    NOT NULL,
    shelf_number INTEGER NOT NULL,
    in_stock     BOOLEAN NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS shelves (
    shelf_number INTEGER PRIMARY KEY,
    checked      BOOLEAN NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS reorder_lists (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at    TEXT NOT NULL,
    product_names TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_products_shelf ON products (shelf_number);
`
