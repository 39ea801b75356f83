package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"

	"github.com/avillega/shoprec/internal/profile"
	"github.com/avillega/shoprec/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a PostgreSQL database specified by its connection string. The
// pgvector extension must be installable on the target database, the vector
// similarity search runs on it.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	postgresDB, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	driver := DB{db: postgresDB, profile: profile}

	return &driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

// placeholder returns the placeholder for the i-th parameter, 1-based.
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// placeholders returns "$1, $2, ..., $n".
func placeholders(n int) string {
	list := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		list = append(list, placeholder(i))
	}
	return strings.Join(list, ", ")
}

const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS shop (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	local_number TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS client (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	display_name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	date_of_birth TEXT NOT NULL DEFAULT '',
	gender TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS category (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS subcategory (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category_id INTEGER NOT NULL REFERENCES category (id) ON DELETE CASCADE,
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS product (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price DOUBLE PRECISION NOT NULL DEFAULT 0,
	stock INTEGER NOT NULL DEFAULT 0,
	image_url TEXT NOT NULL DEFAULT '',
	category_id INTEGER NOT NULL REFERENCES category (id) ON DELETE CASCADE,
	subcategory_id INTEGER NOT NULL REFERENCES subcategory (id) ON DELETE CASCADE,
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS sale (
	id SERIAL PRIMARY KEY,
	client_id INTEGER NOT NULL REFERENCES client (id) ON DELETE CASCADE,
	shop_id INTEGER NOT NULL REFERENCES shop (id) ON DELETE CASCADE,
	total DOUBLE PRECISION NOT NULL DEFAULT 0,
	payment_method TEXT NOT NULL,
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS sale_product (
	sale_id INTEGER NOT NULL REFERENCES sale (id) ON DELETE CASCADE,
	product_id INTEGER NOT NULL REFERENCES product (id) ON DELETE CASCADE,
	PRIMARY KEY (sale_id, product_id)
);

CREATE TABLE IF NOT EXISTS product_embedding (
	product_id INTEGER PRIMARY KEY REFERENCES product (id) ON DELETE CASCADE,
	embedding vector(1024) NOT NULL,
	category TEXT NOT NULL,
	subcategory TEXT NOT NULL DEFAULT '',
	model TEXT NOT NULL,
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_product_embedding_category ON product_embedding (category);

CREATE TABLE IF NOT EXISTS recommendation_item (
	id SERIAL PRIMARY KEY,
	score DOUBLE PRECISION NOT NULL UNIQUE,
	metric TEXT NOT NULL DEFAULT 'cosine_distance',
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS recommendation_item_product (
	item_id INTEGER NOT NULL REFERENCES recommendation_item (id) ON DELETE CASCADE,
	product_id INTEGER NOT NULL REFERENCES product (id) ON DELETE CASCADE,
	PRIMARY KEY (item_id, product_id)
);

CREATE TABLE IF NOT EXISTS recommendation (
	id SERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	sale_id INTEGER NOT NULL UNIQUE REFERENCES sale (id) ON DELETE CASCADE,
	client_id INTEGER NOT NULL REFERENCES client (id) ON DELETE CASCADE,
	confidence_score DOUBLE PRECISION NOT NULL,
	was_purchased BOOLEAN NOT NULL DEFAULT FALSE,
	reason TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS recommendation_item_link (
	recommendation_id INTEGER NOT NULL REFERENCES recommendation (id) ON DELETE CASCADE,
	item_id INTEGER NOT NULL REFERENCES recommendation_item (id) ON DELETE CASCADE,
	PRIMARY KEY (recommendation_id, item_id)
);
`

// Migrate applies the schema. All statements are idempotent.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}
