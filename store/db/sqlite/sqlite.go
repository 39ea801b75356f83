package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/avillega/shoprec/internal/profile"
	"github.com/avillega/shoprec/store"
)

// SQLite is supported for development and single-user instances. Vector
// similarity search is computed in the application layer instead of the
// database, which is fine for catalogs in the tens of thousands of products
// but not beyond.

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a database specified by its database driver name and a
// driver-specific data source name.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// WAL journal mode prevents most locking issues; busy_timeout papers over
	// the rest. Pragmas must be prefixed with _pragma= for modernc.org/sqlite.
	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	// A single connection is optimal for SQLite with WAL.
	sqliteDB.SetMaxOpenConns(1)
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	driver := DB{db: sqliteDB, profile: profile}

	return &driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS shop (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	local_number TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS client (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	display_name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	date_of_birth TEXT NOT NULL DEFAULT '',
	gender TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT 1,
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS category (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS subcategory (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category_id INTEGER NOT NULL REFERENCES category (id) ON DELETE CASCADE,
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS product (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price REAL NOT NULL DEFAULT 0,
	stock INTEGER NOT NULL DEFAULT 0,
	image_url TEXT NOT NULL DEFAULT '',
	category_id INTEGER NOT NULL REFERENCES category (id) ON DELETE CASCADE,
	subcategory_id INTEGER NOT NULL REFERENCES subcategory (id) ON DELETE CASCADE,
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS sale (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	client_id INTEGER NOT NULL REFERENCES client (id) ON DELETE CASCADE,
	shop_id INTEGER NOT NULL REFERENCES shop (id) ON DELETE CASCADE,
	total REAL NOT NULL DEFAULT 0,
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
	embedding BLOB NOT NULL,
	category TEXT NOT NULL,
	subcategory TEXT NOT NULL DEFAULT '',
	model TEXT NOT NULL,
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_product_embedding_category ON product_embedding (category);

CREATE TABLE IF NOT EXISTS recommendation_item (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	score REAL NOT NULL UNIQUE,
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
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	sale_id INTEGER NOT NULL UNIQUE REFERENCES sale (id) ON DELETE CASCADE,
	client_id INTEGER NOT NULL REFERENCES client (id) ON DELETE CASCADE,
	confidence_score REAL NOT NULL,
	was_purchased BOOLEAN NOT NULL DEFAULT 0,
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
