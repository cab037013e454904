// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works.
//
// All access goes through database/sql with parameterized queries; the `?`
// placeholders are filled by the driver, never by string concatenation.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Side-effect import: the driver registers itself with database/sql
	// under the name "sqlite" at init time.
	_ "modernc.org/sqlite"

	"github.com/sakif/recipebox/internal/repository"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
type DB struct {
	conn *sql.DB
}

var _ repository.StatsRepository = (*DB)(nil)

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/recipebox.db" → file-based database (persistent)
//   - ":memory:"          → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Each pooled connection to ":memory:" would get its OWN empty
	// database — pin the pool to one connection so there is only one.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// Force an immediate connection — a bad path or permissions problem
	// should surface here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// important for a web server where requests overlap.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. We need them ON so that
	// deleting a recipe, tag or ingredient cascades through the link tables.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent
// — safe to run on every start.
//
// Email uniqueness is COLLATE NOCASE: "Foo@Example.com" and
// "foo@example.com" are the same account, while the stored value keeps the
// local part's original casing.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
			password_hash TEXT NOT NULL,
			name          TEXT NOT NULL DEFAULT '',
			is_active     INTEGER NOT NULL DEFAULT 1,
			is_staff      INTEGER NOT NULL DEFAULT 0,
			is_superuser  INTEGER NOT NULL DEFAULT 0,
			last_login    DATETIME,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS recipes (
			id              TEXT PRIMARY KEY,
			user_id         TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title           TEXT NOT NULL,
			time_minutes    INTEGER NOT NULL DEFAULT 0,
			price           TEXT NOT NULL DEFAULT '0',
			description     TEXT NOT NULL DEFAULT '',
			link            TEXT NOT NULL DEFAULT '',
			image_path      TEXT NOT NULL DEFAULT '',
			image_blur_hash TEXT NOT NULL DEFAULT '',
			created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_recipes_user_id ON recipes(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating recipes table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS tags (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name       TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_tags_user_id ON tags(user_id);

		CREATE TABLE IF NOT EXISTS ingredients (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name       TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_ingredients_user_id ON ingredients(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating tags/ingredients tables: %w", err)
	}

	// Link tables. ON DELETE CASCADE both ways: deleting a recipe removes
	// its links, deleting a tag/ingredient removes it from every recipe.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS recipe_tags (
			recipe_id TEXT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
			tag_id    TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
			PRIMARY KEY (recipe_id, tag_id)
		);
		CREATE INDEX IF NOT EXISTS idx_recipe_tags_tag_id ON recipe_tags(tag_id);

		CREATE TABLE IF NOT EXISTS recipe_ingredients (
			recipe_id     TEXT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
			ingredient_id TEXT NOT NULL REFERENCES ingredients(id) ON DELETE CASCADE,
			PRIMARY KEY (recipe_id, ingredient_id)
		);
		CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_ingredient_id
			ON recipe_ingredients(ingredient_id);
	`)
	if err != nil {
		return fmt.Errorf("creating link tables: %w", err)
	}

	return nil
}

// EntityCounts returns the row count per entity for the admin dashboard.
func (db *DB) EntityCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, 4)

	for _, table := range []string{"users", "recipes", "tags", "ingredients"} {
		var n int64
		// Table names can't be bound as parameters; the list above is a
		// fixed set of literals, not caller input.
		err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
		if err != nil {
			return nil, fmt.Errorf("sqlite: counting %s: %w", table, err)
		}
		counts[table] = n
	}

	return counts, nil
}
