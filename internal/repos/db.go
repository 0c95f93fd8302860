package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer; a single pooled connection also keeps
	// :memory: databases from splitting across connections.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline categories if DB is empty
	if err := seedCategories(db); err != nil {
		return nil, err
	}
	// Ensure demo users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(LOWER(username));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Bids (immutable; linked to a listing only via listings.current_bid_id)
CREATE TABLE IF NOT EXISTS bids(
  id TEXT PRIMARY KEY,
  amount TEXT NOT NULL,              -- canonical decimal string
  bidder_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_bids_bidder ON bids(bidder_id);

-- Listings
CREATE TABLE IF NOT EXISTS listings(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  starting_price TEXT NOT NULL,      -- canonical decimal string
  image_url TEXT,
  category_id TEXT NULL REFERENCES categories(id) ON DELETE CASCADE,
  owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  current_bid_id TEXT NULL REFERENCES bids(id) ON DELETE CASCADE,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_listings_category   ON listings(category_id);
CREATE INDEX IF NOT EXISTS idx_listings_owner      ON listings(owner_id);
CREATE INDEX IF NOT EXISTS idx_listings_active     ON listings(is_active);
CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at);

-- Comments (append-only)
CREATE TABLE IF NOT EXISTS comments(
  id TEXT PRIMARY KEY,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  author_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  message TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_comments_listing ON comments(listing_id);

-- Watchlists (user <-> listing many-to-many)
CREATE TABLE IF NOT EXISTS watchlist_items(
  user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (user_id, listing_id)
);
CREATE INDEX IF NOT EXISTS idx_watchlist_listing ON watchlist_items(listing_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedCategories(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting default categories")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name) VALUES
	  ('electronics','Electronics'),
	  ('fashion','Fashion'),
	  ('home','Home'),
	  ('toys','Toys'),
	  ('other','Other')`)

	return tx.Commit()
}

// seedUsers ensures a couple of demo accounts exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Username, Hash string
	}
	mk := func(id, username, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Username: username, Hash: string(h)}
	}

	users := []u{
		mk("u-alice", "alice", "Passw0rd!"),
		mk("u-bob", "bob", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,username,password_hash)
			VALUES(?,?,?)
			ON CONFLICT(username) DO NOTHING
		`, x.ID, x.Username, x.Hash); err != nil {
			return err
		}
	}

	return tx.Commit()
}
