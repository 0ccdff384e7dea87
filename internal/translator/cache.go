package translator

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"doc-translator/internal/logger"
	"doc-translator/internal/types"
)

// Cache is a SQLite-backed translation cache keyed by
// (src_lang, tgt_lang, source). Lookups and stores are serialized with
// a mutex so one cache can back concurrent batch translation.
type Cache struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// NewCache creates a cache handle for the given database path. The
// database is not opened until Connect.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Connect opens the database, creating parent directories, the schema
// and WAL journaling on first use. Calling Connect on an open cache is
// a no-op.
func (c *Cache) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil {
		return nil
	}

	abs, err := filepath.Abs(c.path)
	if err != nil {
		return types.NewAppError(types.ErrCache, "invalid cache path", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return types.NewAppError(types.ErrCache, "failed to create cache directory", err)
	}

	db, err := sql.Open("sqlite", abs)
	if err != nil {
		return types.NewAppError(types.ErrCache, "failed to open cache database", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS translations (
			src_lang TEXT NOT NULL,
			tgt_lang TEXT NOT NULL,
			source TEXT NOT NULL,
			translated TEXT NOT NULL,
			PRIMARY KEY (src_lang, tgt_lang, source)
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return types.NewAppError(types.ErrCache, "failed to create cache schema", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return types.NewAppError(types.ErrCache, "failed to enable WAL mode", err)
	}

	c.path = abs
	c.db = db
	logger.Debug("translation cache initialised", logger.String("path", abs))
	return nil
}

// Close releases the database handle. Safe to call on a closed cache.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	if err != nil {
		return types.NewAppError(types.ErrCache, "failed to close cache database", err)
	}
	return nil
}

// Lookup returns the cached translation for source, or ok=false when
// the pair has not been seen. Lookup on a disconnected cache misses.
func (c *Cache) Lookup(source, srcLang, tgtLang string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return "", false
	}

	var translated string
	err := c.db.QueryRow(
		`SELECT translated FROM translations WHERE src_lang = ? AND tgt_lang = ? AND source = ?`,
		srcLang, tgtLang, source,
	).Scan(&translated)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		logger.Warn("cache lookup failed", logger.Err(err))
		return "", false
	}
	return translated, true
}

// Store saves a translation, replacing any previous entry for the same
// key. Store failures are logged and swallowed; a broken cache must not
// abort a translation run.
func (c *Cache) Store(source, srcLang, tgtLang, translated string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return
	}

	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO translations (src_lang, tgt_lang, source, translated) VALUES (?, ?, ?, ?)`,
		srcLang, tgtLang, source, translated,
	)
	if err != nil {
		logger.Warn("cache store failed", logger.Err(err))
	}
}
