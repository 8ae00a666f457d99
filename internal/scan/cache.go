package scan

import (
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v2"

	"github.com/quill-lang/quillc/internal/api"
	"github.com/quill-lang/quillc/internal/util"
)

// Cache persists scan results across sessions. An entry is keyed by
// source path and invalidated by a content-hash mismatch; stale entries
// are simply overwritten on the next store.
type Cache struct {
	db *sql.DB
}

const cacheSchema = `
create table if not exists scans (
	path text primary key,
	hash text not null,
	metadata text not null
)`

// OpenCache opens (creating if necessary) the scan cache at path.
func OpenCache(path string) (*Cache, error) {
	util.MkdirForFile(path)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Lookup returns the cached metadata for path if its recorded hash
// still matches.
func (c *Cache) Lookup(path, hash string) (*api.UnitMetadata, bool) {
	row := c.db.QueryRow("select metadata from scans where path = ? and hash = ?", path, hash)
	var blob string
	if err := row.Scan(&blob); err != nil {
		return nil, false
	}
	var meta api.UnitMetadata
	if err := yaml.Unmarshal([]byte(blob), &meta); err != nil {
		return nil, false
	}
	return &meta, true
}

// Store records the metadata scanned from path at the given hash,
// replacing any previous entry for path.
func (c *Cache) Store(path, hash string, meta *api.UnitMetadata) error {
	blob, err := yaml.Marshal(meta)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(
		"insert or replace into scans (path, hash, metadata) values (?, ?, ?)",
		path, hash, string(blob),
	)
	return err
}

// hashFile returns the MD5 of a file's contents, or the empty string if
// the file does not exist.
func hashFile(filename string) string {
	contents, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return ""
	} else if err != nil {
		util.Die("%s: %s", filename, err)
	}
	sum := md5.Sum(contents)
	return hex.EncodeToString(sum[:])
}
