package lyrics

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
)

const appName = "lyricbar"

// DefaultCacheRoot returns <XDG cache home>/lyricbar/lyrics. XDG cache home
// falls back to ~/.cache when XDG_CACHE_HOME is unset. The value is computed
// once per process.
var DefaultCacheRoot = sync.OnceValue(func() string {
	return filepath.Join(xdg.CacheHome, appName, "lyrics")
})

// Cache stores lyrics as plain text files, one per (artist, title).
type Cache struct {
	root   string
	logger *slog.Logger
}

// Entry describes one cached lyrics file.
type Entry struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// NewCache creates a cache rooted at root.
func NewCache(root string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		root:   root,
		logger: logger.With("component", "cache"),
	}
}

// Root returns the cache directory.
func (c *Cache) Root() string {
	return c.root
}

// Path returns the cache file path for a key: <root>/<artist>-<title>, with
// '/' replaced by '_' in both fields.
func (c *Cache) Path(k Key) string {
	return filepath.Join(c.root, sanitizeComponent(k.Artist)+"-"+sanitizeComponent(k.Title))
}

// sanitizeComponent makes a field usable inside a single path component.
// "a/b" and "a_b" map to the same file.
func sanitizeComponent(s string) string {
	return strings.ReplaceAll(s, "/", "_")
}

// EnsureRoot creates the cache directory tree.
func (c *Cache) EnsureRoot() error {
	return os.MkdirAll(c.root, 0o755)
}

// Exists reports whether a regular file is cached for k.
func (c *Cache) Exists(k Key) bool {
	if !k.Valid() {
		return false
	}
	info, err := os.Stat(c.Path(k))
	return err == nil && info.Mode().IsRegular()
}

// Load returns the cached lyrics for k. Unreadable and absent entries are
// both NotFound: either way the caller falls through to remote providers.
func (c *Cache) Load(k Key) Result {
	if !k.Valid() {
		return NotFoundResult()
	}
	path := c.Path(k)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("cache read failed", "path", path, "error", err)
		}
		return NotFoundResult()
	}
	if len(data) == 0 {
		return NotFoundResult()
	}
	return FoundResult(string(data))
}

// Save writes lyrics for k, overwriting any existing entry. It returns
// false when the entry could not be written; the failure is logged.
func (c *Cache) Save(k Key, text string) bool {
	if !k.Valid() {
		return false
	}
	path := c.Path(k)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		c.logger.Error("could not create cache directory", "dir", filepath.Dir(path), "error", err)
		return false
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		c.logger.Error("could not open file for writing", "path", path, "error", err)
		return false
	}
	c.logger.Debug("lyrics cached", "path", path, "bytes", len(text))
	return true
}

// Remove deletes the entry for k. Removing an absent entry is not an error.
func (c *Cache) Remove(k Key) error {
	if !k.Valid() {
		return nil
	}
	err := os.Remove(c.Path(k))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Entries lists cached files sorted by name. A missing root yields no entries.
func (c *Cache) Entries() ([]Entry, error) {
	dirEntries, err := os.ReadDir(c.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:    de.Name(),
			Path:    filepath.Join(c.root, de.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}
