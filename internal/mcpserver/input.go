package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/docmerge/codec"
)

// docInput represents the two ways a document can be provided to a tool.
// Exactly one of File or Content must be set.
type docInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a YAML, JSON or TOML file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline document content"`
	Format  string `json:"format,omitempty"  jsonschema:"Input format (yaml, json or toml). Detected from the file extension or content when omitted."`
}

// cacheEntry holds a cached document with LRU ordering and TTL expiry.
type cacheEntry struct {
	doc       *codec.Document
	insertAt  time.Time
	expiresAt time.Time
}

// docCacheStore provides a session-scoped cache for parsed documents.
// File inputs are keyed by (absolutePath, modTime, size). Content inputs are
// keyed by a SHA-256 hash. Merges mutate their base, so callers always
// receive a private copy of the cached tree.
type docCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var docCache = &docCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a copy of a cached document or nil. Expired entries are lazily removed.
func (c *docCacheStore) get(key string) *codec.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		// Touch entry for LRU.
		e.insertAt = time.Now()
		return copyDocument(e.doc)
	}
	return nil
}

// putWithTTL stores a copy of doc with a specific TTL, evicting the oldest
// entry if at capacity.
func (c *docCacheStore) putWithTTL(key string, doc *codec.Document, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{doc: copyDocument(doc), insertAt: now, expiresAt: now.Add(ttl)}

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *docCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes expired entries.
// It is safe to call multiple times; only the first call spawns a sweeper.
// It stops when ctx is cancelled.
func (c *docCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *docCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *docCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func copyDocument(doc *codec.Document) *codec.Document {
	dup := *doc
	dup.Root = doc.Root.Clone()
	return &dup
}

// makeCacheKey creates a cache key for the given document input.
func makeCacheKey(d docInput) string {
	switch {
	case d.File != "":
		absPath, err := filepath.Abs(d.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%s:%d:%d", d.Format, absPath, info.ModTime().UnixNano(), info.Size())
	case d.Content != "":
		h := sha256.Sum256([]byte(d.Content))
		return fmt.Sprintf("content:%s:%s", d.Format, hex.EncodeToString(h[:]))
	default:
		return ""
	}
}

// name returns the display name used in results and warnings.
func (d docInput) name() string {
	if d.File != "" {
		return filepath.Base(d.File)
	}
	return "<content>"
}

// resolve parses the document from whichever input was provided, using the
// cache for file and content inputs.
func (d docInput) resolve() (*codec.Document, error) {
	count := 0
	if d.File != "" {
		count++
	}
	if d.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file or content must be provided (got %d)", count)
	}

	loader := &codec.Loader{MaxSize: cfg.MaxInputSize}
	if d.Format != "" {
		format, err := codec.ParseFormat(d.Format)
		if err != nil {
			return nil, err
		}
		loader.Format = format
	}

	var key string
	ttl := cfg.CacheContentTTL
	if cfg.CacheEnabled {
		key = makeCacheKey(d)
		if d.File != "" {
			ttl = cfg.CacheFileTTL
		}
	}
	if key != "" {
		if cached := docCache.get(key); cached != nil {
			return cached, nil
		}
	}

	var doc *codec.Document
	var err error
	if d.File != "" {
		doc, err = loader.ParseFile(d.File)
	} else {
		doc, err = loader.ParseBytes([]byte(d.Content), "")
	}
	if err != nil {
		return nil, err
	}
	doc.SourcePath = d.name()

	if key != "" {
		docCache.putWithTTL(key, doc, ttl)
	}
	return doc, nil
}
