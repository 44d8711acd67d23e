// Package cache stores compiled result sets on disk, keyed by a fingerprint
// of the junction configuration. Entries are snappy-compressed JSON.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/golang/snappy"

	"github.com/dd0wney/jnetc/pkg/junction"
	"github.com/dd0wney/jnetc/pkg/logging"
	"github.com/dd0wney/jnetc/pkg/metrics"
	"github.com/dd0wney/jnetc/pkg/result"
)

// formatVersion changes whenever generated output for the same input
// changes, so stale entries stop matching.
const formatVersion = "jnetc-cache-v1"

const entryExt = ".snappy"

// ErrCorrupt is returned for entries that cannot be decoded
var ErrCorrupt = errors.New("corrupt cache entry")

// Cache is a directory of compiled result sets
type Cache struct {
	dir     string
	logger  logging.Logger
	metrics *metrics.Registry
}

// Option configures a Cache
type Option func(*Cache)

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// WithMetrics records hits and misses into r
func WithMetrics(r *metrics.Registry) Option {
	return func(c *Cache) { c.metrics = r }
}

// Open creates the cache directory if needed
func Open(dir string, opts ...Option) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("cache directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	c := &Cache{dir: dir, logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logging.Component("cache"))
	return c, nil
}

// Key fingerprints everything that determines a compile's output: the
// junction name, its canonical document and the threat strategy.
func Key(j *junction.Junction, strategy string) (string, error) {
	canonical, err := j.Document.Canonical()
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize junction: %w", err)
	}
	h := sha256.New()
	for _, part := range [][]byte{[]byte(formatVersion), []byte(j.Name), []byte(strategy), canonical} {
		h.Write(part)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+entryExt)
}

// Get returns the cached set for key. A missing entry is not an error.
func (c *Cache) Get(key string) (*result.Set, bool, error) {
	compressed, err := os.ReadFile(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, false, fmt.Errorf("%w %s: %v", ErrCorrupt, key, err)
	}
	var set result.Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, false, fmt.Errorf("%w %s: %v", ErrCorrupt, key, err)
	}
	return &set, true, nil
}

// Put stores set under key, replacing any existing entry
func (c *Cache) Put(key string, set *result.Set) (retErr error) {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to encode result set: %w", err)
	}
	compressed := snappy.Encode(nil, data)

	tmp, err := os.CreateTemp(c.dir, "."+key+".*")
	if err != nil {
		return fmt.Errorf("failed to create cache entry: %w", err)
	}
	defer func() {
		if retErr != nil {
			os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close cache entry: %w", err)
	}
	return os.Rename(tmp.Name(), c.path(key))
}

// Remove deletes the entry for key if present
func (c *Cache) Remove(key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// CompileFunc produces a result set on a cache miss
type CompileFunc func(ctx context.Context) (*result.Set, error)

// GetOrCompile returns the cached set for key, or runs compile and stores
// its result. Corrupt entries are treated as misses and overwritten. A
// failed store is logged and does not fail the call.
func (c *Cache) GetOrCompile(ctx context.Context, key string, compile CompileFunc) (*result.Set, bool, error) {
	set, ok, err := c.Get(key)
	switch {
	case errors.Is(err, ErrCorrupt):
		c.logger.Warn("discarding corrupt cache entry", logging.String("key", key), logging.Error(err))
	case err != nil:
		return nil, false, err
	case ok:
		c.record(true)
		c.logger.Debug("cache hit", logging.String("key", key))
		return set, true, nil
	}
	c.record(false)

	set, err = compile(ctx)
	if err != nil {
		return nil, false, err
	}
	if err := c.Put(key, set); err != nil {
		c.logger.Warn("failed to store cache entry", logging.String("key", key), logging.Error(err))
	}
	return set, false, nil
}

func (c *Cache) record(hit bool) {
	if c.metrics != nil {
		c.metrics.RecordCache(hit)
	}
}
