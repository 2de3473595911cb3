// Package stratum provides the runtime shared by all generated and
// hand-written clients: common error types and a query-result cache
// that plugs in as a dialect.Driver.
package stratum

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/stratumdb/stratum/dialect"
	"github.com/stratumdb/stratum/dialect/sql"
)

// Cache is the interface for caching query results. Users can implement
// it with their preferred caching backend (e.g. Redis, Memcached), or use
// the in-memory implementation below.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes all values with the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}

// CacheKey identifies a query result: the rendered statement and its bind
// parameters.
type CacheKey struct {
	Query string
	Args  []any
}

// Hash returns the cache key string: a hex digest over the serialized
// statement and parameters.
func (k CacheKey) Hash() (string, error) {
	buf, err := msgpack.Marshal(k)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:]), nil
}

// MemoryCache is a process-local Cache implementation. The zero value is
// ready for use. It is safe for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Get implements the Cache interface.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		return nil, nil
	}
	return e.value, nil
}

// Set implements the Cache interface.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]memoryEntry)
	}
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.entries[key] = e
	return nil
}

// Delete implements the Cache interface.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// DeletePrefix implements the Cache interface.
func (c *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// Clear implements the Cache interface.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	return nil
}

// CacheStats holds counters of a CacheDriver.
type CacheStats struct {
	Hits   uint64
	Misses uint64
}

// CacheDriver wraps a dialect.Driver and serves repeated read statements
// from a Cache. Result sets are serialized with msgpack. Mutations pass
// through unchanged and do not invalidate cached results; eviction is the
// caller's responsibility through the Cache interface.
type CacheDriver struct {
	dialect.Driver
	cache  Cache
	ttl    time.Duration
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCacheDriver wraps the given driver. A ttl of 0 caches results without
// expiry.
func NewCacheDriver(drv dialect.Driver, cache Cache, ttl time.Duration) *CacheDriver {
	return &CacheDriver{Driver: drv, cache: cache, ttl: ttl}
}

// Stats returns a snapshot of the hit/miss counters.
func (d *CacheDriver) Stats() CacheStats {
	return CacheStats{Hits: d.hits.Load(), Misses: d.misses.Load()}
}

// cacheEntry is the serialized form of a result set.
type cacheEntry struct {
	Columns []string `msgpack:"c"`
	Values  [][]any  `msgpack:"v"`
}

// Query implements the dialect.Query method. On a hit the cached result
// set is returned without touching the database; on a miss the underlying
// rows are drained, stored, and re-served from memory.
func (d *CacheDriver) Query(ctx context.Context, query string, args, v any) error {
	vr, ok := v.(*sql.Rows)
	if !ok {
		return d.Driver.Query(ctx, query, args, v)
	}
	argv, _ := args.([]any)
	key, err := CacheKey{Query: query, Args: argv}.Hash()
	if err != nil {
		return err
	}
	if buf, err := d.cache.Get(ctx, key); err == nil && buf != nil {
		var e cacheEntry
		if err := msgpack.Unmarshal(buf, &e); err == nil {
			d.hits.Add(1)
			*vr = sql.Rows{ColumnScanner: &cachedRows{columns: e.Columns, values: e.Values}}
			return nil
		}
	}
	d.misses.Add(1)
	if err := d.Driver.Query(ctx, query, args, v); err != nil {
		return err
	}
	e, err := drainRows(vr)
	if err != nil {
		return err
	}
	if buf, err := msgpack.Marshal(e); err == nil {
		// Best effort: a failing cache backend must not fail the query.
		_ = d.cache.Set(ctx, key, buf, d.ttl)
	}
	*vr = sql.Rows{ColumnScanner: &cachedRows{columns: e.Columns, values: e.Values}}
	return nil
}

func drainRows(rows *sql.Rows) (*cacheEntry, error) {
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	e := &cacheEntry{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		e.Values = append(e.Values, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return e, nil
}

// cachedRows replays a drained result set through the ColumnScanner
// interface.
type cachedRows struct {
	columns []string
	values  [][]any
	pos     int
}

func (r *cachedRows) Close() error               { return nil }
func (r *cachedRows) Columns() ([]string, error) { return r.columns, nil }
func (r *cachedRows) Err() error                 { return nil }
func (r *cachedRows) NextResultSet() bool        { return false }

func (r *cachedRows) ColumnTypes() ([]*sql.ColumnType, error) {
	return nil, errors.New("stratum: column types are not available on cached rows")
}

func (r *cachedRows) Next() bool {
	if r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *cachedRows) Scan(dest ...any) error {
	if r.pos == 0 || r.pos > len(r.values) {
		return errors.New("stratum: Scan called without calling Next")
	}
	row := r.values[r.pos-1]
	if len(dest) != len(row) {
		return errors.New("stratum: destination count mismatches column count")
	}
	for i, d := range dest {
		if err := assignValue(d, row[i]); err != nil {
			return err
		}
	}
	return nil
}

func assignValue(dest, src any) error {
	switch d := dest.(type) {
	case *any:
		*d = src
	case interface{ Scan(any) error }:
		return d.Scan(src)
	default:
		return errors.New("stratum: unsupported scan destination for cached rows")
	}
	return nil
}
