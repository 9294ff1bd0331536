// Package cache implements the bounded, process-local, TTL'd key→value
// store shared by every engine in the analysis pipeline.
package cache

import (
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
)

const (
	// MaxEntries bounds the cache at 100 entries, eviction on least-recent-use.
	MaxEntries = 100
	// DefaultTTL is the per-entry time-to-live every Set call uses.
	DefaultTTL = 5 * time.Minute
	// KeySeparator joins key segments; callers build keys with Key().
	KeySeparator = ":"
)

// Manager is a bounded, process-global, concurrency-safe cache. Values are
// opaque to the cache: it never inspects or clones them, so callers storing
// a mutable value must not mutate it after Set.
type Manager struct {
	store  *lru.LRU[string, any]
	logger *logrus.Logger
}

// NewManager builds a Manager bounded to MaxEntries with DefaultTTL. logger
// may be nil, in which case a logger with output discarded is used — cache
// tracing is a debug-level nicety, never load-bearing.
func NewManager(logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}
	onEvict := func(key string, _ any) {
		logger.WithField("key", key).Debug("cache evict")
	}
	return &Manager{
		store:  lru.NewLRU[string, any](MaxEntries, onEvict, DefaultTTL),
		logger: logger,
	}
}

// Key joins segments with KeySeparator. Callers append a deterministic
// configuration fingerprint (see Fingerprint) rather than serialising a
// whole Configuration value, since map/struct JSON key order is not stable
// across runtimes.
func Key(segments ...string) string {
	return strings.Join(segments, KeySeparator)
}

// Fingerprint reduces a sorted set of named values to a short deterministic
// string suitable for appending to a cache key. Inputs are sorted by the
// caller; Fingerprint only joins them, so the same logical configuration
// always yields the same fingerprint regardless of map iteration order.
func Fingerprint(parts ...string) string {
	sorted := append([]string(nil), parts...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// Get returns the cached value and true on a hit, or (nil, false) on a miss
// or expiry.
func (m *Manager) Get(key string) (any, bool) {
	v, ok := m.store.Get(key)
	if ok {
		m.logger.WithField("key", key).Debug("cache hit")
	} else {
		m.logger.WithField("key", key).Debug("cache miss")
	}
	return v, ok
}

// Set stores value under key with the default TTL.
func (m *Manager) Set(key string, value any) {
	m.store.Add(key, value)
	m.logger.WithField("key", key).Debug("cache set")
}

// Delete removes key if present.
func (m *Manager) Delete(key string) {
	m.store.Remove(key)
}

// Len returns the current entry count, for tests and diagnostics.
func (m *Manager) Len() int {
	return m.store.Len()
}

// Purge drops every entry. Used by tests; the pipeline itself never needs
// to clear a warm cache mid-process.
func (m *Manager) Purge() {
	m.store.Purge()
}
