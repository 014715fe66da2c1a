package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"retailpulse/models"
)

// SessionTTL marks an entry that stays live until the cache itself is reset.
const SessionTTL time.Duration = 0

// ViewTTL is the expiry used by the dashboard view queries.
const ViewTTL = 3600 * time.Second

type ComputeFunc func() (*models.QueryResult, error)

// QueryCache memoizes warehouse results keyed by query fingerprint. There is
// no eviction beyond TTL expiry; for a single-operator session the cache may
// grow for the process lifetime.
type QueryCache struct {
	store *gocache.Cache
}

func New() *QueryCache {
	return &QueryCache{
		store: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

// Fingerprint derives the cache key from the literal query text and the
// ordered parameter tuple. Two logically identical queries with different
// literal renderings, or the same query with reordered parameters, produce
// different keys.
func Fingerprint(query string, params ...interface{}) string {
	h := sha256.New()
	h.Write([]byte(query))
	for i, p := range params {
		fmt.Fprintf(h, "\x1f%d:%T:%v", i, p, p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Do returns the live cached result for fingerprint, or invokes compute,
// stores its result and returns it. Failed computations are returned to the
// caller and never cached.
func (qc *QueryCache) Do(fingerprint string, ttl time.Duration, compute ComputeFunc) (*models.QueryResult, error) {
	if cached, ok := qc.store.Get(fingerprint); ok {
		return cached.(*models.QueryResult), nil
	}

	result, err := compute()
	if err != nil {
		return nil, err
	}

	expiry := ttl
	if ttl <= 0 {
		expiry = gocache.NoExpiration
	}
	qc.store.Set(fingerprint, result, expiry)

	return result, nil
}

// Reset drops every entry, including session-lifetime ones.
func (qc *QueryCache) Reset() {
	qc.store.Flush()
}

// Len reports the number of live entries.
func (qc *QueryCache) Len() int {
	return qc.store.ItemCount()
}
