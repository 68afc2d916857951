package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"discoveryfy/internal/cache"
	"discoveryfy/internal/logging"
	"discoveryfy/internal/metrics"
)

// ErrBrokenRelation means a declared relationship could not be produced by the stored data.
var ErrBrokenRelation = errors.New("broken relationship reference")

// Store is the persistence collaborator.
type Store interface {
	// Query returns the records of resourceType matching every predicate in
	// filter, ordered by sort ("field dir,field dir"; empty means store order).
	Query(ctx context.Context, resourceType string, filter Filter, sort string) ([]Record, error)
	// Decode restores records of resourceType from their cached JSON form.
	Decode(resourceType string, data []byte) ([]Record, error)
}

// Cache is the read-through cache collaborator.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte, ttl time.Duration) error
	Invalidate(prefix string) error
}

// Query describes one retrieval.
type Query struct {
	Type   string
	ID     string
	Filter Filter
	Sort   string
	TTL    time.Duration
}

func (q Query) filter() Filter {
	if q.ID == "" {
		return q.Filter
	}
	return q.Filter.With("id", q.ID)
}

// CacheKey derives the cache key of a query. Every key of a resource type
// starts with "<type>." so writes can drop them by prefix.
func CacheKey(resourceType string, filter Filter, sort string) string {
	key := cache.ModelKey(resourceType, filter.Key())
	if sort != "" {
		key += "|" + sort
	}
	return key
}

// Retriever fetches records through a read-through cache.
//
// Each resource type carries a generation bumped by Invalidate. A fill whose
// store read started in an older generation is dropped, so an invalidation is
// never undone by a read that was already in flight.
type Retriever struct {
	store Store
	cache Cache
	ttl   time.Duration

	// mu orders cache fills against prefix drops.
	mu   sync.RWMutex
	gens map[string]uint64
}

// NewRetriever wires a store and a cache. A nil cache disables caching.
func NewRetriever(store Store, cache Cache, defaultTTL time.Duration) *Retriever {
	return &Retriever{store: store, cache: cache, ttl: defaultTTL, gens: map[string]uint64{}}
}

func (r *Retriever) generation(resourceType string) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gens[resourceType]
}

// Fetch returns the records matching q. With an id the result holds that record
// or nothing. Cache failures degrade to a direct store query.
func (r *Retriever) Fetch(ctx context.Context, q Query) ([]Record, error) {
	filter := q.filter()
	key := CacheKey(q.Type, filter, q.Sort)

	if r.cache != nil {
		if records, ok := r.fromCache(ctx, q.Type, key); ok {
			return records, nil
		}
	}

	gen := r.generation(q.Type)
	records, err := r.store.Query(ctx, q.Type, filter, q.Sort)
	if err != nil {
		return nil, err
	}
	if q.ID != "" && len(records) > 1 {
		// duplicate identifiers are a data fault; never cache them
		return records, nil
	}

	if r.cache != nil {
		r.toCache(ctx, q.Type, key, gen, records, q.TTL)
	}
	return records, nil
}

func (r *Retriever) fromCache(ctx context.Context, resourceType, key string) ([]Record, bool) {
	data, ok, err := r.cache.Get(key)
	if err != nil {
		metrics.CacheError(resourceType)
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache get failed")
		return nil, false
	}
	if !ok {
		metrics.CacheMiss(resourceType)
		return nil, false
	}
	records, err := r.store.Decode(resourceType, data)
	if err != nil {
		metrics.CacheError(resourceType)
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache entry undecodable")
		return nil, false
	}
	metrics.CacheHit(resourceType)
	return records, true
}

func (r *Retriever) toCache(ctx context.Context, resourceType, key string, gen uint64, records []Record, ttl time.Duration) {
	if ttl <= 0 {
		ttl = r.ttl
	}
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("resource", resourceType).Msg("cache encode failed")
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.gens[resourceType] != gen {
		logging.Ctx(ctx).Debug().Str("key", key).Msg("cache fill skipped after invalidation")
		return
	}
	if err := r.cache.Set(key, data, ttl); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// Invalidate drops every cached query of resourceType. Write paths call it
// after a successful create, update or delete.
func (r *Retriever) Invalidate(resourceType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens[resourceType]++
	if r.cache == nil {
		return nil
	}
	metrics.CacheInvalidated(resourceType)
	return r.cache.Invalidate(resourceType + ".")
}

// Resolve loads the records rel points to from rec. An empty to-one key yields
// no records; a to-one key naming a missing record is ErrBrokenRelation.
func (r *Retriever) Resolve(ctx context.Context, rec Record, rel Relation) ([]Record, error) {
	if rel.Many {
		return r.Fetch(ctx, Query{Type: rel.Type, Filter: Filter{{Field: rel.Key, Value: rec.RecordID()}}})
	}

	value, ok := AttributeValue(rec, rel.Key)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no attribute %q", ErrBrokenRelation, rel.Name, rel.Key)
	}
	id := relatedID(value)
	if id == "" {
		return nil, nil
	}
	records, err := r.Fetch(ctx, Query{Type: rel.Type, ID: id})
	if err != nil {
		return nil, err
	}
	if len(records) != 1 {
		return nil, fmt.Errorf("%w: %s %s -> %s %s (%d rows)", ErrBrokenRelation, rel.Name, rec.RecordID(), rel.Type, id, len(records))
	}
	return records, nil
}

func relatedID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case *string:
		if id == nil {
			return ""
		}
		return *id
	default:
		return fmt.Sprint(id)
	}
}
