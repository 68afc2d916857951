package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

type song struct {
	ID        string       `json:"id"`
	AlbumID   string       `json:"album_id"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt sql.NullTime `json:"updated_at"`
}

func (s song) RecordID() string { return s.ID }

func (s song) Attributes() []Attribute {
	return []Attribute{
		{Name: "album_id", Value: s.AlbumID},
		{Name: "name", Value: s.Name},
		{Name: CreatedAt, Value: s.CreatedAt},
		{Name: UpdatedAt, Value: s.UpdatedAt},
	}
}

type album struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func (a album) RecordID() string { return a.ID }

func (a album) Attributes() []Attribute {
	return []Attribute{
		{Name: "title", Value: a.Title},
		{Name: CreatedAt, Value: a.CreatedAt},
	}
}

var songs = Descriptor{
	Type:       "songs",
	SortFields: []string{"name", "created_at"},
	Relations: []Relation{
		{Name: "album", Type: "albums", Key: "album_id"},
	},
}

var albums = Descriptor{
	Type:       "albums",
	SortFields: []string{"title"},
	Relations: []Relation{
		{Name: "songs", Type: "songs", Many: true, Key: "album_id"},
	},
}

const (
	songA  = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"
	songB  = "6fa459ea-ee8a-3ca4-894e-db77e160355e"
	albumX = "16fd2706-8baf-433b-82eb-8c7fada847da"
)

var created = time.Date(2020, 3, 14, 15, 9, 26, 0, time.FixedZone("CET", 3600))

type memStore struct {
	mu      sync.Mutex
	records map[string][]Record
	calls   int
	sorts   []string
	filters []Filter
	err     error
}

func newMemStore() *memStore {
	return &memStore{records: map[string][]Record{
		"songs": {
			song{ID: songA, AlbumID: albumX, Name: "Intro", CreatedAt: created},
			song{ID: songB, AlbumID: albumX, Name: "Outro", CreatedAt: created,
				UpdatedAt: sql.NullTime{Time: created.Add(time.Hour), Valid: true}},
		},
		"albums": {
			album{ID: albumX, Title: "Loops", CreatedAt: created},
		},
	}}
}

func (s *memStore) Query(_ context.Context, resourceType string, filter Filter, sort string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.sorts = append(s.sorts, sort)
	s.filters = append(s.filters, filter)
	if s.err != nil {
		return nil, s.err
	}
	out := []Record{}
	for _, rec := range s.records[resourceType] {
		if matches(rec, filter) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func matches(rec Record, filter Filter) bool {
	for _, p := range filter {
		var got any
		if p.Field == "id" {
			got = rec.RecordID()
		} else {
			v, ok := AttributeValue(rec, p.Field)
			if !ok {
				return false
			}
			got = v
		}
		if fmt.Sprint(got) != fmt.Sprint(p.Value) {
			return false
		}
	}
	return true
}

func (s *memStore) Decode(resourceType string, data []byte) ([]Record, error) {
	switch resourceType {
	case "songs":
		return decodeAs[song](data)
	case "albums":
		return decodeAs[album](data)
	}
	return nil, fmt.Errorf("unknown type %s", resourceType)
}

func decodeAs[T Record](data []byte) ([]Record, error) {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}
	return out, nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) Get(key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *memCache) Set(key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *memCache) Invalidate(prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

var errStoreDown = errors.New("store down")
