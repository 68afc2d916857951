package resource

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// TimeLayout is the ATOM timestamp layout used for every emitted date.
const TimeLayout = "2006-01-02T15:04:05-07:00"

// Reserved timestamp attributes.
const (
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
)

// ErrCardinality is returned when item mode receives anything but one record.
var ErrCardinality = errors.New("item mode requires exactly one record")

// Resolver loads related records for includes.
type Resolver interface {
	Resolve(ctx context.Context, rec Record, rel Relation) ([]Record, error)
}

// Attributes is an ordered attribute set that marshals as a JSON object
// keeping its order.
type Attributes []Attribute

// Get returns the value of the named attribute.
func (a Attributes) Get(name string) (any, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return nil, false
}

// Names lists the attribute names in order.
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for _, attr := range a {
		names = append(names, attr.Name)
	}
	return names
}

func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(attr.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(attr.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", attr.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type Links struct {
	Self    string `json:"self"`
	Related string `json:"related,omitempty"`
}

// Identifier references a resource by type and id.
type Identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship is the stub placed on a parent resource for each include.
// Data is nil, an Identifier, or a []Identifier.
type Relationship struct {
	Links Links `json:"links"`
	Data  any   `json:"data"`
}

// Resource is the transformed representation of one record.
type Resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id"`
	Attributes    Attributes              `json:"attributes"`
	Links         Links                   `json:"links"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// Document is the output of a transformation: Data is a Resource in item mode
// and a []Resource in collection mode.
type Document struct {
	Data     any
	Included []Resource
}

// Transformer maps records onto resources.
type Transformer struct {
	BaseURL  string
	Resolver Resolver
}

// Transform converts records for the endpoint described by d. Includes are
// resolved one level deep and side-loaded into Document.Included, de-duplicated
// by type and id.
func (t *Transformer) Transform(ctx context.Context, d Descriptor, mode Mode, records []Record, intent QueryIntent) (Document, error) {
	inc := newIncluded()

	if mode == Item {
		if len(records) != 1 {
			return Document{}, fmt.Errorf("%w: got %d", ErrCardinality, len(records))
		}
		res, err := t.transformOne(ctx, d, records[0], intent, inc)
		if err != nil {
			return Document{}, err
		}
		return Document{Data: res, Included: inc.list}, nil
	}

	data := make([]Resource, 0, len(records))
	for _, rec := range records {
		res, err := t.transformOne(ctx, d, rec, intent, inc)
		if err != nil {
			return Document{}, err
		}
		data = append(data, res)
	}
	return Document{Data: data, Included: inc.list}, nil
}

func (t *Transformer) transformOne(ctx context.Context, d Descriptor, rec Record, intent QueryIntent, inc *included) (Resource, error) {
	res := t.resource(d.Type, rec, intent)
	if len(intent.Includes) == 0 {
		return res, nil
	}
	if t.Resolver == nil {
		return Resource{}, fmt.Errorf("%w: no resolver configured", ErrBrokenRelation)
	}

	res.Relationships = make(map[string]Relationship, len(intent.Includes))
	for _, name := range intent.Includes {
		rel, ok := d.Relation(name)
		if !ok {
			continue
		}
		related, err := t.Resolver.Resolve(ctx, rec, rel)
		if err != nil {
			return Resource{}, fmt.Errorf("include %s of %s %s: %w", name, d.Type, rec.RecordID(), err)
		}

		ids := make([]Identifier, 0, len(related))
		for _, r := range related {
			ids = append(ids, Identifier{Type: rel.Type, ID: r.RecordID()})
			inc.add(t.resource(rel.Type, r, QueryIntent{Fields: intent.Fields}))
		}

		stub := Relationship{Links: Links{
			Self:    fmt.Sprintf("%s/%s/%s/relationships/%s", t.BaseURL, d.Type, rec.RecordID(), name),
			Related: fmt.Sprintf("%s/%s/%s/%s", t.BaseURL, d.Type, rec.RecordID(), name),
		}}
		switch {
		case rel.Many:
			stub.Data = ids
		case len(ids) == 1:
			stub.Data = ids[0]
		}
		res.Relationships[name] = stub
	}
	return res, nil
}

// resource builds the bare representation: filtered attributes and self link.
func (t *Transformer) resource(resourceType string, rec Record, intent QueryIntent) Resource {
	attrs := Attributes{}
	for _, a := range rec.Attributes() {
		if !intent.Selects(resourceType, a.Name) {
			continue
		}
		switch a.Name {
		case CreatedAt, UpdatedAt:
			attrs = append(attrs, Attribute{Name: a.Name, Value: FormatTimestamp(a.Value)})
		default:
			attrs = append(attrs, a)
		}
	}
	return Resource{
		Type:       resourceType,
		ID:         rec.RecordID(),
		Attributes: attrs,
		Links:      Links{Self: fmt.Sprintf("%s/%s/%s", t.BaseURL, resourceType, rec.RecordID())},
	}
}

// FormatTimestamp renders a timestamp value in TimeLayout. Unset values render
// as the empty string, never as null.
func FormatTimestamp(v any) string {
	switch ts := v.(type) {
	case time.Time:
		if ts.IsZero() {
			return ""
		}
		return ts.Format(TimeLayout)
	case *time.Time:
		if ts == nil || ts.IsZero() {
			return ""
		}
		return ts.Format(TimeLayout)
	case sql.NullTime:
		if !ts.Valid || ts.Time.IsZero() {
			return ""
		}
		return ts.Time.Format(TimeLayout)
	case string:
		return ts
	default:
		return ""
	}
}

type included struct {
	seen map[Identifier]struct{}
	list []Resource
}

func newIncluded() *included {
	return &included{seen: map[Identifier]struct{}{}}
}

func (i *included) add(res Resource) {
	key := Identifier{Type: res.Type, ID: res.ID}
	if _, ok := i.seen[key]; ok {
		return
	}
	i.seen[key] = struct{}{}
	i.list = append(i.list, res)
}
