package resource

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Mode selects single-item or multi-item transformation.
type Mode string

const (
	Item       Mode = "item"
	Collection Mode = "collection"
)

// Attribute is one exported field of a record, in the record's canonical order.
type Attribute struct {
	Name  string
	Value any
}

// Record is a domain entity the pipeline can read. Implementations export their
// attributes in a fixed canonical order; the transformer never reorders them.
type Record interface {
	RecordID() string
	Attributes() []Attribute
}

// AttributeValue looks up a single attribute of rec by name.
func AttributeValue(rec Record, name string) (any, bool) {
	for _, a := range rec.Attributes() {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// Relation declares a named relationship that can be requested through includes.
//
// For to-one relations Key is the attribute on the owning record that holds the
// related id. For to-many relations Key is the column on the related type that
// references the owning record's id.
type Relation struct {
	Name string
	Type string
	Many bool
	Key  string
}

// Descriptor is the immutable per-endpoint description of a resource.
type Descriptor struct {
	Type        string
	Mode        Mode
	SortFields  []string
	Relations   []Relation
	DefaultSort string
	// Scope holds equality predicates applied to every retrieval of this endpoint.
	Scope Filter
}

// Sortable reports whether field may appear in a sort request.
func (d Descriptor) Sortable(field string) bool {
	return slices.Contains(d.SortFields, field)
}

// Relation returns the declared relation with the given include name.
func (d Descriptor) Relation(name string) (Relation, bool) {
	for _, r := range d.Relations {
		if r.Name == name {
			return r, true
		}
	}
	return Relation{}, false
}

// As returns a copy of d serving the given mode.
func (d Descriptor) As(mode Mode) Descriptor {
	d.Mode = mode
	return d
}

// Predicate is a single equality condition.
type Predicate struct {
	Field string
	Value any
}

// Filter is a conjunction of equality predicates.
type Filter []Predicate

// With returns a new filter extended by field = value.
func (f Filter) With(field string, value any) Filter {
	out := make(Filter, 0, len(f)+1)
	out = append(out, f...)
	return append(out, Predicate{Field: field, Value: value})
}

// Key serializes the filter deterministically for cache keys. A filter made of
// a single id predicate serializes to the bare id.
func (f Filter) Key() string {
	if len(f) == 0 {
		return "all"
	}
	if len(f) == 1 && f[0].Field == "id" {
		return fmt.Sprint(f[0].Value)
	}
	parts := make([]string, 0, len(f))
	for _, p := range f {
		parts = append(parts, fmt.Sprintf("%s=%v", p.Field, p.Value))
	}
	sort.Strings(parts)
	return strings.Join(parts, "&")
}
