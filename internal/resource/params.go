package resource

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"

	"discoveryfy/internal/utils"
)

var (
	// ErrInvalidSort is returned when a sort entry names a field the resource does not allow.
	ErrInvalidSort = errors.New("invalid sort field")
	// ErrInvalidID is returned for identifiers that are not UUIDs.
	ErrInvalidID = errors.New("invalid uuid")
)

// SortField is one parsed sort entry.
type SortField struct {
	Field string
	Desc  bool
}

// QueryIntent is the validated, read-only view of a request's query string.
type QueryIntent struct {
	// Fields maps a resource type to the attribute names requested for it.
	// A missing or empty entry means all attributes.
	Fields   map[string][]string
	Includes []string
	Sort     []SortField
}

// Parse builds a QueryIntent from raw query values for the given resource.
// Unknown includes are dropped; a single unknown sort field fails the whole parse.
func Parse(query url.Values, d Descriptor) (QueryIntent, error) {
	intent := QueryIntent{
		Fields:   parseFields(query),
		Includes: parseIncludes(query.Get("includes"), d),
	}

	sortFields, err := parseSort(query.Get("sort"), d)
	if err != nil {
		return QueryIntent{}, err
	}
	intent.Sort = sortFields
	return intent, nil
}

// ParseID validates a raw path identifier and returns its canonical form.
func ParseID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id.String(), nil
}

func parseFields(query url.Values) map[string][]string {
	fields := map[string][]string{}
	for key, values := range query {
		if !strings.HasPrefix(key, "fields[") || !strings.HasSuffix(key, "]") || len(values) == 0 {
			continue
		}
		resourceType := key[len("fields[") : len(key)-1]
		names := utils.SplitList(values[0])
		if resourceType == "" || len(names) == 0 {
			continue
		}
		fields[resourceType] = names
	}
	return fields
}

func parseIncludes(raw string, d Descriptor) []string {
	var includes []string
	for _, name := range utils.SplitList(raw) {
		name = strings.ToLower(name)
		if _, ok := d.Relation(name); !ok || slices.Contains(includes, name) {
			continue
		}
		includes = append(includes, name)
	}
	return includes
}

func parseSort(raw string, d Descriptor) ([]SortField, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var out []SortField
	for _, entry := range strings.Split(raw, ",") {
		field := strings.ToLower(strings.TrimSpace(entry))
		desc := false
		if strings.HasPrefix(field, "-") {
			field = field[1:]
			desc = true
		}
		if !d.Sortable(field) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSort, field)
		}
		out = append(out, SortField{Field: field, Desc: desc})
	}
	return out, nil
}

// SortDirective renders the sort entries as "field dir,field dir" for the store.
func (q QueryIntent) SortDirective() string {
	parts := make([]string, 0, len(q.Sort))
	for _, s := range q.Sort {
		dir := "asc"
		if s.Desc {
			dir = "desc"
		}
		parts = append(parts, s.Field+" "+dir)
	}
	return strings.Join(parts, ",")
}

// SortParam renders the sort entries back into query-string form.
func (q QueryIntent) SortParam() string {
	parts := make([]string, 0, len(q.Sort))
	for _, s := range q.Sort {
		if s.Desc {
			parts = append(parts, "-"+s.Field)
			continue
		}
		parts = append(parts, s.Field)
	}
	return strings.Join(parts, ",")
}

// Selects reports whether attribute name of resourceType should be emitted.
func (q QueryIntent) Selects(resourceType, name string) bool {
	requested := q.Fields[resourceType]
	if len(requested) == 0 {
		return true
	}
	return slices.Contains(requested, name)
}
