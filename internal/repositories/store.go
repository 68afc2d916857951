package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"discoveryfy/internal/resource"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// model maps one resource type onto a table.
type model interface {
	resourceType() string
	query(ctx context.Context, db *sql.DB, filter resource.Filter, sort string) ([]resource.Record, error)
	decode(data []byte) ([]resource.Record, error)
}

type table[T resource.Record] struct {
	resource string
	name     string
	columns  []string
	scan     func(rowScanner) (T, error)
}

func (t table[T]) resourceType() string { return t.resource }

func (t table[T]) query(ctx context.Context, db *sql.DB, filter resource.Filter, sort string) ([]resource.Record, error) {
	q, args, err := buildSelect(t.name, t.columns, filter, sort)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "query %s", t.name)
	}
	defer rows.Close()

	out := []resource.Record{}
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, errors.Wrapf(err, "scan %s", t.name)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "iterate %s", t.name)
	}
	return out, nil
}

func (t table[T]) decode(data []byte) ([]resource.Record, error) {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrapf(err, "decode cached %s", t.resource)
	}
	out := make([]resource.Record, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}
	return out, nil
}

// Store answers resource queries from a SQL database (MySQL or SQLite).
type Store struct {
	DB     *sql.DB
	models map[string]model
}

// NewStore registers every known resource table.
func NewStore(db *sql.DB) *Store {
	s := &Store{DB: db, models: map[string]model{}}
	for _, m := range []model{usersTable, groupsTable, membershipsTable, pollsTable, tracksTable, votesTable} {
		s.models[m.resourceType()] = m
	}
	return s
}

func (s *Store) model(resourceType string) (model, error) {
	m, ok := s.models[resourceType]
	if !ok {
		return nil, fmt.Errorf("unknown resource type %q", resourceType)
	}
	return m, nil
}

// Query implements resource.Store.
func (s *Store) Query(ctx context.Context, resourceType string, filter resource.Filter, sort string) ([]resource.Record, error) {
	m, err := s.model(resourceType)
	if err != nil {
		return nil, err
	}
	return m.query(ctx, s.DB, filter, sort)
}

// Decode implements resource.Store.
func (s *Store) Decode(resourceType string, data []byte) ([]resource.Record, error) {
	m, err := s.model(resourceType)
	if err != nil {
		return nil, err
	}
	return m.decode(data)
}

func quote(ident string) string {
	return "`" + ident + "`"
}

// buildSelect renders SELECT ... WHERE a = ? AND ... ORDER BY ... with every
// identifier checked against the table columns.
func buildSelect(tableName string, columns []string, filter resource.Filter, sort string) (string, []any, error) {
	cols := make([]string, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, quote(c))
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(quote(tableName))

	args := make([]any, 0, len(filter))
	for i, p := range filter {
		if !slices.Contains(columns, p.Field) {
			return "", nil, fmt.Errorf("filter on unknown column %s.%s", tableName, p.Field)
		}
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString(quote(p.Field))
		b.WriteString(" = ?")
		args = append(args, p.Value)
	}

	order, err := orderBy(columns, sort)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", tableName, err)
	}
	if order != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(order)
	}
	return b.String(), args, nil
}

// orderBy turns "name desc,created_at" into "`name` DESC, `created_at` ASC".
func orderBy(columns []string, sort string) (string, error) {
	sort = strings.TrimSpace(sort)
	if sort == "" {
		return "", nil
	}
	var parts []string
	for _, entry := range strings.Split(sort, ",") {
		tokens := strings.Fields(entry)
		if len(tokens) == 0 || len(tokens) > 2 {
			return "", fmt.Errorf("malformed sort entry %q", entry)
		}
		if !slices.Contains(columns, tokens[0]) {
			return "", fmt.Errorf("sort on unknown column %q", tokens[0])
		}
		dir := "ASC"
		if len(tokens) == 2 {
			switch strings.ToLower(tokens[1]) {
			case "asc":
			case "desc":
				dir = "DESC"
			default:
				return "", fmt.Errorf("unknown sort direction %q", tokens[1])
			}
		}
		parts = append(parts, quote(tokens[0])+" "+dir)
	}
	return strings.Join(parts, ", "), nil
}
