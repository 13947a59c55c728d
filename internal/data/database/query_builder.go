// Package database builds parameterized list queries for the ledger tables.
package database

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

type ConditionType string

const (
	Equal  ConditionType = "="
	ILike  ConditionType = "ILIKE"
	Search ConditionType = "SEARCH"

	defaultLimit  = -1
	defaultOffset = -1
)

// Condition is a single WHERE predicate. Search conditions match the same
// value against several columns joined with OR.
type Condition struct {
	Fields []string
	Type   ConditionType
	Value  any
}

func WhereCond(field string, condType ConditionType, value any) Condition {
	return Condition{Fields: []string{field}, Type: condType, Value: value}
}

// SearchCond matches "%term%" case-insensitively against any of fields.
func SearchCond(term string, fields ...string) Condition {
	return Condition{Fields: fields, Type: Search, Value: "%" + term + "%"}
}

type ListQueryOptions struct {
	Table      string
	Columns    []string
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      int
	Offset     int
}

type ListQueryOption func(*ListQueryOptions)

func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:  table,
		Limit:  defaultLimit,
		Offset: defaultOffset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithOrderBy sets the ordering column and direction.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = column
		o.OrderDir = direction
	}
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Accepts 0.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

func sanitizeIdentifier(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

// BuildListQuery renders options into SQL and positional args with every
// identifier quoted.
//
//	q, args := BuildListQuery(NewListQueryOptions("payments",
//		WithColumns("id", "order_ref"),
//		WithCondition(SearchCond("inv", "order_ref", "status")),
//		WithOrderBy("created_at", "DESC"),
//		WithLimit(20),
//	))
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var query strings.Builder
	query.WriteString("SELECT ")
	if len(options.Columns) == 0 {
		query.WriteString("*")
	} else {
		cols := make([]string, len(options.Columns))
		for i, c := range options.Columns {
			cols[i] = sanitizeIdentifier(c)
		}
		query.WriteString(strings.Join(cols, ", "))
	}
	query.WriteString(" FROM ")
	query.WriteString(sanitizeIdentifier(options.Table))

	where, args := buildWhereClause(options.Conditions)
	if where != "" {
		query.WriteString(" ")
		query.WriteString(where)
	}

	if options.OrderBy != "" {
		query.WriteString(" ORDER BY ")
		query.WriteString(sanitizeIdentifier(options.OrderBy))
		if dir := strings.ToUpper(options.OrderDir); dir == "ASC" || dir == "DESC" {
			query.WriteString(" " + dir)
		}
	}
	if options.Limit != defaultLimit {
		args = append(args, options.Limit)
		fmt.Fprintf(&query, " LIMIT $%d", len(args))
	}
	if options.Offset != defaultOffset {
		args = append(args, options.Offset)
		fmt.Fprintf(&query, " OFFSET $%d", len(args))
	}
	return query.String(), args
}

func buildWhereClause(conds []Condition) (string, []any) {
	parts := make([]string, 0, len(conds))
	var args []any
	for _, cond := range conds {
		if len(cond.Fields) == 0 {
			continue
		}
		args = append(args, cond.Value)
		n := len(args)
		switch cond.Type {
		case Equal, ILike:
			parts = append(parts, fmt.Sprintf("%s %s $%d", sanitizeIdentifier(cond.Fields[0]), cond.Type, n))
		case Search:
			ors := make([]string, len(cond.Fields))
			for i, f := range cond.Fields {
				ors[i] = fmt.Sprintf("%s::text ILIKE $%d", sanitizeIdentifier(f), n)
			}
			parts = append(parts, "("+strings.Join(ors, " OR ")+")")
		default:
			args = args[:n-1]
		}
	}
	if len(parts) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(parts, " AND "), args
}
