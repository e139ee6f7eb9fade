package store

import (
	"fmt"
	"strings"
)

// Filter restricts a list read to rows where Column Op Value holds.
// Columns are checked against the entity's column whitelist and values are
// always parameterized, never interpolated.
type Filter struct {
	Column string
	Op     string
	Value  any
}

// ListOptions shapes a list read: optional filters, ordering, and paging.
// The zero value lists everything in id order.
type ListOptions struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
	Offset  int
}

// validOps are the comparison operators accepted in filters.
var validOps = map[string]bool{
	"=": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"LIKE": true,
}

// buildList compiles a list read into parameterized SQL.
//
// Every query includes an ORDER BY ending in an id tiebreaker so results are
// deterministic regardless of engine internals.
func buildList(table string, columns []string, allowed map[string]bool, opts ListOptions) (string, []any, error) {
	var sb strings.Builder
	var params []any

	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(table)

	if len(opts.Filters) > 0 {
		sb.WriteString(" WHERE ")
		for i, f := range opts.Filters {
			if !allowed[f.Column] {
				return "", nil, fmt.Errorf("filter column %q not allowed for %s", f.Column, table)
			}
			if !validOps[f.Op] {
				return "", nil, fmt.Errorf("filter operator %q not allowed", f.Op)
			}
			if i > 0 {
				sb.WriteString(" AND ")
			}
			fmt.Fprintf(&sb, "%s %s ?", f.Column, f.Op)
			params = append(params, f.Value)
		}
	}

	sb.WriteString(" ORDER BY ")
	if opts.OrderBy != "" {
		if !allowed[opts.OrderBy] {
			return "", nil, fmt.Errorf("order column %q not allowed for %s", opts.OrderBy, table)
		}
		sb.WriteString(opts.OrderBy)
		if opts.Desc {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
		sb.WriteString(", ")
	}
	sb.WriteString("id ASC")

	if opts.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		params = append(params, opts.Limit)
		if opts.Offset > 0 {
			sb.WriteString(" OFFSET ?")
			params = append(params, opts.Offset)
		}
	}

	return sb.String(), params, nil
}
