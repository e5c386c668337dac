package postgres

import (
	"context"
	"fmt"
	"strings"
)

// NamedGet runs a named query expecting a single row.
func NamedGet(ctx context.Context, ex Executor, dest interface{}, query string, args map[string]interface{}) error {
	nstmt, err := ex.PrepareNamedContext(ctx, query)
	if err != nil {
		return err
	}
	defer nstmt.Close()
	return nstmt.GetContext(ctx, dest, args)
}

// NamedSelect runs a named query into a slice.
func NamedSelect(ctx context.Context, ex Executor, dest interface{}, query string, args map[string]interface{}) error {
	nstmt, err := ex.PrepareNamedContext(ctx, query)
	if err != nil {
		return err
	}
	defer nstmt.Close()
	return nstmt.SelectContext(ctx, dest, args)
}

// Where joins conditions with AND. It returns an empty string for no conditions.
func Where(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

// LimitOffset renders the paging clause. pageSize <= 0 means unpaged.
func LimitOffset(page, pageSize int) string {
	if pageSize <= 0 {
		return ""
	}
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)
}
