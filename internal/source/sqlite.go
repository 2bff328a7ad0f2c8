package source

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"

	_ "modernc.org/sqlite"
)

var identRe = regexp.MustCompile(`^[A-Za-z0-9_ ]+$`)

// SQLiteSnapshot reads the row set from a table in a SQLite snapshot file.
// Column names become the headers. Read-only: nothing here writes.
type SQLiteSnapshot struct {
	Path  string
	Table string
}

func (s SQLiteSnapshot) Name() string { return "sqlite:" + s.Path }

func (s SQLiteSnapshot) Fetch(ctx context.Context) ([]RawRow, error) {
	if !identRe.MatchString(s.Table) {
		return nil, fmt.Errorf("invalid table name %q", s.Table)
	}

	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, s.Table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if err := validateHeaders(headers); err != nil {
		return nil, err
	}

	var out []RawRow
	values := make([]any, len(headers))
	ptrs := make([]any, len(headers))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(RawRow, len(headers))
		for i, h := range headers {
			row[h] = cellString(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}
