package stdlib

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite3" and "pgx" database/sql drivers.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/orangensaft-lang/orangensaft/internal/ast"
	"github.com/orangensaft-lang/orangensaft/internal/value"
)

// tableNamespace builds the table.* object: two tabular-data loaders that
// run a query to completion and return a list[object] Value, directly
// interpolatable into a prompt or bindable to a typed assignment. Neither
// loader keeps a connection open past the call: each acquires its own
// *sql.DB, runs the query, scans every row, and closes it before
// returning (spec.md §5's resource-acquisition model).
func tableNamespace() *value.Object {
	return namespaceObject(map[string]*value.Builtin{
		"sqlite": {
			Name:    "table.sqlite",
			Params_: []value.FuncParam{param("path", stringSchema()), param("query", stringSchema())},
			Ret:     &ast.ListSchema{Elem: &ast.ObjectSchema{}},
			Fn: func(args []value.Value) (value.Value, error) {
				path, err := argString(args, 0, "table.sqlite")
				if err != nil {
					return nil, err
				}
				query, err := argString(args, 1, "table.sqlite")
				if err != nil {
					return nil, err
				}
				return runTableQuery("sqlite3", path, query)
			},
		},
		"postgres": {
			Name:    "table.postgres",
			Params_: []value.FuncParam{param("dsn", stringSchema()), param("query", stringSchema())},
			Ret:     &ast.ListSchema{Elem: &ast.ObjectSchema{}},
			Fn: func(args []value.Value) (value.Value, error) {
				dsn, err := argString(args, 0, "table.postgres")
				if err != nil {
					return nil, err
				}
				query, err := argString(args, 1, "table.postgres")
				if err != nil {
					return nil, err
				}
				return runTableQuery("pgx", dsn, query)
			},
		},
	})
}

func runTableQuery(driver, dsn, query string) (value.Value, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("table: opening %s: %w", driver, err)
	}
	defer db.Close()

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("table: running query: %w", err)
	}
	defer rows.Close()

	records, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("table: scanning rows: %w", err)
	}
	return records, nil
}

// scanRows scans SQL rows into a list[object] Value, one Object per row.
func scanRows(rows *sql.Rows) (*value.List, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var elems []value.Value
	for rows.Next() {
		raw := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		vals := make([]value.Value, len(columns))
		for i, col := range raw {
			vals[i] = sqlToValue(col)
		}
		elems = append(elems, value.NewObject(columns, vals))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &value.List{Elements: elems}, nil
}

// sqlToValue converts a database/sql scanned column (int64, float64,
// bool, []byte/string, time.Time, or nil) into the closest Value kind.
func sqlToValue(col interface{}) value.Value {
	switch v := col.(type) {
	case nil:
		return value.NilValue
	case int64:
		return value.Int(v)
	case float64:
		return value.Float(v)
	case bool:
		return value.Bool(v)
	case []byte:
		return value.String(string(v))
	case string:
		return value.String(v)
	default:
		return value.String(fmt.Sprintf("%v", v))
	}
}
