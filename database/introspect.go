package database

import (
	"context"
	"fmt"

	"stock-ai-analyst/semantic"
)

// columnQuery lists every column of the public schema in ordinal order,
// with a primary-key flag derived from the table constraints.
const columnQuery = `
SELECT c.table_name,
       c.column_name,
       c.data_type,
       c.is_nullable = 'YES' AS nullable,
       COALESCE(pk.is_pk, false) AS is_pk
FROM information_schema.columns c
LEFT JOIN (
    SELECT kcu.table_name, kcu.column_name, true AS is_pk
    FROM information_schema.table_constraints tc
    JOIN information_schema.key_column_usage kcu
        ON tc.constraint_name = kcu.constraint_name
        AND tc.table_schema = kcu.table_schema
    WHERE tc.constraint_type = 'PRIMARY KEY'
        AND tc.table_schema = 'public'
) pk ON c.table_name = pk.table_name AND c.column_name = pk.column_name
WHERE c.table_schema = 'public'
ORDER BY c.table_name, c.ordinal_position`

// DescribeTables returns every public table with its ordered column list.
// Feeds the schema briefing of the generative path.
func (db *DB) DescribeTables(ctx context.Context) (semantic.TableColumns, error) {
	rows, err := db.conn.QueryContext(ctx, columnQuery)
	if err != nil {
		return nil, fmt.Errorf("schema introspection failed: %w", err)
	}
	defer rows.Close()

	tables := make(semantic.TableColumns)
	for rows.Next() {
		var table string
		var col semantic.Column
		if err := rows.Scan(&table, &col.Field, &col.Type, &col.Nullable, &col.PrimaryKey); err != nil {
			return nil, fmt.Errorf("failed to scan column description: %w", err)
		}
		tables[table] = append(tables[table], col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("schema iteration failed: %w", err)
	}

	return tables, nil
}
