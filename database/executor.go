package database

import (
	"context"
	"fmt"

	"stock-ai-analyst/semantic"
)

// Execute runs an arbitrary query string and scans the result set into
// named-field rows. The query carries its own row limit; nothing is
// truncated or altered here.
func (db *DB) Execute(ctx context.Context, query string) ([]semantic.Row, error) {
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	results := make([]semantic.Row, 0)
	values := make([]interface{}, len(columns))
	scanTargets := make([]interface{}, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(semantic.Row, len(columns))
		for i, col := range columns {
			// lib/pq hands text columns back as []byte
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("result iteration failed: %w", err)
	}

	return results, nil
}
