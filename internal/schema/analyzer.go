package schema

import (
	"context"
	"database/sql"
	"fmt"

	"pg-typemap/internal/dialect"
)

// Introspect reads enum types and vector column usage from a live database.
//
// Names are unqualified and enums without labels are dropped, as in Scanner.Scan.
func Introspect(ctx context.Context, db *sql.DB, d dialect.Dialect, schemaName string) (*ScanResult, error) {
	// [Interface-First]: Delegate schema resolution to the dialect
	target := d.GetSchemaName(schemaName)

	result := &ScanResult{}

	// --- Step 1: Fetch Enum Labels ---
	rows, err := db.QueryContext(ctx, d.GetEnumsQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query enum types: %w", err)
	}
	defer rows.Close()

	// Keep first-seen order; index into result.Enums by type name.
	index := make(map[string]int)
	seen := make(map[string]map[string]bool)

	for rows.Next() {
		var typeName, spec sql.NullString
		if err := rows.Scan(&typeName, &spec); err != nil {
			return nil, fmt.Errorf("failed to scan enum type: %w", err)
		}
		if !typeName.Valid || !spec.Valid {
			continue // Skip invalid rows
		}

		name := CleanTypeName(d.NormalizeType(typeName.String))
		if name == "" {
			continue
		}

		for _, label := range d.SplitEnumLabels(spec.String) {
			if label == "" || seen[name][label] {
				continue
			}

			pos, ok := index[name]
			if !ok {
				pos = len(result.Enums)
				index[name] = pos
				seen[name] = make(map[string]bool)
				result.Enums = append(result.Enums, EnumType{Name: name})
			}
			seen[name][label] = true
			result.Enums[pos].Values = append(result.Enums[pos].Values, label)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enum types: %w", err)
	}

	// --- Step 2: Detect Vector Columns ---
	var vectorColumns int
	if err := db.QueryRowContext(ctx, d.GetVectorColumnsQuery(target), target).Scan(&vectorColumns); err != nil {
		return nil, fmt.Errorf("failed to query vector columns: %w", err)
	}
	result.UsesVector = vectorColumns > 0

	return result, nil
}
