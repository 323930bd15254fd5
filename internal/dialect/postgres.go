package dialect

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string {
	return "postgres"
}

func (d *PostgresDialect) GetEnumsQuery(schema string) string {
	// One row per label; enumsortorder keeps declaration order.
	return `SELECT t.typname, e.enumlabel
FROM pg_type t
JOIN pg_enum e ON t.oid = e.enumtypid
JOIN pg_namespace n ON t.typnamespace = n.oid
WHERE n.nspname = $1
ORDER BY t.typname, e.enumsortorder`
}

func (d *PostgresDialect) GetVectorColumnsQuery(schema string) string {
	// pgvector columns report data_type USER-DEFINED and udt_name vector.
	return `SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = $1 AND udt_name = 'vector'`
}

// SplitEnumLabels returns the label as is, since pg_enum yields one label per row.
func (d *PostgresDialect) SplitEnumLabels(spec string) []string {
	if spec == "" {
		return nil
	}
	return []string{spec}
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	return sqlType
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}
