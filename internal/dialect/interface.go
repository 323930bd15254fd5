package dialect

// Dialect abstracts database-specific catalog queries used for type introspection.
type Dialect interface {
	// Name returns the database/sql driver name.
	Name() string

	// Metadata Queries (Type Introspection)
	// GetEnumsQuery returns rows of (type name, label spec) for the schema bound to
	// the first placeholder.
	GetEnumsQuery(schema string) string
	// GetVectorColumnsQuery returns a single count of vector-typed columns.
	GetVectorColumnsQuery(schema string) string

	// Helpers
	SplitEnumLabels(spec string) []string
	NormalizeType(sqlType string) string
	GetSchemaName(input string) string
}
