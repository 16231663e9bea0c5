package dialect

// Dialect abstracts database-specific SQL generation for reconciliation runs.
type Dialect interface {
	// Metadata Queries (Schema Introspection)
	// Binds two args: schema (owner) and table name.
	// Returns rows of (column_name, data_type, ordinal_position).
	GetColumnsQuery(database string) string

	// Query Generation
	QuoteIdent(name string) string
	QualifyTable(database, schema, table string) string
	Placeholder(index int) string // Returns ?, $1, @p1, :1 etc.

	// SampleQuery draws a bounded random sample. Non-deterministic across runs
	// unless the backend supports seeded sampling.
	SampleQuery(table string, cols []string, limit int) string
	SelectAllQuery(table string, cols []string) string

	// CountQuery returns (row_count, max(watermarkCol)). watermarkCol may be
	// empty, in which case the second column is NULL.
	CountQuery(table, watermarkCol string) string

	InsertQuery(table string, cols []string) string
	CreateIfNotExists(table, body string) string

	// Helpers
	NormalizeType(sqlType string) string
	GetSchemaName(input string) string
}
