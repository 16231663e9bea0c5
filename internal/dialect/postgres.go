package dialect

import (
	"fmt"
	"strings"
)

type PostgresDialect struct{}

func (d *PostgresDialect) GetColumnsQuery(database string) string {
	// Cross-database catalog reads are not possible on Postgres; the connection's
	// database is authoritative, so the database argument is ignored.
	return `SELECT column_name, data_type, ordinal_position
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position`
}

func (d *PostgresDialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (d *PostgresDialect) QualifyTable(database, schema, table string) string {
	if schema == "" {
		schema = "public"
	}
	return d.QuoteIdent(schema) + "." + d.QuoteIdent(table)
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) SampleQuery(table string, cols []string, limit int) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY random() LIMIT %d",
		QuoteList(cols, d.QuoteIdent), table, limit)
}

func (d *PostgresDialect) SelectAllQuery(table string, cols []string) string {
	return fmt.Sprintf("SELECT %s FROM %s", QuoteList(cols, d.QuoteIdent), table)
}

func (d *PostgresDialect) CountQuery(table, watermarkCol string) string {
	if watermarkCol == "" {
		return fmt.Sprintf("SELECT COUNT(*), NULL FROM %s", table)
	}
	return fmt.Sprintf("SELECT COUNT(*), MAX(%s) FROM %s", d.QuoteIdent(watermarkCol), table)
}

func (d *PostgresDialect) InsertQuery(table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, QuoteList(cols, d.QuoteIdent), vals)
}

func (d *PostgresDialect) CreateIfNotExists(table, body string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, body)
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch t {
	case "int4", "int2":
		return "int"
	case "int8":
		return "bigint"
	case "float4":
		return "float"
	case "float8":
		return "double"
	case "bpchar":
		return "char"
	case "character varying":
		return "varchar"
	default:
		return t
	}
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}
