package dialect

import (
	"fmt"
	"strings"
)

type MysqlDialect struct{}

func (d *MysqlDialect) GetColumnsQuery(database string) string {
	// MySQL schemas and databases are the same thing; the schema argument
	// carries the database name.
	return `SELECT COLUMN_NAME, DATA_TYPE, ORDINAL_POSITION FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`
}

func (d *MysqlDialect) QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d *MysqlDialect) QualifyTable(database, schema, table string) string {
	if schema == "" {
		schema = database
	}
	if schema == "" {
		return d.QuoteIdent(table)
	}
	return d.QuoteIdent(schema) + "." + d.QuoteIdent(table)
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) SampleQuery(table string, cols []string, limit int) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY RAND() LIMIT %d",
		QuoteList(cols, d.QuoteIdent), table, limit)
}

func (d *MysqlDialect) SelectAllQuery(table string, cols []string) string {
	return fmt.Sprintf("SELECT %s FROM %s", QuoteList(cols, d.QuoteIdent), table)
}

func (d *MysqlDialect) CountQuery(table, watermarkCol string) string {
	if watermarkCol == "" {
		return fmt.Sprintf("SELECT COUNT(*), NULL FROM %s", table)
	}
	return fmt.Sprintf("SELECT COUNT(*), MAX(%s) FROM %s", d.QuoteIdent(watermarkCol), table)
}

func (d *MysqlDialect) InsertQuery(table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, QuoteList(cols, d.QuoteIdent), vals)
}

func (d *MysqlDialect) CreateIfNotExists(table, body string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, body)
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}
