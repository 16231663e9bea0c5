package dialect

import (
	"fmt"
	"strings"
)

type MSSQLDialect struct{}

// Helper: MSSQL Driver (go-mssqldb) often prefers @p1, @p2 named parameters over ?
// especially when prepared statements are involved or simple Exec.

func (d *MSSQLDialect) GetColumnsQuery(database string) string {
	// SQL Server supports cross-database catalog reads by prefixing the
	// INFORMATION_SCHEMA view with the database name.
	prefix := ""
	if database != "" {
		prefix = d.QuoteIdent(database) + "."
	}
	return fmt.Sprintf(`SELECT COLUMN_NAME, DATA_TYPE, ORDINAL_POSITION FROM %sINFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2 ORDER BY ORDINAL_POSITION`, prefix)
}

func (d *MSSQLDialect) QuoteIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (d *MSSQLDialect) QualifyTable(database, schema, table string) string {
	if schema == "" {
		schema = "dbo"
	}
	if database == "" {
		return d.QuoteIdent(schema) + "." + d.QuoteIdent(table)
	}
	return d.QuoteIdent(database) + "." + d.QuoteIdent(schema) + "." + d.QuoteIdent(table)
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) SampleQuery(table string, cols []string, limit int) string {
	return fmt.Sprintf("SELECT TOP %d %s FROM %s ORDER BY NEWID()",
		limit, QuoteList(cols, d.QuoteIdent), table)
}

func (d *MSSQLDialect) SelectAllQuery(table string, cols []string) string {
	return fmt.Sprintf("SELECT %s FROM %s", QuoteList(cols, d.QuoteIdent), table)
}

func (d *MSSQLDialect) CountQuery(table, watermarkCol string) string {
	if watermarkCol == "" {
		return fmt.Sprintf("SELECT COUNT_BIG(*), NULL FROM %s", table)
	}
	return fmt.Sprintf("SELECT COUNT_BIG(*), MAX(%s) FROM %s", d.QuoteIdent(watermarkCol), table)
}

func (d *MSSQLDialect) InsertQuery(table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, QuoteList(cols, d.QuoteIdent), vals)
}

func (d *MSSQLDialect) CreateIfNotExists(table, body string) string {
	// T-SQL has no CREATE TABLE IF NOT EXISTS; guard with OBJECT_ID.
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (%s)",
		strings.ReplaceAll(table, "'", "''"), table, body)
}

func (d *MSSQLDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}
