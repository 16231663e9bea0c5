package dialect

import (
	"fmt"
	"strings"
)

type OracleDialect struct{}

func (d *OracleDialect) GetColumnsQuery(database string) string {
	// Oracle has no database level above schemas; the owner is the schema.
	// COLUMN_ID is Oracle's ordinal position.
	return `SELECT COLUMN_NAME, DATA_TYPE, COLUMN_ID FROM ALL_TAB_COLUMNS WHERE OWNER = :1 AND TABLE_NAME = :2 ORDER BY COLUMN_ID`
}

func (d *OracleDialect) QuoteIdent(name string) string {
	// Unquoted Oracle identifiers fold to uppercase; quote the folded form so
	// catalogs created without quotes keep resolving.
	return `"` + strings.ReplaceAll(strings.ToUpper(name), `"`, `""`) + `"`
}

func (d *OracleDialect) QualifyTable(database, schema, table string) string {
	if schema == "" {
		return d.QuoteIdent(table)
	}
	return d.QuoteIdent(schema) + "." + d.QuoteIdent(table)
}

func (d *OracleDialect) Placeholder(index int) string {
	return fmt.Sprintf(":%d", index+1)
}

func (d *OracleDialect) SampleQuery(table string, cols []string, limit int) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY DBMS_RANDOM.VALUE FETCH FIRST %d ROWS ONLY",
		QuoteList(cols, d.QuoteIdent), table, limit)
}

func (d *OracleDialect) SelectAllQuery(table string, cols []string) string {
	return fmt.Sprintf("SELECT %s FROM %s", QuoteList(cols, d.QuoteIdent), table)
}

func (d *OracleDialect) CountQuery(table, watermarkCol string) string {
	if watermarkCol == "" {
		return fmt.Sprintf("SELECT COUNT(*), NULL FROM %s", table)
	}
	return fmt.Sprintf("SELECT COUNT(*), MAX(%s) FROM %s", d.QuoteIdent(watermarkCol), table)
}

func (d *OracleDialect) InsertQuery(table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, QuoteList(cols, d.QuoteIdent), vals)
}

func (d *OracleDialect) CreateIfNotExists(table, body string) string {
	// ORA-00955: name is already used by an existing object.
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", table, body)
	return fmt.Sprintf(
		"BEGIN EXECUTE IMMEDIATE '%s'; EXCEPTION WHEN OTHERS THEN IF SQLCODE != -955 THEN RAISE; END IF; END;",
		strings.ReplaceAll(ddl, "'", "''"))
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch t {
	case "varchar2", "nvarchar2":
		return "varchar"
	case "number":
		return "decimal"
	default:
		return t
	}
}

func (d *OracleDialect) GetSchemaName(input string) string {
	return strings.ToUpper(DefaultGetSchemaName(input))
}
