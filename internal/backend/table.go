package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"data-recon/internal/dialect"
	"data-recon/internal/engine"
	"data-recon/internal/schema"
)

// TableRef names one physical table. Database and Schema may be empty when
// the connection or dialect defaults apply.
type TableRef struct {
	Database string
	Schema   string
	Table    string
}

func (r TableRef) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.Database, r.Schema, r.Table} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

// Table reads one physical table through database/sql, generating SQL via the
// connection's dialect. It implements engine.TableReader.
type Table struct {
	db  *sql.DB
	d   dialect.Dialect
	ref TableRef
	fq  string
}

var _ engine.TableReader = (*Table)(nil)

func NewTable(db *sql.DB, d dialect.Dialect, ref TableRef) *Table {
	return &Table{
		db:  db,
		d:   d,
		ref: ref,
		fq:  d.QualifyTable(ref.Database, ref.Schema, ref.Table),
	}
}

// FQ returns the dialect-quoted fully-qualified table name.
func (t *Table) FQ() string {
	return t.fq
}

func (t *Table) Ref() TableRef {
	return t.ref
}

// Connect opens and verifies a database connection.
func Connect(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s connection: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s connection: %w", driver, err)
	}
	return db, nil
}

func (t *Table) Columns(ctx context.Context) ([]schema.Column, error) {
	// MySQL treats database and schema as the same namespace; fall back to
	// the database name when no schema is configured.
	schemaArg := t.ref.Schema
	if schemaArg == "" {
		schemaArg = t.ref.Database
	}
	query := t.d.GetColumnsQuery(t.ref.Database)
	rows, err := t.db.QueryContext(ctx, query, t.d.GetSchemaName(schemaArg), t.ref.Table)
	if err != nil {
		return nil, t.wrapErr("column catalog", err)
	}
	defer rows.Close()

	var cols []schema.Column
	position := 0
	for rows.Next() {
		var name string
		var dataType sql.NullString
		var ordinal sql.NullInt64
		if err := rows.Scan(&name, &dataType, &ordinal); err != nil {
			return nil, t.wrapErr("column catalog", err)
		}
		position++
		c := schema.Column{
			Name:     name,
			DataType: t.d.NormalizeType(dataType.String),
			Ordinal:  position,
		}
		if ordinal.Valid {
			c.Ordinal = int(ordinal.Int64)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, t.wrapErr("column catalog", err)
	}
	return cols, nil
}

func (t *Table) SampleRows(ctx context.Context, keyCol string, cols []string, limit int) ([]engine.RowRecord, int, error) {
	query := t.d.SampleQuery(t.fq, append([]string{keyCol}, cols...), limit)
	return t.readRecords(ctx, "row sample", query, cols)
}

func (t *Table) AllRows(ctx context.Context, keyCol string, cols []string) ([]engine.RowRecord, int, error) {
	query := t.d.SelectAllQuery(t.fq, append([]string{keyCol}, cols...))
	return t.readRecords(ctx, "full scan", query, cols)
}

func (t *Table) SampleKeys(ctx context.Context, keyCol string, limit int) ([]string, error) {
	return t.readKeys(ctx, "key sample", t.d.SampleQuery(t.fq, []string{keyCol}, limit))
}

func (t *Table) AllKeys(ctx context.Context, keyCol string) ([]string, error) {
	return t.readKeys(ctx, "key scan", t.d.SelectAllQuery(t.fq, []string{keyCol}))
}

func (t *Table) CountAndWatermark(ctx context.Context, watermarkCol string) (int64, engine.Value, error) {
	var count int64
	var watermark interface{}
	err := t.db.QueryRowContext(ctx, t.d.CountQuery(t.fq, watermarkCol)).Scan(&count, &watermark)
	if err != nil {
		return 0, engine.NullValue(), t.wrapErr("row count", err)
	}
	return count, coerceValue(watermark), nil
}

// readRecords scans a (key, cols...) projection into flattened row records.
// Rows whose key is NULL or empty cannot be correlated and are counted
// instead of kept.
func (t *Table) readRecords(ctx context.Context, stage, query string, cols []string) ([]engine.RowRecord, int, error) {
	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, t.wrapErr(stage, err)
	}
	defer rows.Close()

	var records []engine.RowRecord
	nullKeys := 0
	for rows.Next() {
		raw := make([]interface{}, len(cols)+1)
		dest := make([]interface{}, len(raw))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, t.wrapErr(stage, err)
		}

		key := coerceValue(raw[0])
		if key.Null || key.Str == "" {
			nullKeys++
			continue
		}
		rec := engine.RowRecord{
			JoinKey: key.Str,
			Columns: make(map[string]engine.Value, len(cols)),
		}
		for i, col := range cols {
			rec.Columns[strings.ToUpper(col)] = coerceValue(raw[i+1])
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, t.wrapErr(stage, err)
	}
	return records, nullKeys, nil
}

func (t *Table) readKeys(ctx context.Context, stage, query string) ([]string, error) {
	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return nil, t.wrapErr(stage, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var raw interface{}
		if err := rows.Scan(&raw); err != nil {
			return nil, t.wrapErr(stage, err)
		}
		v := coerceValue(raw)
		if v.Null || v.Str == "" {
			continue
		}
		keys = append(keys, v.Str)
	}
	if err := rows.Err(); err != nil {
		return nil, t.wrapErr(stage, err)
	}
	return keys, nil
}

func (t *Table) wrapErr(stage string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s during %s", ErrQueryTimeout, t.fq, stage)
	}
	return &QueryError{Table: t.fq, Stage: stage, Err: err}
}

// coerceValue stringifies one driver value. Join keys and cells share this
// rule so both sides of a comparison normalize identically: byte slices
// become strings, timestamps format as RFC 3339 in UTC, NULL stays NULL.
func coerceValue(v interface{}) engine.Value {
	switch x := v.(type) {
	case nil:
		return engine.NullValue()
	case []byte:
		return engine.StringValue(string(x))
	case string:
		return engine.StringValue(x)
	case time.Time:
		return engine.StringValue(x.UTC().Format(time.RFC3339Nano))
	case bool:
		if x {
			return engine.StringValue("true")
		}
		return engine.StringValue("false")
	default:
		return engine.StringValue(fmt.Sprintf("%v", x))
	}
}
