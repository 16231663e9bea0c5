// Package audit persists comparison run history into the target database so
// reconciliation results can themselves be queried and trended.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"data-recon/internal/dialect"
	"data-recon/internal/engine"
)

// Recorder writes one row per run into <prefix>_RUNS and one row per pipeline
// step into <prefix>_RESULTS.
type Recorder struct {
	db           *sql.DB
	d            dialect.Dialect
	runsTable    string
	resultsTable string
}

// NewRecorder builds a recorder writing to prefix_RUNS / prefix_RESULTS.
// An empty prefix defaults to RECON.
func NewRecorder(db *sql.DB, d dialect.Dialect, prefix string) *Recorder {
	if prefix == "" {
		prefix = "RECON"
	}
	prefix = strings.ToUpper(prefix)
	return &Recorder{
		db:           db,
		d:            d,
		runsTable:    d.QuoteIdent(prefix + "_RUNS"),
		resultsTable: d.QuoteIdent(prefix + "_RESULTS"),
	}
}

// timestampType picks the column type for run timestamps. TIMESTAMP means
// rowversion on SQL Server, so it gets DATETIME2 instead.
func (r *Recorder) timestampType() string {
	switch r.d.(type) {
	case *dialect.MSSQLDialect:
		return "DATETIME2"
	case *dialect.MysqlDialect:
		return "DATETIME"
	default:
		return "TIMESTAMP"
	}
}

// EnsureTables creates the audit tables when absent.
func (r *Recorder) EnsureTables(ctx context.Context) error {
	ts := r.timestampType()

	runsBody := fmt.Sprintf(`
		RUN_ID VARCHAR(36) NOT NULL,
		RUN_AT %s,
		RUN_STATUS VARCHAR(64),
		TABLE_NAME VARCHAR(255),
		SOURCE_REF VARCHAR(512),
		TARGET_REF VARCHAR(512),
		SAMPLE_SIZE INT,
		JOIN_KEY VARCHAR(255),
		EXCLUDE_COLS VARCHAR(2000),
		GENERATED_BY VARCHAR(255)`, ts)
	if _, err := r.db.ExecContext(ctx, r.d.CreateIfNotExists(r.runsTable, runsBody)); err != nil {
		return fmt.Errorf("create %s: %w", r.runsTable, err)
	}

	resultsBody := fmt.Sprintf(`
		RUN_ID VARCHAR(36) NOT NULL,
		STEP_NAME VARCHAR(64) NOT NULL,
		STEP_STATUS VARCHAR(64),
		ROW_COUNT BIGINT,
		RESULT_DATA VARCHAR(8000),
		EXECUTED_AT %s`, ts)
	if _, err := r.db.ExecContext(ctx, r.d.CreateIfNotExists(r.resultsTable, resultsBody)); err != nil {
		return fmt.Errorf("create %s: %w", r.resultsTable, err)
	}
	return nil
}

// RecordRun persists one completed comparison: the run header plus a result
// row per pipeline artifact (row stats, column stats, orphans, summary).
func (r *Recorder) RecordRun(ctx context.Context, runID, generatedBy string, cfg *engine.Config, res *engine.ComparisonResult) error {
	now := time.Now().UTC()

	runCols := []string{
		"RUN_ID", "RUN_AT", "RUN_STATUS", "TABLE_NAME", "SOURCE_REF",
		"TARGET_REF", "SAMPLE_SIZE", "JOIN_KEY", "EXCLUDE_COLS", "GENERATED_BY",
	}
	_, err := r.db.ExecContext(ctx, r.d.InsertQuery(r.runsTable, runCols),
		runID, now, res.Summary.OverallStatus, cfg.TableName, cfg.SourceRef,
		cfg.TargetRef, cfg.SampleSize, cfg.JoinKey,
		strings.Join(cfg.ExcludeColumns, ","), generatedBy)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", runID, err)
	}

	steps := []struct {
		name    string
		rows    int64
		payload interface{}
	}{
		{"row_level_summary", int64(res.Diff.Sampled), res.Summary.RowStats},
		{"column_match_stats", int64(len(res.Diff.ColumnStats)), res.Diff.ColumnStats},
		{"orphan_keys", int64(res.Orphans.MissingInTargetTotal + res.Orphans.MissingInSourceTotal), res.Orphans},
		{"json_summary", int64(res.Diff.Sampled), res.Summary},
	}

	resultCols := []string{"RUN_ID", "STEP_NAME", "STEP_STATUS", "ROW_COUNT", "RESULT_DATA", "EXECUTED_AT"}
	insert := r.d.InsertQuery(r.resultsTable, resultCols)
	for _, step := range steps {
		data, err := json.Marshal(step.payload)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", step.name, err)
		}
		if _, err := r.db.ExecContext(ctx, insert,
			runID, step.name, res.Summary.OverallStatus, step.rows, string(data), now); err != nil {
			return fmt.Errorf("insert %s result: %w", step.name, err)
		}
	}
	return nil
}
