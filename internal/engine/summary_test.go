package engine

import (
	"encoding/json"
	"testing"
)

// Scenario: identical tables sample-match completely.
func TestSummaryPass(t *testing.T) {
	cols := []string{"V"}
	rows := []RowRecord{
		row("1", map[string]Value{"V": StringValue("a")}),
		row("2", map[string]Value{"V": StringValue("b")}),
	}
	cfg := testConfig()
	s := BuildSummary(cfg, Diff(cfg, cols, rows, rows))

	if s.OverallStatus != StatusPass {
		t.Fatalf("expected %q, got %q", StatusPass, s.OverallStatus)
	}
	if !s.Passed() || s.Reason() != "" {
		t.Error("pass verdict should have no failure reason")
	}
	if s.RowStats.MatchPct == nil || *s.RowStats.MatchPct != 100 {
		t.Errorf("expected 100%% row match, got %v", s.RowStats.MatchPct)
	}
}

// Scenario: one value drifted in the target.
func TestSummaryDataMismatch(t *testing.T) {
	cols := []string{"V"}
	source := []RowRecord{row("1", map[string]Value{"V": StringValue("a")})}
	target := []RowRecord{row("1", map[string]Value{"V": StringValue("A")})}

	cfg := testConfig()
	s := BuildSummary(cfg, Diff(cfg, cols, source, target))

	if s.OverallStatus != StatusMismatches {
		t.Fatalf("expected %q, got %q", StatusMismatches, s.OverallStatus)
	}
	if s.Reason() != "DATA_MISMATCHES" {
		t.Errorf("unexpected reason %q", s.Reason())
	}
	if len(s.ColumnMismatch) != 1 || s.ColumnMismatch[0].Column != "V" || s.ColumnMismatch[0].Mismatches != 1 {
		t.Errorf("unexpected column mismatch list: %+v", s.ColumnMismatch)
	}
}

// Scenario: target lost rows. Missing rows outrank cell mismatches.
func TestSummaryMissingRowsOutrankMismatches(t *testing.T) {
	cols := []string{"V"}
	source := []RowRecord{
		row("1", map[string]Value{"V": StringValue("a")}),
		row("2", map[string]Value{"V": StringValue("b")}),
	}
	target := []RowRecord{row("1", map[string]Value{"V": StringValue("wrong")})}

	cfg := testConfig()
	s := BuildSummary(cfg, Diff(cfg, cols, source, target))

	if s.OverallStatus != StatusMissing {
		t.Fatalf("expected %q, got %q", StatusMissing, s.OverallStatus)
	}
	if s.Reason() != "MISSING_ROWS" {
		t.Errorf("unexpected reason %q", s.Reason())
	}
}

func TestSummaryEmptySample(t *testing.T) {
	cfg := testConfig()
	s := BuildSummary(cfg, Diff(cfg, []string{"V"}, nil, nil))

	if s.OverallStatus != StatusPassNoData {
		t.Fatalf("expected %q, got %q", StatusPassNoData, s.OverallStatus)
	}
	if !s.Passed() {
		t.Error("empty sample is a pass")
	}
	if s.RowStats.MatchPct != nil {
		t.Error("match_pct must be null with nothing found")
	}
	if s.ColumnsCompared != 0 {
		t.Errorf("expected 0 columns compared, got %d", s.ColumnsCompared)
	}
}

func TestSummaryColumnMismatchesSorted(t *testing.T) {
	cols := []string{"A", "B", "C"}
	var source, target []RowRecord
	// B drifts on 2 rows, A and C on 1 each.
	for _, k := range []string{"1", "2"} {
		source = append(source, row(k, map[string]Value{
			"A": StringValue("a"), "B": StringValue("b"), "C": StringValue("c"),
		}))
	}
	target = append(target, row("1", map[string]Value{
		"A": StringValue("x"), "B": StringValue("x"), "C": StringValue("c"),
	}))
	target = append(target, row("2", map[string]Value{
		"A": StringValue("a"), "B": StringValue("x"), "C": StringValue("x"),
	}))

	cfg := testConfig()
	s := BuildSummary(cfg, Diff(cfg, cols, source, target))

	if len(s.ColumnMismatch) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(s.ColumnMismatch))
	}
	if s.ColumnMismatch[0].Column != "B" || s.ColumnMismatch[0].Mismatches != 2 {
		t.Errorf("expected B first with 2 mismatches, got %+v", s.ColumnMismatch[0])
	}
	// Ties break alphabetically.
	if s.ColumnMismatch[1].Column != "A" || s.ColumnMismatch[2].Column != "C" {
		t.Errorf("tie order wrong: %+v", s.ColumnMismatch)
	}
}

func TestSummaryJSONFieldNames(t *testing.T) {
	cfg := testConfig()
	cfg.SourceRef = "src.public.orders"
	cfg.TargetRef = "tgt.public.orders"
	s := BuildSummary(cfg, Diff(cfg, []string{"V"},
		[]RowRecord{row("1", map[string]Value{"V": StringValue("a")})},
		[]RowRecord{row("1", map[string]Value{"V": StringValue("a")})},
	))

	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}

	for _, field := range []string{
		"table_name", "comparison_type", "source", "target", "sample_size",
		"columns_compared", "overall_status", "row_stats", "column_mismatches",
	} {
		if _, ok := doc[field]; !ok {
			t.Errorf("summary JSON missing field %q", field)
		}
	}
	rowStats, ok := doc["row_stats"].(map[string]interface{})
	if !ok {
		t.Fatal("row_stats is not an object")
	}
	for _, field := range []string{
		"sampled", "found_in_target", "missing_in_target",
		"fully_matched", "with_differences", "match_pct",
	} {
		if _, ok := rowStats[field]; !ok {
			t.Errorf("row_stats missing field %q", field)
		}
	}
}
