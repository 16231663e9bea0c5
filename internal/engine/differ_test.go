package engine

import (
	"fmt"
	"reflect"
	"testing"
)

func testConfig() *Config {
	cfg := &Config{
		TableName:  "ORDERS",
		SampleSize: 100,
		JoinKey:    "ID",
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

func row(key string, cols map[string]Value) RowRecord {
	return RowRecord{JoinKey: key, Columns: cols}
}

func TestValuesEqualNullAware(t *testing.T) {
	cases := []struct {
		a, b Value
		want bool
	}{
		{NullValue(), NullValue(), true},
		{NullValue(), StringValue(""), false},
		{StringValue(""), NullValue(), false},
		{StringValue(""), StringValue(""), true},
		{StringValue("a"), StringValue("a"), true},
		{StringValue("a"), StringValue("b"), false},
		{StringValue("1"), StringValue("1.0"), false},
	}
	for i, c := range cases {
		if got := valuesEqual(c.a, c.b, CompareAsStrings); got != c.want {
			t.Errorf("case %d: %v vs %v = %v, expected %v", i, c.a, c.b, got, c.want)
		}
	}
}

func TestValuesEqualNumericAware(t *testing.T) {
	if !valuesEqual(StringValue("1"), StringValue("1.0"), CompareNumericAware) {
		t.Error("1 and 1.0 should compare equal in numeric mode")
	}
	if valuesEqual(StringValue("1"), StringValue("1.5"), CompareNumericAware) {
		t.Error("1 and 1.5 should not compare equal")
	}
	if valuesEqual(StringValue("abc"), StringValue("abd"), CompareNumericAware) {
		t.Error("non-numeric strings must still compare as strings")
	}
	if valuesEqual(NullValue(), StringValue("0"), CompareNumericAware) {
		t.Error("NULL never equals a value")
	}
}

func TestDiffAllMatch(t *testing.T) {
	cols := []string{"NAME", "AMOUNT"}
	source := []RowRecord{
		row("1", map[string]Value{"NAME": StringValue("alice"), "AMOUNT": StringValue("10")}),
		row("2", map[string]Value{"NAME": StringValue("bob"), "AMOUNT": NullValue()}),
	}
	target := []RowRecord{
		row("1", map[string]Value{"NAME": StringValue("alice"), "AMOUNT": StringValue("10")}),
		row("2", map[string]Value{"NAME": StringValue("bob"), "AMOUNT": NullValue()}),
	}

	res := Diff(testConfig(), cols, source, target)

	if res.Sampled != 2 || res.FullyMatched != 2 || res.MissingInTarget != 0 || res.WithDifferences != 0 {
		t.Fatalf("unexpected row stats: %+v", res)
	}
	if len(res.Mismatches) != 0 {
		t.Errorf("expected no mismatch details, got %d", len(res.Mismatches))
	}
	for _, st := range res.ColumnStats {
		if st.MatchPct == nil || *st.MatchPct != 100 {
			t.Errorf("%s: expected 100%% match, got %v", st.Column, st.MatchPct)
		}
	}
}

func TestDiffRowPartition(t *testing.T) {
	cols := []string{"V"}
	source := []RowRecord{
		row("1", map[string]Value{"V": StringValue("x")}), // match
		row("2", map[string]Value{"V": StringValue("y")}), // mismatch
		row("3", map[string]Value{"V": StringValue("z")}), // missing
	}
	target := []RowRecord{
		row("1", map[string]Value{"V": StringValue("x")}),
		row("2", map[string]Value{"V": StringValue("Y")}),
	}

	res := Diff(testConfig(), cols, source, target)

	if res.Sampled != 3 {
		t.Fatalf("expected 3 sampled, got %d", res.Sampled)
	}
	// Every sampled row lands in exactly one bucket.
	if res.FullyMatched+res.WithDifferences+res.MissingInTarget != res.Sampled {
		t.Errorf("buckets do not partition sampled rows: %+v", res)
	}
	if res.FullyMatched != 1 || res.WithDifferences != 1 || res.MissingInTarget != 1 {
		t.Errorf("unexpected partition: %+v", res)
	}
	if res.FoundInTarget != 2 {
		t.Errorf("expected 2 found in target, got %d", res.FoundInTarget)
	}
}

func TestDiffNullKeyRowsSkipped(t *testing.T) {
	cols := []string{"V"}
	source := []RowRecord{
		row("", map[string]Value{"V": StringValue("x")}),
		row("1", map[string]Value{"V": StringValue("x")}),
	}
	target := []RowRecord{
		row("1", map[string]Value{"V": StringValue("x")}),
	}

	res := Diff(testConfig(), cols, source, target)
	if res.NullKeyRows != 1 {
		t.Errorf("expected 1 null-key row, got %d", res.NullKeyRows)
	}
	if res.Sampled != 1 || res.FullyMatched != 1 {
		t.Errorf("null-key row leaked into stats: %+v", res)
	}
}

func TestDiffMatchPctExcludesMissingRows(t *testing.T) {
	cols := []string{"V"}
	source := []RowRecord{
		row("1", map[string]Value{"V": StringValue("x")}),
		row("2", map[string]Value{"V": StringValue("x")}),
		row("3", map[string]Value{"V": StringValue("x")}), // missing from target
	}
	target := []RowRecord{
		row("1", map[string]Value{"V": StringValue("x")}),
		row("2", map[string]Value{"V": StringValue("other")}),
	}

	res := Diff(testConfig(), cols, source, target)
	st := res.ColumnStats[0]
	if st.Total != 3 || st.RowMissing != 1 || st.Matches != 1 || st.Mismatches != 1 {
		t.Fatalf("unexpected column stats: %+v", st)
	}
	// 1 match over 2 rows actually compared.
	if st.MatchPct == nil || *st.MatchPct != 50 {
		t.Errorf("expected 50%%, got %v", st.MatchPct)
	}
}

func TestDiffMatchPctNilWhenAllRowsMissing(t *testing.T) {
	cols := []string{"V"}
	source := []RowRecord{row("1", map[string]Value{"V": StringValue("x")})}

	res := Diff(testConfig(), cols, source, nil)
	if res.ColumnStats[0].MatchPct != nil {
		t.Errorf("expected nil match pct, got %v", *res.ColumnStats[0].MatchPct)
	}
}

func TestDiffMismatchOrderingAndCap(t *testing.T) {
	cfg := testConfig()
	cfg.MismatchLimit = 3

	cols := []string{"B", "A"}
	var source, target []RowRecord
	for i := 0; i < 5; i++ {
		k := fmt.Sprintf("k%d", i)
		source = append(source, row(k, map[string]Value{"A": StringValue("s"), "B": StringValue("s")}))
		target = append(target, row(k, map[string]Value{"A": StringValue("t"), "B": StringValue("t")}))
	}

	res := Diff(cfg, cols, source, target)
	if res.MismatchTotal != 10 {
		t.Fatalf("expected 10 total mismatches, got %d", res.MismatchTotal)
	}
	if len(res.Mismatches) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(res.Mismatches))
	}
	// Ordered by column name then key, so column A fills the cap first.
	want := []string{"k0", "k1", "k2"}
	for i, m := range res.Mismatches {
		if m.Column != "A" || m.JoinKey != want[i] {
			t.Errorf("detail %d: expected A/%s, got %s/%s", i, want[i], m.Column, m.JoinKey)
		}
	}
}

func TestDiffIdempotent(t *testing.T) {
	cols := []string{"V", "W"}
	source := []RowRecord{
		row("1", map[string]Value{"V": StringValue("x"), "W": NullValue()}),
		row("2", map[string]Value{"V": StringValue("y"), "W": StringValue("2")}),
		row("3", map[string]Value{"V": StringValue("z"), "W": StringValue("3")}),
	}
	target := []RowRecord{
		row("1", map[string]Value{"V": StringValue("x"), "W": StringValue("")}),
		row("2", map[string]Value{"V": StringValue("y"), "W": StringValue("2")}),
	}

	first := Diff(testConfig(), cols, source, target)
	second := Diff(testConfig(), cols, source, target)
	if !reflect.DeepEqual(first, second) {
		t.Error("same inputs must produce identical results")
	}
}

func TestDiffDuplicateTargetKeysLastWins(t *testing.T) {
	cols := []string{"V"}
	source := []RowRecord{row("1", map[string]Value{"V": StringValue("new")})}
	target := []RowRecord{
		row("1", map[string]Value{"V": StringValue("old")}),
		row("1", map[string]Value{"V": StringValue("new")}),
	}

	res := Diff(testConfig(), cols, source, target)
	if res.FullyMatched != 1 {
		t.Errorf("expected last duplicate to win: %+v", res)
	}
}
