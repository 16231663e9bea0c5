package engine

import (
	"context"
	"errors"
	"testing"

	"data-recon/internal/schema"
)

// fakeReader serves canned data for orchestration tests.
type fakeReader struct {
	cols       []schema.Column
	sampleRows []RowRecord
	allRows    []RowRecord
	sampleKeys []string
	allKeys    []string
	nullKeys   int
	count      int64
	watermark  Value
	err        error

	sampleKeyCalls int
	allKeyCalls    int
}

func (f *fakeReader) Columns(ctx context.Context) ([]schema.Column, error) {
	return f.cols, f.err
}

func (f *fakeReader) SampleRows(ctx context.Context, keyCol string, cols []string, limit int) ([]RowRecord, int, error) {
	return f.sampleRows, f.nullKeys, f.err
}

func (f *fakeReader) AllRows(ctx context.Context, keyCol string, cols []string) ([]RowRecord, int, error) {
	return f.allRows, f.nullKeys, f.err
}

func (f *fakeReader) SampleKeys(ctx context.Context, keyCol string, limit int) ([]string, error) {
	f.sampleKeyCalls++
	return f.sampleKeys, f.err
}

func (f *fakeReader) AllKeys(ctx context.Context, keyCol string) ([]string, error) {
	f.allKeyCalls++
	return f.allKeys, f.err
}

func (f *fakeReader) CountAndWatermark(ctx context.Context, watermarkCol string) (int64, Value, error) {
	return f.count, f.watermark, f.err
}

func catalog() []schema.Column {
	return []schema.Column{
		{Name: "id", DataType: "int", Ordinal: 1},
		{Name: "v", DataType: "varchar", Ordinal: 2},
	}
}

func TestRunEndToEnd(t *testing.T) {
	rows := []RowRecord{
		row("1", map[string]Value{"V": StringValue("a")}),
		row("2", map[string]Value{"V": StringValue("b")}),
	}
	source := &fakeReader{
		cols: catalog(), sampleRows: rows, allRows: rows,
		allKeys: []string{"1", "2"}, count: 2,
	}
	target := &fakeReader{
		cols: catalog(), allRows: rows,
		sampleKeys: []string{"1", "2"}, allKeys: []string{"1", "2"}, count: 2,
	}

	cfg := &Config{TableName: "T", SampleSize: 10, JoinKey: "id", Sampling: DefaultSampling()}

	var stages []string
	res, err := Run(context.Background(), cfg, source, target, func(s string) {
		stages = append(stages, s)
	})
	if err != nil {
		t.Fatal(err)
	}

	if res.Summary.OverallStatus != StatusPass {
		t.Errorf("expected pass, got %q", res.Summary.OverallStatus)
	}
	if res.Totals.SourceRows != 2 || res.Totals.TargetRows != 2 {
		t.Errorf("unexpected totals: %+v", res.Totals)
	}
	if len(res.Columns) != 1 || res.Columns[0] != "V" {
		t.Errorf("unexpected compare columns: %v", res.Columns)
	}
	if res.Orphans.MissingInTargetTotal != 0 || res.Orphans.MissingInSourceTotal != 0 {
		t.Errorf("unexpected orphans: %+v", res.Orphans)
	}
	if len(stages) != 6 {
		t.Errorf("expected 6 progress stages, got %v", stages)
	}
}

func TestRunRejectsMissingJoinKey(t *testing.T) {
	source := &fakeReader{cols: catalog()}
	target := &fakeReader{cols: []schema.Column{{Name: "v", DataType: "varchar", Ordinal: 1}}}

	cfg := &Config{TableName: "T", SampleSize: 10, JoinKey: "id"}
	_, err := Run(context.Background(), cfg, source, target, nil)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	cfg := &Config{TableName: "T", SampleSize: 0, JoinKey: "id"}
	_, err := Run(context.Background(), cfg, &fakeReader{}, &fakeReader{}, nil)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRunPropagatesReaderErrors(t *testing.T) {
	boom := errors.New("connection reset")
	source := &fakeReader{err: boom}
	cfg := &Config{TableName: "T", SampleSize: 10, JoinKey: "id"}

	_, err := Run(context.Background(), cfg, source, &fakeReader{cols: catalog()}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped reader error, got %v", err)
	}
}

// Excluding a volatile column keeps it out of the comparison entirely.
func TestRunExcludedColumnDriftPasses(t *testing.T) {
	cols := []schema.Column{
		{Name: "id", DataType: "int", Ordinal: 1},
		{Name: "v", DataType: "varchar", Ordinal: 2},
		{Name: "load_ts", DataType: "timestamp", Ordinal: 3},
	}
	srcRows := []RowRecord{row("1", map[string]Value{
		"V": StringValue("a"), "LOAD_TS": StringValue("2024-01-01T00:00:00Z"),
	})}
	tgtRows := []RowRecord{row("1", map[string]Value{
		"V": StringValue("a"), "LOAD_TS": StringValue("2024-02-02T00:00:00Z"),
	})}
	source := &fakeReader{cols: cols, sampleRows: srcRows, allRows: srcRows, allKeys: []string{"1"}, count: 1}
	target := &fakeReader{cols: cols, allRows: tgtRows, sampleKeys: []string{"1"}, allKeys: []string{"1"}, count: 1}

	cfg := &Config{
		TableName: "T", SampleSize: 10, JoinKey: "id",
		ExcludeColumns: []string{"load_ts"},
		Sampling:       DefaultSampling(),
	}
	res, err := Run(context.Background(), cfg, source, target, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.OverallStatus != StatusPass {
		t.Errorf("drift in an excluded column must not fail: %q", res.Summary.OverallStatus)
	}
	if len(res.Columns) != 1 || res.Columns[0] != "V" {
		t.Errorf("excluded column leaked into compare set: %v", res.Columns)
	}
}

func TestRunSamplingPolicyUnsampledTarget(t *testing.T) {
	rows := []RowRecord{row("1", map[string]Value{"V": StringValue("a")})}
	source := &fakeReader{cols: catalog(), sampleRows: rows, allRows: rows, allKeys: []string{"1"}, count: 1}
	target := &fakeReader{cols: catalog(), allRows: rows, sampleKeys: []string{"1"}, allKeys: []string{"1"}, count: 1}

	cfg := &Config{
		TableName: "T", SampleSize: 10, JoinKey: "id",
		Sampling: SamplingPolicy{SampleSourceKeys: true, SampleTargetKeys: false},
	}
	if _, err := Run(context.Background(), cfg, source, target, nil); err != nil {
		t.Fatal(err)
	}
	if target.sampleKeyCalls != 0 {
		t.Error("unsampled target policy must not sample target keys")
	}
}
