package engine

import (
	"context"
	"fmt"

	"data-recon/internal/schema"
)

// TableTotals carries the per-side row counts and optional high watermarks.
type TableTotals struct {
	SourceRows      int64
	TargetRows      int64
	SourceWatermark Value
	TargetWatermark Value
}

// ComparisonResult bundles everything one run produced.
type ComparisonResult struct {
	Inventory []*schema.ColumnSpec
	Columns   []string // upper-cased compare columns, inventory order
	Totals    TableTotals
	Diff      *DiffResult
	Orphans   *OrphanResult
	Summary   *Summary
}

// Run executes the full comparison pipeline: catalog inventory, row counts,
// sampled row diff, bidirectional orphan check, summary. onProgress, if
// non-nil, is called once per completed stage with a short label.
func Run(ctx context.Context, cfg *Config, source, target TableReader, onProgress func(stage string)) (*ComparisonResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	step := func(stage string) {
		if onProgress != nil {
			onProgress(stage)
		}
	}

	srcCols, err := source.Columns(ctx)
	if err != nil {
		return nil, fmt.Errorf("source columns: %w", err)
	}
	tgtCols, err := target.Columns(ctx)
	if err != nil {
		return nil, fmt.Errorf("target columns: %w", err)
	}

	inv := schema.BuildInventory(srcCols, tgtCols, cfg.JoinKey, cfg.Excluded())
	srcKeyCol, tgtKeyCol, ok := schema.JoinKeyNames(inv, cfg.JoinKey)
	if !ok {
		return nil, fmt.Errorf("%w: join key %q not present in both tables", ErrInvalidConfig, cfg.JoinKey)
	}
	step("schema inventory")

	res := &ComparisonResult{
		Inventory: inv,
		Columns:   schema.CompareColumns(inv),
	}

	res.Totals.SourceRows, res.Totals.SourceWatermark, err = source.CountAndWatermark(ctx, cfg.SourceWatermark)
	if err != nil {
		return nil, fmt.Errorf("source row count: %w", err)
	}
	res.Totals.TargetRows, res.Totals.TargetWatermark, err = target.CountAndWatermark(ctx, cfg.TargetWatermark)
	if err != nil {
		return nil, fmt.Errorf("target row count: %w", err)
	}
	step("row counts")

	srcRows, srcNullKeys, err := source.SampleRows(ctx, srcKeyCol, schema.CompareSourceNames(inv), cfg.SampleSize)
	if err != nil {
		return nil, fmt.Errorf("sample source rows: %w", err)
	}
	tgtRows, _, err := target.AllRows(ctx, tgtKeyCol, schema.CompareTargetNames(inv))
	if err != nil {
		return nil, fmt.Errorf("read target rows: %w", err)
	}
	step("row sampling")

	res.Diff = Diff(cfg, res.Columns, srcRows, tgtRows)
	res.Diff.NullKeyRows += srcNullKeys
	step("row and column diff")

	res.Orphans, err = runOrphans(ctx, cfg, source, target, srcKeyCol, tgtKeyCol, srcRows, tgtRows)
	if err != nil {
		return nil, err
	}
	step("orphan keys")

	res.Summary = BuildSummary(cfg, res.Diff)
	step("summary")

	return res, nil
}

// runOrphans resolves each side's key set per the sampling policy, reusing
// rows already in memory where it can, then diffs the sets.
func runOrphans(ctx context.Context, cfg *Config, source, target TableReader, srcKeyCol, tgtKeyCol string, srcRows, tgtRows []RowRecord) (*OrphanResult, error) {
	// The reverse direction always needs the full source key set; reuse it
	// when the policy wants unsampled source keys.
	srcAll, err := source.AllKeys(ctx, srcKeyCol)
	if err != nil {
		return nil, fmt.Errorf("read source keys: %w", err)
	}

	srcKeys := recordKeys(srcRows)
	if !cfg.Sampling.SampleSourceKeys {
		srcKeys = srcAll
	}

	// tgtRows already holds every target row, so the unsampled policy costs
	// no extra query.
	var tgtKeys []string
	if cfg.Sampling.SampleTargetKeys {
		tgtKeys, err = target.SampleKeys(ctx, tgtKeyCol, cfg.SampleSize)
		if err != nil {
			return nil, fmt.Errorf("sample target keys: %w", err)
		}
	} else {
		tgtKeys = recordKeys(tgtRows)
	}

	res := &OrphanResult{}
	fullTarget := keySet(recordKeys(tgtRows))
	res.MissingInTarget, res.MissingInTargetTotal = missingFrom(keySet(srcKeys), fullTarget, cfg.OrphanLimit)
	res.MissingInSource, res.MissingInSourceTotal = missingFrom(keySet(tgtKeys), keySet(srcAll), cfg.OrphanLimit)
	return res, nil
}

func recordKeys(rows []RowRecord) []string {
	keys := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.JoinKey != "" {
			keys = append(keys, r.JoinKey)
		}
	}
	return keys
}
