package engine

import (
	"context"
	"fmt"
	"sort"
)

// OrphanResult holds keys present on one side and absent from the other.
// Each direction is independently capped; the Total fields keep the uncapped
// counts.
type OrphanResult struct {
	MissingInTarget      []string
	MissingInTargetTotal int
	MissingInSource      []string
	MissingInSourceTotal int
}

// FindOrphans checks key containment in both directions. Keys are
// deduplicated, empty keys are dropped, and each listing is sorted ascending
// before the cap is applied so the kept prefix is deterministic.
func FindOrphans(sourceKeys, targetKeys []string, limit int) *OrphanResult {
	srcSet := keySet(sourceKeys)
	tgtSet := keySet(targetKeys)

	res := &OrphanResult{}
	res.MissingInTarget, res.MissingInTargetTotal = missingFrom(srcSet, tgtSet, limit)
	res.MissingInSource, res.MissingInSourceTotal = missingFrom(tgtSet, srcSet, limit)
	return res
}

func keySet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		set[k] = true
	}
	return set
}

func missingFrom(have, other map[string]bool, limit int) ([]string, int) {
	var missing []string
	for k := range have {
		if !other[k] {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	total := len(missing)
	if limit > 0 && len(missing) > limit {
		missing = missing[:limit]
	}
	return missing, total
}

// FullOrphanRows dumps every source row whose join key is absent from the
// target, all source columns, no sampling and no cap. Rows with a null join
// key are skipped and counted separately.
func FullOrphanRows(ctx context.Context, source, target TableReader, sourceKeyCol, targetKeyCol string, sourceCols []string) ([]RowRecord, int, error) {
	targetKeys, err := target.AllKeys(ctx, targetKeyCol)
	if err != nil {
		return nil, 0, fmt.Errorf("read target keys: %w", err)
	}
	tgtSet := keySet(targetKeys)

	rows, nullKeys, err := source.AllRows(ctx, sourceKeyCol, sourceCols)
	if err != nil {
		return nil, 0, fmt.Errorf("read source rows: %w", err)
	}

	var orphans []RowRecord
	for _, row := range rows {
		if row.JoinKey == "" {
			continue
		}
		if !tgtSet[row.JoinKey] {
			orphans = append(orphans, row)
		}
	}
	sort.SliceStable(orphans, func(i, j int) bool {
		return orphans[i].JoinKey < orphans[j].JoinKey
	})
	return orphans, nullKeys, nil
}
