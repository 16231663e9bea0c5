package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// CellStatus is the verdict for one (join key, column) pair.
type CellStatus int

const (
	CellMatch CellStatus = iota
	CellMismatch
	CellRowMissing
)

func (s CellStatus) String() string {
	switch s {
	case CellMismatch:
		return "MISMATCH"
	case CellRowMissing:
		return "ROW_MISSING"
	default:
		return "MATCH"
	}
}

// CellComparison is one cell-level difference kept for the detail listing.
type CellComparison struct {
	JoinKey string
	Column  string
	Source  Value
	Target  Value
	Status  CellStatus
}

// ColumnStats aggregates cell verdicts for one compared column.
type ColumnStats struct {
	Column     string
	Total      int
	Matches    int
	Mismatches int
	RowMissing int
	// MatchPct is matches over cells whose target row existed, rounded to two
	// decimals. Nil when every sampled row was missing from the target.
	MatchPct *float64
}

// DiffResult is the outcome of comparing one sampled source batch against the
// target rows, before summarization.
type DiffResult struct {
	Sampled         int // source rows with a usable join key
	FoundInTarget   int
	MissingInTarget int
	FullyMatched    int
	WithDifferences int
	NullKeyRows     int // sampled rows skipped for a null/empty join key

	ColumnsCompared int
	ColumnStats     []ColumnStats

	// Mismatches holds differing cells ordered by column name then join key,
	// capped at cfg.MismatchLimit. MismatchTotal is the uncapped count.
	Mismatches    []CellComparison
	MismatchTotal int
}

// Diff compares the sampled source rows against the target rows, column by
// column. It is a pure function over its inputs: same rows in, same result
// out. Duplicate join keys on the target side resolve to the last row seen.
//
// Equality is null-aware: two NULLs match, NULL against anything else is a
// mismatch. A source row absent from the target marks every cell ROW_MISSING
// and the row MISSING, which outranks MISMATCH, which outranks MATCH.
func Diff(cfg *Config, columns []string, source, target []RowRecord) *DiffResult {
	res := &DiffResult{}

	targetByKey := make(map[string]RowRecord, len(target))
	for _, row := range target {
		if row.JoinKey == "" {
			continue
		}
		targetByKey[row.JoinKey] = row
	}

	stats := make([]ColumnStats, len(columns))
	statIdx := make(map[string]int, len(columns))
	for i, col := range columns {
		stats[i] = ColumnStats{Column: col}
		statIdx[col] = i
	}

	var details []CellComparison

	for _, row := range source {
		if row.JoinKey == "" {
			res.NullKeyRows++
			continue
		}
		res.Sampled++

		tgt, found := targetByKey[row.JoinKey]
		rowDiffers := false

		for _, col := range columns {
			st := &stats[statIdx[col]]
			st.Total++

			sVal, ok := row.Columns[col]
			if !ok {
				sVal = NullValue()
			}

			if !found {
				st.RowMissing++
				// The detail listing keeps the cell when the source had a
				// value the target never saw.
				if !sVal.Null {
					details = append(details, CellComparison{
						JoinKey: row.JoinKey, Column: col,
						Source: sVal, Target: NullValue(),
						Status: CellRowMissing,
					})
				}
				continue
			}

			tVal, ok := tgt.Columns[col]
			if !ok {
				tVal = NullValue()
			}
			if valuesEqual(sVal, tVal, cfg.Mode) {
				st.Matches++
				continue
			}
			st.Mismatches++
			rowDiffers = true
			details = append(details, CellComparison{
				JoinKey: row.JoinKey, Column: col,
				Source: sVal, Target: tVal,
				Status: CellMismatch,
			})
		}

		switch {
		case !found:
			res.MissingInTarget++
		case rowDiffers:
			res.FoundInTarget++
			res.WithDifferences++
		default:
			res.FoundInTarget++
			res.FullyMatched++
		}
	}

	for i := range stats {
		compared := stats[i].Total - stats[i].RowMissing
		if compared > 0 {
			pct := round2(float64(stats[i].Matches) * 100 / float64(compared))
			stats[i].MatchPct = &pct
		}
	}
	res.ColumnStats = stats
	if res.Sampled > 0 {
		res.ColumnsCompared = len(columns)
	}

	sort.SliceStable(details, func(i, j int) bool {
		if details[i].Column != details[j].Column {
			return details[i].Column < details[j].Column
		}
		return details[i].JoinKey < details[j].JoinKey
	})
	res.MismatchTotal = len(details)
	if len(details) > cfg.MismatchLimit {
		details = details[:cfg.MismatchLimit]
	}
	res.Mismatches = details

	return res
}

// valuesEqual applies the null-aware equality rule, with an optional numeric
// fallback when both sides parse as numbers.
func valuesEqual(a, b Value, mode CompareMode) bool {
	if a.Null || b.Null {
		return a.Null && b.Null
	}
	if a.Str == b.Str {
		return true
	}
	if mode == CompareNumericAware {
		fa, errA := strconv.ParseFloat(strings.TrimSpace(a.Str), 64)
		fb, errB := strconv.ParseFloat(strings.TrimSpace(b.Str), 64)
		return errA == nil && errB == nil && fa == fb
	}
	return false
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
