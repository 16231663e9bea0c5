package engine

import "sort"

// Overall verdict strings. Consumers key off these, so they are part of the
// output contract.
const (
	StatusPass       = "[PASS] ALL ROWS MATCH"
	StatusPassNoData = "[PASS] NO DATA"
	StatusMissing    = "[FAIL] MISSING ROWS"
	StatusMismatches = "[FAIL] DATA MISMATCHES"
)

// RowStats is the sampled-row histogram of the summary document.
type RowStats struct {
	Sampled         int `json:"sampled"`
	FoundInTarget   int `json:"found_in_target"`
	MissingInTarget int `json:"missing_in_target"`
	FullyMatched    int `json:"fully_matched"`
	WithDifferences int `json:"with_differences"`
	// MatchPct is fully matched over found, two decimals; null when nothing
	// was found in the target.
	MatchPct *float64 `json:"match_pct"`
}

// ColumnMismatch is one entry of the per-column mismatch list.
type ColumnMismatch struct {
	Column     string `json:"column"`
	Mismatches int    `json:"mismatches"`
}

// Summary is the machine-readable verdict of one comparison run.
type Summary struct {
	TableName       string           `json:"table_name"`
	ComparisonType  string           `json:"comparison_type"`
	Source          string           `json:"source"`
	Target          string           `json:"target"`
	SampleSize      int              `json:"sample_size"`
	ColumnsCompared int              `json:"columns_compared"`
	OverallStatus   string           `json:"overall_status"`
	RowStats        RowStats         `json:"row_stats"`
	ColumnMismatch  []ColumnMismatch `json:"column_mismatches"`
	NullKeyRows     int              `json:"null_key_rows,omitempty"`
}

// Passed reports whether the verdict is a pass.
func (s *Summary) Passed() bool {
	return s.OverallStatus == StatusPass || s.OverallStatus == StatusPassNoData
}

// Reason gives the short failure tag, empty on a pass.
func (s *Summary) Reason() string {
	switch s.OverallStatus {
	case StatusMissing:
		return "MISSING_ROWS"
	case StatusMismatches:
		return "DATA_MISMATCHES"
	default:
		return ""
	}
}

// BuildSummary reduces a diff result to the summary document. Missing rows
// outrank cell mismatches in the verdict; an empty sample passes with its own
// status so a drained table is visible rather than silently green.
func BuildSummary(cfg *Config, diff *DiffResult) *Summary {
	s := &Summary{
		TableName:       cfg.TableName,
		ComparisonType:  cfg.ComparisonType,
		Source:          cfg.SourceRef,
		Target:          cfg.TargetRef,
		SampleSize:      cfg.SampleSize,
		ColumnsCompared: diff.ColumnsCompared,
		NullKeyRows:     diff.NullKeyRows,
		RowStats: RowStats{
			Sampled:         diff.Sampled,
			FoundInTarget:   diff.FoundInTarget,
			MissingInTarget: diff.MissingInTarget,
			FullyMatched:    diff.FullyMatched,
			WithDifferences: diff.WithDifferences,
		},
	}

	if diff.FoundInTarget > 0 {
		pct := round2(float64(diff.FullyMatched) * 100 / float64(diff.FoundInTarget))
		s.RowStats.MatchPct = &pct
	}

	switch {
	case diff.Sampled == 0:
		s.OverallStatus = StatusPassNoData
	case diff.FullyMatched == diff.Sampled:
		s.OverallStatus = StatusPass
	case diff.MissingInTarget > 0:
		s.OverallStatus = StatusMissing
	default:
		s.OverallStatus = StatusMismatches
	}

	for _, st := range diff.ColumnStats {
		if st.Mismatches > 0 {
			s.ColumnMismatch = append(s.ColumnMismatch, ColumnMismatch{
				Column: st.Column, Mismatches: st.Mismatches,
			})
		}
	}
	sort.SliceStable(s.ColumnMismatch, func(i, j int) bool {
		if s.ColumnMismatch[i].Mismatches != s.ColumnMismatch[j].Mismatches {
			return s.ColumnMismatch[i].Mismatches > s.ColumnMismatch[j].Mismatches
		}
		return s.ColumnMismatch[i].Column < s.ColumnMismatch[j].Column
	})

	return s
}
