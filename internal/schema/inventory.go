package schema

import (
	"sort"
	"strings"
)

// BuildInventory merges the source and target column catalogs into one
// classified inventory. Matching is case-insensitive (upper-cased names);
// excluded must already hold upper-cased names. Both catalogs empty yields an
// empty inventory, not an error.
//
// Display order: join key first, then COMPARE columns by source ordinal, then
// everything else; columns missing an ordinal sort last.
func BuildInventory(source, target []Column, joinKey string, excluded map[string]bool) []*ColumnSpec {
	specMap := make(map[string]*ColumnSpec)
	var specs []*ColumnSpec

	lookup := func(name string) *ColumnSpec {
		key := strings.ToUpper(name)
		if s, ok := specMap[key]; ok {
			return s
		}
		s := &ColumnSpec{Name: key, Ordinal: missingOrdinal}
		specMap[key] = s
		specs = append(specs, s)
		return s
	}

	for _, c := range source {
		s := lookup(c.Name)
		s.InSource = true
		s.SourceName = c.Name
		s.SourceType = c.DataType
		if c.Ordinal > 0 {
			s.Ordinal = c.Ordinal
		}
	}
	for _, c := range target {
		s := lookup(c.Name)
		s.InTarget = true
		s.TargetName = c.Name
		s.TargetType = c.DataType
		// Source ordinal wins; target ordinal only places target-only columns.
		if s.Ordinal == missingOrdinal && c.Ordinal > 0 {
			s.Ordinal = c.Ordinal
		}
	}

	key := strings.ToUpper(joinKey)
	for _, s := range specs {
		s.Action = classify(s, key, excluded)
	}

	sort.SliceStable(specs, func(i, j int) bool {
		ri, rj := sortRank(specs[i]), sortRank(specs[j])
		if ri != rj {
			return ri < rj
		}
		return specs[i].Ordinal < specs[j].Ordinal
	})

	return specs
}

// classify applies the action precedence: JOIN_KEY > EXCLUDED >
// SOURCE_ONLY/TARGET_ONLY > COMPARE.
func classify(s *ColumnSpec, joinKey string, excluded map[string]bool) ColumnAction {
	switch {
	case s.Name == joinKey:
		return ActionJoinKey
	case excluded[s.Name]:
		return ActionExcluded
	case !s.InSource:
		return ActionTargetOnly
	case !s.InTarget:
		return ActionSourceOnly
	default:
		return ActionCompare
	}
}

func sortRank(s *ColumnSpec) int {
	switch s.Action {
	case ActionJoinKey:
		return 1
	case ActionCompare:
		return 2
	default:
		return 3
	}
}

// CompareColumns returns the upper-cased names of compare-eligible columns,
// in inventory order. Built once per run; row flattening reuses it.
func CompareColumns(inv []*ColumnSpec) []string {
	var cols []string
	for _, s := range inv {
		if s.Action == ActionCompare {
			cols = append(cols, s.Name)
		}
	}
	return cols
}

// CompareSourceNames returns the source-catalog spelling of each compare
// column, in the same order as CompareColumns.
func CompareSourceNames(inv []*ColumnSpec) []string {
	var cols []string
	for _, s := range inv {
		if s.Action == ActionCompare {
			cols = append(cols, s.SourceName)
		}
	}
	return cols
}

// CompareTargetNames returns the target-catalog spelling of each compare
// column, in the same order as CompareColumns.
func CompareTargetNames(inv []*ColumnSpec) []string {
	var cols []string
	for _, s := range inv {
		if s.Action == ActionCompare {
			cols = append(cols, s.TargetName)
		}
	}
	return cols
}

// HasJoinKey reports whether the join key column exists on both sides.
func HasJoinKey(inv []*ColumnSpec, joinKey string) bool {
	key := strings.ToUpper(joinKey)
	for _, s := range inv {
		if s.Name == key {
			return s.InSource && s.InTarget
		}
	}
	return false
}

// JoinKeyNames returns each catalog's spelling of the join key column.
func JoinKeyNames(inv []*ColumnSpec, joinKey string) (source, target string, ok bool) {
	key := strings.ToUpper(joinKey)
	for _, s := range inv {
		if s.Name == key && s.InSource && s.InTarget {
			return s.SourceName, s.TargetName, true
		}
	}
	return "", "", false
}

// SourceColumns returns every column present in the source catalog, in
// inventory order and with the source's original spelling. The full orphan
// dump selects all of them.
func SourceColumns(inv []*ColumnSpec) []string {
	var cols []string
	for _, s := range inv {
		if s.InSource {
			cols = append(cols, s.SourceName)
		}
	}
	return cols
}
