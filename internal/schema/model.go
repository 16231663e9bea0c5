package schema

// missingOrdinal sorts columns absent from the source catalog after everything else.
const missingOrdinal = 999

// Column is one raw catalog row for a single table.
type Column struct {
	Name     string
	DataType string
	Ordinal  int
}

// ColumnAction says what the comparison pipeline does with a column.
type ColumnAction int

const (
	ActionCompare ColumnAction = iota
	ActionJoinKey
	ActionExcluded
	ActionSourceOnly
	ActionTargetOnly
)

func (a ColumnAction) String() string {
	switch a {
	case ActionJoinKey:
		return "JOIN KEY"
	case ActionExcluded:
		return "EXCLUDED"
	case ActionSourceOnly:
		return "SOURCE ONLY (skip)"
	case ActionTargetOnly:
		return "TARGET ONLY (skip)"
	default:
		return "COMPARE"
	}
}

// ColumnSpec merges one column's presence across source and target catalogs.
// Name holds the upper-cased form; name matching is case-insensitive
// throughout. SourceName and TargetName keep each catalog's original casing,
// which quoted identifiers need at query time.
type ColumnSpec struct {
	Name       string
	SourceName string
	TargetName string
	SourceType string
	TargetType string
	Ordinal    int
	InSource   bool
	InTarget   bool
	Action     ColumnAction
}
