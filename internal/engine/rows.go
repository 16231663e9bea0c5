package engine

// Value is one stringified cell. Null is kept distinct from the empty string
// so the null-aware equality rule can tell them apart.
type Value struct {
	Str  string
	Null bool
}

// NullValue returns the SQL NULL cell.
func NullValue() Value {
	return Value{Null: true}
}

// StringValue wraps a non-null stringified cell.
func StringValue(s string) Value {
	return Value{Str: s}
}

func (v Value) String() string {
	if v.Null {
		return "NULL"
	}
	return v.Str
}

// RowRecord is one relational row flattened into column name → stringified
// value. Column keys are upper-cased; the join key is projected out and
// coerced to string. Transient, scoped to one comparison run.
type RowRecord struct {
	JoinKey string
	Columns map[string]Value
}
