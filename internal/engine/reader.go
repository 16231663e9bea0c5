package engine

import (
	"context"

	"data-recon/internal/schema"
)

// TableReader is the engine's view of one physical table. Column and key
// names are passed in the catalog's own casing; implementations quote them
// and upper-case the keys of the returned row maps.
type TableReader interface {
	// Columns reads the table's catalog entries.
	Columns(ctx context.Context) ([]schema.Column, error)

	// SampleRows reads up to limit randomly-ordered rows, projecting the join
	// key plus cols. The int return counts rows skipped for a null join key.
	SampleRows(ctx context.Context, keyCol string, cols []string, limit int) ([]RowRecord, int, error)

	// AllRows reads every row, same projection and null-key accounting.
	AllRows(ctx context.Context, keyCol string, cols []string) ([]RowRecord, int, error)

	// SampleKeys reads up to limit join key values in random order.
	SampleKeys(ctx context.Context, keyCol string, limit int) ([]string, error)

	// AllKeys reads every join key value.
	AllKeys(ctx context.Context, keyCol string) ([]string, error)

	// CountAndWatermark returns the total row count and, when watermarkCol is
	// non-empty, the column's maximum value.
	CountAndWatermark(ctx context.Context, watermarkCol string) (int64, Value, error)
}
