package engine

import (
	"fmt"
	"strings"
)

// CompareMode selects how cell values are tested for equality.
type CompareMode int

const (
	// CompareAsStrings compares the stringified values byte for byte, so
	// formatting differences like 1 vs 1.0 register as mismatches.
	CompareAsStrings CompareMode = iota
	// CompareNumericAware falls back to numeric comparison when both values
	// parse as numbers, so 1 and 1.0 compare equal.
	CompareNumericAware
)

// ParseCompareMode maps a config string to a CompareMode.
func ParseCompareMode(s string) (CompareMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "string", "strings":
		return CompareAsStrings, nil
	case "numeric", "numeric-aware":
		return CompareNumericAware, nil
	default:
		return CompareAsStrings, fmt.Errorf("%w: unknown compare mode %q", ErrInvalidConfig, s)
	}
}

// SamplingPolicy says which side of each orphan check is sampled. The other
// side is always read in full.
type SamplingPolicy struct {
	// SampleSourceKeys bounds the "missing in target" check to the sampled
	// source keys.
	SampleSourceKeys bool
	// SampleTargetKeys bounds the "missing in source" check to a sample of
	// target keys.
	SampleTargetKeys bool
}

// DefaultSampling samples the side being checked for completeness in each
// direction.
func DefaultSampling() SamplingPolicy {
	return SamplingPolicy{SampleSourceKeys: true, SampleTargetKeys: true}
}

// Config is the full configuration of one comparison run. Immutable once the
// run starts.
type Config struct {
	TableName      string
	ComparisonType string // free-text label echoed into the summary
	SourceRef      string // fully-qualified source table, for reporting
	TargetRef      string
	SampleSize     int
	JoinKey        string
	ExcludeColumns []string
	// Optional high-watermark columns for the row-count stage.
	SourceWatermark string
	TargetWatermark string

	Mode     CompareMode
	Sampling SamplingPolicy

	// Caps on detail output. Zero means the defaults (100 each).
	MismatchLimit int
	OrphanLimit   int

	excluded map[string]bool
}

const defaultDetailLimit = 100

// Validate checks the config and normalizes the exclusion list into an
// upper-cased set, computed once. It must be called before the run starts;
// any error wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.SampleSize <= 0 {
		return fmt.Errorf("%w: sample_size must be positive, got %d", ErrInvalidConfig, c.SampleSize)
	}
	if strings.TrimSpace(c.JoinKey) == "" {
		return fmt.Errorf("%w: join_key_column is required", ErrInvalidConfig)
	}
	if c.MismatchLimit <= 0 {
		c.MismatchLimit = defaultDetailLimit
	}
	if c.OrphanLimit <= 0 {
		c.OrphanLimit = defaultDetailLimit
	}
	if c.ComparisonType == "" {
		c.ComparisonType = "SOURCE vs TARGET"
	}

	c.excluded = make(map[string]bool)
	for _, raw := range c.ExcludeColumns {
		name := strings.ToUpper(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if strings.ContainsAny(name, " ,'\"`") {
			return fmt.Errorf("%w: invalid excluded column name %q", ErrInvalidConfig, raw)
		}
		c.excluded[name] = true
	}
	return nil
}

// Excluded returns the normalized exclusion set. Validate must have run.
func (c *Config) Excluded() map[string]bool {
	return c.excluded
}
