package excel

import (
	"rebalance/domain/dataset"
)

// LabeledTable is a parsed sample table: numeric feature columns plus one
// string label per row.
type LabeledTable struct {
	Headers     []string
	LabelHeader string
	Rows        dataset.Matrix
	Labels      []string
}

// ReaderConfig controls how a labeled table is parsed and split.
type ReaderConfig struct {
	// LabelColumn names the class-label column. Empty means the last column.
	LabelColumn string

	// MinorityLabel forces which label is the minority class. Empty means the
	// least frequent label.
	MinorityLabel string
}

// DefaultReaderConfig returns sensible parsing defaults.
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{}
}
