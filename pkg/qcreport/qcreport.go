// Package qcreport defines the data types exchanged between QC log
// parsers and report renderers. Plots are pure data — renderers decide
// presentation.
package qcreport

import "errors"

// ErrNoSamples signals that a module found no usable samples after
// parsing and ignore-filtering. The orchestrator omits the module from
// the report; it is not a failure of the run.
var ErrNoSamples = errors.New("no samples found")

// PlotType identifies the kind of plot carried by a section.
type PlotType string

const (
	PlotTypeBar   PlotType = "bar"
	PlotTypeLine  PlotType = "line"
	PlotTypeTable PlotType = "table"
)

// Plot is the interface all plot payloads implement.
type Plot interface {
	Type() PlotType
}

// Section is one titled block of a module's report output.
type Section struct {
	Name        string
	Anchor      string
	Description string
	Plot        Plot
}

// Report collects everything one module contributes to the run.
type Report struct {
	Module       string
	Sections     []Section
	GeneralStats *GeneralStats
	// DataFiles maps dump name to flat sample records, written verbatim
	// to the persisted output directory.
	DataFiles map[string]map[string]map[string]any
}

// Column describes one general-stats or table column.
type Column struct {
	ID          string
	Title       string
	Description string
	Namespace   string
	Suffix      string
	Min         float64
	Max         float64
	// Scale names a color scale for numeric columns; empty means none.
	Scale  string
	Hidden bool
	// Shared axis key for columns that should use one scale.
	SharedKey string
	// ZeroCentred centres bar rendering on zero instead of the minimum.
	ZeroCentred bool
	Formatting  []FormatRule
}

// FormatRuleOp is the comparison a formatting rule applies to a cell.
type FormatRuleOp string

const (
	FormatContains FormatRuleOp = "contains"
	FormatEquals   FormatRuleOp = "equals"
)

// FormatRule maps a cell-value check to a severity level
// ("pass", "warn", "fail").
type FormatRule struct {
	Level string
	Op    FormatRuleOp
	Value string
}

// GeneralStats carries columns merged into the cross-module summary
// table, keyed by sample name.
type GeneralStats struct {
	Columns []Column
	Rows    map[string]map[string]any
}

// BarPlot holds per-sample counts split into ordered categories.
// Categories absent from every sample are elided by renderers.
type BarPlot struct {
	ID         string
	Title      string
	YLabel     string
	Categories []BarCategory
	// Samples maps sample name to category ID to count.
	Samples map[string]map[string]int64
}

func (*BarPlot) Type() PlotType { return PlotTypeBar }

// BarCategory is one stacked segment of a bar plot.
type BarCategory struct {
	ID   string
	Name string
}

// LineGraph holds one or more switchable datasets of x/y series.
type LineGraph struct {
	ID     string
	Title  string
	XLabel string
	// Datasets are alternative views of the same series set
	// (e.g. raw counts vs. a derived ratio).
	Datasets []LineDataset
}

func (*LineGraph) Type() PlotType { return PlotTypeLine }

// LineDataset is one selectable view of a line graph.
type LineDataset struct {
	Name   string
	YLabel string
	// Series maps series label to x value to y value.
	Series map[string]map[int]float64
}

// Table is a generic table keyed by row ID with ordered columns.
type Table struct {
	ID      string
	Title   string
	Columns []Column
	// Rows maps row key to column ID to cell value. Renderers sort row
	// keys numerically when they are all integers, lexically otherwise.
	Rows map[string]map[string]any
}

func (*Table) Type() PlotType { return PlotTypeTable }
