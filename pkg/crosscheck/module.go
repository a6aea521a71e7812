package crosscheck

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/seqqc/seqqc/pkg/qcreport"
)

// expectedPrefix marks a comparison result that matched expectations.
// A sample passes only when every one of its comparisons carries it.
const expectedPrefix = "EXPECTED"

// Module parses fingerprint-comparison reports into a QC report
// contribution.
type Module struct {
	log     *slog.Logger
	clean   qcreport.NameCleaner
	visible []string
	hidden  []string
}

// Option configures the module.
type Option func(*Module)

// WithTableColumns overrides the default visible/hidden column lists.
// A nil slice keeps the corresponding default.
func WithTableColumns(visible, hidden []string) Option {
	return func(m *Module) {
		m.visible = visible
		m.hidden = hidden
	}
}

// New creates the crosscheck module.
func New(log *slog.Logger, clean qcreport.NameCleaner, opts ...Option) *Module {
	m := &Module{log: log.With("module", "crosscheck"), clean: clean}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name implements qcreport.Module.
func (m *Module) Name() string { return "crosscheck" }

// Run parses all candidate files, keeping every surviving row under a
// strictly-increasing ordinal unique across files. One sample pair can
// recur across comparisons, so rows are never keyed by sample name.
func (m *Module) Run(files []qcreport.File) (*qcreport.Report, error) {
	data := make(map[int]Row)
	ordinal := 0
	for _, f := range files {
		rows, err := parseFile(f, m.clean)
		if err != nil {
			return nil, err
		}
		if rows == nil {
			m.log.Debug("not a fingerprint-comparison report, skipping", "file", f.Path())
			continue
		}
		if len(rows) == 0 {
			m.log.Debug("no comparisons survived filtering", "file", f.Path())
			continue
		}
		for _, row := range rows {
			data[ordinal] = row
			ordinal++
		}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("crosscheck: %w", qcreport.ErrNoSamples)
	}
	m.log.Info("found comparisons", "count", len(data))

	rows := make(map[string]map[string]any, len(data))
	for i, row := range data {
		rows[strconv.Itoa(i)] = map[string]any(row)
	}

	return &qcreport.Report{
		Module:       m.Name(),
		GeneralStats: m.generalStats(data),
		Sections: []qcreport.Section{{
			Name:        "Crosscheck Fingerprints",
			Anchor:      "crosscheckfingerprints",
			Description: "Pairwise identity checking between samples and groups.",
			Plot: &qcreport.Table{
				ID:      "crosscheckfingerprints_table",
				Title:   "Crosscheck Fingerprints",
				Columns: tableColumns(data, m.visible, m.hidden),
				Rows:    rows,
			},
		}},
		DataFiles: map[string]map[string]map[string]any{
			"seqqc_crosscheck": rows,
		},
	}, nil
}

// generalStats flags each left-hand sample: "Pass" only when every
// comparison it appears in produced an expected result.
func (m *Module) generalStats(data map[int]Row) *qcreport.GeneralStats {
	status := make(map[string]string)
	for _, row := range data {
		name := str(row, "LEFT_SAMPLE")
		if name == "" {
			continue
		}
		if !strings.HasPrefix(str(row, "RESULT"), expectedPrefix) {
			status[name] = "Fail"
		} else if _, ok := status[name]; !ok {
			status[name] = "Pass"
		}
	}

	rows := make(map[string]map[string]any, len(status))
	for name, s := range status {
		rows[name] = map[string]any{"crosschecks_all_expected": s}
	}
	return &qcreport.GeneralStats{
		Columns: []qcreport.Column{{
			ID:          "crosschecks_all_expected",
			Title:       "Crosschecks",
			Description: "All results for samples CrosscheckFingerprints were as expected.",
			Namespace:   "CrosscheckFingerprints",
			Formatting: []qcreport.FormatRule{
				{Level: "pass", Op: qcreport.FormatEquals, Value: "Pass"},
				{Level: "fail", Op: qcreport.FormatEquals, Value: "Fail"},
			},
		}},
		Rows: rows,
	}
}
