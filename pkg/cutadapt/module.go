package cutadapt

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/seqqc/seqqc/pkg/qcreport"
)

// ErrHistogramKeys is returned when the three trimmed-length mappings
// disagree on their key sets. That can only come from a parser bug,
// never from bad input, so it is fatal rather than patched over.
var ErrHistogramKeys = errors.New("trimmed-length histogram key sets differ")

// endOrder fixes the rendering order of end-orientations.
var endOrder = []string{endDefault, "5", "3"}

// Module parses cutadapt trimming reports into a QC report
// contribution.
type Module struct {
	log   *slog.Logger
	clean qcreport.NameCleaner
}

// New creates the cutadapt module.
func New(log *slog.Logger, clean qcreport.NameCleaner) *Module {
	return &Module{log: log.With("module", "cutadapt"), clean: clean}
}

// Name implements qcreport.Module.
func (m *Module) Name() string { return "cutadapt" }

// Run parses all candidate files and assembles the module's report.
// Returns an error wrapping qcreport.ErrNoSamples when nothing usable
// remains after ignore-filtering.
func (m *Module) Run(files []qcreport.File) (*qcreport.Report, error) {
	p := newParser(m.log, m.clean)
	for _, f := range files {
		if err := p.parseFile(f); err != nil {
			return nil, err
		}
	}

	if err := deriveMetrics(p.data); err != nil {
		return nil, err
	}
	ends, err := p.presentEnds()
	if err != nil {
		return nil, err
	}

	for name := range p.data {
		if m.clean.IsIgnored(name) {
			delete(p.data, name)
		}
	}
	if len(p.data) == 0 {
		return nil, fmt.Errorf("cutadapt: %w", qcreport.ErrNoSamples)
	}
	m.log.Info("found reports", "count", len(p.data))

	report := &qcreport.Report{
		Module:       m.Name(),
		GeneralStats: m.generalStats(p.data),
		DataFiles: map[string]map[string]map[string]any{
			"seqqc_cutadapt": dumpRecords(p.data),
		},
	}
	report.Sections = append(report.Sections, m.filteredReadsSection(p.data))
	for _, end := range ends {
		report.Sections = append(report.Sections, m.trimmedLengthsSection(p, end))
	}
	return report, nil
}

// presentEnds validates the histogram triple and returns the
// end-orientations that actually hold data, in rendering order. An
// empty default orientation is elided entirely.
func (p *parser) presentEnds() ([]string, error) {
	if len(p.lengthCounts) != len(p.lengthExpected) || len(p.lengthExpected) != len(p.lengthObsExp) {
		return nil, ErrHistogramKeys
	}
	for end := range p.lengthCounts {
		if _, ok := p.lengthExpected[end]; !ok {
			return nil, ErrHistogramKeys
		}
		if _, ok := p.lengthObsExp[end]; !ok {
			return nil, ErrHistogramKeys
		}
	}

	if len(p.lengthCounts[endDefault]) == 0 {
		delete(p.lengthCounts, endDefault)
		delete(p.lengthExpected, endDefault)
		delete(p.lengthObsExp, endDefault)
	}

	var ends []string
	for _, end := range endOrder {
		if _, ok := p.lengthCounts[end]; ok {
			ends = append(ends, end)
		}
	}
	return ends, nil
}

func (m *Module) generalStats(data map[string]Record) *qcreport.GeneralStats {
	rows := make(map[string]map[string]any, len(data))
	for name, d := range data {
		if v, ok := d["percent_trimmed"]; ok {
			rows[name] = map[string]any{"percent_trimmed": v}
		}
	}
	return &qcreport.GeneralStats{
		Columns: []qcreport.Column{{
			ID:          "percent_trimmed",
			Title:       "% BP Trimmed",
			Description: "% Total Base Pairs trimmed",
			Namespace:   "Cutadapt",
			Suffix:      "%",
			Min:         0,
			Max:         100,
			Scale:       "RdYlBu-rev",
		}},
		Rows: rows,
	}
}

// filteredReadsCategories covers both single-end and paired-end
// metrics. A report mixing SE and PE data populates a lot of these;
// categories at zero across all samples are elided by renderers.
var filteredReadsCategories = []qcreport.BarCategory{
	{ID: "pairs_written", Name: "Pairs passing filters"},
	{ID: "r_written", Name: "Reads passing filters"},
	{ID: "pairs_too_short", Name: "Pairs that were too short"},
	{ID: "r_too_short", Name: "Reads that were too short"},
	{ID: "pairs_too_long", Name: "Pairs that were too long"},
	{ID: "r_too_long", Name: "Reads that were too long"},
	{ID: "pairs_too_many_N", Name: "Pairs with too many N"},
	{ID: "r_too_many_N", Name: "Reads with too many N"},
	{ID: "pairs_filtered_unexplained", Name: "Filtered pairs (uncategorised)"},
	{ID: "r_filtered_unexplained", Name: "Filtered reads (uncategorised)"},
}

func (m *Module) filteredReadsSection(data map[string]Record) qcreport.Section {
	samples := make(map[string]map[string]int64, len(data))
	for name, d := range data {
		counts := make(map[string]int64)
		for _, cat := range filteredReadsCategories {
			if n, ok := intVal(d, cat.ID); ok {
				counts[cat.ID] = n
			}
		}
		samples[name] = counts
	}
	return qcreport.Section{
		Name:        "Filtered Reads",
		Anchor:      "cutadapt_filtered_reads",
		Description: "This plot shows the number of reads (SE) / pairs (PE) removed by Cutadapt.",
		Plot: &qcreport.BarPlot{
			ID:         "cutadapt_filtered_reads_plot",
			Title:      "Cutadapt: Filtered Reads",
			YLabel:     "Counts",
			Categories: filteredReadsCategories,
			Samples:    samples,
		},
	}
}

func (m *Module) trimmedLengthsSection(p *parser, end string) qcreport.Section {
	nameSuffix, suffix := "", ""
	if end != endDefault {
		nameSuffix = fmt.Sprintf(" (%s')", end)
		suffix = fmt.Sprintf(" (%s' end)", end)
	}

	counts := make(map[string]map[int]float64, len(p.lengthCounts[end]))
	for label, series := range p.lengthCounts[end] {
		counts[label] = make(map[int]float64, len(series))
		for length, n := range series {
			counts[label][length] = float64(n)
		}
	}

	anchor := "cutadapt_trimmed_sequences"
	if end != endDefault {
		anchor += "_" + end
	}
	return qcreport.Section{
		Name:        "Trimmed Sequence Lengths" + nameSuffix,
		Anchor:      anchor,
		Description: "This plot shows the number of reads with certain lengths of adapter trimmed" + suffix + ". Obs/Exp shows the raw counts divided by the number expected due to sequencing errors.",
		Plot: &qcreport.LineGraph{
			ID:     "cutadapt_trimmed_sequences_plot_" + end,
			Title:  "Cutadapt: Lengths of Trimmed Sequences" + suffix,
			XLabel: "Length Trimmed (bp)",
			Datasets: []qcreport.LineDataset{
				{Name: "Counts", YLabel: "Count", Series: counts},
				{Name: "Obs/Exp", YLabel: "Observed / Expected", Series: p.lengthObsExp[end]},
			},
		},
	}
}

func dumpRecords(data map[string]Record) map[string]map[string]any {
	out := make(map[string]map[string]any, len(data))
	for name, d := range data {
		out[name] = map[string]any(d)
	}
	return out
}
