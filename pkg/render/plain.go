package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/seqqc/seqqc/pkg/qcreport"
)

// Plain renders a run as terse plain text with zero ANSI codes,
// suitable for piping and machine consumption.
type Plain struct{}

// NewPlain creates a plain-text renderer.
func NewPlain() *Plain {
	return &Plain{}
}

// Render formats the run as plain text.
func (p *Plain) Render(run *qcreport.Run) string {
	var sb strings.Builder

	if run.GeneralStats != nil && len(run.GeneralStats.Rows) > 0 {
		sb.WriteString("GENERAL STATS\n")
		cols := visibleColumns(run.GeneralStats.Columns)
		for _, sample := range sortedRowKeys(run.GeneralStats.Rows) {
			parts := []string{sample}
			for _, c := range cols {
				if v, ok := run.GeneralStats.Rows[sample][c.ID]; ok {
					parts = append(parts, c.Title+"="+formatCell(v, c.Suffix))
				}
			}
			sb.WriteString(strings.Join(parts, "\t"))
			sb.WriteString("\n")
		}
	}

	for _, report := range run.Reports {
		for _, sec := range report.Sections {
			fmt.Fprintf(&sb, "\nSECTION %s [%s]\n", sec.Name, report.Module)
			p.writePlot(&sb, sec.Plot)
		}
	}
	return sb.String()
}

func (p *Plain) writePlot(sb *strings.Builder, plot qcreport.Plot) {
	switch v := plot.(type) {
	case *qcreport.BarPlot:
		samples := make([]string, 0, len(v.Samples))
		for name := range v.Samples {
			samples = append(samples, name)
		}
		sort.Strings(samples)
		for _, name := range samples {
			parts := []string{name}
			for _, cat := range v.Categories {
				if n, ok := v.Samples[name][cat.ID]; ok {
					parts = append(parts, fmt.Sprintf("%s=%d", cat.ID, n))
				}
			}
			sb.WriteString(strings.Join(parts, "\t"))
			sb.WriteString("\n")
		}
	case *qcreport.LineGraph:
		for _, ds := range v.Datasets {
			labels := make([]string, 0, len(ds.Series))
			for label := range ds.Series {
				labels = append(labels, label)
			}
			sort.Strings(labels)
			for _, label := range labels {
				fmt.Fprintf(sb, "%s\t%s\t%d points\n", ds.Name, label, len(ds.Series[label]))
			}
		}
	case *qcreport.Table:
		cols := visibleColumns(v.Columns)
		header := make([]string, 0, len(cols)+1)
		header = append(header, "ID")
		for _, c := range cols {
			header = append(header, c.ID)
		}
		sb.WriteString(strings.Join(header, "\t"))
		sb.WriteString("\n")
		for _, key := range sortedRowKeys(v.Rows) {
			row := []string{key}
			for _, c := range cols {
				row = append(row, formatCell(v.Rows[key][c.ID], ""))
			}
			sb.WriteString(strings.Join(row, "\t"))
			sb.WriteString("\n")
		}
	}
}
