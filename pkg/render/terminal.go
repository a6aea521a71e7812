package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/seqqc/seqqc/pkg/qcreport"
)

// sparkChars are the block characters used for line-graph previews,
// lowest to highest.
var sparkChars = []rune("▁▂▃▄▅▆▇█")

// Terminal renders a run as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats the whole run for terminal display.
func (t *Terminal) Render(run *qcreport.Run) string {
	var sections []string

	if run.GeneralStats != nil && len(run.GeneralStats.Rows) > 0 {
		sections = append(sections, t.renderGeneralStats(run.GeneralStats))
	}
	for _, report := range run.Reports {
		for _, sec := range report.Sections {
			if s := t.renderSection(report.Module, sec); s != "" {
				sections = append(sections, s)
			}
		}
	}
	return strings.Join(sections, "\n")
}

func (t *Terminal) renderGeneralStats(gs *qcreport.GeneralStats) string {
	cols := visibleColumns(gs.Columns)
	header := []string{"Sample"}
	for _, c := range cols {
		header = append(header, c.Title)
	}

	rows := make([][]string, 0, len(gs.Rows))
	levels := make([][]string, 0, len(gs.Rows))
	for _, sample := range sortedRowKeys(gs.Rows) {
		row := []string{sample}
		lvl := []string{""}
		for _, c := range cols {
			cell := formatCell(gs.Rows[sample][c.ID], c.Suffix)
			row = append(row, cell)
			lvl = append(lvl, ruleLevel(c.Formatting, cell))
		}
		rows = append(rows, row)
		levels = append(levels, lvl)
	}

	var sb strings.Builder
	sb.WriteString(t.theme.Bold.Render("General Statistics"))
	sb.WriteString("\n")
	t.writeTable(&sb, header, rows, levels)
	return sb.String()
}

func (t *Terminal) renderSection(module string, sec qcreport.Section) string {
	var sb strings.Builder
	sb.WriteString(t.theme.Bold.Render(sec.Name))
	sb.WriteString(t.theme.Muted.Render("  [" + module + "]"))
	sb.WriteString("\n")
	if sec.Description != "" {
		sb.WriteString(t.theme.Muted.Render("  " + sec.Description))
		sb.WriteString("\n")
	}

	switch plot := sec.Plot.(type) {
	case *qcreport.BarPlot:
		t.writeBarPlot(&sb, plot)
	case *qcreport.LineGraph:
		t.writeLineGraph(&sb, plot)
	case *qcreport.Table:
		t.writeDataTable(&sb, plot)
	default:
		return ""
	}
	return sb.String()
}

// writeBarPlot draws one proportional bar per sample, scaled against
// the largest sample total, with the per-category breakdown alongside.
func (t *Terminal) writeBarPlot(sb *strings.Builder, plot *qcreport.BarPlot) {
	samples := make([]string, 0, len(plot.Samples))
	var maxTotal int64
	for name, counts := range plot.Samples {
		samples = append(samples, name)
		var total int64
		for _, n := range counts {
			total += n
		}
		if total > maxTotal {
			maxTotal = total
		}
	}
	sort.Strings(samples)
	if maxTotal == 0 {
		return
	}

	nameWidth := maxDisplayWidth(samples)
	barWidth := t.width - nameWidth - 20
	if barWidth < 10 {
		barWidth = 10
	}

	for _, name := range samples {
		counts := plot.Samples[name]
		var total int64
		for _, n := range counts {
			total += n
		}
		bar := strings.Repeat("█", int(float64(barWidth)*float64(total)/float64(maxTotal)))
		fmt.Fprintf(sb, "  %s  %s %s\n",
			t.theme.Primary.Render(padRight(name, nameWidth)),
			t.theme.Success.Render(bar),
			t.theme.Muted.Render(formatCell(total, "")))
	}
	sb.WriteString(t.theme.Muted.Render("  " + t.barLegend(plot)))
	sb.WriteString("\n")
}

// barLegend lists the categories with data, in plot order.
func (t *Terminal) barLegend(plot *qcreport.BarPlot) string {
	var parts []string
	for _, cat := range plot.Categories {
		present := false
		for _, counts := range plot.Samples {
			if _, ok := counts[cat.ID]; ok {
				present = true
				break
			}
		}
		if present {
			parts = append(parts, cat.Name)
		}
	}
	return t.theme.Icons.Bullet + " " + strings.Join(parts, " "+t.theme.Icons.Bullet+" ")
}

// writeLineGraph draws one sparkline per series for each dataset.
func (t *Terminal) writeLineGraph(sb *strings.Builder, plot *qcreport.LineGraph) {
	for _, ds := range plot.Datasets {
		sb.WriteString("  ")
		sb.WriteString(t.theme.Bold.Render(ds.Name))
		sb.WriteString("\n")

		labels := make([]string, 0, len(ds.Series))
		for label := range ds.Series {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		labelWidth := maxDisplayWidth(labels)

		for _, label := range labels {
			spark := sparkline(ds.Series[label], t.width-labelWidth-6)
			fmt.Fprintf(sb, "  %s  %s\n",
				t.theme.Primary.Render(padRight(label, labelWidth)),
				t.theme.Warning.Render(spark))
		}
	}
}

func (t *Terminal) writeDataTable(sb *strings.Builder, plot *qcreport.Table) {
	cols := visibleColumns(plot.Columns)
	header := []string{"ID"}
	for _, c := range cols {
		header = append(header, c.Title)
	}

	rows := make([][]string, 0, len(plot.Rows))
	levels := make([][]string, 0, len(plot.Rows))
	for _, key := range sortedRowKeys(plot.Rows) {
		row := []string{key}
		lvl := []string{""}
		for _, c := range cols {
			cell := formatCell(plot.Rows[key][c.ID], c.Suffix)
			row = append(row, cell)
			lvl = append(lvl, ruleLevel(c.Formatting, cell))
		}
		rows = append(rows, row)
		levels = append(levels, lvl)
	}
	t.writeTable(sb, header, rows, levels)
}

// writeTable renders an aligned table; levels carry the per-cell
// conditional-formatting severity ("" for none).
func (t *Terminal) writeTable(sb *strings.Builder, header []string, rows [][]string, levels [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	sb.WriteString("  ")
	for i, h := range header {
		sb.WriteString(t.theme.Bold.Render(padRight(h, widths[i])))
		sb.WriteString("  ")
	}
	sb.WriteString("\n")

	for r, row := range rows {
		sb.WriteString("  ")
		for i, cell := range row {
			style := t.theme.Primary
			if i > 0 {
				style = t.styleForLevel(levels[r][i])
			}
			sb.WriteString(style.Render(padRight(cell, widths[i])))
			sb.WriteString("  ")
		}
		sb.WriteString("\n")
	}
}

func (t *Terminal) styleForLevel(level string) lipgloss.Style {
	switch level {
	case "pass":
		return t.theme.Success
	case "warn":
		return t.theme.Warning
	case "fail":
		return t.theme.Error
	default:
		return t.theme.Muted
	}
}

// sparkline samples a series into at most width block characters,
// scaled to the series maximum.
func sparkline(series map[int]float64, width int) string {
	if len(series) == 0 || width <= 0 {
		return ""
	}
	xs := make([]int, 0, len(series))
	var maxY float64
	for x, y := range series {
		xs = append(xs, x)
		if y > maxY {
			maxY = y
		}
	}
	sort.Ints(xs)
	if len(xs) > width {
		sampled := make([]int, 0, width)
		for i := 0; i < width; i++ {
			sampled = append(sampled, xs[i*len(xs)/width])
		}
		xs = sampled
	}

	var sb strings.Builder
	for _, x := range xs {
		idx := 0
		if maxY > 0 {
			idx = int(series[x] / maxY * float64(len(sparkChars)-1))
		}
		sb.WriteRune(sparkChars[idx])
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

func maxDisplayWidth(ss []string) int {
	max := 0
	for _, s := range ss {
		if w := runewidth.StringWidth(s); w > max {
			max = w
		}
	}
	return max
}
