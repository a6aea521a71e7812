package render

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/seqqc/seqqc/pkg/qcreport"
)

// printer formats counts with thousands separators.
var printer = message.NewPrinter(language.English)

// formatCell renders one cell value for display.
func formatCell(v any, suffix string) string {
	var s string
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s = t
	case bool:
		s = strconv.FormatBool(t)
	case int:
		s = printer.Sprintf("%d", t)
	case int64:
		s = printer.Sprintf("%d", t)
	case float64:
		s = strconv.FormatFloat(t, 'f', 1, 64)
	default:
		s = printer.Sprintf("%v", t)
	}
	return s + suffix
}

// ruleLevel returns the severity level of the last matching formatting
// rule, or "". Later rules override earlier ones, which lets a "fail"
// rule for UNEXPECTED_ trump the "pass" rule for its EXPECTED_
// substring.
func ruleLevel(rules []qcreport.FormatRule, cell string) string {
	level := ""
	for _, r := range rules {
		switch r.Op {
		case qcreport.FormatContains:
			if strings.Contains(cell, r.Value) {
				level = r.Level
			}
		case qcreport.FormatEquals:
			if cell == r.Value {
				level = r.Level
			}
		}
	}
	return level
}

// sortedRowKeys sorts row keys: numeric keys first in numeric order
// (ordinal-keyed tables), then the rest lexically. The strict
// partition keeps the ordering transitive for mixed key sets.
func sortedRowKeys(rows map[string]map[string]any) []string {
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

func visibleColumns(cols []qcreport.Column) []qcreport.Column {
	out := make([]qcreport.Column, 0, len(cols))
	for _, c := range cols {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}
