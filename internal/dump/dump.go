// Package dump persists parsed module data verbatim under the output
// directory, one tab-separated table and one JSON document per data
// file.
package dump

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Writer writes data dumps into one output directory.
type Writer struct {
	dir string
}

// NewWriter creates the output directory if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Write persists one record set as <name>.txt and <name>.json. Rows
// and columns are sorted for reproducible output; a metric absent from
// a record renders as an empty cell, never as zero.
func (w *Writer) Write(name string, records map[string]map[string]any) error {
	if err := w.writeTSV(name, records); err != nil {
		return err
	}
	return w.writeJSON(name, records)
}

func (w *Writer) writeTSV(name string, records map[string]map[string]any) error {
	cols := columnUnion(records)
	rows := sortedKeys(records)

	f, err := os.Create(filepath.Join(w.dir, name+".txt"))
	if err != nil {
		return fmt.Errorf("writing dump %s: %w", name, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	cw.Comma = '\t'
	if err := cw.Write(append([]string{"Sample"}, cols...)); err != nil {
		return err
	}
	for _, row := range rows {
		rec := []string{row}
		for _, col := range cols {
			rec = append(rec, formatCell(records[row][col]))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (w *Writer) writeJSON(name string, records map[string]map[string]any) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dump %s: %w", name, err)
	}
	return os.WriteFile(filepath.Join(w.dir, name+".json"), append(data, '\n'), 0o644)
}

func columnUnion(records map[string]map[string]any) []string {
	set := make(map[string]bool)
	for _, rec := range records {
		for col := range rec {
			set[col] = true
		}
	}
	cols := make([]string, 0, len(set))
	for col := range set {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func sortedKeys(records map[string]map[string]any) []string {
	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	// Ordinal-keyed record sets sort numerically, sample-keyed ones
	// lexically. Numeric keys strictly precede non-numeric ones so the
	// ordering stays transitive for mixed key sets.
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

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
