package qcreport

// Run is the assembled output of all modules for one invocation.
type Run struct {
	Reports      []*Report
	GeneralStats *GeneralStats
}

// NewRun merges the per-module reports into a single run. General
// stats columns keep module order; rows for the same sample are merged
// across modules.
func NewRun(reports []*Report) *Run {
	merged := &GeneralStats{Rows: make(map[string]map[string]any)}
	for _, r := range reports {
		if r.GeneralStats == nil {
			continue
		}
		merged.Columns = append(merged.Columns, r.GeneralStats.Columns...)
		for sample, row := range r.GeneralStats.Rows {
			if merged.Rows[sample] == nil {
				merged.Rows[sample] = make(map[string]any, len(row))
			}
			for col, v := range row {
				merged.Rows[sample][col] = v
			}
		}
	}
	return &Run{Reports: reports, GeneralStats: merged}
}
