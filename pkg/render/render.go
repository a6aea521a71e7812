// Package render provides output renderers for assembled QC runs.
package render

import "github.com/seqqc/seqqc/pkg/qcreport"

// Renderer converts a run to formatted output.
type Renderer interface {
	Render(run *qcreport.Run) string
}
