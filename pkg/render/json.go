package render

import (
	"encoding/json"

	"github.com/seqqc/seqqc/pkg/qcreport"
)

// JSON renders a run as structured JSON for automation.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

type jsonOutput struct {
	Version string          `json:"version"`
	Modules []jsonModule    `json:"modules"`
	Stats   json.RawMessage `json:"general_stats,omitempty"`
}

type jsonModule struct {
	Name     string        `json:"name"`
	Sections []jsonSection `json:"sections"`
}

type jsonSection struct {
	Name   string `json:"name"`
	Anchor string `json:"anchor"`
	Type   string `json:"type"`
	Plot   any    `json:"plot"`
}

// Render formats the run as indented JSON.
func (j *JSON) Render(run *qcreport.Run) string {
	out := jsonOutput{Version: "1.0"}
	if run.GeneralStats != nil {
		if data, err := json.Marshal(run.GeneralStats); err == nil {
			out.Stats = data
		}
	}
	for _, report := range run.Reports {
		mod := jsonModule{Name: report.Module}
		for _, sec := range report.Sections {
			mod.Sections = append(mod.Sections, jsonSection{
				Name:   sec.Name,
				Anchor: sec.Anchor,
				Type:   string(sec.Plot.Type()),
				Plot:   sec.Plot,
			})
		}
		out.Modules = append(out.Modules, mod)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON)
	}
	return string(data) + "\n"
}
