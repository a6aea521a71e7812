package crosscheck

import (
	"strings"

	"github.com/seqqc/seqqc/pkg/qcreport"
)

// fieldOrder fixes column ordering in the rendered table. Fields
// without a description are self-descriptive in the tool's output.
var fieldOrder = []string{
	"LEFT_SAMPLE",
	"LEFT_GROUP_VALUE",
	"RIGHT_SAMPLE",
	"RIGHT_GROUP_VALUE",
	"RESULT",
	"DATA_TYPE",
	"LOD_SCORE",
	"LOD_SCORE_TUMOR_NORMAL",
	"LOD_SCORE_NORMAL_TUMOR",
	"LOD_THRESHOLD",
	"TUMOR_AWARENESS",
}

var fieldDescriptions = map[string]string{
	"LEFT_SAMPLE":            "The name of the left sample.",
	"LEFT_GROUP_VALUE":       "The name of the left data-type group.",
	"RIGHT_SAMPLE":           "The name of the right sample.",
	"RIGHT_GROUP_VALUE":      "The name of the right data-type group.",
	"RESULT":                 "The categorical result of comparing the calculated LOD score against the threshold.",
	"DATA_TYPE":              "The datatype used for the comparison.",
	"LOD_SCORE":              "Log10 of the probability that the samples come from the same individual.",
	"LOD_SCORE_TUMOR_NORMAL": "LOD score with the assumption that Left is a Tumor.",
	"LOD_SCORE_NORMAL_TUMOR": "LOD score with the assumption that Right is a Tumor.",
	"LOD_THRESHOLD":          "The LOD threshold used for this pairwise comparison.",
	"TUMOR_AWARENESS":        "Whether this pairwise comparison was flagged for tumor awareness",
}

var defaultVisible = []string{
	"RESULT",
	"DATA_TYPE",
	"LOD_THRESHOLD",
	"LOD_SCORE",
}

var defaultHidden = []string{
	"LEFT_RUN_BARCODE",
	"LEFT_LANE",
	"LEFT_MOLECULAR_BARCODE_SEQUENCE",
	"LEFT_LIBRARY",
	"LEFT_FILE",
	"RIGHT_RUN_BARCODE",
	"RIGHT_LANE",
	"RIGHT_MOLECULAR_BARCODE_SEQUENCE",
	"RIGHT_LIBRARY",
	"RIGHT_FILE",
	"DATA_TYPE",
}

// tableColumns derives the column-visibility spec for the parsed rows.
// visibleOverride/hiddenOverride replace the defaults when non-nil
// (config-driven). The tumor/normal LOD columns surface only when any
// comparison ran tumor-aware, and the group-value columns only when
// some row groups at a different granularity than its sample name.
func tableColumns(rows map[int]Row, visibleOverride, hiddenOverride []string) []qcreport.Column {
	visible := defaultVisible
	if visibleOverride != nil {
		visible = visibleOverride
	}
	hidden := defaultHidden
	if hiddenOverride != nil {
		hidden = hiddenOverride
	}
	visible = append([]string(nil), visible...)
	hidden = append([]string(nil), hidden...)

	tumorAware := false
	sampleIsGroup := true
	for _, row := range rows {
		if b, ok := row["TUMOR_AWARENESS"].(bool); ok && b {
			tumorAware = true
		}
		if str(row, "LEFT_SAMPLE") != str(row, "LEFT_GROUP_VALUE") ||
			str(row, "RIGHT_SAMPLE") != str(row, "RIGHT_GROUP_VALUE") {
			sampleIsGroup = false
		}
	}

	if tumorAware {
		visible = append(visible, "LOD_SCORE_TUMOR_NORMAL", "LOD_SCORE_NORMAL_TUMOR")
	} else {
		hidden = append(hidden, "LOD_SCORE_TUMOR_NORMAL", "LOD_SCORE_NORMAL_TUMOR")
	}

	// Keep the identity columns minimal: group values only earn a spot
	// when they differ from the sample names.
	if sampleIsGroup {
		visible = append([]string{"LEFT_SAMPLE", "RIGHT_SAMPLE"}, visible...)
		hidden = append(hidden, "LEFT_GROUP_VALUE", "RIGHT_GROUP_VALUE")
	} else {
		visible = append([]string{"LEFT_SAMPLE", "LEFT_GROUP_VALUE", "RIGHT_SAMPLE", "RIGHT_GROUP_VALUE"}, visible...)
	}

	visibleSet := toSet(visible)
	hiddenSet := toSet(hidden)

	var cols []qcreport.Column
	for _, field := range fieldOrder {
		if !visibleSet[field] {
			continue
		}
		col := qcreport.Column{
			ID:          field,
			Title:       fieldTitle(field),
			Description: fieldDescriptions[field],
			Namespace:   "CrosscheckFingerprints",
			Hidden:      hiddenSet[field],
		}
		if field == "RESULT" {
			// Longer title so the table formats more nicely.
			col.Title = "Categorical Result"
			col.Formatting = []qcreport.FormatRule{
				{Level: "pass", Op: qcreport.FormatContains, Value: "EXPECTED_"},
				{Level: "warn", Op: qcreport.FormatEquals, Value: "INCONCLUSIVE"},
				{Level: "fail", Op: qcreport.FormatContains, Value: "UNEXPECTED_"},
			}
		}
		if strings.HasPrefix(field, "LOD") {
			col.Scale = "RdYlGn"
			col.SharedKey = "LOD"
			col.ZeroCentred = true
		}
		cols = append(cols, col)
	}
	return cols
}

// fieldTitle turns RAW_HEADER_NAMES into readable titles.
func fieldTitle(field string) string {
	title := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(field, "_", " ")))
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	return strings.ReplaceAll(title, "Lod", "LOD")
}

func toSet(ss []string) map[string]bool {
	set := make(map[string]bool, len(ss))
	for _, s := range ss {
		set[s] = true
	}
	return set
}
