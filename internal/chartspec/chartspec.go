// Package chartspec builds the declarative Vega-Lite descriptions the
// client-side charting library renders. Data rows are inlined; highlight
// conditions come from the session's selection.
package chartspec

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"statsdash/internal/engine"
	"statsdash/internal/models"
	"statsdash/internal/selection"
)

const schemaURL = "https://vega.github.io/schema/vega-lite/v5.json"

// Spec is a Vega-Lite chart description.
type Spec map[string]any

var titleCaser = cases.Title(language.English)

// SexLabel renders a sex category for titles ("both" → "Both").
func SexLabel(sex string) string {
	return titleCaser.String(sex)
}

// HighlightTest is the Vega expression matching the states sel emphasises.
func HighlightTest(sel selection.Selection) string {
	states := selection.HighlightedStates(sel)
	terms := make([]string, len(states))
	for i, s := range states {
		terms[i] = fmt.Sprintf("datum.state === '%s'", escape(s))
	}
	return strings.Join(terms, " || ")
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

func strokeEncoding(sel selection.Selection) (width, colour map[string]any) {
	test := HighlightTest(sel)
	width = map[string]any{
		"condition": map[string]any{"test": test, "value": 3},
		"value":     0,
	}
	colour = map[string]any{
		"condition": map[string]any{"test": test, "value": "#000000"},
		"value":     "transparent",
	}
	return width, colour
}

func title(text string) map[string]any {
	return map[string]any{
		"text":       text,
		"fontSize":   18,
		"font":       "Arial",
		"anchor":     "middle",
		"fontWeight": "bold",
	}
}

// Combined is the scatter (income vs unemployment) and diverging bar pair.
func Combined(scatter []models.ScatterPoint, scatterYear int, div models.Diverging, sel selection.Selection) Spec {
	strokeWidth, stroke := strokeEncoding(sel)

	bars := make([]map[string]any, len(div.Rows))
	for i, r := range div.Rows {
		bars[i] = map[string]any{
			"state":        r.State,
			"median":       r.Median,
			"percent_diff": r.PercentDiff,
			"category":     engine.CategoryLabel(r.Category),
		}
	}

	return Spec{
		"$schema": schemaURL,
		"hconcat": []any{
			map[string]any{
				"title":  fmt.Sprintf("Median Income vs Unemployment Rate (%d)", scatterYear),
				"width":  400,
				"height": 400,
				"data":   map[string]any{"values": scatter},
				"layer": []any{
					map[string]any{
						"mark": map[string]any{"type": "point", "filled": true, "size": 120},
						"encoding": map[string]any{
							"x":           map[string]any{"field": "income_median", "type": "quantitative", "title": "Median Household Income (RM)"},
							"y":           map[string]any{"field": "u_rate", "type": "quantitative", "title": "Unemployment Rate (%)"},
							"strokeWidth": strokeWidth,
							"stroke":      stroke,
							"tooltip": []any{
								map[string]any{"field": "state", "type": "nominal", "title": "State"},
								map[string]any{"field": "income_median", "type": "quantitative", "title": "Median Income", "format": ",.0f"},
								map[string]any{"field": "u_rate", "type": "quantitative", "title": "Unemployment Rate (%)", "format": ".1f"},
							},
						},
					},
				},
			},
			map[string]any{
				"title":  fmt.Sprintf("Deviation from National Average Income (%d)", div.Year),
				"width":  400,
				"height": 400,
				"data":   map[string]any{"values": bars},
				"mark":   "bar",
				"encoding": map[string]any{
					"x": map[string]any{"field": "percent_diff", "type": "quantitative", "title": "% Difference from National Average"},
					"y": map[string]any{"field": "state", "type": "nominal", "sort": "-x", "title": "State"},
					"color": map[string]any{
						"field": "category",
						"type":  "nominal",
						"scale": map[string]any{
							"domain": []string{"Above Average", "Below Average"},
							"range":  []string{"#2e86c1", "#e67e22"},
						},
					},
					"strokeWidth": strokeWidth,
					"stroke":      stroke,
					"tooltip": []any{
						map[string]any{"field": "state", "type": "nominal", "title": "State"},
						map[string]any{"field": "median", "type": "quantitative", "title": "Median Income", "format": ",.0f"},
						map[string]any{"field": "percent_diff", "type": "quantitative", "title": "% Difference", "format": ".2f"},
					},
				},
			},
		},
	}
}
