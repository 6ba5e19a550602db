package chartspec

import (
	"fmt"

	"statsdash/internal/engine"
	"statsdash/internal/models"
)

// Choropleth draws one measure per state over the state boundaries found
// at topoURL; feature names must match the state key.
func Choropleth(c models.Choropleth, topoURL string) Spec {
	field, legend, scheme := "value", "Median Income (RM)", "blues"
	if c.Measure == engine.MeasureUnemployment {
		legend, scheme = "Unemployment Rate (%)", "oranges"
	}

	return Spec{
		"$schema": schemaURL,
		"title":   fmt.Sprintf("%s %d", legend, c.Year),
		"width":   "container",
		"height":  300,
		"layer": []any{
			map[string]any{
				"data":       map[string]any{"url": topoURL, "format": map[string]any{"type": "topojson", "feature": "states"}},
				"projection": map[string]any{"type": "mercator"},
				"mark":       map[string]any{"type": "geoshape", "fill": "#eeeeee", "stroke": "white"},
			},
			map[string]any{
				"data":       map[string]any{"url": topoURL, "format": map[string]any{"type": "topojson", "feature": "states"}},
				"projection": map[string]any{"type": "mercator"},
				"transform": []any{
					map[string]any{
						"lookup": "properties.name",
						"from": map[string]any{
							"data":   map[string]any{"values": c.Rows},
							"key":    "state",
							"fields": []string{"state", field, "opacity"},
						},
					},
				},
				"mark": map[string]any{"type": "geoshape", "stroke": "white", "strokeOpacity": 0.5},
				"encoding": map[string]any{
					"color":   map[string]any{"field": field, "type": "quantitative", "title": legend, "scale": map[string]any{"scheme": scheme}},
					"opacity": map[string]any{"field": "opacity", "type": "quantitative", "scale": nil, "legend": nil},
					"tooltip": []any{
						map[string]any{"field": "state", "type": "nominal", "title": "State"},
						map[string]any{"field": field, "type": "quantitative", "title": legend, "format": ",.1f"},
					},
				},
			},
		},
	}
}
