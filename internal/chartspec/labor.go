package chartspec

import (
	"fmt"

	"statsdash/internal/engine"
	"statsdash/internal/models"
)

var heatmapPalette = []string{"#DBF1FF", "#85c1e9", "#3498db", "#21618c", "#154360"}

// HeatmapThresholds are the colour breakpoints of the participation heatmap.
var HeatmapThresholds = map[string][]float64{
	engine.SexBoth:   {60, 65, 70, 75},
	engine.SexFemale: {45, 50, 55, 60},
	engine.SexMale:   {75, 80, 85, 90},
}

// SeriesDomains are the y-axis ranges of the summed participation series.
var SeriesDomains = map[string][2]float64{
	engine.SexBoth:   {1029, 1088},
	engine.SexFemale: {734, 820},
	engine.SexMale:   {1173, 1215},
}

func Heatmap(h models.Heatmap) Spec {
	return Spec{
		"$schema": schemaURL,
		"data":    map[string]any{"values": h.Cells},
		"title": title(fmt.Sprintf("Participation Rate by State (%d-%d) - %s",
			engine.FirstLaborYear, engine.LastLaborYear, SexLabel(h.Sex))),
		"width":  "container",
		"height": 400,
		"mark":   map[string]any{"type": "rect", "stroke": "white", "strokeWidth": 1},
		"encoding": map[string]any{
			"x": map[string]any{"field": "year", "type": "ordinal", "title": "Year", "axis": map[string]any{"labelAngle": 0}},
			"y": map[string]any{"field": "state", "type": "nominal", "title": "State", "sort": h.States},
			"color": map[string]any{
				"field": "p_rate",
				"type":  "quantitative",
				"title": "Participation Rate (%)",
				"scale": map[string]any{
					"type":   "threshold",
					"domain": HeatmapThresholds[h.Sex],
					"range":  heatmapPalette,
				},
				"legend": map[string]any{"direction": "horizontal", "orient": "bottom"},
			},
			"tooltip": []any{
				map[string]any{"field": "state", "type": "nominal", "title": "State"},
				map[string]any{"field": "year", "type": "ordinal", "title": "Year"},
				map[string]any{"field": "sex", "type": "nominal", "title": "Sex"},
				map[string]any{"field": "p_rate", "type": "quantitative", "title": "Participation Rate (%)", "format": ".2f"},
			},
		},
		"config": map[string]any{"view": map[string]any{"strokeWidth": 0}},
	}
}

// Participation is the detail series over a brushable overview strip.
func Participation(s models.ParticipationSeries) Spec {
	x := map[string]any{"field": "date", "type": "temporal", "title": ""}
	if s.From != "" && s.To != "" {
		x["scale"] = map[string]any{"domain": []string{s.From, s.To}}
	}
	y := map[string]any{"field": "total_p_rate", "type": "quantitative", "title": "Sum of State Participation Rates",
		"scale": map[string]any{"zero": false, "nice": true}}
	if d, ok := SeriesDomains[s.Sex]; ok {
		y["scale"] = map[string]any{"zero": false, "domain": []float64{d[0], d[1]}}
	}

	return Spec{
		"$schema": schemaURL,
		"vconcat": []any{
			map[string]any{
				"width":  "container",
				"height": 300,
				"title": title(fmt.Sprintf("Cumulative State Participation Rates (%d–%d) - %s",
					engine.FirstLaborYear, engine.LastLaborYear, SexLabel(s.Sex))),
				"data": map[string]any{"values": s.Detail},
				"layer": []any{
					map[string]any{"mark": map[string]any{"type": "area", "color": "#1f77b4", "opacity": 0.3}, "encoding": map[string]any{"x": x, "y": y}},
					map[string]any{"mark": map[string]any{"type": "line", "strokeWidth": 3, "color": "#1f77b4"}, "encoding": map[string]any{"x": x, "y": y}},
					map[string]any{
						"mark": map[string]any{"type": "point", "size": 100, "filled": true, "color": "#1f77b4"},
						"encoding": map[string]any{
							"x": x,
							"y": y,
							"tooltip": []any{
								map[string]any{"field": "date", "type": "temporal", "title": "Date", "format": "%b %Y"},
								map[string]any{"field": "total_p_rate", "type": "quantitative", "title": "Sum of State Rates", "format": ".2f"},
							},
						},
					},
				},
			},
			map[string]any{
				"width":  "container",
				"height": 60,
				"title":  "Use this chart to filter data by time",
				"data":   map[string]any{"values": s.Points},
				"params": []any{map[string]any{"name": "brush", "select": map[string]any{"type": "interval", "encodings": []string{"x"}}}},
				"mark":   map[string]any{"type": "area", "color": "#1f77b4", "opacity": 0.5},
				"encoding": map[string]any{
					"x": map[string]any{"field": "date", "type": "temporal", "axis": map[string]any{"title": "Year", "format": "%Y"}},
					"y": map[string]any{"field": "total_p_rate", "type": "quantitative", "title": "Cumulative Rate", "axis": map[string]any{"tickCount": 3, "grid": false}},
				},
			},
		},
		"config": map[string]any{"view": map[string]any{"strokeWidth": 0}},
	}
}
