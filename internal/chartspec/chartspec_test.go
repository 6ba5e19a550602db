package chartspec

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statsdash/internal/engine"
	"statsdash/internal/models"
	"statsdash/internal/selection"
)

func TestHighlightTest(t *testing.T) {
	tests := []struct {
		description string
		sel         selection.Selection
		expected    string
	}{
		{description: "default highlights", sel: selection.None, expected: "datum.state === 'Kuala Lumpur' || datum.state === 'Kelantan'"},
		{description: "selected state", sel: selection.Of("Johor"), expected: "datum.state === 'Johor'"},
		{description: "quotes are escaped", sel: selection.Of("O'Reilly"), expected: `datum.state === 'O\'Reilly'`},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.expected, HighlightTest(tt.sel))
		})
	}
}

func TestSexLabel(t *testing.T) {
	assert.Equal(t, "Both", SexLabel(engine.SexBoth))
	assert.Equal(t, "Female", SexLabel(engine.SexFemale))
	assert.Equal(t, "Male", SexLabel(engine.SexMale))
}

func TestCombined(t *testing.T) {
	div := models.Diverging{
		Year:         2022,
		NationalMean: 7000,
		Rows: []models.DivergingRow{
			{State: "Selangor", Median: 8500, PercentDiff: 21.43, Category: engine.CategoryAbove},
			{State: "Perlis", Median: 5500, PercentDiff: -21.43, Category: engine.CategoryBelow},
		},
	}
	spec := Combined(nil, 2022, div, selection.Of("Perlis"))

	panels, ok := spec["hconcat"].([]any)
	require.True(t, ok)
	require.Len(t, panels, 2)

	bars := panels[1].(map[string]any)
	assert.Equal(t, "Deviation from National Average Income (2022)", bars["title"])
	values := bars["data"].(map[string]any)["values"].([]map[string]any)
	assert.Equal(t, "Above Average", values[0]["category"])
	assert.Equal(t, "Below Average", values[1]["category"])

	width := bars["encoding"].(map[string]any)["strokeWidth"].(map[string]any)
	cond := width["condition"].(map[string]any)
	assert.Equal(t, "datum.state === 'Perlis'", cond["test"])
	assert.Equal(t, 3, cond["value"])

	_, err := json.Marshal(spec)
	assert.NoError(t, err)
}

func TestHeatmapThresholdsFollowSex(t *testing.T) {
	for sex, domain := range HeatmapThresholds {
		spec := Heatmap(models.Heatmap{Sex: sex, States: []string{"Johor"}})
		scale := spec["encoding"].(map[string]any)["color"].(map[string]any)["scale"].(map[string]any)
		assert.Equal(t, domain, scale["domain"], sex)
		assert.Len(t, scale["range"], len(domain)+1, "threshold scales need one more colour than breakpoints")
	}

	title := Heatmap(models.Heatmap{Sex: engine.SexFemale})["title"].(map[string]any)
	assert.Equal(t, "Participation Rate by State (2012-2022) - Female", title["text"])
}

func TestParticipationDomain(t *testing.T) {
	spec := Participation(models.ParticipationSeries{Sex: engine.SexMale, From: "2015-01-01", To: "2018-01-01"})
	detail := spec["vconcat"].([]any)[0].(map[string]any)
	layer := detail["layer"].([]any)[0].(map[string]any)
	enc := layer["encoding"].(map[string]any)

	y := enc["y"].(map[string]any)["scale"].(map[string]any)
	assert.Equal(t, []float64{1173, 1215}, y["domain"])

	x := enc["x"].(map[string]any)["scale"].(map[string]any)
	assert.Equal(t, []string{"2015-01-01", "2018-01-01"}, x["domain"])
}

func TestChoropleth(t *testing.T) {
	c := models.Choropleth{Measure: engine.MeasureUnemployment, Year: 2012, Rows: []models.MapRow{{State: "Johor", Value: 2.4, Opacity: 1}}}
	spec := Choropleth(c, "states.topojson")
	assert.Equal(t, "Unemployment Rate (%) 2012", spec["title"])

	layers := spec["layer"].([]any)
	require.Len(t, layers, 2)
	data := layers[0].(map[string]any)["data"].(map[string]any)
	assert.Equal(t, "states.topojson", data["url"])

	color := layers[1].(map[string]any)["encoding"].(map[string]any)["color"].(map[string]any)
	assert.Equal(t, map[string]any{"scheme": "oranges"}, color["scale"])
}
