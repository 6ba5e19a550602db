package dashboard

import (
	"errors"

	"statsdash/internal/chartspec"
	"statsdash/internal/engine"
	"statsdash/internal/models"
	"statsdash/internal/selection"
)

// Views is everything a client needs to draw the dashboard. A view that
// could not be built carries Error or NotAvailable; the others are
// unaffected.
type Views struct {
	Selection     string            `json:"selection,omitempty"`
	Controls      Controls          `json:"controls"`
	Combined      CombinedView      `json:"combined"`
	Heatmap       HeatmapView       `json:"heatmap"`
	Participation ParticipationView `json:"participation"`
	Maps          []ChoroplethView  `json:"maps"`
}

type CombinedView struct {
	ScatterYear  int                                 `json:"scatterYear"`
	Scatter      []models.ScatterPoint               `json:"scatter,omitempty"`
	Diverging    *models.Diverging                   `json:"diverging,omitempty"`
	Highlights   map[string]selection.HighlightStyle `json:"highlights,omitempty"`
	Spec         chartspec.Spec                      `json:"spec,omitempty"`
	NotAvailable *models.NotAvailable                `json:"notAvailable,omitempty"`
	Error        string                              `json:"error,omitempty"`
}

type HeatmapView struct {
	Data  *models.Heatmap `json:"data,omitempty"`
	Spec  chartspec.Spec  `json:"spec,omitempty"`
	Error string          `json:"error,omitempty"`
}

type ParticipationView struct {
	Data  *models.ParticipationSeries `json:"data,omitempty"`
	Spec  chartspec.Spec              `json:"spec,omitempty"`
	Error string                      `json:"error,omitempty"`
}

type ChoroplethView struct {
	Data         *models.Choropleth   `json:"data,omitempty"`
	Spec         chartspec.Spec       `json:"spec,omitempty"`
	NotAvailable *models.NotAvailable `json:"notAvailable,omitempty"`
	Error        string               `json:"error,omitempty"`
}

// Render derives every view from store for the session's current
// controls and selection.
func (s *Session) Render(store *engine.Store) Views {
	s.mu.Lock()
	controls := s.controls
	sel := s.sel.Current()
	s.mu.Unlock()

	v := Views{
		Selection: sel.State(),
		Controls:  controls,
	}
	v.Combined = RenderCombined(store, s.opts.ScatterYear, controls.DivergingYear, sel)

	labor, err := store.LaborTable()
	if err != nil {
		v.Heatmap.Error = err.Error()
		v.Participation.Error = err.Error()
	} else {
		v.Heatmap = RenderHeatmap(labor, controls.Sex)
		v.Participation = RenderParticipation(labor, controls)
	}

	for _, year := range controls.MapYears {
		v.Maps = append(v.Maps,
			RenderChoropleth(store, engine.MeasureIncome, year, sel, s.opts.TopoURL),
			RenderChoropleth(store, engine.MeasureUnemployment, year, sel, s.opts.TopoURL),
		)
	}
	return v
}

// RenderCombined builds the scatter and diverging pair. The scatter needs
// both tables; the diverging chart only the income table.
func RenderCombined(store *engine.Store, scatterYear, divergingYear int, sel selection.Selection) CombinedView {
	v := CombinedView{ScatterYear: scatterYear}

	income, err := store.IncomeTable()
	if err != nil {
		v.Error = err.Error()
		return v
	}

	div, err := engine.BuildDivergingDataset(income, divergingYear)
	if err != nil {
		var nd *engine.NoDataForYearError
		if errors.As(err, &nd) {
			v.NotAvailable = NotAvailableFrom(nd)
			return v
		}
		v.Error = err.Error()
		return v
	}
	v.Diverging = &div

	if labor, err := store.LaborTable(); err != nil {
		v.Error = err.Error()
	} else {
		v.Scatter = engine.BuildScatterDataset(income, labor, scatterYear)
	}

	v.Highlights = make(map[string]selection.HighlightStyle, len(div.Rows))
	for _, r := range div.Rows {
		v.Highlights[r.State] = selection.Highlight(r.State, sel)
	}
	v.Spec = chartspec.Combined(v.Scatter, scatterYear, div, sel)
	return v
}

func RenderHeatmap(labor *engine.Table, sex string) HeatmapView {
	h := engine.BuildHeatmap(labor, sex)
	return HeatmapView{Data: &h, Spec: chartspec.Heatmap(h)}
}

func RenderParticipation(labor *engine.Table, c Controls) ParticipationView {
	series := engine.BuildParticipationSeries(labor, c.Sex, c.BrushFrom, c.BrushTo)
	return ParticipationView{Data: &series, Spec: chartspec.Participation(series)}
}

func RenderChoropleth(store *engine.Store, measure string, year int, sel selection.Selection, topoURL string) ChoroplethView {
	var v ChoroplethView

	t, err := store.IncomeTable()
	if measure == engine.MeasureUnemployment {
		t, err = store.LaborTable()
	}
	if err != nil {
		v.Error = err.Error()
		return v
	}

	c, err := engine.BuildChoropleth(t, measure, year, func(state string) float64 {
		return selection.MapOpacity(state, sel)
	})
	if err != nil {
		var nd *engine.NoDataForYearError
		if errors.As(err, &nd) {
			v.NotAvailable = NotAvailableFrom(nd)
			return v
		}
		v.Error = err.Error()
		return v
	}
	v.Data = &c
	v.Spec = chartspec.Choropleth(c, topoURL)
	return v
}

// NotAvailableFrom converts the error into its user-facing form.
func NotAvailableFrom(err *engine.NoDataForYearError) *models.NotAvailable {
	return &models.NotAvailable{
		Error:          err.Error(),
		Year:           err.Year,
		AvailableYears: err.Available,
	}
}
