package engine

import (
	"fmt"
	"sort"
	"time"

	"statsdash/internal/models"
)

// Year span covered by the labour-force views.
const (
	FirstLaborYear = 2012
	LastLaborYear  = 2022
)

type aggStats struct {
	Sum   float64
	Count int
}

func (a aggStats) mean() float64 {
	if a.Count == 0 {
		return 0
	}
	return a.Sum / float64(a.Count)
}

// BuildHeatmap returns participation rate cells by state and year for one
// sex. Several rows for the same state and year are averaged. States are
// ordered by mean participation rate, highest first.
func BuildHeatmap(labor *Table, sex string) models.Heatmap {
	scoped := FilterByCategory(FilterByYearRange(labor, FieldDate, FirstLaborYear, LastLaborYear), FieldSex, sex)
	rows := LaborRows(scoped, FieldParticipation)

	type cellKey struct {
		state string
		year  int
	}
	cells := make(map[cellKey]*aggStats)
	order := make([]cellKey, 0)
	perState := make(map[string]*aggStats)

	for _, r := range rows {
		k := cellKey{r.State, r.Year}
		c, ok := cells[k]
		if !ok {
			c = &aggStats{}
			cells[k] = c
			order = append(order, k)
		}
		c.Sum += *r.ParticipationRate
		c.Count++

		s, ok := perState[r.State]
		if !ok {
			s = &aggStats{}
			perState[r.State] = s
		}
		s.Sum += *r.ParticipationRate
		s.Count++
	}

	out := models.Heatmap{
		Sex:    sex,
		States: make([]string, 0, len(perState)),
		Cells:  make([]models.HeatmapCell, 0, len(order)),
	}
	for state := range perState {
		out.States = append(out.States, state)
	}
	sort.Slice(out.States, func(i, j int) bool {
		mi, mj := perState[out.States[i]].mean(), perState[out.States[j]].mean()
		if mi != mj {
			return mi > mj
		}
		return out.States[i] < out.States[j]
	})

	for _, k := range order {
		out.Cells = append(out.Cells, models.HeatmapCell{
			State:             k.state,
			Year:              k.year,
			Sex:               sex,
			ParticipationRate: cells[k].mean(),
		})
	}
	return out
}

// BuildParticipationSeries sums the states' participation rates per date
// for one sex. Detail holds the points inside the brush [from, to]; a
// zero bound leaves that side open.
func BuildParticipationSeries(labor *Table, sex string, from, to time.Time) models.ParticipationSeries {
	scoped := FilterByCategory(FilterByYearRange(labor, FieldDate, FirstLaborYear, LastLaborYear), FieldSex, sex)
	rows := LaborRows(scoped, FieldParticipation)

	totals := make(map[time.Time]float64)
	for _, r := range rows {
		totals[r.Date] += *r.ParticipationRate
	}
	dates := make([]time.Time, 0, len(totals))
	for d := range totals {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := models.ParticipationSeries{
		Sex:    sex,
		Points: make([]models.ParticipationPoint, 0, len(dates)),
		Detail: make([]models.ParticipationPoint, 0, len(dates)),
	}
	if !from.IsZero() {
		out.From = from.Format(time.DateOnly)
	}
	if !to.IsZero() {
		out.To = to.Format(time.DateOnly)
	}

	for _, d := range dates {
		p := models.ParticipationPoint{Date: d.Format(time.DateOnly), Total: totals[d]}
		out.Points = append(out.Points, p)
		if (from.IsZero() || !d.Before(from)) && (to.IsZero() || !d.After(to)) {
			out.Detail = append(out.Detail, p)
		}
	}
	return out
}

// Choropleth measures.
const (
	MeasureIncome       = "income"
	MeasureUnemployment = "unemployment"
)

// BuildChoropleth returns one value per state for year: median income, or
// the combined-sex unemployment rate. opacity decides each state's
// opacity.
func BuildChoropleth(t *Table, measure string, year int, opacity func(state string) float64) (models.Choropleth, error) {
	out := models.Choropleth{Measure: measure, Year: year}

	scoped := FilterByYear(t, FieldDate, year)
	switch measure {
	case MeasureIncome:
		for _, r := range IncomeRows(scoped) {
			out.Rows = append(out.Rows, models.MapRow{State: r.State, Value: r.IncomeMedian, Opacity: opacity(r.State)})
		}
	case MeasureUnemployment:
		for _, r := range LaborRows(FilterByCategory(scoped, FieldSex, SexBoth), FieldUnemployment) {
			out.Rows = append(out.Rows, models.MapRow{State: r.State, Value: *r.UnemploymentRate, Opacity: opacity(r.State)})
		}
	default:
		return out, fmt.Errorf("unknown measure %q", measure)
	}

	if len(out.Rows) == 0 {
		return out, &NoDataForYearError{Year: year, Available: AvailableYears(t, FieldDate)}
	}
	return out, nil
}
