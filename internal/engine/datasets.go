package engine

import (
	"sort"

	"github.com/labstack/gommon/log"

	"statsdash/internal/models"
)

// AvailableYears returns the distinct calendar years of field, ascending.
func AvailableYears(t *Table, field string) []int {
	seen := make(map[int]bool)
	years := make([]int, 0)
	for _, r := range t.records {
		d, err := ParseDate(r.Value(field))
		if err != nil || seen[d.Year()] {
			continue
		}
		seen[d.Year()] = true
		years = append(years, d.Year())
	}
	sort.Ints(years)
	return years
}

// BuildScatterDataset pairs each state's income with its combined-sex
// unemployment rate for year. Income rows without an unemployment row
// for that year are dropped, as are rows whose numbers fail to parse.
func BuildScatterDataset(income, labor *Table, year int) []models.ScatterPoint {
	incomeYear := FilterByYear(income, FieldDate, year)
	laborYear := FilterByCategory(FilterByYear(labor, FieldDate, year), FieldSex, SexBoth)

	points := make([]models.ScatterPoint, 0, incomeYear.Len())
	for _, jr := range JoinByKey(incomeYear, laborYear, FieldState) {
		if !jr.Matched {
			continue
		}
		in, err := IncomeRowFrom(jr.Left)
		if err != nil {
			log.Debugf("scatter: skip income record: %v", err)
			continue
		}
		uRate, err := parseFloatField(jr.Right, FieldUnemployment)
		if err != nil {
			log.Debugf("scatter: skip labour record: %v", err)
			continue
		}
		points = append(points, models.ScatterPoint{
			State:            in.State,
			IncomeMedian:     in.IncomeMedian,
			IncomePercentile: in.IncomePercentile,
			UnemploymentRate: uRate,
		})
	}
	return points
}

// BuildDivergingDataset computes each state's median income deviation
// from the national mean for year. A year without usable rows yields a
// *NoDataForYearError.
func BuildDivergingDataset(income *Table, year int) (models.Diverging, error) {
	incomeYear := FilterByYear(income, FieldDate, year)

	rows := IncomeRows(incomeYear)
	if len(rows) == 0 {
		return models.Diverging{}, &NoDataForYearError{Year: year, Available: AvailableYears(income, FieldDate)}
	}

	medians := make([]float64, len(rows))
	for i, r := range rows {
		medians[i] = r.IncomeMedian
	}
	dev, err := ComputeDeviation(medians)
	if err != nil {
		return models.Diverging{}, err
	}

	out := models.Diverging{
		Year:         year,
		NationalMean: dev.Mean,
		Rows:         make([]models.DivergingRow, len(rows)),
	}
	for i, r := range rows {
		out.Rows[i] = models.DivergingRow{
			State:       r.State,
			Median:      r.IncomeMedian,
			PercentDiff: dev.PerRow[i].PercentDiff,
			Category:    dev.PerRow[i].Category,
		}
	}
	return out, nil
}
