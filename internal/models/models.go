package models

import "time"

type IncomeRow struct {
	State            string    `json:"state"`
	Date             time.Time `json:"date"`
	Year             int       `json:"year"`
	IncomeMean       float64   `json:"income_mean"`
	IncomeMedian     float64   `json:"income_median"`
	IncomePercentile *float64  `json:"income_percentile,omitempty"`
}

// LaborRow is one labour-force record. A rate is nil when its column is
// blank or unparseable.
type LaborRow struct {
	State             string    `json:"state"`
	Sex               string    `json:"sex"`
	Date              time.Time `json:"date"`
	Year              int       `json:"year"`
	ParticipationRate *float64  `json:"p_rate,omitempty"`
	UnemploymentRate  *float64  `json:"u_rate,omitempty"`
}

// ScatterPoint pairs a state's income with its unemployment rate for one year.
type ScatterPoint struct {
	State            string   `json:"state"`
	IncomeMedian     float64  `json:"income_median"`
	IncomePercentile *float64 `json:"income_percentile,omitempty"`
	UnemploymentRate float64  `json:"u_rate"`
}

type DivergingRow struct {
	State       string  `json:"state"`
	Median      float64 `json:"median"`
	PercentDiff float64 `json:"percent_diff"`
	Category    string  `json:"category"`
}

type Diverging struct {
	Year         int            `json:"year"`
	NationalMean float64        `json:"national_mean"`
	Rows         []DivergingRow `json:"rows"`
}

type HeatmapCell struct {
	State             string  `json:"state"`
	Year              int     `json:"year"`
	Sex               string  `json:"sex"`
	ParticipationRate float64 `json:"p_rate"`
}

type Heatmap struct {
	Sex    string        `json:"sex"`
	States []string      `json:"states"` // ordered by mean participation, highest first
	Cells  []HeatmapCell `json:"cells"`
}

type ParticipationPoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Total float64 `json:"total_p_rate"`
}

type ParticipationSeries struct {
	Sex    string               `json:"sex"`
	From   string               `json:"from,omitempty"`
	To     string               `json:"to,omitempty"`
	Points []ParticipationPoint `json:"points"`
	Detail []ParticipationPoint `json:"detail"`
}

type MapRow struct {
	State   string  `json:"state"`
	Value   float64 `json:"value"`
	Opacity float64 `json:"opacity"`
}

type Choropleth struct {
	Measure string   `json:"measure"` // "income" or "unemployment"
	Year    int      `json:"year"`
	Rows    []MapRow `json:"rows"`
}

// NotAvailable is the user-facing state shown in place of a view with no rows.
type NotAvailable struct {
	Error          string `json:"error"`
	Year           int    `json:"year"`
	AvailableYears []int  `json:"availableYears"`
}
