package engine

import "math"

const (
	CategoryAbove = "above"
	CategoryBelow = "below"
)

// CategoryLabel is the legend text for a deviation category.
func CategoryLabel(category string) string {
	if category == CategoryAbove {
		return "Above Average"
	}
	return "Below Average"
}

type DeviationRow struct {
	Value       float64
	PercentDiff float64
	Category    string
}

type Deviation struct {
	Mean   float64
	PerRow []DeviationRow
}

// ComputeDeviation returns the arithmetic mean of values and each value's
// percent deviation from it. A deviation of exactly zero is "above".
func ComputeDeviation(values []float64) (Deviation, error) {
	if len(values) == 0 {
		return Deviation{}, ErrEmptyInput
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return Deviation{}, ErrZeroMean
	}
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return Deviation{}, ErrNonFinite
	}

	dev := Deviation{Mean: mean, PerRow: make([]DeviationRow, len(values))}
	for i, v := range values {
		pd := (v - mean) / mean * 100
		cat := CategoryBelow
		if pd >= 0 {
			cat = CategoryAbove
		}
		dev.PerRow[i] = DeviationRow{Value: v, PercentDiff: pd, Category: cat}
	}
	return dev, nil
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
