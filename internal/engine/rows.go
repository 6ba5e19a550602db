package engine

import (
	"errors"
	"math"
	"strconv"

	"github.com/labstack/gommon/log"

	"statsdash/internal/models"
)

// Source column names.
const (
	FieldState            = "state"
	FieldDate             = "date"
	FieldSex              = "sex"
	FieldIncomeMean       = "income_mean"
	FieldIncomeMedian     = "income_median"
	FieldIncomePercentile = "income_percentile"
	FieldParticipation    = "p_rate"
	FieldUnemployment     = "u_rate"
)

const (
	SexBoth   = "both"
	SexFemale = "female"
	SexMale   = "male"
)

// Sexes lists the sex categories of the labour-force dataset.
var Sexes = []string{SexBoth, SexFemale, SexMale}

func ValidSex(s string) bool {
	for _, v := range Sexes {
		if v == s {
			return true
		}
	}
	return false
}

var errMissing = errors.New("missing value")

func parseFloatField(r Record, field string) (float64, error) {
	raw, ok := r.Get(field)
	if !ok || raw == "" {
		return 0, &ParseError{Field: field, Value: raw, Line: r.Line(), Err: errMissing}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ParseError{Field: field, Value: raw, Line: r.Line(), Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{Field: field, Value: raw, Line: r.Line(), Err: ErrNonFinite}
	}
	return v, nil
}

// optionalFloatField returns nil for an absent or blank field.
func optionalFloatField(r Record, field string) (*float64, error) {
	if raw, ok := r.Get(field); !ok || raw == "" {
		return nil, nil
	}
	v, err := parseFloatField(r, field)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func requireString(r Record, field string) (string, error) {
	v, ok := r.Get(field)
	if !ok || v == "" {
		return "", &ParseError{Field: field, Value: v, Line: r.Line(), Err: errMissing}
	}
	return v, nil
}

// IncomeRowFrom coerces one income record.
func IncomeRowFrom(r Record) (models.IncomeRow, error) {
	var row models.IncomeRow
	var err error

	if row.State, err = requireString(r, FieldState); err != nil {
		return row, err
	}
	raw := r.Value(FieldDate)
	if row.Date, err = ParseDate(raw); err != nil {
		return row, &ParseError{Field: FieldDate, Value: raw, Line: r.Line(), Err: err}
	}
	row.Year = row.Date.Year()
	if row.IncomeMedian, err = parseFloatField(r, FieldIncomeMedian); err != nil {
		return row, err
	}
	mean, err := optionalFloatField(r, FieldIncomeMean)
	if err != nil {
		return row, err
	}
	if mean != nil {
		row.IncomeMean = *mean
	}
	if row.IncomePercentile, err = optionalFloatField(r, FieldIncomePercentile); err != nil {
		return row, err
	}
	return row, nil
}

// LaborRowFrom coerces one labour-force record for a view reading the
// measure column (FieldParticipation or FieldUnemployment). Only that
// measure must parse; the other rate is kept when it parses and left nil
// otherwise.
func LaborRowFrom(r Record, measure string) (models.LaborRow, error) {
	var row models.LaborRow
	var err error

	if row.State, err = requireString(r, FieldState); err != nil {
		return row, err
	}
	if row.Sex, err = requireString(r, FieldSex); err != nil {
		return row, err
	}
	raw := r.Value(FieldDate)
	if row.Date, err = ParseDate(raw); err != nil {
		return row, &ParseError{Field: FieldDate, Value: raw, Line: r.Line(), Err: err}
	}
	row.Year = row.Date.Year()
	if _, err := parseFloatField(r, measure); err != nil {
		return row, err
	}
	row.ParticipationRate = lenientFloatField(r, FieldParticipation)
	row.UnemploymentRate = lenientFloatField(r, FieldUnemployment)
	return row, nil
}

func lenientFloatField(r Record, field string) *float64 {
	v, err := parseFloatField(r, field)
	if err != nil {
		return nil
	}
	return &v
}

// IncomeRows coerces every record of t, skipping the ones that fail.
func IncomeRows(t *Table) []models.IncomeRow {
	rows := make([]models.IncomeRow, 0, t.Len())
	skipped := 0
	for _, r := range t.records {
		row, err := IncomeRowFrom(r)
		if err != nil {
			skipped++
			log.Debugf("skip income record: %v", err)
			continue
		}
		rows = append(rows, row)
	}
	if skipped > 0 {
		log.Warnf("income: skipped %d of %d records", skipped, t.Len())
	}
	return rows
}

// LaborRows coerces every record of t for measure, skipping the ones
// that fail.
func LaborRows(t *Table, measure string) []models.LaborRow {
	rows := make([]models.LaborRow, 0, t.Len())
	skipped := 0
	for _, r := range t.records {
		row, err := LaborRowFrom(r, measure)
		if err != nil {
			skipped++
			log.Debugf("skip labour record: %v", err)
			continue
		}
		rows = append(rows, row)
	}
	if skipped > 0 {
		log.Warnf("labour: skipped %d of %d records", skipped, t.Len())
	}
	return rows
}
