package engine

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate parses the date formats found in the source datasets.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// FilterByYear returns the records whose yearField parses as a date in
// targetYear. Records with an unparseable date are excluded. Order is kept.
func FilterByYear(t *Table, yearField string, targetYear int) *Table {
	return filter(t, func(r Record) bool {
		d, err := ParseDate(r.Value(yearField))
		return err == nil && d.Year() == targetYear
	})
}

// FilterByYearRange keeps records whose date year lies in [from, to].
func FilterByYearRange(t *Table, yearField string, from, to int) *Table {
	return filter(t, func(r Record) bool {
		d, err := ParseDate(r.Value(yearField))
		return err == nil && d.Year() >= from && d.Year() <= to
	})
}

// FilterByCategory returns the records whose field equals value exactly.
func FilterByCategory(t *Table, field, value string) *Table {
	return filter(t, func(r Record) bool {
		v, ok := r.Get(field)
		return ok && v == value
	})
}

// Single pass; the result shares records with t.
func filter(t *Table, keep func(Record) bool) *Table {
	indices := make([]int, 0, len(t.records))
	for i, r := range t.records {
		if keep(r) {
			indices = append(indices, i)
		}
	}
	return t.subset(indices)
}
