package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrEmptyInput is returned when an aggregate is requested over zero values.
	ErrEmptyInput = errors.New("aggregate over empty input")

	// ErrZeroMean is returned when a percent deviation would divide by a zero mean.
	ErrZeroMean = errors.New("percent deviation from a zero mean")

	ErrNonFinite = errors.New("non-finite value in aggregate input")
)

// ParseError reports a field that failed type coercion. The offending
// record is excluded; the batch carries on.
type ParseError struct {
	Field string
	Value string
	Line  int
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: field %q: cannot parse %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NoDataForYearError reports a year with no rows in the requested dataset.
type NoDataForYearError struct {
	Year      int
	Available []int
}

func (e *NoDataForYearError) Error() string {
	years := make([]string, len(e.Available))
	for i, y := range e.Available {
		years[i] = strconv.Itoa(y)
	}
	return fmt.Sprintf("data not available for year %d; available years: %s", e.Year, strings.Join(years, ", "))
}

// ResourceLoadError reports a source table that could not be loaded.
type ResourceLoadError struct {
	Resource string
	Err      error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Resource, e.Err)
}

func (e *ResourceLoadError) Unwrap() error { return e.Err }
