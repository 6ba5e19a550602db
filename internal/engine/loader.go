package engine

import (
	"bytes"
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/csv"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/labstack/gommon/log"
)

// LoadTable reads a CSV file with a header row into a Table. A done ctx
// aborts the load with ctx's error.
func LoadTable(ctx context.Context, path string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	log.Infof("Loading %s...", path)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &ResourceLoadError{Resource: path, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, err := ReadTable(content)
	if err != nil {
		return nil, &ResourceLoadError{Resource: path, Err: err}
	}

	log.Infof("Load Complete. %s Rows: %d. Time: %v", path, t.Len(), time.Since(start))
	return t, nil
}

// ReadTable parses CSV content. Every column is read as a string column;
// type coercion happens later, per record, at the typed-row boundary.
func ReadTable(content []byte) (*Table, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, errors.New("empty csv")
	}

	header, lines, err := scanLayout(content)
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	fields := make([]arrow.Field, len(header))
	for i, h := range header {
		fields[i] = arrow.Field{Name: h, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	r := csv.NewReader(bytes.NewReader(content), schema,
		csv.WithHeader(true),
		csv.WithChunk(-1),
		csv.WithAllocator(memory.NewGoAllocator()),
	)
	defer r.Release()

	var rows [][]string
	for r.Next() {
		rec := r.Record()
		cols := make([]*array.String, rec.NumCols())
		for i := range cols {
			col, ok := rec.Column(i).(*array.String)
			if !ok {
				return nil, fmt.Errorf("column %q: unexpected type %s", header[i], rec.Column(i).DataType())
			}
			cols[i] = col
		}
		for j := 0; j < int(rec.NumRows()); j++ {
			row := make([]string, len(cols))
			for i, col := range cols {
				if col.IsValid(j) {
					row[i] = strings.TrimSpace(col.Value(j))
				}
			}
			rows = append(rows, row)
		}
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	return newTableAt(header, rows, lines), nil
}

// scanLayout reads the header record and the starting line of every
// data record. Quoted fields may contain commas and line breaks, so both
// come from a CSV read rather than from splitting lines.
func scanLayout(content []byte) (header []string, lines []int, err error) {
	r := stdcsv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1

	first, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("header: %w", err)
	}
	header = make([]string, len(first))
	for i, h := range first {
		header[i] = strings.TrimSpace(h)
	}

	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			return header, lines, nil
		}
		if err != nil {
			return nil, nil, err
		}
		line, _ := r.FieldPos(0)
		lines = append(lines, line)
	}
}
