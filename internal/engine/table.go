package engine

// Record is one parsed CSV row. It is never modified after construction.
type Record struct {
	line   int
	fields map[string]string
}

// Get returns the value of field and whether the field exists.
func (r Record) Get(field string) (string, bool) {
	v, ok := r.fields[field]
	return v, ok
}

// Value returns the value of field, or "" when absent.
func (r Record) Value(field string) string {
	return r.fields[field]
}

// Line is the 1-indexed source line the record came from (0 if built in memory).
func (r Record) Line() int { return r.line }

// Table is an ordered sequence of records sharing one header.
type Table struct {
	header  []string
	records []Record
}

// NewTable builds a table from a header and raw rows. Row i becomes
// record i; values are matched to header fields by position, missing
// trailing values are stored as "" and surplus values are dropped, so
// every record carries exactly the header's field set.
func NewTable(header []string, rows [][]string) *Table {
	return newTableAt(header, rows, nil)
}

// newTableAt is NewTable with the source line of each row. Without lines
// (or with a count that does not match rows) row i is taken to start on
// line i+2.
func newTableAt(header []string, rows [][]string, lines []int) *Table {
	if len(lines) != len(rows) {
		lines = nil
	}
	t := &Table{
		header:  append([]string(nil), header...),
		records: make([]Record, 0, len(rows)),
	}
	for i, row := range rows {
		line := i + 2
		if lines != nil {
			line = lines[i]
		}
		t.records = append(t.records, t.newRecord(row, line))
	}
	return t
}

func (t *Table) newRecord(row []string, line int) Record {
	fields := make(map[string]string, len(t.header))
	for j, h := range t.header {
		if j < len(row) {
			fields[h] = row[j]
		} else {
			fields[h] = ""
		}
	}
	return Record{line: line, fields: fields}
}

// Header returns a copy of the field names.
func (t *Table) Header() []string {
	return append([]string(nil), t.header...)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Record returns the i-th record.
func (t *Table) Record(i int) Record {
	return t.records[i]
}

// Records returns the records in order. The slice is a copy; the records
// themselves are immutable.
func (t *Table) Records() []Record {
	return append([]Record(nil), t.records...)
}

// subset returns a table sharing t's header with the records at indices.
func (t *Table) subset(indices []int) *Table {
	out := &Table{header: t.header, records: make([]Record, 0, len(indices))}
	for _, i := range indices {
		out.records = append(out.records, t.records[i])
	}
	return out
}
