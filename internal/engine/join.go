package engine

// JoinedRow holds a left record and its first matching right record.
// Matched is false when the right side has no record with the same key.
type JoinedRow struct {
	Left    Record
	Right   Record
	Matched bool
}

// JoinByKey pairs every left record with the first right record, in the
// right table's order, whose keyField value is equal. Unmatched left
// records are kept with Matched false.
//
// The lookup is a linear scan of right per left record. KeyIndex gives
// the same result with a map.
func JoinByKey(left, right *Table, keyField string) []JoinedRow {
	out := make([]JoinedRow, 0, left.Len())
	for _, l := range left.records {
		row := JoinedRow{Left: l}
		key, ok := l.Get(keyField)
		if ok {
			for _, r := range right.records {
				if rk, ok := r.Get(keyField); ok && rk == key {
					row.Right = r
					row.Matched = true
					break
				}
			}
		}
		out = append(out, row)
	}
	return out
}

// KeyIndex maps key values to the first right record carrying them,
// making a join linear in the size of both tables.
type KeyIndex struct {
	keyField string
	first    map[string]Record
}

func NewKeyIndex(right *Table, keyField string) *KeyIndex {
	idx := &KeyIndex{keyField: keyField, first: make(map[string]Record, right.Len())}
	for _, r := range right.records {
		key, ok := r.Get(keyField)
		if !ok {
			continue
		}
		if _, seen := idx.first[key]; !seen {
			idx.first[key] = r
		}
	}
	return idx
}

// Lookup returns the first right record with key.
func (idx *KeyIndex) Lookup(key string) (Record, bool) {
	r, ok := idx.first[key]
	return r, ok
}

// Join produces the same rows as JoinByKey(left, right, keyField).
func (idx *KeyIndex) Join(left *Table) []JoinedRow {
	out := make([]JoinedRow, 0, left.Len())
	for _, l := range left.records {
		row := JoinedRow{Left: l}
		if key, ok := l.Get(idx.keyField); ok {
			row.Right, row.Matched = idx.Lookup(key)
		}
		out = append(out, row)
	}
	return out
}
