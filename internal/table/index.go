package table

import (
	"log/slog"
	"slices"

	"github.com/njiraini/reldb/internal/dberr"
	"github.com/njiraini/reldb/internal/value"
)

// IndexKind selects the lookup structure behind a secondary index.
type IndexKind uint8

const (
	// HashIndex answers equality lookups only.
	HashIndex IndexKind = iota
	// OrderedIndex additionally answers range scans over its sorted keys.
	OrderedIndex
)

func (k IndexKind) String() string {
	if k == OrderedIndex {
		return "ordered"
	}
	return "hash"
}

// Index maps distinct values of one column to the positions of the rows
// holding them. Buckets are keyed by the value's Key encoding; an ordered
// index additionally keeps its distinct keys sorted for range scans.
//
// Inserts append incrementally. Deletes, updates and rollbacks shift row
// positions, so the owning table rebuilds every index from scratch after
// any destructive change.
type Index struct {
	Column  string
	Kind    IndexKind
	buckets map[string][]int
	keys    []value.Value // sorted, ordered indexes only
}

func newIndex(column string, kind IndexKind) *Index {
	return &Index{
		Column:  column,
		Kind:    kind,
		buckets: make(map[string][]int),
	}
}

func (ix *Index) add(v value.Value, pos int) {
	key := v.Key()
	if _, seen := ix.buckets[key]; !seen && ix.Kind == OrderedIndex {
		at, _ := slices.BinarySearchFunc(ix.keys, v, value.Value.Compare)
		ix.keys = slices.Insert(ix.keys, at, v)
	}
	ix.buckets[key] = append(ix.buckets[key], pos)
}

// Lookup returns the positions of rows whose indexed column equals v.
func (ix *Index) Lookup(v value.Value) []int {
	return ix.buckets[v.Key()]
}

// rangeFrom returns positions for every key >= v, in key order.
func (ix *Index) rangeFrom(v value.Value) []int {
	at, _ := slices.BinarySearchFunc(ix.keys, v, value.Value.Compare)
	var out []int
	for _, k := range ix.keys[at:] {
		out = append(out, ix.buckets[k.Key()]...)
	}
	return out
}

// rangeBelow returns positions for every key < v, in key order.
func (ix *Index) rangeBelow(v value.Value) []int {
	at, _ := slices.BinarySearchFunc(ix.keys, v, value.Value.Compare)
	var out []int
	for _, k := range ix.keys[:at] {
		out = append(out, ix.buckets[k.Key()]...)
	}
	return out
}

// Len returns the number of distinct indexed keys.
func (ix *Index) Len() int { return len(ix.buckets) }

// CreateIndex builds an index over the named column from the current rows.
// Creating an index on an already-indexed column replaces it, so a column
// can be upgraded from hash to ordered.
func (t *Table) CreateIndex(column string, ordered bool) error {
	idx, err := t.colIndex(column)
	if err != nil {
		return err
	}

	kind := HashIndex
	if ordered {
		kind = OrderedIndex
	}

	ix := newIndex(column, kind)
	for pos, row := range t.Rows {
		ix.add(row[idx], pos)
	}
	t.Indexes[column] = ix

	slog.Debug("index created",
		slog.String("table", t.Name),
		slog.String("column", column),
		slog.String("kind", kind.String()),
		slog.Int("keys", ix.Len()),
	)

	return nil
}

// DropIndex removes the index on the named column. Primary-key indexes
// can be dropped like any other; they are an access path, not a
// constraint.
func (t *Table) DropIndex(column string) error {
	if _, ok := t.Indexes[column]; !ok {
		return &dberr.ColumnNotFoundError{Table: t.Name, Column: column}
	}
	delete(t.Indexes, column)
	return nil
}

// RebuildIndexes reconstructs every index from the current rows. Callers
// that bypass the insert pipeline, like the storage loader, use it to
// restore invariant (6) after bulk row replacement.
func (t *Table) RebuildIndexes() {
	t.rebuildAllIndexes()
}

// updateIndexesForRow appends the row at pos to every index. Valid only
// for freshly appended rows; earlier positions must not have shifted.
func (t *Table) updateIndexesForRow(pos int) {
	row := t.Rows[pos]
	for _, ix := range t.Indexes {
		idx, err := t.colIndex(ix.Column)
		if err != nil {
			continue
		}
		ix.add(row[idx], pos)
	}
}

// rebuildAllIndexes reconstructs every index from the current rows. Called
// after deletes, updates, rollbacks and column DDL, all of which can shift
// row positions or column order.
func (t *Table) rebuildAllIndexes() {
	for column, old := range t.Indexes {
		idx, err := t.colIndex(column)
		if err != nil {
			// column no longer exists, drop its index
			delete(t.Indexes, column)
			continue
		}
		ix := newIndex(column, old.Kind)
		for pos, row := range t.Rows {
			ix.add(row[idx], pos)
		}
		t.Indexes[column] = ix
	}
}
