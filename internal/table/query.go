package table

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/njiraini/reldb/internal/value"
)

// SelectWhere returns the rows matching the expression. When an index
// covers the filtered column it narrows the candidate set first: any
// index answers Eq, an ordered index answers Gt (inclusive start) and Lt.
// Candidates are always re-checked against the compiled predicate; every
// other shape falls back to a full scan.
func (t *Table) SelectWhere(expr FilterExpr) ([]Row, error) {
	pred, err := expr.predicate(t)
	if err != nil {
		return nil, err
	}

	if positions, ok := t.indexCandidates(expr); ok {
		var out []Row
		for _, pos := range positions {
			if pred(t.Rows[pos]) {
				out = append(out, t.Rows[pos])
			}
		}
		slog.Debug("index-assisted select",
			slog.String("table", t.Name),
			slog.String("column", expr.Column),
			slog.Int("candidates", len(positions)),
			slog.Int("matched", len(out)),
		)
		return out, nil
	}

	var out []Row
	for _, row := range t.Rows {
		if pred(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

// SelectWhereFunc is the escape hatch for predicates the expression
// language cannot express. Always a full scan.
func (t *Table) SelectWhereFunc(pred func(Row) bool) []Row {
	var out []Row
	for _, row := range t.Rows {
		if pred(row) {
			out = append(out, row)
		}
	}
	return out
}

// indexCandidates returns the candidate positions an index can supply for
// the expression, or ok=false when no index applies.
func (t *Table) indexCandidates(expr FilterExpr) ([]int, bool) {
	ix, ok := t.Indexes[expr.Column]
	if !ok {
		return nil, false
	}
	switch expr.Op {
	case OpEq:
		return ix.Lookup(expr.Value), true
	case OpGt, OpGe:
		if ix.Kind == OrderedIndex {
			return ix.rangeFrom(expr.Value), true
		}
	case OpLt:
		if ix.Kind == OrderedIndex {
			return ix.rangeBelow(expr.Value), true
		}
	}
	return nil, false
}

// UpdateWhere sets the named columns on every matching row and returns
// the number of rows changed. Each candidate row is fully re-validated
// before any row is touched, excluding its own stored position from the
// uniqueness scans and additionally checked against the other rows
// pending in the same batch; a failure leaves the table unchanged.
// Indexes are rebuilt afterwards.
func (t *Table) UpdateWhere(expr FilterExpr, updates map[string]value.Value) (int, error) {
	pred, err := expr.predicate(t)
	if err != nil {
		return 0, err
	}

	colIdx := make(map[int]value.Value, len(updates))
	for name, v := range updates {
		idx, err := t.colIndex(name)
		if err != nil {
			return 0, err
		}
		colIdx[idx] = v
	}

	type pending struct {
		pos int
		row Row
	}
	var changes []pending
	for pos, row := range t.Rows {
		if !pred(row) {
			continue
		}
		next := cloneRow(row)
		for idx, v := range colIdx {
			next[idx] = v
		}
		if err := t.validateRowExcluding(next, pos); err != nil {
			return 0, err
		}
		for _, c := range changes {
			if err := t.pendingConflict(next, c.row); err != nil {
				return 0, err
			}
		}
		changes = append(changes, pending{pos: pos, row: next})
	}

	for _, c := range changes {
		t.Rows[c.pos] = c.row
	}
	if len(changes) > 0 {
		t.rebuildAllIndexes()
	}

	slog.Debug("rows updated",
		slog.String("table", t.Name),
		slog.Int("count", len(changes)),
	)

	return len(changes), nil
}

// DeleteWhere removes every matching row and returns the number removed.
// Surviving rows keep their relative order; indexes are rebuilt.
func (t *Table) DeleteWhere(expr FilterExpr) (int, error) {
	pred, err := expr.predicate(t)
	if err != nil {
		return 0, err
	}

	kept := t.Rows[:0:0]
	removed := 0
	for _, row := range t.Rows {
		if pred(row) {
			removed++
			continue
		}
		kept = append(kept, row)
	}

	if removed > 0 {
		t.Rows = kept
		t.rebuildAllIndexes()
	}

	slog.Debug("rows deleted",
		slog.String("table", t.Name),
		slog.Int("count", removed),
	)

	return removed, nil
}

// SelectOrderBy returns a sorted copy of the rows, ordered by the named
// columns in sequence under the value total order. The sort is stable, so
// ties keep insertion order.
func (t *Table) SelectOrderBy(columns ...string) ([]Row, error) {
	idxs := make([]int, len(columns))
	for i, col := range columns {
		idx, err := t.colIndex(col)
		if err != nil {
			return nil, err
		}
		idxs[i] = idx
	}

	out := make([]Row, len(t.Rows))
	copy(out, t.Rows)
	slices.SortStableFunc(out, func(a, b Row) int {
		for _, idx := range idxs {
			if c := a[idx].Compare(b[idx]); c != 0 {
				return c
			}
		}
		return 0
	})
	return out, nil
}

// SelectDistinct returns the rows with full-row duplicates removed,
// keeping the first occurrence. Rows are compared by their rendered
// form, so two Nulls are duplicates of each other.
func (t *Table) SelectDistinct() []Row {
	seen := make(map[string]struct{}, len(t.Rows))
	var out []Row
	for _, row := range t.Rows {
		key := displayKey(row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	return out
}

func displayKey(row Row) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = v.String()
	}
	return strings.Join(parts, "\x1f")
}

// RowGroup is one bucket of a grouping: the shared key value and the rows
// carrying it.
type RowGroup struct {
	Key  value.Value
	Rows []Row
}

// GroupBy partitions rows by the value of one column, optionally
// pre-filtered. The result is keyed by the group value's Key encoding;
// each group carries the original value. Null forms its own group.
func (t *Table) GroupBy(column string, filter func(Row) bool) (map[string]*RowGroup, error) {
	idx, err := t.colIndex(column)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*RowGroup)
	for _, row := range t.Rows {
		if filter != nil && !filter(row) {
			continue
		}
		key := row[idx].Key()
		g, ok := groups[key]
		if !ok {
			g = &RowGroup{Key: row[idx]}
			groups[key] = g
		}
		g.Rows = append(g.Rows, row)
	}
	return groups, nil
}
