package table

import (
	"log/slog"
	"strings"

	"github.com/njiraini/reldb/internal/dberr"
	"github.com/njiraini/reldb/internal/schema"
	"github.com/njiraini/reldb/internal/value"
)

// JoinOn names one pair of join-key columns, left table first.
type JoinOn struct {
	Left  string
	Right string
}

// JoinPair is one row of a join result: the left and right halves plus
// flags recording whether each half came from a real match. An unmatched
// half is a row of Nulls with its flag false, so outer-join padding stays
// distinguishable from stored Null values.
type JoinPair struct {
	Left         Row
	Right        Row
	LeftMatched  bool
	RightMatched bool
}

type joinKind uint8

const (
	innerJoin joinKind = iota
	leftJoin
	rightJoin
	fullOuterJoin
)

func (k joinKind) String() string {
	switch k {
	case leftJoin:
		return "left"
	case rightJoin:
		return "right"
	case fullOuterJoin:
		return "full_outer"
	default:
		return "inner"
	}
}

func nullRow(n int) Row {
	row := make(Row, n)
	for i := range row {
		row[i] = value.Null()
	}
	return row
}

// joinMulti is the nested-loop core behind every join flavor. Keys match
// when every on-pair is Equal, which makes Null keys joinable with Null
// keys.
func (t *Table) joinMulti(other *Table, on []JoinOn, kind joinKind) ([]JoinPair, error) {
	leftIdx := make([]int, len(on))
	rightIdx := make([]int, len(on))
	for i, pair := range on {
		li, err := t.colIndex(pair.Left)
		if err != nil {
			return nil, err
		}
		ri, err := other.colIndex(pair.Right)
		if err != nil {
			return nil, err
		}
		leftIdx[i] = li
		rightIdx[i] = ri
	}

	slog.Debug("join started",
		slog.String("left", t.Name),
		slog.String("right", other.Name),
		slog.String("kind", kind.String()),
		slog.Int("keys", len(on)),
	)

	var pairs []JoinPair
	rightMatched := make([]bool, len(other.Rows))

	for _, lrow := range t.Rows {
		matched := false
		for rpos, rrow := range other.Rows {
			ok := true
			for i := range on {
				if !lrow[leftIdx[i]].Equal(rrow[rightIdx[i]]) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			matched = true
			rightMatched[rpos] = true
			pairs = append(pairs, JoinPair{
				Left:         lrow,
				Right:        rrow,
				LeftMatched:  true,
				RightMatched: true,
			})
		}
		if !matched && (kind == leftJoin || kind == fullOuterJoin) {
			pairs = append(pairs, JoinPair{
				Left:        lrow,
				Right:       nullRow(len(other.Columns)),
				LeftMatched: true,
			})
		}
	}

	if kind == rightJoin || kind == fullOuterJoin {
		for rpos, rrow := range other.Rows {
			if rightMatched[rpos] {
				continue
			}
			pairs = append(pairs, JoinPair{
				Left:         nullRow(len(t.Columns)),
				Right:        rrow,
				RightMatched: true,
			})
		}
	}

	slog.Info("join completed",
		slog.String("left", t.Name),
		slog.String("right", other.Name),
		slog.String("kind", kind.String()),
		slog.Int("pairs", len(pairs)),
	)

	return pairs, nil
}

func (t *Table) InnerJoin(other *Table, leftCol, rightCol string) ([]JoinPair, error) {
	return t.joinMulti(other, []JoinOn{{leftCol, rightCol}}, innerJoin)
}

func (t *Table) LeftJoin(other *Table, leftCol, rightCol string) ([]JoinPair, error) {
	return t.joinMulti(other, []JoinOn{{leftCol, rightCol}}, leftJoin)
}

func (t *Table) RightJoin(other *Table, leftCol, rightCol string) ([]JoinPair, error) {
	return t.joinMulti(other, []JoinOn{{leftCol, rightCol}}, rightJoin)
}

func (t *Table) FullOuterJoin(other *Table, leftCol, rightCol string) ([]JoinPair, error) {
	return t.joinMulti(other, []JoinOn{{leftCol, rightCol}}, fullOuterJoin)
}

func (t *Table) InnerJoinMulti(other *Table, on []JoinOn) ([]JoinPair, error) {
	return t.joinMulti(other, on, innerJoin)
}

func (t *Table) LeftJoinMulti(other *Table, on []JoinOn) ([]JoinPair, error) {
	return t.joinMulti(other, on, leftJoin)
}

func (t *Table) RightJoinMulti(other *Table, on []JoinOn) ([]JoinPair, error) {
	return t.joinMulti(other, on, rightJoin)
}

func (t *Table) FullOuterJoinMulti(other *Table, on []JoinOn) ([]JoinPair, error) {
	return t.joinMulti(other, on, fullOuterJoin)
}

// SelectJoinWhere inner-joins and keeps only the pairs passing the
// post-join filter, which sees both halves.
func (t *Table) SelectJoinWhere(other *Table, leftCol, rightCol string, filter func(left, right Row) bool) ([]JoinPair, error) {
	return t.SelectJoinWhereMulti(other, []JoinOn{{leftCol, rightCol}}, filter)
}

// SelectJoinWhereMulti is SelectJoinWhere over a multi-column key.
func (t *Table) SelectJoinWhereMulti(other *Table, on []JoinOn, filter func(left, right Row) bool) ([]JoinPair, error) {
	pairs, err := t.joinMulti(other, on, innerJoin)
	if err != nil {
		return nil, err
	}
	out := pairs[:0:0]
	for _, p := range pairs {
		if filter == nil || filter(p.Left, p.Right) {
			out = append(out, p)
		}
	}
	return out, nil
}

// JoinToTable materializes join pairs into a standalone table. Columns
// take "left." and "right." prefixes and drop their constraint options;
// the result has no primary key and no indexes, and bypasses the insert
// pipeline since its rows were already validated at their source.
func JoinToTable(name string, left, right *Table, pairs []JoinPair) *Table {
	columns := make([]schema.Column, 0, len(left.Columns)+len(right.Columns))
	for _, col := range left.Columns {
		columns = append(columns, schema.Column{Name: "left." + col.Name, Type: col.Type})
	}
	for _, col := range right.Columns {
		columns = append(columns, schema.Column{Name: "right." + col.Name, Type: col.Type})
	}
	return materialize(name, columns, pairs)
}

// JoinToTableWithAliases is JoinToTable with caller-chosen prefixes. A
// name that still collides after prefixing gains underscores until
// unique.
func JoinToTableWithAliases(name string, left, right *Table, leftAlias, rightAlias string, pairs []JoinPair) *Table {
	seen := make(map[string]struct{})
	columns := make([]schema.Column, 0, len(left.Columns)+len(right.Columns))
	for _, col := range left.Columns {
		n := uniqueName(seen, leftAlias+"."+col.Name)
		columns = append(columns, schema.Column{Name: n, Type: col.Type})
	}
	for _, col := range right.Columns {
		n := uniqueName(seen, rightAlias+"."+col.Name)
		columns = append(columns, schema.Column{Name: n, Type: col.Type})
	}
	return materialize(name, columns, pairs)
}

// MergeTablesWithAliases is JoinToTableWithAliases for callers that
// already hold the pair list and want the merged rows only.
func MergeTablesWithAliases(name string, left, right *Table, leftAlias, rightAlias string, pairs []JoinPair) *Table {
	return JoinToTableWithAliases(name, left, right, leftAlias, rightAlias, pairs)
}

func materialize(name string, columns []schema.Column, pairs []JoinPair) *Table {
	t := &Table{
		Name:    name,
		Columns: columns,
		Indexes: make(map[string]*Index),
	}
	for _, p := range pairs {
		row := make(Row, 0, len(columns))
		row = append(row, p.Left...)
		row = append(row, p.Right...)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// WithAlias returns a copy of the table named <name>_<alias> whose
// columns carry the alias as a dot prefix. Rows are cloned, so later
// mutations of the receiver cannot reach into the copy.
func (t *Table) WithAlias(alias string) (*Table, error) {
	if strings.TrimSpace(alias) == "" {
		return nil, &dberr.SchemaError{Table: t.Name, Reason: "empty alias"}
	}
	columns := make([]schema.Column, len(t.Columns))
	seen := make(map[string]struct{})
	for i, col := range t.Columns {
		columns[i] = col
		columns[i].Name = uniqueName(seen, alias+"."+col.Name)
	}
	out := &Table{
		Name:       t.Name + "_" + alias,
		Columns:    columns,
		Rows:       cloneRows(t.Rows),
		PrimaryKey: nil,
		Indexes:    make(map[string]*Index),
	}
	return out, nil
}

func uniqueName(seen map[string]struct{}, name string) string {
	for {
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			return name
		}
		name += "_"
	}
}
