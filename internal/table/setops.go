package table

import (
	"github.com/njiraini/reldb/internal/dberr"
	"github.com/njiraini/reldb/internal/schema"
)

// setCompatible checks that two tables agree positionally on column count
// and declared types. Column names are free to differ; the left table's
// names win in the result.
func setCompatible(a, b *Table) error {
	if len(a.Columns) != len(b.Columns) {
		return &dberr.SchemaError{
			Table:  a.Name,
			Reason: "set operation requires matching column counts with " + b.Name,
		}
	}
	for i := range a.Columns {
		if a.Columns[i].Type != b.Columns[i].Type {
			return &dberr.SchemaError{
				Table:  a.Name,
				Column: a.Columns[i].Name,
				Reason: "set operation type mismatch with " + b.Name + "." + b.Columns[i].Name,
			}
		}
	}
	return nil
}

// setResult builds the carrier for a set-operation result: the left
// table's columns stripped of options, no primary key, no indexes. Rows
// are cloned into it, so the result survives later mutation of either
// source.
func setResult(name string, a *Table) *Table {
	columns := make([]schema.Column, len(a.Columns))
	for i, col := range a.Columns {
		columns[i] = schema.Column{Name: col.Name, Type: col.Type}
	}
	return &Table{
		Name:    name,
		Columns: columns,
		Indexes: make(map[string]*Index),
	}
}

func rowKey(row Row) string {
	key := ""
	for _, v := range row {
		key += v.Key() + "\x00"
	}
	return key
}

// Union returns the deduplicated rows of both tables, left rows first,
// keeping the first occurrence of each duplicate.
func Union(a, b *Table) (*Table, error) {
	if err := setCompatible(a, b); err != nil {
		return nil, err
	}
	out := setResult(a.Name+"_union_"+b.Name, a)
	seen := make(map[string]struct{})
	for _, rows := range [][]Row{a.Rows, b.Rows} {
		for _, row := range rows {
			key := rowKey(row)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out.Rows = append(out.Rows, cloneRow(row))
		}
	}
	return out, nil
}

// Intersect returns the deduplicated left rows that also occur in the
// right table, in left order.
func Intersect(a, b *Table) (*Table, error) {
	if err := setCompatible(a, b); err != nil {
		return nil, err
	}
	inRight := make(map[string]struct{}, len(b.Rows))
	for _, row := range b.Rows {
		inRight[rowKey(row)] = struct{}{}
	}
	out := setResult(a.Name+"_intersect_"+b.Name, a)
	seen := make(map[string]struct{})
	for _, row := range a.Rows {
		key := rowKey(row)
		if _, dup := seen[key]; dup {
			continue
		}
		if _, ok := inRight[key]; !ok {
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, cloneRow(row))
	}
	return out, nil
}

// Except returns the deduplicated left rows that do not occur in the
// right table, in left order.
func Except(a, b *Table) (*Table, error) {
	if err := setCompatible(a, b); err != nil {
		return nil, err
	}
	inRight := make(map[string]struct{}, len(b.Rows))
	for _, row := range b.Rows {
		inRight[rowKey(row)] = struct{}{}
	}
	out := setResult(a.Name+"_except_"+b.Name, a)
	seen := make(map[string]struct{})
	for _, row := range a.Rows {
		key := rowKey(row)
		if _, dup := seen[key]; dup {
			continue
		}
		if _, ok := inRight[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, cloneRow(row))
	}
	return out, nil
}
