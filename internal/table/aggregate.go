package table

import "github.com/njiraini/reldb/internal/value"

// AggregateFunc names an aggregation applied to a column within a group.
type AggregateFunc string

const (
	AggSum   AggregateFunc = "sum"
	AggAvg   AggregateFunc = "avg"
	AggCount AggregateFunc = "count"
	AggMin   AggregateFunc = "min"
	AggMax   AggregateFunc = "max"
)

// AggregateSpec pairs a column with the function applied to it.
type AggregateSpec struct {
	Column string
	Func   AggregateFunc
}

// AggregationResult carries the outcome of one aggregation. Sum and Avg
// fill Float, Count fills Count, Min and Max fill Value.
type AggregationResult struct {
	Func  AggregateFunc
	Float float64
	Count int
	Value value.Value
}

// Aggregate groups rows by one column and applies a single aggregation to
// another. The result is keyed by the group value's Key encoding.
//
// Sum and Avg coerce the four numeric kinds to float64 and silently skip
// everything else; an all-skipped group sums and averages to zero. Count
// counts every row in the group. Min and Max range over the non-Null
// values under the total order and report Null for a group with none.
func (t *Table) Aggregate(groupCol, aggCol string, fn AggregateFunc) (map[string]AggregationResult, error) {
	results, err := t.AggregateGroup(groupCol, []AggregateSpec{{Column: aggCol, Func: fn}}, nil)
	if err != nil {
		return nil, err
	}
	out := make(map[string]AggregationResult, len(results))
	for key, rs := range results {
		out[key] = rs[0]
	}
	return out, nil
}

// AggregateGroup groups rows by one column and applies several
// aggregations per group, optionally pre-filtered. Results are positionally
// aligned with the spec list.
func (t *Table) AggregateGroup(groupCol string, specs []AggregateSpec, filter func(Row) bool) (map[string][]AggregationResult, error) {
	groups, err := t.GroupBy(groupCol, filter)
	if err != nil {
		return nil, err
	}

	specIdx := make([]int, len(specs))
	for i, spec := range specs {
		idx, err := t.colIndex(spec.Column)
		if err != nil {
			return nil, err
		}
		specIdx[i] = idx
	}

	out := make(map[string][]AggregationResult, len(groups))
	for key, g := range groups {
		results := make([]AggregationResult, len(specs))
		for i, spec := range specs {
			results[i] = aggregate(g.Rows, specIdx[i], spec.Func)
		}
		out[key] = results
	}
	return out, nil
}

func aggregate(rows []Row, idx int, fn AggregateFunc) AggregationResult {
	res := AggregationResult{Func: fn, Value: value.Null()}

	switch fn {
	case AggCount:
		res.Count = len(rows)
	case AggSum, AggAvg:
		var sum float64
		n := 0
		for _, row := range rows {
			if f, ok := row[idx].FloatVal(); ok {
				sum += f
				n++
			}
		}
		if fn == AggSum {
			res.Float = sum
		} else if n > 0 {
			res.Float = sum / float64(n)
		}
	case AggMin:
		for _, row := range rows {
			v := row[idx]
			if v.IsNull() {
				continue
			}
			if res.Value.IsNull() || v.Compare(res.Value) < 0 {
				res.Value = v
			}
		}
	case AggMax:
		for _, row := range rows {
			v := row[idx]
			if v.IsNull() {
				continue
			}
			if res.Value.IsNull() || v.Compare(res.Value) > 0 {
				res.Value = v
			}
		}
	}
	return res
}
