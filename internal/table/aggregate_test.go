package table_test

import (
	"testing"

	"github.com/njiraini/reldb/internal/schema"
	"github.com/njiraini/reldb/internal/table"
	"github.com/njiraini/reldb/internal/table/testutil"
	"github.com/njiraini/reldb/internal/value"
)

func deptKey(name string) string {
	return value.NewEnum(name, testutil.Depts).Key()
}

// TestAggregate_Avg tests the canonical per-department average
func TestAggregate_Avg(t *testing.T) {
	users, err := testutil.CreateUsersTable()
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}

	avgs, err := users.Aggregate("dept", "salary", table.AggAvg)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(avgs) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(avgs))
	}
	if got := avgs[deptKey("eng")].Float; got != 150 {
		t.Errorf("eng avg: expected 150, got %v", got)
	}
	if got := avgs[deptKey("sales")].Float; got != 50 {
		t.Errorf("sales avg: expected 50, got %v", got)
	}
}

// TestAggregate_SumSkipsNonNumeric tests that sum coerces numerics and skips the rest
func TestAggregate_SumSkipsNonNumeric(t *testing.T) {
	tbl, err := table.New("mixed",
		[]schema.Column{
			{Name: "grp", Type: value.TypeVarchar},
			{Name: "v", Type: value.TypeInt32},
		},
		nil,
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	insert := func(v value.Value) {
		t.Helper()
		if err := tbl.Insert(table.Row{value.NewVarchar("a"), v}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	insert(value.NewInt32(10))
	insert(value.NewInt32(5))
	insert(value.Null()) // skipped by sum, still counted

	sums, err := tbl.Aggregate("grp", "v", table.AggSum)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	key := value.NewVarchar("a").Key()
	if got := sums[key].Float; got != 15 {
		t.Errorf("expected sum 15, got %v", got)
	}

	counts, err := tbl.Aggregate("grp", "v", table.AggCount)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if got := counts[key].Count; got != 3 {
		t.Errorf("expected count 3, got %d", got)
	}
}

// TestAggregate_MinMax tests min/max under the total order, ignoring Null
func TestAggregate_MinMax(t *testing.T) {
	users, err := testutil.CreateUsersTable()
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}

	mins, err := users.Aggregate("dept", "salary", table.AggMin)
	if err != nil {
		t.Fatalf("min: %v", err)
	}
	if got, _ := mins[deptKey("eng")].Value.FloatVal(); got != 100 {
		t.Errorf("eng min: expected 100, got %v", got)
	}

	maxs, err := users.Aggregate("dept", "salary", table.AggMax)
	if err != nil {
		t.Fatalf("max: %v", err)
	}
	if got, _ := maxs[deptKey("eng")].Value.FloatVal(); got != 200 {
		t.Errorf("eng max: expected 200, got %v", got)
	}
}

// TestAggregateGroup_MultipleSpecs tests several aggregations in one pass
func TestAggregateGroup_MultipleSpecs(t *testing.T) {
	users, err := testutil.CreateUsersTable()
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}

	results, err := users.AggregateGroup("dept",
		[]table.AggregateSpec{
			{Column: "salary", Func: table.AggSum},
			{Column: "salary", Func: table.AggCount},
		},
		nil,
	)
	if err != nil {
		t.Fatalf("aggregate group: %v", err)
	}

	eng := results[deptKey("eng")]
	if len(eng) != 2 {
		t.Fatalf("expected 2 results, got %d", len(eng))
	}
	if eng[0].Float != 300 {
		t.Errorf("eng sum: expected 300, got %v", eng[0].Float)
	}
	if eng[1].Count != 2 {
		t.Errorf("eng count: expected 2, got %d", eng[1].Count)
	}
}
