package table_test

import (
	"errors"
	"testing"

	"github.com/njiraini/reldb/internal/dberr"
	"github.com/njiraini/reldb/internal/schema"
	"github.com/njiraini/reldb/internal/table"
	"github.com/njiraini/reldb/internal/value"
)

func colorTable(t *testing.T, name string, colors ...string) *table.Table {
	t.Helper()
	tbl, err := table.New(name,
		[]schema.Column{{Name: "name", Type: value.TypeVarchar}},
		nil,
	)
	if err != nil {
		t.Fatalf("new %s: %v", name, err)
	}
	for _, c := range colors {
		if err := tbl.Insert(table.Row{value.NewVarchar(c)}); err != nil {
			t.Fatalf("insert %s: %v", c, err)
		}
	}
	return tbl
}

func colorNames(t *testing.T, tbl *table.Table) []string {
	t.Helper()
	var out []string
	for _, row := range tbl.Rows {
		s, _ := row[0].Str()
		out = append(out, s)
	}
	return out
}

// TestUnion tests deduplicated concatenation, left rows first
func TestUnion(t *testing.T) {
	a := colorTable(t, "a", "red", "blue", "red")
	b := colorTable(t, "b", "blue", "green")

	u, err := table.Union(a, b)
	if err != nil {
		t.Fatalf("union: %v", err)
	}
	got := colorNames(t, u)
	want := []string{"red", "blue", "green"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

// TestIntersect tests row-content intersection in left order
func TestIntersect(t *testing.T) {
	a := colorTable(t, "a", "red", "blue", "green")
	b := colorTable(t, "b", "green", "red")

	i, err := table.Intersect(a, b)
	if err != nil {
		t.Fatalf("intersect: %v", err)
	}
	got := colorNames(t, i)
	if len(got) != 2 || got[0] != "red" || got[1] != "green" {
		t.Fatalf("expected [red green], got %v", got)
	}
}

// TestExcept tests row-content difference in left order
func TestExcept(t *testing.T) {
	a := colorTable(t, "a", "red", "blue", "green")
	b := colorTable(t, "b", "blue")

	e, err := table.Except(a, b)
	if err != nil {
		t.Fatalf("except: %v", err)
	}
	got := colorNames(t, e)
	if len(got) != 2 || got[0] != "red" || got[1] != "green" {
		t.Fatalf("expected [red green], got %v", got)
	}
}

// TestSetOps_ResultsSurviveSourceMutation tests that results hold their own rows
func TestSetOps_ResultsSurviveSourceMutation(t *testing.T) {
	a, err := table.New("a",
		[]schema.Column{
			{Name: "id", Type: value.TypeInt32},
			{Name: "name", Type: value.TypeVarchar},
		},
		nil,
	)
	if err != nil {
		t.Fatalf("new a: %v", err)
	}
	b, err := table.New("b",
		[]schema.Column{
			{Name: "id", Type: value.TypeInt32},
			{Name: "name", Type: value.TypeVarchar},
		},
		nil,
	)
	if err != nil {
		t.Fatalf("new b: %v", err)
	}
	if err := a.Insert(table.Row{value.NewInt32(1), value.NewVarchar("alice")}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := b.Insert(table.Row{value.NewInt32(2), value.NewVarchar("bob")}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	u, err := table.Union(a, b)
	if err != nil {
		t.Fatalf("union: %v", err)
	}

	// Dropping a source column rewrites its rows in place; the union's
	// rows must not move with them.
	if err := a.DropColumn("id"); err != nil {
		t.Fatalf("drop column: %v", err)
	}

	if len(u.Rows[0]) != 2 {
		t.Fatalf("union row width changed to %d", len(u.Rows[0]))
	}
	if id, ok := u.Rows[0][0].IntVal(); !ok || id != 1 {
		t.Errorf("expected union row to keep id 1, got %v", u.Rows[0][0])
	}
	if name, _ := u.Rows[0][1].Str(); name != "alice" {
		t.Errorf("expected union row to keep alice, got %q", name)
	}
}

// TestSetOps_IncompatibleSchemas tests the positional type check
func TestSetOps_IncompatibleSchemas(t *testing.T) {
	a := colorTable(t, "a", "red")
	b, err := table.New("b",
		[]schema.Column{{Name: "n", Type: value.TypeInt32}},
		nil,
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, err = table.Union(a, b)
	var serr *dberr.SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}
