package table_test

import (
	"testing"

	"github.com/njiraini/reldb/internal/schema"
	"github.com/njiraini/reldb/internal/table"
	"github.com/njiraini/reldb/internal/table/testutil"
	"github.com/njiraini/reldb/internal/value"
)

func joinFixtures(t *testing.T) (*table.Table, *table.Table) {
	t.Helper()
	users, err := testutil.CreateUsersTable()
	if err != nil {
		t.Fatalf("users fixture: %v", err)
	}
	orders, err := testutil.CreateOrdersTable()
	if err != nil {
		t.Fatalf("orders fixture: %v", err)
	}
	return users, orders
}

// TestInnerJoin_Basic tests basic inner join functionality
func TestInnerJoin_Basic(t *testing.T) {
	users, orders := joinFixtures(t)

	pairs, err := users.InnerJoin(orders, "id", "user_id")
	if err != nil {
		t.Fatalf("inner join: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}
	for _, p := range pairs {
		if !p.LeftMatched || !p.RightMatched {
			t.Errorf("inner join produced an unmatched pair: %+v", p)
		}
	}
}

// TestLeftJoin_NullPadding tests that an unmatched left row gets a Null right half
func TestLeftJoin_NullPadding(t *testing.T) {
	users, orders := joinFixtures(t)

	pairs, err := users.LeftJoin(orders, "id", "user_id")
	if err != nil {
		t.Fatalf("left join: %v", err)
	}
	// alice x2, bob x1, charlie unmatched
	if len(pairs) != 4 {
		t.Fatalf("expected 4 pairs, got %d", len(pairs))
	}

	var unmatched *table.JoinPair
	for i := range pairs {
		if !pairs[i].RightMatched {
			unmatched = &pairs[i]
		}
	}
	if unmatched == nil {
		t.Fatal("expected an unmatched pair for charlie")
	}
	if name, _ := unmatched.Left[1].Str(); name != "charlie" {
		t.Errorf("expected charlie unmatched, got %q", name)
	}
	if len(unmatched.Right) != len(orders.Columns) {
		t.Errorf("expected a full-width Null right half, got %d values", len(unmatched.Right))
	}
	for _, v := range unmatched.Right {
		if !v.IsNull() {
			t.Errorf("expected Null padding, got %v", v)
		}
	}
}

// TestLeftJoin_DanglingForeignKey tests the canonical orders-side scenario
func TestLeftJoin_DanglingForeignKey(t *testing.T) {
	users, orders := joinFixtures(t)
	if err := orders.Insert(table.Row{
		value.Null(),
		value.NewInt32(99), // no user 99
		value.NewVarchar("Ghost"),
		value.NewFloat64(1),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	pairs, err := orders.LeftJoin(users, "user_id", "id")
	if err != nil {
		t.Fatalf("left join: %v", err)
	}

	found := false
	for _, p := range pairs {
		product, _ := p.Left[2].Str()
		if product != "Ghost" {
			continue
		}
		found = true
		if p.RightMatched {
			t.Error("dangling order should be unmatched")
		}
		for _, v := range p.Right {
			if !v.IsNull() {
				t.Errorf("expected Null user half, got %v", v)
			}
		}
	}
	if !found {
		t.Fatal("missing pair for the dangling order")
	}
}

// TestRightJoin_Basic tests that right join keeps unmatched right rows
func TestRightJoin_Basic(t *testing.T) {
	users, orders := joinFixtures(t)

	pairs, err := orders.RightJoin(users, "user_id", "id")
	if err != nil {
		t.Fatalf("right join: %v", err)
	}
	// 3 matches plus charlie unmatched on the right
	if len(pairs) != 4 {
		t.Fatalf("expected 4 pairs, got %d", len(pairs))
	}
	unmatched := 0
	for _, p := range pairs {
		if !p.LeftMatched {
			unmatched++
		}
	}
	if unmatched != 1 {
		t.Errorf("expected 1 unmatched right row, got %d", unmatched)
	}
}

// TestFullOuterJoin_BothSides tests padding on both sides at once
func TestFullOuterJoin_BothSides(t *testing.T) {
	users, orders := joinFixtures(t)
	if err := orders.Insert(table.Row{
		value.Null(),
		value.NewInt32(99),
		value.NewVarchar("Ghost"),
		value.NewFloat64(1),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	pairs, err := users.FullOuterJoin(orders, "id", "user_id")
	if err != nil {
		t.Fatalf("full outer join: %v", err)
	}
	// 3 matches, charlie left-only, ghost order right-only
	if len(pairs) != 5 {
		t.Fatalf("expected 5 pairs, got %d", len(pairs))
	}
}

// TestInnerJoinMulti_TwoColumns tests a composite join key
func TestInnerJoinMulti_TwoColumns(t *testing.T) {
	left, err := table.New("l",
		[]schema.Column{
			{Name: "a", Type: value.TypeInt32},
			{Name: "b", Type: value.TypeVarchar},
		},
		nil,
	)
	if err != nil {
		t.Fatalf("new left: %v", err)
	}
	right, err := table.New("r",
		[]schema.Column{
			{Name: "x", Type: value.TypeInt32},
			{Name: "y", Type: value.TypeVarchar},
		},
		nil,
	)
	if err != nil {
		t.Fatalf("new right: %v", err)
	}

	for _, row := range []table.Row{
		{value.NewInt32(1), value.NewVarchar("p")},
		{value.NewInt32(1), value.NewVarchar("q")},
	} {
		if err := left.Insert(row); err != nil {
			t.Fatalf("insert left: %v", err)
		}
	}
	for _, row := range []table.Row{
		{value.NewInt32(1), value.NewVarchar("p")},
		{value.NewInt32(2), value.NewVarchar("q")},
	} {
		if err := right.Insert(row); err != nil {
			t.Fatalf("insert right: %v", err)
		}
	}

	pairs, err := left.InnerJoinMulti(right, []table.JoinOn{{Left: "a", Right: "x"}, {Left: "b", Right: "y"}})
	if err != nil {
		t.Fatalf("inner join multi: %v", err)
	}
	// Only (1,"p") matches on both columns.
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
}

// TestSelectJoinWhere_PostFilter tests filtering over both join halves
func TestSelectJoinWhere_PostFilter(t *testing.T) {
	users, orders := joinFixtures(t)

	pairs, err := users.SelectJoinWhere(orders, "id", "user_id", func(left, right table.Row) bool {
		amount, _ := right[3].FloatVal()
		return amount > 50
	})
	if err != nil {
		t.Fatalf("select join where: %v", err)
	}
	// Laptop 999.99 and Keyboard 75.00
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
}

// TestJoinToTable_Prefixes tests materialization with left./right. column prefixes
func TestJoinToTable_Prefixes(t *testing.T) {
	users, orders := joinFixtures(t)

	pairs, err := users.InnerJoin(orders, "id", "user_id")
	if err != nil {
		t.Fatalf("inner join: %v", err)
	}
	joined := table.JoinToTable("users_orders", users, orders, pairs)

	wantCols := len(users.Columns) + len(orders.Columns)
	if len(joined.Columns) != wantCols {
		t.Fatalf("expected %d columns, got %d", wantCols, len(joined.Columns))
	}
	if joined.Columns[0].Name != "left.id" {
		t.Errorf("expected left.id, got %q", joined.Columns[0].Name)
	}
	if joined.Columns[len(users.Columns)].Name != "right.id" {
		t.Errorf("expected right.id, got %q", joined.Columns[len(users.Columns)].Name)
	}
	if len(joined.Rows) != len(pairs) {
		t.Errorf("expected %d rows, got %d", len(pairs), len(joined.Rows))
	}
	for _, row := range joined.Rows {
		if len(row) != wantCols {
			t.Fatalf("row width %d != column count %d", len(row), wantCols)
		}
	}
}

// TestJoinToTableWithAliases_Collisions tests underscore suffixing on collision
func TestJoinToTableWithAliases_Collisions(t *testing.T) {
	users, orders := joinFixtures(t)

	pairs, err := users.InnerJoin(orders, "id", "user_id")
	if err != nil {
		t.Fatalf("inner join: %v", err)
	}
	// Same alias on both sides forces every shared column name to collide.
	joined := table.JoinToTableWithAliases("aliased", users, orders, "t", "t", pairs)

	seen := make(map[string]bool)
	for _, col := range joined.Columns {
		if seen[col.Name] {
			t.Fatalf("duplicate column name %q after aliasing", col.Name)
		}
		seen[col.Name] = true
	}
	if !seen["t.id"] || !seen["t.id_"] {
		t.Errorf("expected t.id and t.id_ columns, got %v", seen)
	}
}

// TestWithAlias tests per-table alias prefixing with copied rows
func TestWithAlias(t *testing.T) {
	users, _ := joinFixtures(t)

	aliased, err := users.WithAlias("u")
	if err != nil {
		t.Fatalf("with alias: %v", err)
	}
	if aliased.Name != "users_u" {
		t.Errorf("expected users_u, got %q", aliased.Name)
	}
	if aliased.Columns[1].Name != "u.username" {
		t.Errorf("expected u.username, got %q", aliased.Columns[1].Name)
	}
	if len(aliased.Rows) != len(users.Rows) {
		t.Errorf("expected %d rows, got %d", len(users.Rows), len(aliased.Rows))
	}

	// The copy holds its own rows; dropping a source column leaves it alone.
	if err := users.DropColumn("salary"); err != nil {
		t.Fatalf("drop column: %v", err)
	}
	if len(aliased.Rows[0]) != len(aliased.Columns) {
		t.Errorf("aliased row width changed to %d", len(aliased.Rows[0]))
	}

	if _, err := users.WithAlias("  "); err == nil {
		t.Error("expected an error for a blank alias")
	}
}
