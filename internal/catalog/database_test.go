package catalog_test

import (
	"errors"
	"testing"

	"github.com/njiraini/reldb/internal/catalog"
	"github.com/njiraini/reldb/internal/dberr"
	"github.com/njiraini/reldb/internal/schema"
	"github.com/njiraini/reldb/internal/table"
	"github.com/njiraini/reldb/internal/table/testutil"
	"github.com/njiraini/reldb/internal/value"
)

// recordingObserver captures events for assertions
type recordingObserver struct {
	events []catalog.Event
}

func (r *recordingObserver) OnEvent(e catalog.Event) {
	r.events = append(r.events, e)
}

func demoDatabase(t *testing.T) (*catalog.Database, *recordingObserver) {
	t.Helper()
	db := catalog.NewDatabase("demo")
	obs := &recordingObserver{}
	db.AddObserver(obs)

	users, err := testutil.CreateUsersTable()
	if err != nil {
		t.Fatalf("users fixture: %v", err)
	}
	if err := db.CreateTable(users); err != nil {
		t.Fatalf("create users: %v", err)
	}
	return db, obs
}

// TestCreateTable_Duplicate tests name uniqueness in the catalog
func TestCreateTable_Duplicate(t *testing.T) {
	db, _ := demoDatabase(t)

	dup, err := table.New("users",
		[]schema.Column{{Name: "x", Type: value.TypeInt32}},
		nil,
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	err = db.CreateTable(dup)
	var eerr *dberr.TableExistsError
	if !errors.As(err, &eerr) {
		t.Fatalf("expected TableExistsError, got %v", err)
	}
}

// TestGetTable_NotFound tests the missing table error
func TestGetTable_NotFound(t *testing.T) {
	db, _ := demoDatabase(t)

	if _, err := db.GetTable("users"); err != nil {
		t.Fatalf("get users: %v", err)
	}
	_, err := db.GetTable("ghosts")
	var nerr *dberr.TableNotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected TableNotFoundError, got %v", err)
	}
}

// TestDropTable tests removal and the observer notification
func TestDropTable(t *testing.T) {
	db, obs := demoDatabase(t)

	if err := db.DropTable("users"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := db.GetTable("users"); err == nil {
		t.Error("expected users to be gone")
	}
	if err := db.DropTable("users"); err == nil {
		t.Error("expected an error dropping a missing table")
	}

	last := obs.events[len(obs.events)-1]
	if last.Type != catalog.EventTableDropped || last.Table != "users" {
		t.Errorf("unexpected last event: %+v", last)
	}
}

// TestColumnDDL_RoutedThroughCatalog tests alter/rename/drop with events
func TestColumnDDL_RoutedThroughCatalog(t *testing.T) {
	db, obs := demoDatabase(t)

	err := db.AlterAddColumn("users", schema.Column{
		Name:    "active",
		Type:    value.TypeBool,
		Options: []schema.Option{schema.Default(value.NewBool(true))},
	})
	if err != nil {
		t.Fatalf("alter add: %v", err)
	}
	if err := db.RenameColumn("users", "active", "enabled"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := db.DropColumn("users", "enabled"); err != nil {
		t.Fatalf("drop column: %v", err)
	}

	types := make([]catalog.EventType, 0, len(obs.events))
	for _, e := range obs.events {
		types = append(types, e.Type)
	}
	want := []catalog.EventType{
		catalog.EventTableCreated,
		catalog.EventColumnAdded,
		catalog.EventColumnRenamed,
		catalog.EventColumnDropped,
	}
	if len(types) != len(want) {
		t.Fatalf("expected %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, types)
		}
	}
}

// TestValidateForeignKeys tests target-existence checking
func TestValidateForeignKeys(t *testing.T) {
	db, _ := demoDatabase(t)

	orders, err := testutil.CreateOrdersTable()
	if err != nil {
		t.Fatalf("orders fixture: %v", err)
	}
	if err := db.CreateTable(orders); err != nil {
		t.Fatalf("create orders: %v", err)
	}

	if err := db.ValidateForeignKeys(); err != nil {
		t.Fatalf("valid foreign keys rejected: %v", err)
	}

	if err := db.DropTable("users"); err != nil {
		t.Fatalf("drop users: %v", err)
	}
	err = db.ValidateForeignKeys()
	var ferr *dberr.ForeignKeyError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected ForeignKeyError, got %v", err)
	}
	if ferr.Target != "users" {
		t.Errorf("expected target users, got %q", ferr.Target)
	}
}
