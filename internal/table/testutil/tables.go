// Package testutil provides shared table fixtures for engine tests.
package testutil

import (
	"github.com/njiraini/reldb/internal/schema"
	"github.com/njiraini/reldb/internal/table"
	"github.com/njiraini/reldb/internal/value"
)

// Depts is the allowed list used by the users fixture's dept column.
var Depts = []string{"eng", "sales", "ops"}

// CreateUsersTable creates a users table with sample data for testing
func CreateUsersTable() (*table.Table, error) {
	t, err := table.New("users",
		[]schema.Column{
			{Name: "id", Type: value.TypeInt32, Options: []schema.Option{schema.NotNull(), schema.Autoincrement()}},
			{Name: "username", Type: value.TypeVarchar, Options: []schema.Option{schema.NotNull(), schema.Unique()}},
			{Name: "dept", Type: value.TypeEnum},
			{Name: "salary", Type: value.TypeFloat64},
		},
		[]string{"id"},
	)
	if err != nil {
		return nil, err
	}

	seed := []struct {
		username string
		dept     string
		salary   float64
	}{
		{"alice", "eng", 100},
		{"bob", "eng", 200},
		{"charlie", "sales", 50},
	}
	for _, s := range seed {
		err := t.Insert(table.Row{
			value.Null(),
			value.NewVarchar(s.username),
			value.NewEnum(s.dept, Depts),
			value.NewFloat64(s.salary),
		})
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

// CreateOrdersTable creates an orders table with sample data for testing
func CreateOrdersTable() (*table.Table, error) {
	t, err := table.New("orders",
		[]schema.Column{
			{Name: "id", Type: value.TypeInt32, Options: []schema.Option{schema.NotNull(), schema.Autoincrement()}},
			{Name: "user_id", Type: value.TypeInt32, Options: []schema.Option{schema.ForeignKey("users")}},
			{Name: "product", Type: value.TypeVarchar},
			{Name: "amount", Type: value.TypeFloat64},
		},
		[]string{"id"},
	)
	if err != nil {
		return nil, err
	}

	seed := []struct {
		userID  int32
		product string
		amount  float64
	}{
		{1, "Laptop", 999.99},
		{1, "Mouse", 25.50},
		{2, "Keyboard", 75.00},
		// Note: user_id 3 (charlie) has no orders
	}
	for _, s := range seed {
		err := t.Insert(table.Row{
			value.Null(),
			value.NewInt32(s.userID),
			value.NewVarchar(s.product),
			value.NewFloat64(s.amount),
		})
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}
