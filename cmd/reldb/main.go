// Command reldb is the demonstration driver for the embedded relational
// engine. It builds a small users/orders database, exercises the query,
// join, aggregation and transaction surfaces, and round-trips the tables
// through the CSV persistence adapter.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/njiraini/reldb/internal/catalog"
	"github.com/njiraini/reldb/internal/config"
	"github.com/njiraini/reldb/internal/logging"
	"github.com/njiraini/reldb/internal/schema"
	"github.com/njiraini/reldb/internal/storage"
	"github.com/njiraini/reldb/internal/table"
	"github.com/njiraini/reldb/internal/value"
)

const version = "0.1.0"

// CLI defines the command-line interface for reldb.
var CLI struct {
	Config string `name:"config" short:"c" help:"Config file path (YAML)" type:"path"`

	Demo    DemoCmd    `cmd:"" help:"Run the end-to-end demo scenario"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

type VersionCmd struct{}

func (v *VersionCmd) Run() error {
	fmt.Println("reldb", version)
	return nil
}

// DemoCmd builds the demo database and walks the API surface.
type DemoCmd struct {
	Workdir string `name:"workdir" help:"Directory for persisted tables (overrides config)"`
}

func (d *DemoCmd) Run(cfg *config.Config) error {
	workdir := cfg.Storage.Workdir
	if d.Workdir != "" {
		workdir = d.Workdir
	}
	if err := os.MkdirAll(workdir, 0755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}

	db := catalog.NewDatabase("demo")
	db.AddObserver(catalog.NewLoggingObserver())

	users, err := table.New("users",
		[]schema.Column{
			{Name: "id", Type: value.TypeInt32, Options: []schema.Option{schema.NotNull(), schema.Autoincrement()}},
			{Name: "name", Type: value.TypeVarchar, Options: []schema.Option{schema.NotNull(), schema.Unique()}},
			{Name: "dept", Type: value.TypeEnum},
			{Name: "salary", Type: value.TypeFloat64},
		},
		[]string{"id"},
	)
	if err != nil {
		return err
	}

	orders, err := table.New("orders",
		[]schema.Column{
			{Name: "id", Type: value.TypeInt32, Options: []schema.Option{schema.NotNull(), schema.Autoincrement()}},
			{Name: "user_id", Type: value.TypeInt32, Options: []schema.Option{schema.ForeignKey("users")}},
			{Name: "amount", Type: value.TypeFloat64},
		},
		[]string{"id"},
	)
	if err != nil {
		return err
	}

	if err := db.CreateTable(users); err != nil {
		return err
	}
	if err := db.CreateTable(orders); err != nil {
		return err
	}
	if err := db.ValidateForeignKeys(); err != nil {
		return err
	}

	depts := []string{"eng", "sales", "ops"}
	seed := []struct {
		name   string
		dept   string
		salary float64
	}{
		{"Alice", "eng", 100},
		{"Bob", "eng", 200},
		{"Carol", "sales", 50},
		{"Dan", "ops", 75},
	}
	for _, s := range seed {
		err := users.Insert(table.Row{
			value.Null(),
			value.NewVarchar(s.name),
			value.NewEnum(s.dept, depts),
			value.NewFloat64(s.salary),
		})
		if err != nil {
			return err
		}
	}
	orderSeed := []struct {
		userID int32
		amount float64
	}{
		{1, 9.5}, {1, 20.0}, {2, 5.0}, {99, 1.0},
	}
	for _, o := range orderSeed {
		err := orders.Insert(table.Row{
			value.Null(),
			value.NewInt32(o.userID),
			value.NewFloat64(o.amount),
		})
		if err != nil {
			return err
		}
	}

	// Index-assisted selection over an ordered salary index.
	if err := users.CreateIndex("salary", true); err != nil {
		return err
	}
	wellPaid, err := users.SelectWhere(table.Gt("salary", value.NewFloat64(60)))
	if err != nil {
		return err
	}
	slog.Info("salary filter", slog.Int("matched", len(wellPaid)))

	// Average salary per department.
	avgs, err := users.Aggregate("dept", "salary", table.AggAvg)
	if err != nil {
		return err
	}
	for _, res := range avgs {
		slog.Info("avg salary", slog.Float64("avg", res.Float))
	}

	// Left join keeps the order with no matching user, Null-padded.
	pairs, err := orders.LeftJoin(users, "user_id", "id")
	if err != nil {
		return err
	}
	joined := table.JoinToTable("orders_users", orders, users, pairs)
	if err := storage.SaveView(joined, workdir); err != nil {
		return err
	}

	// A rolled-back delete leaves the table untouched.
	if err := users.BeginTransaction(); err != nil {
		return err
	}
	if _, err := users.DeleteWhere(table.Eq("name", value.NewVarchar("Bob"))); err != nil {
		return err
	}
	if err := users.RollbackTransaction(); err != nil {
		return err
	}

	for _, t := range []*table.Table{users, orders} {
		if err := storage.SaveTable(t, workdir); err != nil {
			return err
		}
	}
	if err := storage.SaveDatabaseMeta(db, workdir); err != nil {
		return err
	}

	slog.Info("demo complete",
		slog.String("workdir", workdir),
		slog.Int("users", len(users.Rows)),
		slog.Int("orders", len(orders.Rows)),
	)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("reldb"),
		kong.Description("Embedded relational data engine demo driver"),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, closeLogger := logging.SetupLogger(cfg.Level(), cfg.Logging.SeqURL)
	defer closeLogger()
	slog.SetDefault(logger)

	if err := ctx.Run(cfg); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		closeLogger()
		os.Exit(1)
	}
}
