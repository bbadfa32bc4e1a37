// Package storage is the delimited-text persistence adapter: tables save
// as quoted CSV next to a JSON schema sidecar, views save undecorated
// under a distinct path pattern.
package storage

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/njiraini/reldb/internal/dberr"
	"github.com/njiraini/reldb/internal/schema"
	"github.com/njiraini/reldb/internal/table"
	"github.com/njiraini/reldb/internal/value"
)

// TablePath returns the data file for a table within a database
// directory.
func TablePath(dir, name string) string {
	return filepath.Join(dir, name+".csv")
}

// ViewPath returns the data file for a saved view. Views live beside
// tables under a distinct suffix so a view can never shadow a table.
func ViewPath(dir, name string) string {
	return filepath.Join(dir, name+"_view.csv")
}

// SaveTable writes the table's rows to dir/<name>.csv: a header of
// comma-separated column names, then one line per row with every field
// quoted. Null renders as NULL, Set values as {a,b}, Enum values as their
// selection only. The file is written to a temp path and renamed into
// place.
//
// Fields are quoted verbatim, not escaped: a textual payload containing
// a double quote or a comma does not survive the round trip (LoadTable
// reports it as a field-count or parse failure). The format carries
// display values, not arbitrary bytes.
func SaveTable(t *table.Table, dir string) error {
	var b strings.Builder

	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	b.WriteString(strings.Join(names, ","))
	b.WriteByte('\n')

	for _, row := range t.Rows {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = `"` + v.String() + `"`
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}

	path := TablePath(dir, t.Name)
	if err := writeAtomic(path, []byte(b.String())); err != nil {
		return err
	}

	slog.Info("table saved",
		slog.String("table", t.Name),
		slog.String("path", path),
		slog.Int("row_count", len(t.Rows)),
	)
	return nil
}

// SaveView writes the table's rows to dir/<name>_view.csv with the same
// header but undecorated fields. Views are a display artifact; LoadTable
// does not read them back.
func SaveView(t *table.Table, dir string) error {
	var b strings.Builder

	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	b.WriteString(strings.Join(names, ","))
	b.WriteByte('\n')

	for _, row := range t.Rows {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = v.String()
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}

	path := ViewPath(dir, t.Name)
	if err := writeAtomic(path, []byte(b.String())); err != nil {
		return err
	}

	slog.Info("view saved",
		slog.String("view", t.Name),
		slog.String("path", path),
		slog.Int("row_count", len(t.Rows)),
	)
	return nil
}

// LoadTable reads dir/<name>.csv back into a table with the supplied
// schema. Every field is re-parsed against its column's declared type;
// Enum and Set values come back with empty allowed lists, so the loaded
// rows bypass the insert pipeline and the caller re-validates against the
// live schema if it needs membership guarantees. Indexes are rebuilt over
// the loaded rows.
//
// A line whose field count disagrees with the schema is a ParseError
// carrying its 1-based data line number.
func LoadTable(dir, name string, columns []schema.Column, primaryKey []string) (*table.Table, error) {
	path := TablePath(dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // length checked per line for positional errors

	records, err := r.ReadAll()
	if err != nil {
		return nil, &dberr.ParseError{Path: path, Reason: err.Error()}
	}
	if len(records) == 0 {
		return nil, &dberr.ParseError{Path: path, Reason: "missing header line"}
	}

	header := records[0]
	if len(header) != len(columns) {
		return nil, &dberr.ParseError{
			Path:   path,
			Reason: fmt.Sprintf("header has %d columns, schema has %d", len(header), len(columns)),
		}
	}

	t, err := table.New(name, columns, primaryKey)
	if err != nil {
		return nil, err
	}

	for lineNo, record := range records[1:] {
		if len(record) != len(columns) {
			return nil, &dberr.ParseError{
				Path:   path,
				Line:   lineNo + 1,
				Reason: fmt.Sprintf("expected %d fields, got %d", len(columns), len(record)),
			}
		}
		row := make(table.Row, len(record))
		for i, field := range record {
			v, err := value.Parse(field, columns[i].Type)
			if err != nil {
				return nil, &dberr.ParseError{
					Path:   path,
					Line:   lineNo + 1,
					Column: columns[i].Name,
					Reason: err.Error(),
				}
			}
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	t.RebuildIndexes()

	slog.Info("table loaded",
		slog.String("table", name),
		slog.String("path", path),
		slog.Int("row_count", len(t.Rows)),
	)
	return t, nil
}

// LoadView reads dir/<name>_view.csv back against the supplied columns.
// The result is a plain row carrier: no primary key, no indexes, and no
// constraint re-validation, mirroring how join and set-operation results
// are materialized.
func LoadView(dir, name string, columns []schema.Column) (*table.Table, error) {
	path := ViewPath(dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open view file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, &dberr.ParseError{Path: path, Reason: err.Error()}
	}
	if len(records) == 0 {
		return nil, &dberr.ParseError{Path: path, Reason: "missing header line"}
	}

	t, err := table.New(name, columns, nil)
	if err != nil {
		return nil, err
	}

	for lineNo, record := range records[1:] {
		if len(record) != len(columns) {
			return nil, &dberr.ParseError{
				Path:   path,
				Line:   lineNo + 1,
				Reason: fmt.Sprintf("expected %d fields, got %d", len(columns), len(record)),
			}
		}
		row := make(table.Row, len(record))
		for i, field := range record {
			v, err := value.Parse(field, columns[i].Type)
			if err != nil {
				return nil, &dberr.ParseError{
					Path:   path,
					Line:   lineNo + 1,
					Column: columns[i].Name,
					Reason: err.Error(),
				}
			}
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// writeAtomic writes via a temp file and an atomic rename so readers
// never observe a partial file.
func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file into %s: %w", path, err)
	}
	return nil
}
