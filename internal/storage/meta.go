package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"

	"github.com/njiraini/reldb/internal/catalog"
	"github.com/njiraini/reldb/internal/table"
)

// DatabaseMeta is the schema sidecar for a database directory: which
// tables exist and, per table, the structural facts the CSV data file
// does not carry.
type DatabaseMeta struct {
	Name    string      `json:"name"`
	Version int         `json:"version"`
	Tables  []TableMeta `json:"tables,omitempty"`
}

type TableMeta struct {
	Name       string       `json:"name"`
	Columns    []ColumnMeta `json:"columns"`
	PrimaryKey []string     `json:"primary_key,omitempty"`
	Indexes    []IndexMeta  `json:"indexes,omitempty"`
	RowCount   int64        `json:"row_count,omitempty"`
}

type ColumnMeta struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type IndexMeta struct {
	Column  string `json:"column"`
	Ordered bool   `json:"ordered"`
}

const metaFile = "meta.json"

// SaveDatabaseMeta writes the database sidecar for every table in the
// catalog, sorted by table name, using temp + atomic rename. Column
// options are built programmatically and are not persisted; callers
// re-declare them when reconstructing schemas for LoadTable.
func SaveDatabaseMeta(db *catalog.Database, dir string) error {
	meta := DatabaseMeta{
		Name:    db.Name,
		Version: 1,
	}

	for _, name := range db.TableNames() {
		t := db.Tables[name]
		meta.Tables = append(meta.Tables, tableMeta(t))
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal database meta for %s: %w", db.Name, err)
	}
	return writeAtomic(filepath.Join(dir, metaFile), data)
}

// LoadDatabaseMeta reads the database sidecar back.
func LoadDatabaseMeta(dir string) (DatabaseMeta, error) {
	var meta DatabaseMeta
	data, err := os.ReadFile(filepath.Join(dir, metaFile))
	if err != nil {
		return meta, fmt.Errorf("failed to read database meta: %w", err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("failed to unmarshal database meta: %w", err)
	}
	return meta, nil
}

func tableMeta(t *table.Table) TableMeta {
	tm := TableMeta{
		Name:       t.Name,
		PrimaryKey: t.PrimaryKey,
		RowCount:   int64(len(t.Rows)),
	}
	for _, col := range t.Columns {
		tm.Columns = append(tm.Columns, ColumnMeta{
			Name: col.Name,
			Type: col.Type.String(),
		})
	}

	indexed := make([]string, 0, len(t.Indexes))
	for column := range t.Indexes {
		indexed = append(indexed, column)
	}
	sort.Strings(indexed)
	for _, column := range indexed {
		tm.Indexes = append(tm.Indexes, IndexMeta{
			Column:  column,
			Ordered: t.Indexes[column].Kind == table.OrderedIndex,
		})
	}
	return tm
}
