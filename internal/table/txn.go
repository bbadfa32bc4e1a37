package table

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/njiraini/reldb/internal/dberr"
)

// BeginTransaction snapshots every row so later mutations can be undone.
// Transactions are per-table and single-level: beginning while one is
// active is an error.
func (t *Table) BeginTransaction() error {
	if t.backup != nil {
		return &dberr.TransactionError{
			Table:  t.Name,
			Op:     "begin",
			Reason: "transaction already active",
		}
	}
	t.backup = cloneRows(t.Rows)
	t.txID = uuid.NewString()

	slog.Info("transaction started",
		slog.String("table", t.Name),
		slog.String("tx_id", t.txID),
		slog.Int("rows", len(t.backup)),
	)
	return nil
}

// RollbackTransaction restores the snapshot taken at begin and rebuilds
// every index against the restored rows.
func (t *Table) RollbackTransaction() error {
	if t.backup == nil {
		return &dberr.TransactionError{
			Table:  t.Name,
			Op:     "rollback",
			Reason: "no active transaction",
		}
	}
	t.Rows = t.backup
	t.backup = nil
	t.rebuildAllIndexes()

	slog.Info("transaction rolled back",
		slog.String("table", t.Name),
		slog.String("tx_id", t.txID),
		slog.Int("rows", len(t.Rows)),
	)
	t.txID = ""
	return nil
}

// CommitTransaction discards the snapshot, keeping every mutation made
// since begin.
func (t *Table) CommitTransaction() error {
	if t.backup == nil {
		return &dberr.TransactionError{
			Table:  t.Name,
			Op:     "commit",
			Reason: "no active transaction",
		}
	}
	t.backup = nil

	slog.Info("transaction committed",
		slog.String("table", t.Name),
		slog.String("tx_id", t.txID),
		slog.Int("rows", len(t.Rows)),
	)
	t.txID = ""
	return nil
}

// InTransaction reports whether a transaction is active on the table.
func (t *Table) InTransaction() bool { return t.backup != nil }
