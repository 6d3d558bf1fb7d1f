package storage

import (
	"context"
	"fmt"
)

// batchInsertStatements maps a table to its positional insert. The value
// order is the contract with the importer's row normalization.
var batchInsertStatements = map[string]string{
	TableSpending: `INSERT INTO spending (name, amount, date, category, owner, expense_name, user_id) VALUES (?, ?, ?, ?, ?, ?, ?)`,
	TableExpenses: `INSERT INTO expenses (name, expected, due_date, repeat_type, owner, user_id) VALUES (?, ?, ?, ?, ?, ?)`,
	TableGoals:    `INSERT INTO goals (name, target, amount, target_date, owner, user_id) VALUES (?, ?, ?, ?, ?, ?)`,
	TableDebt:     `INSERT INTO debt (name, amount, target_date, owner, user_id) VALUES (?, ?, ?, ?, ?)`,
	TableIncome:   `INSERT INTO income (name, amount, date, type, owner, user_id) VALUES (?, ?, ?, ?, ?, ?)`,
}

// InsertBatch writes all rows to one table inside a single transaction.
// Any failing row rolls back the whole batch.
func (r *SQLiteRepository) InsertBatch(ctx context.Context, table string, rows [][]any) error {
	stmtSQL, ok := batchInsertStatements[table]
	if !ok {
		return fmt.Errorf("batch insert into %q: %w", table, ErrUnknownTable)
	}
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("batch row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}
