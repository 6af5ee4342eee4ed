package database

import (
	"encoding/json"
	"fmt"

	"stoka/model"
)

// InsertSnapshot stores an immutable copy of a reorder list. Names keep
// their derivation order; they are stored as a JSON array.
func InsertSnapshot(dbtx DBTX, createdAt string, names []string) (int, error) {
	if names == nil {
		names = []string{}
	}
	payload, err := json.Marshal(names)
	if err != nil {
		return 0, fmt.Errorf("failed to encode snapshot names: %w", err)
	}
	res, err := dbtx.Exec(`INSERT INTO reorder_lists (created_at, product_names) VALUES (?, ?)`,
		createdAt, string(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to insert reorder snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

type snapshotRow struct {
	ID           int    `db:"id"`
	CreatedAt    string `db:"created_at"`
	ProductNames string `db:"product_names"`
}

func (r snapshotRow) toSnapshot() (model.ReorderSnapshot, error) {
	snap := model.ReorderSnapshot{ID: r.ID, CreatedAt: r.CreatedAt, ProductNames: []string{}}
	if err := json.Unmarshal([]byte(r.ProductNames), &snap.ProductNames); err != nil {
		return snap, fmt.Errorf("corrupt snapshot %d: %w", r.ID, err)
	}
	if snap.ProductNames == nil {
		snap.ProductNames = []string{}
	}
	return snap, nil
}

// ListSnapshots returns saved reorder lists, newest first.
func ListSnapshots(dbtx DBTX) ([]model.ReorderSnapshot, error) {
	var rows []snapshotRow
	err := dbtx.Select(&rows, `SELECT id, created_at, product_names FROM reorder_lists ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select reorder snapshots: %w", err)
	}
	snapshots := make([]model.ReorderSnapshot, 0, len(rows))
	for _, r := range rows {
		snap, err := r.toSnapshot()
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// GetSnapshotByID returns sql.ErrNoRows (wrapped by sqlx.Get) when the
// snapshot does not exist.
func GetSnapshotByID(dbtx DBTX, id int) (*model.ReorderSnapshot, error) {
	var row snapshotRow
	if err := dbtx.Get(&row, `SELECT id, created_at, product_names FROM reorder_lists WHERE id = ?`, id); err != nil {
		return nil, err
	}
	snap, err := row.toSnapshot()
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// DeleteSnapshot reports whether a row was actually removed.
func DeleteSnapshot(dbtx DBTX, id int) (bool, error) {
	res, err := dbtx.Exec(`DELETE FROM reorder_lists WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete reorder snapshot %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
