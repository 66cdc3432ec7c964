package storage

import (
	"context"
	"fmt"

	"github.com/mariveth/lootsweep/internal/model"
	"github.com/mariveth/lootsweep/internal/service"
)

// SaveDiscardRecord appends one successful discard to the audit log.
func (s *SQLiteStorage) SaveDiscardRecord(ctx context.Context, record *model.DiscardRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("record is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO discard_history (item_id, item_name, quantity, container, slot, batch_id, discarded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, record.ItemID, record.ItemName, record.Quantity,
		string(record.Location.Container), record.Location.Slot,
		record.BatchID, record.DiscardedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save discard record: %w", err)
	}

	return nil
}

// GetDiscardHistory returns audit log entries, newest first.
func (s *SQLiteStorage) GetDiscardHistory(ctx context.Context, filter service.HistoryFilter) ([]model.DiscardRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT item_id, item_name, quantity, container, slot, batch_id, discarded_at
		FROM discard_history
		WHERE 1=1`
	args := []any{}

	if filter.Since != nil {
		query += ` AND discarded_at >= ?`
		args = append(args, filter.Since.UTC())
	}
	if filter.BatchID != "" {
		query += ` AND batch_id = ?`
		args = append(args, filter.BatchID)
	}

	query += ` ORDER BY discarded_at DESC, id DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query discard history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.DiscardRecord
	for rows.Next() {
		var r model.DiscardRecord
		var container string
		if err := rows.Scan(&r.ItemID, &r.ItemName, &r.Quantity,
			&container, &r.Location.Slot, &r.BatchID, &r.DiscardedAt); err != nil {
			return nil, fmt.Errorf("failed to scan discard record: %w", err)
		}
		r.Location.Container = model.Container(container)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate discard history: %w", err)
	}

	return records, nil
}
