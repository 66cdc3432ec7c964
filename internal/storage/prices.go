package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mariveth/lootsweep/internal/common"
	"github.com/mariveth/lootsweep/internal/model"
)

// SavePrice inserts or replaces a cached price observation.
func (s *SQLiteStorage) SavePrice(ctx context.Context, price model.CachedPrice) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO price_cache (item_id, price_per_unit, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			price_per_unit = excluded.price_per_unit,
			fetched_at = excluded.fetched_at
	`, price.ItemID, price.PricePerUnit, price.FetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save price: %w", err)
	}

	return nil
}

// GetPrice retrieves one cached price observation.
func (s *SQLiteStorage) GetPrice(ctx context.Context, itemID model.ItemID) (*model.CachedPrice, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var price model.CachedPrice
	err := s.db.QueryRowContext(ctx, `
		SELECT item_id, price_per_unit, fetched_at
		FROM price_cache
		WHERE item_id = ?
	`, itemID).Scan(&price.ItemID, &price.PricePerUnit, &price.FetchedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get price: %w", err)
	}

	return &price, nil
}

// GetAllPrices returns every cached price observation.
func (s *SQLiteStorage) GetAllPrices(ctx context.Context) ([]model.CachedPrice, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, price_per_unit, fetched_at
		FROM price_cache
		ORDER BY item_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var prices []model.CachedPrice
	for rows.Next() {
		var price model.CachedPrice
		if err := rows.Scan(&price.ItemID, &price.PricePerUnit, &price.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		prices = append(prices, price)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prices: %w", err)
	}

	return prices, nil
}

// PrunePrices deletes observations fetched before the given cutoff and
// returns how many rows were removed.
func (s *SQLiteStorage) PrunePrices(ctx context.Context, olderThan time.Time) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM price_cache WHERE fetched_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune prices: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned prices: %w", err)
	}

	return int(n), nil
}
