package repository

import (
	"context"
	"database/sql"
	"fmt"

	"marketplace-geo/internal/domain"

	"github.com/google/uuid"
)

// StockRepository reads per-branch stock snapshots. Quantities already reflect
// active reservations; this layer never recomputes them.
type StockRepository interface {
	Create(ctx context.Context, stock *domain.StockRecord) error
	ListByBranches(ctx context.Context, branchIDs []uuid.UUID) ([]domain.StockRecord, error)
}

type stockRepository struct {
	db *sql.DB
}

// NewStockRepository creates a new instance of StockRepository
func NewStockRepository(db *sql.DB) StockRepository {
	return &stockRepository{db: db}
}

// Create inserts a stock record
func (r *stockRepository) Create(ctx context.Context, s *domain.StockRecord) error {
	query := `
		INSERT INTO stock_records (
			id, product_id, branch_id, quantity, unit_price, reservable, max_reservation_minutes,
			min_discount_percent, max_discount_percent, shelf_location, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	maxMinutes := s.MaxReservationMinutes
	if maxMinutes < 1 {
		maxMinutes = 1
	}

	_, err := r.db.ExecContext(
		ctx,
		query,
		s.ID,
		s.ProductID,
		s.BranchID,
		s.Quantity,
		s.UnitPrice,
		s.Reservable,
		maxMinutes,
		s.MinDiscountPercent,
		s.MaxDiscountPercent,
		s.ShelfLocation,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create stock record: %w", err)
	}

	return nil
}

// ListByBranches returns the stock rows of the given branches, including zero-quantity rows
func (r *stockRepository) ListByBranches(ctx context.Context, branchIDs []uuid.UUID) ([]domain.StockRecord, error) {
	records := []domain.StockRecord{}
	if len(branchIDs) == 0 {
		return records, nil
	}

	query := `
		SELECT id, product_id, branch_id, quantity, unit_price, reservable, max_reservation_minutes,
		       min_discount_percent, max_discount_percent, shelf_location, updated_at
		FROM stock_records
		WHERE branch_id = ANY($1::uuid[])
		ORDER BY branch_id, product_id
	`

	rows, err := r.db.QueryContext(ctx, query, uuidStrings(branchIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list stock records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.StockRecord
		err := rows.Scan(
			&s.ID,
			&s.ProductID,
			&s.BranchID,
			&s.Quantity,
			&s.UnitPrice,
			&s.Reservable,
			&s.MaxReservationMinutes,
			&s.MinDiscountPercent,
			&s.MaxDiscountPercent,
			&s.ShelfLocation,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock record: %w", err)
		}
		records = append(records, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock records: %w", err)
	}

	return records, nil
}
