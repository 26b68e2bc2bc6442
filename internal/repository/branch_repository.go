package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketplace-geo/internal/domain"
	"marketplace-geo/internal/geo"

	"github.com/google/uuid"
)

var (
	ErrBranchNotFound = errors.New("branch not found")
)

// BranchRepository defines the interface for branch data access
type BranchRepository interface {
	Create(ctx context.Context, branch *domain.Branch) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Branch, error)
	ListWithinBounds(ctx context.Context, bounds geo.Bounds) ([]domain.Branch, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]domain.Branch, error)
}

type branchRepository struct {
	db *sql.DB
}

// NewBranchRepository creates a new instance of BranchRepository
func NewBranchRepository(db *sql.DB) BranchRepository {
	return &branchRepository{db: db}
}

const branchColumns = `id, merchant_id, name, address, latitude, longitude, COALESCE(phone, ''), COALESCE(email, ''), created_at, updated_at`

// Create inserts a new branch
func (r *branchRepository) Create(ctx context.Context, branch *domain.Branch) error {
	query := `
		INSERT INTO branches (id, merchant_id, name, address, latitude, longitude, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		branch.ID,
		branch.MerchantID,
		branch.Name,
		branch.Address,
		branch.Location.Lat,
		branch.Location.Lng,
		branch.Phone,
		branch.Email,
		branch.CreatedAt,
		branch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}

	return nil
}

// FindByID retrieves a branch by ID
func (r *branchRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = $1`

	branch, err := scanBranch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBranchNotFound
		}
		return nil, fmt.Errorf("failed to find branch by ID: %w", err)
	}

	return &branch, nil
}

// ListWithinBounds retrieves branches whose coordinates fall inside the box.
// The box is a coarse pre-filter; exact radius filtering happens in the discovery engine.
func (r *branchRepository) ListWithinBounds(ctx context.Context, bounds geo.Bounds) ([]domain.Branch, error) {
	query := `SELECT ` + branchColumns + `
		FROM branches
		WHERE latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, bounds.MinLat, bounds.MaxLat, bounds.MinLng, bounds.MaxLng)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches within bounds: %w", err)
	}
	defer rows.Close()

	return collectBranches(rows)
}

// ListByMerchant retrieves all branches owned by a merchant
func (r *branchRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE merchant_id = $1 ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list merchant branches: %w", err)
	}
	defer rows.Close()

	return collectBranches(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBranch(row rowScanner) (domain.Branch, error) {
	var b domain.Branch
	err := row.Scan(
		&b.ID,
		&b.MerchantID,
		&b.Name,
		&b.Address,
		&b.Location.Lat,
		&b.Location.Lng,
		&b.Phone,
		&b.Email,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

func collectBranches(rows *sql.Rows) ([]domain.Branch, error) {
	branches := []domain.Branch{}
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		branches = append(branches, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating branches: %w", err)
	}

	return branches, nil
}
