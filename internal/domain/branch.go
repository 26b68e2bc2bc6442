package domain

import (
	"time"

	"github.com/google/uuid"
)

// Branch represents a merchant's physical location (filial)
type Branch struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	MerchantID uuid.UUID  `json:"merchant_id" db:"merchant_id"`
	Name       string     `json:"name" db:"name"`
	Address    string     `json:"address" db:"address"`
	Location   Coordinate `json:"location"`
	Phone      string     `json:"phone,omitempty" db:"phone"`
	Email      string     `json:"email,omitempty" db:"email"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// BranchDistance pairs a branch with its distance from a search origin
type BranchDistance struct {
	Branch     Branch  `json:"branch"`
	DistanceKm float64 `json:"distance_km"`
}
