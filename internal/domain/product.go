package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog item owned by a merchant.
// Prices live on StockRecord since each branch sets its own.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	MerchantID  uuid.UUID `json:"merchant_id" db:"merchant_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CategoryID  uuid.UUID `json:"category_id" db:"category_id"`
	ImageURLs   []string  `json:"image_urls" db:"image_urls"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Category groups products for the discovery filter.
// ActiveProducts is only populated by listings.
type Category struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description,omitempty" db:"description"`
	ActiveProducts int       `json:"active_products"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
