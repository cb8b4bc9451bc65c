// internal/domain/product/entity.go
package product

import (
	"time"
)

// Product is a vendor listing. Identity is immutable; display fields mutate.
// Removal from search is deactivation, never deletion.
type Product struct {
	ID          string    `json:"id" db:"id"`
	VendorID    string    `json:"vendor_id" db:"vendor_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	Category    string    `json:"category" db:"category"`
	Region      string    `json:"region" db:"region"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
