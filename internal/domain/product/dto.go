// internal/domain/product/dto.go
package product

import (
	"time"
)

// Filters narrows the candidate set. Empty Region/Category act as wildcards;
// matching is exact, not relevance-scored.
type Filters struct {
	Region     string `json:"region" form:"region"`
	Category   string `json:"category" form:"category"`
	ActiveOnly bool   `json:"active_only" form:"active_only"`
	VendorID   string `json:"vendor_id" form:"vendor_id"`
}

type CreateProductRequest struct {
	VendorID    string `json:"vendor_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
	Region      string `json:"region" binding:"required"`
}

type UpdateProductRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Region      *string `json:"region"`
}

// RankedItem is one scored entry of a search result.
type RankedItem struct {
	ProductID   string  `json:"product_id"`
	VendorID    string  `json:"vendor_id"`
	Title       string  `json:"title"`
	Score       float64 `json:"score"`
	TierID      string  `json:"tier_id"`
	TierOrdinal int     `json:"tier_ordinal"`
}

// RankedResult is the ordered outcome of one search request. Scores are never
// persisted; they are recomputed per query at a single AsOf instant.
type RankedResult struct {
	Items    []RankedItem `json:"items"`
	AsOf     time.Time    `json:"as_of"`
	Degraded bool         `json:"degraded,omitempty"`
}
