// internal/domain/tier/entity.go
package tier

import (
	"time"
)

// Tier is a versioned visibility tier definition. A tier referenced by an
// active subscription is never mutated in place; a new definition gets a new
// record and the old one is retired.
type Tier struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Ordinal     int       `json:"ordinal" db:"ordinal"`
	BoostWeight float64   `json:"boost_weight" db:"boost_weight"`
	Features    []string  `json:"features,omitempty" db:"features"`
	Retired     bool      `json:"retired" db:"retired"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Baseline is the implicit no-boost tier applied to vendors without a usable
// subscription. It is not stored in the catalog.
var Baseline = Tier{
	ID:          "baseline",
	Name:        "Baseline",
	Ordinal:     0,
	BoostWeight: 1.0,
}

// HasFeature reports whether the tier carries the given capability tag.
func (t *Tier) HasFeature(tag string) bool {
	for _, f := range t.Features {
		if f == tag {
			return true
		}
	}
	return false
}
