package model

import "time"

// TaxonNameMaxLen bounds tag and ingredient names.
const TaxonNameMaxLen = 32

// Taxon is the shape shared by tags and ingredients: a short name owned by one user.
type Taxon struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:32;not null"`
	UserID    uint      `gorm:"not null;index"`
	CreatedAt time.Time
}

// Base gives generic code access to the shared fields.
func (t *Taxon) Base() *Taxon { return t }

// Tag labels recipes.
type Tag struct {
	Taxon
}

// Ingredient is something a recipe is made of.
type Ingredient struct {
	Taxon
}
