package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe field bounds.
const (
	RecipeTitleMaxLen = 32
	RecipeLinkMaxLen  = 32
	MaxMinutes        = 32767
)

// Recipe is owned by one user and linked to any number of tags and ingredients.
type Recipe struct {
	ID               uint            `gorm:"primaryKey"`
	UserID           uint            `gorm:"not null;index"`
	Title            string          `gorm:"size:32;not null"`
	MinutesToDeliver int             `gorm:"type:smallint;not null;default:0"`
	Price            decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Link             string          `gorm:"size:32;not null;default:''"`
	Image            string          `gorm:"size:255;not null;default:''"` // storage key, empty when unset
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Tags        []Tag        `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE"`
}

// Association table names.
const (
	RecipeTagsTable        = "recipe_tags"
	RecipeIngredientsTable = "recipe_ingredients"
)
