package repository

import (
	"gorm.io/gorm"

	"recipebox/internal/model"
)

// Owner identifies the caller whose rows a query may see or change.
// Every owner-scoped data access takes one explicitly.
type Owner struct {
	UserID uint
}

// OwnedBy restricts a query on table to rows owned by o.
func OwnedBy(table string, o Owner) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".user_id = ?", o.UserID)
	}
}

// Link describes one side of a many-to-many association table.
type Link struct {
	JoinTable string // e.g. recipe_tags
	SelfCol   string // column referencing the queried table
	OtherCol  string // column referencing the other side
}

// LinkedToAny keeps rows of table that have at least one association row whose
// other side is in ids. The lookup is a semi-join on the association table, so
// a row linked to several of the ids is returned once.
func LinkedToAny(table string, link Link, ids []uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table(link.JoinTable).
			Select(link.SelfCol).
			Where(link.OtherCol+" IN ?", ids)
		return db.Where(table+".id IN (?)", sub)
	}
}

// Linked keeps rows of table referenced by at least one association row.
func Linked(table string, link Link) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table(link.JoinTable).
			Select(link.SelfCol)
		return db.Where(table+".id IN (?)", sub)
	}
}

var (
	recipeByTag        = Link{JoinTable: model.RecipeTagsTable, SelfCol: "recipe_id", OtherCol: "tag_id"}
	recipeByIngredient = Link{JoinTable: model.RecipeIngredientsTable, SelfCol: "recipe_id", OtherCol: "ingredient_id"}
	tagToRecipe        = Link{JoinTable: model.RecipeTagsTable, SelfCol: "tag_id", OtherCol: "recipe_id"}
	ingredientToRecipe = Link{JoinTable: model.RecipeIngredientsTable, SelfCol: "ingredient_id", OtherCol: "recipe_id"}
)
