package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recipebox/internal/model"
)

// RecipeFilter narrows a recipe listing by linked tags and ingredients.
// Within one list any id matches; both lists must match when both are set.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeRepository defines recipe persistence operations.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *model.Recipe) error
	// Update saves scalar fields and, when asked, replaces the association sets
	// with recipe.Tags and recipe.Ingredients.
	Update(ctx context.Context, recipe *model.Recipe, replaceTags, replaceIngredients bool) error
	UpdateImage(ctx context.Context, owner Owner, id uint, image string) error
	// Delete removes an owned recipe and its association rows and returns what was deleted.
	Delete(ctx context.Context, owner Owner, id uint) (*model.Recipe, error)
	FindByID(ctx context.Context, owner Owner, id uint) (*model.Recipe, error)
	List(ctx context.Context, owner Owner, filter RecipeFilter) ([]model.Recipe, error)
	ImagesByOwner(ctx context.Context, owner Owner) ([]string, error)
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// Create inserts the recipe and its association rows. Linked tags and
// ingredients must already exist.
func (r *recipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Omit("Tags.*", "Ingredients.*").Create(recipe).Error
}

func (r *recipeRepository) Update(ctx context.Context, recipe *model.Recipe, replaceTags, replaceIngredients bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return err
		}
		if replaceTags {
			if err := replaceAssociation(tx, recipe, "Tags", recipe.Tags); err != nil {
				return err
			}
		}
		if replaceIngredients {
			if err := replaceAssociation(tx, recipe, "Ingredients", recipe.Ingredients); err != nil {
				return err
			}
		}
		return nil
	})
}

func replaceAssociation[T any](tx *gorm.DB, recipe *model.Recipe, name string, values []T) error {
	assoc := tx.Model(recipe).Association(name)
	if len(values) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(values)
}

func (r *recipeRepository) UpdateImage(ctx context.Context, owner Owner, id uint, image string) error {
	res := r.db.WithContext(ctx).Model(&model.Recipe{}).
		Scopes(OwnedBy("recipes", owner)).
		Where("id = ?", id).
		Update("image", image)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, owner Owner, id uint) (*model.Recipe, error) {
	var deleted *model.Recipe
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe model.Recipe
		if err := tx.Scopes(OwnedBy("recipes", owner)).First(&recipe, id).Error; err != nil {
			return err
		}
		if err := tx.Select("Tags", "Ingredients").Delete(&recipe).Error; err != nil {
			return err
		}
		deleted = &recipe
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *recipeRepository) FindByID(ctx context.Context, owner Owner, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.withLinks(ctx).Scopes(OwnedBy("recipes", owner)).First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// List returns owned recipes, newest first.
func (r *recipeRepository) List(ctx context.Context, owner Owner, filter RecipeFilter) ([]model.Recipe, error) {
	q := r.withLinks(ctx).Scopes(OwnedBy("recipes", owner))
	if filter.TagIDs != nil {
		q = q.Scopes(LinkedToAny("recipes", recipeByTag, filter.TagIDs))
	}
	if filter.IngredientIDs != nil {
		q = q.Scopes(LinkedToAny("recipes", recipeByIngredient, filter.IngredientIDs))
	}

	var recipes []model.Recipe
	if err := q.Order("recipes.id DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) ImagesByOwner(ctx context.Context, owner Owner) ([]string, error) {
	var images []string
	err := r.db.WithContext(ctx).Model(&model.Recipe{}).
		Scopes(OwnedBy("recipes", owner)).
		Where("image <> ''").
		Pluck("image", &images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *recipeRepository) withLinks(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredients.id") })
}
