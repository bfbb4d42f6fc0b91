package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"recipebox/internal/config"
	apperrors "recipebox/internal/errors"
	"recipebox/internal/model"
	"recipebox/internal/repository"
	"recipebox/internal/storage"
)

var maxPrice = decimal.NewFromInt(1000)

// RecipeInput carries recipe fields from a request. Nil fields were not sent.
type RecipeInput struct {
	Title            *string
	MinutesToDeliver *int
	Price            *decimal.Decimal
	Link             *string
	TagIDs           *[]uint
	IngredientIDs    *[]uint
}

// RecipeService manages the caller's recipes.
type RecipeService interface {
	Create(ctx context.Context, owner repository.Owner, in RecipeInput) (*model.Recipe, error)
	// Replace overwrites every field; omitted tags or ingredients clear the set.
	Replace(ctx context.Context, owner repository.Owner, id uint, in RecipeInput) (*model.Recipe, error)
	// Patch changes only the fields that were sent.
	Patch(ctx context.Context, owner repository.Owner, id uint, in RecipeInput) (*model.Recipe, error)
	Get(ctx context.Context, owner repository.Owner, id uint) (*model.Recipe, error)
	List(ctx context.Context, owner repository.Owner, filter repository.RecipeFilter) ([]model.Recipe, error)
	Delete(ctx context.Context, owner repository.Owner, id uint) error
	UploadImage(ctx context.Context, owner repository.Owner, id uint, filename string, data []byte) (*model.Recipe, error)
	RemoveImage(ctx context.Context, owner repository.Owner, id uint) (*model.Recipe, error)
}

type recipeService struct {
	recipes     repository.RecipeRepository
	tags        repository.TaxonomyRepository[model.Tag]
	ingredients repository.TaxonomyRepository[model.Ingredient]
	images      storage.ImageStore
	storageCfg  config.StorageConfig
	recipeCfg   config.RecipeConfig
	log         *zap.Logger
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(
	recipes repository.RecipeRepository,
	tags repository.TaxonomyRepository[model.Tag],
	ingredients repository.TaxonomyRepository[model.Ingredient],
	images storage.ImageStore,
	storageCfg config.StorageConfig,
	recipeCfg config.RecipeConfig,
	log *zap.Logger,
) RecipeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &recipeService{
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
		images:      images,
		storageCfg:  storageCfg,
		recipeCfg:   recipeCfg,
		log:         log,
	}
}

func (s *recipeService) Create(ctx context.Context, owner repository.Owner, in RecipeInput) (*model.Recipe, error) {
	recipe := &model.Recipe{UserID: owner.UserID}
	if err := s.apply(ctx, owner, recipe, in, true); err != nil {
		return nil, err
	}

	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return recipe, nil
}

func (s *recipeService) Replace(ctx context.Context, owner repository.Owner, id uint, in RecipeInput) (*model.Recipe, error) {
	if in.TagIDs == nil {
		in.TagIDs = &[]uint{}
	}
	if in.IngredientIDs == nil {
		in.IngredientIDs = &[]uint{}
	}
	if in.Link == nil {
		in.Link = new(string)
	}
	return s.update(ctx, owner, id, in, true)
}

func (s *recipeService) Patch(ctx context.Context, owner repository.Owner, id uint, in RecipeInput) (*model.Recipe, error) {
	return s.update(ctx, owner, id, in, false)
}

func (s *recipeService) update(ctx context.Context, owner repository.Owner, id uint, in RecipeInput, full bool) (*model.Recipe, error) {
	recipe, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, owner, recipe, in, full); err != nil {
		return nil, err
	}

	if err := s.recipes.Update(ctx, recipe, in.TagIDs != nil, in.IngredientIDs != nil); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return recipe, nil
}

// apply validates in and copies it onto recipe. With required set, title,
// minutes_to_deliver and price must be present.
func (s *recipeService) apply(ctx context.Context, owner repository.Owner, recipe *model.Recipe, in RecipeInput, required bool) error {
	verr := &apperrors.ValidationError{}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		switch {
		case title == "":
			verr.Add("title", "this field may not be blank")
		case utf8.RuneCountInString(title) > model.RecipeTitleMaxLen:
			verr.Add("title", fmt.Sprintf("ensure this field has no more than %d characters", model.RecipeTitleMaxLen))
		default:
			recipe.Title = title
		}
	} else if required {
		verr.Add("title", "this field is required")
	}

	if in.MinutesToDeliver != nil {
		m := *in.MinutesToDeliver
		if m < 0 || m > model.MaxMinutes {
			verr.Add("minutes_to_deliver", fmt.Sprintf("ensure this value is between 0 and %d", model.MaxMinutes))
		} else {
			recipe.MinutesToDeliver = m
		}
	} else if required {
		verr.Add("minutes_to_deliver", "this field is required")
	}

	if in.Price != nil {
		p := *in.Price
		switch {
		case !p.Equal(p.Round(2)):
			verr.Add("price", "ensure that there are no more than 2 decimal places")
		case p.Abs().GreaterThanOrEqual(maxPrice):
			verr.Add("price", "ensure that there are no more than 5 digits in total")
		default:
			recipe.Price = p
		}
	} else if required {
		verr.Add("price", "this field is required")
	}

	if in.Link != nil {
		link := strings.TrimSpace(*in.Link)
		if utf8.RuneCountInString(link) > model.RecipeLinkMaxLen {
			verr.Add("link", fmt.Sprintf("ensure this field has no more than %d characters", model.RecipeLinkMaxLen))
		} else {
			recipe.Link = link
		}
	}

	enforce := s.recipeCfg.EnforceAssociationOwnership
	if in.TagIDs != nil {
		tags, err := linkRows[model.Tag](ctx, s.tags, *in.TagIDs, owner, enforce, "tags", verr)
		if err != nil {
			return err
		}
		recipe.Tags = tags
	}
	if in.IngredientIDs != nil {
		ingredients, err := linkRows[model.Ingredient](ctx, s.ingredients, *in.IngredientIDs, owner, enforce, "ingredients", verr)
		if err != nil {
			return err
		}
		recipe.Ingredients = ingredients
	}

	if !verr.Empty() {
		return verr
	}
	return nil
}

// linkRows loads the rows behind ids for a recipe association. Unknown ids,
// and rows owned by someone else when enforce is set, are added to verr.
func linkRows[T any, PT taxon[T]](
	ctx context.Context,
	repo repository.TaxonomyRepository[T],
	ids []uint,
	owner repository.Owner,
	enforce bool,
	field string,
	verr *apperrors.ValidationError,
) ([]T, error) {
	items, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", field, err)
	}

	usable := make(map[uint]bool, len(items))
	for i := range items {
		base := PT(&items[i]).Base()
		usable[base.ID] = !enforce || base.UserID == owner.UserID
	}

	var bad []uint
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !usable[id] && !seen[id] {
			bad = append(bad, id)
		}
		seen[id] = true
	}
	sort.Slice(bad, func(i, j int) bool { return bad[i] < bad[j] })
	for _, id := range bad {
		verr.Add(field, fmt.Sprintf("invalid pk %q - object does not exist", fmt.Sprint(id)))
	}
	return items, nil
}

func (s *recipeService) Get(ctx context.Context, owner repository.Owner, id uint) (*model.Recipe, error) {
	recipe, err := s.recipes.FindByID(ctx, owner, id)
	if err != nil {
		return nil, translate(err)
	}
	return recipe, nil
}

func (s *recipeService) List(ctx context.Context, owner repository.Owner, filter repository.RecipeFilter) ([]model.Recipe, error) {
	return s.recipes.List(ctx, owner, filter)
}

// Delete removes the recipe, then its stored image.
func (s *recipeService) Delete(ctx context.Context, owner repository.Owner, id uint) error {
	deleted, err := s.recipes.Delete(ctx, owner, id)
	if err != nil {
		return translate(err)
	}
	s.dropImage(ctx, deleted.Image)
	return nil
}

// UploadImage validates the payload before anything is written, stores it
// under a fresh key and then removes the previous image.
func (s *recipeService) UploadImage(ctx context.Context, owner repository.Owner, id uint, filename string, data []byte) (*model.Recipe, error) {
	recipe, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	img, err := storage.ValidateImage(filename, data, s.storageCfg.MaxImageBytes)
	if err != nil {
		return nil, err
	}

	key := storage.NewImageKey(s.storageCfg.UploadDir, img.Ext)
	if err := s.images.Put(ctx, key, bytes.NewReader(img.Data), int64(len(img.Data)), img.ContentType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}
	if err := s.recipes.UpdateImage(ctx, owner, id, key); err != nil {
		s.dropImage(ctx, key)
		return nil, translate(err)
	}

	s.dropImage(ctx, recipe.Image)
	recipe.Image = key
	return recipe, nil
}

func (s *recipeService) RemoveImage(ctx context.Context, owner repository.Owner, id uint) (*model.Recipe, error) {
	recipe, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if recipe.Image == "" {
		return recipe, nil
	}

	if err := s.recipes.UpdateImage(ctx, owner, id, ""); err != nil {
		return nil, translate(err)
	}
	s.dropImage(ctx, recipe.Image)
	recipe.Image = ""
	return recipe, nil
}

func (s *recipeService) dropImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		s.log.Warn("Failed to delete recipe image", zap.String("key", key), zap.Error(err))
	}
}
