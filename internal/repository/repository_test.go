package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"recipebox/internal/config"
	"recipebox/internal/model"
	"recipebox/internal/testutil"
)

type fixture struct {
	db          *gorm.DB
	users       UserRepository
	tags        TaxonomyRepository[model.Tag]
	ingredients TaxonomyRepository[model.Ingredient]
	recipes     RecipeRepository
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	return &fixture{
		db:          db,
		users:       NewUserRepository(db),
		tags:        NewTagRepository(db),
		ingredients: NewIngredientRepository(db),
		recipes:     NewRecipeRepository(db),
	}
}

func (f *fixture) user(t *testing.T, email string) Owner {
	u := &model.User{Email: email, Name: "Test", PasswordHash: "x", IsActive: true}
	require.NoError(t, f.users.Create(context.Background(), u))
	return Owner{UserID: u.ID}
}

func (f *fixture) tag(t *testing.T, owner Owner, name string) model.Tag {
	tag := model.Tag{Taxon: model.Taxon{Name: name, UserID: owner.UserID}}
	require.NoError(t, f.tags.Create(context.Background(), &tag))
	return tag
}

func (f *fixture) ingredient(t *testing.T, owner Owner, name string) model.Ingredient {
	ing := model.Ingredient{Taxon: model.Taxon{Name: name, UserID: owner.UserID}}
	require.NoError(t, f.ingredients.Create(context.Background(), &ing))
	return ing
}

func (f *fixture) recipe(t *testing.T, owner Owner, title string, tags []model.Tag, ings []model.Ingredient) model.Recipe {
	r := model.Recipe{
		UserID:           owner.UserID,
		Title:            title,
		MinutesToDeliver: 10,
		Price:            decimal.RequireFromString("5.00"),
		Tags:             tags,
		Ingredients:      ings,
	}
	require.NoError(t, f.recipes.Create(context.Background(), &r))
	return r
}

func recipeIDs(recipes []model.Recipe) []uint {
	ids := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestTaxonomyRepository_ListScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")

	f.ingredient(t, alice, "Salt")
	f.ingredient(t, alice, "Capsicum")

	aliceList, err := f.ingredients.List(ctx, alice, TaxonomyListOptions{})
	require.NoError(t, err)
	assert.Len(t, aliceList, 2)

	bobList, err := f.ingredients.List(ctx, bob, TaxonomyListOptions{})
	require.NoError(t, err)
	assert.Len(t, bobList, 0)
}

func TestTaxonomyRepository_ListOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "alice@example.com")

	f.tag(t, owner, "Breakfast")
	f.tag(t, owner, "Vegan")
	f.tag(t, owner, "Dessert")

	names := func(tags []model.Tag) []string {
		out := make([]string, 0, len(tags))
		for _, tag := range tags {
			out = append(out, tag.Name)
		}
		return out
	}

	byName, err := f.tags.List(ctx, owner, TaxonomyListOptions{Order: config.OrderNameDesc})
	require.NoError(t, err)
	assert.Equal(t, []string{"Vegan", "Dessert", "Breakfast"}, names(byName))

	byInsertion, err := f.tags.List(ctx, owner, TaxonomyListOptions{Order: config.OrderInsertion})
	require.NoError(t, err)
	assert.Equal(t, []string{"Breakfast", "Vegan", "Dessert"}, names(byInsertion))
}

func TestTaxonomyRepository_AssignedOnlyIsDistinct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "alice@example.com")

	breakfast := f.tag(t, owner, "Breakfast")
	f.tag(t, owner, "Lunch")
	f.recipe(t, owner, "Eggs", []model.Tag{breakfast}, nil)
	f.recipe(t, owner, "Pancakes", []model.Tag{breakfast}, nil)

	tags, err := f.tags.List(ctx, owner, TaxonomyListOptions{AssignedOnly: true})
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, breakfast.ID, tags[0].ID)
}

func TestTaxonomyRepository_FindAndDeleteScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	tag := f.tag(t, alice, "Vegan")
	recipe := f.recipe(t, alice, "Salad", []model.Tag{tag}, nil)

	_, err := f.tags.FindByID(ctx, bob, tag.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, f.tags.Delete(ctx, bob, tag.ID), gorm.ErrRecordNotFound)

	require.NoError(t, f.tags.Delete(ctx, alice, tag.ID))
	_, err = f.tags.FindByID(ctx, alice, tag.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := f.recipes.FindByID(ctx, alice, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestRecipeRepository_ScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")

	mine := f.recipe(t, alice, "Mine", nil, nil)
	f.recipe(t, bob, "Theirs", nil, nil)

	list, err := f.recipes.List(ctx, alice, RecipeFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uint{mine.ID}, recipeIDs(list))

	_, err = f.recipes.FindByID(ctx, bob, mine.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = f.recipes.Delete(ctx, bob, mine.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, f.recipes.UpdateImage(ctx, bob, mine.ID, "x.png"), gorm.ErrRecordNotFound)
}

func TestRecipeRepository_ListNewestFirst(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "alice@example.com")
	first := f.recipe(t, owner, "First", nil, nil)
	second := f.recipe(t, owner, "Second", nil, nil)

	list, err := f.recipes.List(context.Background(), owner, RecipeFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uint{second.ID, first.ID}, recipeIDs(list))
}

func TestRecipeRepository_AssociationFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "alice@example.com")

	vegan := f.tag(t, owner, "Vegan")
	spicy := f.tag(t, owner, "Spicy")
	other := f.tag(t, owner, "Other")
	salt := f.ingredient(t, owner, "Salt")
	chili := f.ingredient(t, owner, "Chili")

	curry := f.recipe(t, owner, "Curry", []model.Tag{vegan, spicy}, []model.Ingredient{salt, chili})
	salad := f.recipe(t, owner, "Salad", []model.Tag{vegan}, []model.Ingredient{salt})
	wings := f.recipe(t, owner, "Wings", []model.Tag{spicy}, []model.Ingredient{chili})
	f.recipe(t, owner, "Toast", []model.Tag{other}, nil)

	tests := []struct {
		name   string
		filter RecipeFilter
		want   []uint
	}{
		{name: "single tag", filter: RecipeFilter{TagIDs: []uint{vegan.ID}}, want: []uint{salad.ID, curry.ID}},
		{name: "any of several tags, once each", filter: RecipeFilter{TagIDs: []uint{vegan.ID, spicy.ID}}, want: []uint{wings.ID, salad.ID, curry.ID}},
		{name: "ingredient", filter: RecipeFilter{IngredientIDs: []uint{chili.ID}}, want: []uint{wings.ID, curry.ID}},
		{name: "tags and ingredients intersect", filter: RecipeFilter{TagIDs: []uint{vegan.ID}, IngredientIDs: []uint{chili.ID}}, want: []uint{curry.ID}},
		{name: "unknown id", filter: RecipeFilter{TagIDs: []uint{9999}}, want: []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := f.recipes.List(ctx, owner, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, recipeIDs(list))
		})
	}
}

func TestRecipeRepository_UpdateReplacesLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "alice@example.com")
	a := f.tag(t, owner, "A")
	b := f.tag(t, owner, "B")
	salt := f.ingredient(t, owner, "Salt")
	recipe := f.recipe(t, owner, "Soup", []model.Tag{a}, []model.Ingredient{salt})

	recipe.Title = "Better soup"
	recipe.Tags = []model.Tag{b}
	require.NoError(t, f.recipes.Update(ctx, &recipe, true, false))

	got, err := f.recipes.FindByID(ctx, owner, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Better soup", got.Title)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, b.ID, got.Tags[0].ID)
	require.Len(t, got.Ingredients, 1)

	got.Ingredients = nil
	require.NoError(t, f.recipes.Update(ctx, got, false, true))
	got, err = f.recipes.FindByID(ctx, owner, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Ingredients)
	assert.Len(t, got.Tags, 1)
}

func TestRecipeRepository_DeleteKeepsTaxonomy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "alice@example.com")
	tag := f.tag(t, owner, "Vegan")
	recipe := f.recipe(t, owner, "Salad", []model.Tag{tag}, nil)
	require.NoError(t, f.recipes.UpdateImage(ctx, owner, recipe.ID, "uploads/recipe/a.png"))

	deleted, err := f.recipes.Delete(ctx, owner, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "uploads/recipe/a.png", deleted.Image)

	_, err = f.tags.FindByID(ctx, owner, tag.ID)
	assert.NoError(t, err)

	var links int64
	require.NoError(t, f.db.Table(model.RecipeTagsTable).Count(&links).Error)
	assert.Zero(t, links)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "alice@example.com")
	tag := f.tag(t, owner, "Vegan")
	salt := f.ingredient(t, owner, "Salt")
	recipe := f.recipe(t, owner, "Salad", []model.Tag{tag}, []model.Ingredient{salt})
	require.NoError(t, f.recipes.UpdateImage(ctx, owner, recipe.ID, "uploads/recipe/a.png"))
	content := "first!"
	require.NoError(t, f.db.Create(&model.Update{UserID: owner.UserID, Content: &content}).Error)

	images, err := f.recipes.ImagesByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/recipe/a.png"}, images)

	require.NoError(t, f.users.Delete(ctx, owner.UserID))

	for _, m := range []interface{}{&model.Tag{}, &model.Ingredient{}, &model.Recipe{}, &model.Update{}} {
		var count int64
		require.NoError(t, f.db.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}
	var links int64
	require.NoError(t, f.db.Table(model.RecipeIngredientsTable).Count(&links).Error)
	assert.Zero(t, links)

	assert.ErrorIs(t, f.users.Delete(ctx, owner.UserID), gorm.ErrRecordNotFound)
}
