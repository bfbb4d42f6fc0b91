package repository

import (
	"context"

	"gorm.io/gorm"

	"recipebox/internal/config"
	"recipebox/internal/model"
)

// TaxonomyListOptions narrows and orders a tag or ingredient listing.
type TaxonomyListOptions struct {
	// AssignedOnly keeps rows referenced by at least one recipe.
	AssignedOnly bool
	// Order is config.OrderNameDesc or config.OrderInsertion.
	Order string
}

// TaxonomyRepository persists tags or ingredients.
type TaxonomyRepository[T any] interface {
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, owner Owner, id uint) error
	FindByID(ctx context.Context, owner Owner, id uint) (*T, error)
	// FindByIDs looks rows up regardless of owner; recipes may link to any user's rows.
	FindByIDs(ctx context.Context, ids []uint) ([]T, error)
	List(ctx context.Context, owner Owner, opts TaxonomyListOptions) ([]T, error)
}

type taxonomyRepository[T any] struct {
	db    *gorm.DB
	table string
	link  Link
}

// NewTagRepository builds the GORM-backed tag repository.
func NewTagRepository(db *gorm.DB) TaxonomyRepository[model.Tag] {
	return &taxonomyRepository[model.Tag]{db: db, table: "tags", link: tagToRecipe}
}

// NewIngredientRepository builds the GORM-backed ingredient repository.
func NewIngredientRepository(db *gorm.DB) TaxonomyRepository[model.Ingredient] {
	return &taxonomyRepository[model.Ingredient]{db: db, table: "ingredients", link: ingredientToRecipe}
}

func (r *taxonomyRepository[T]) Create(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *taxonomyRepository[T]) Update(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes an owned row together with its recipe links.
func (r *taxonomyRepository[T]) Delete(ctx context.Context, owner Owner, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Scopes(OwnedBy(r.table, owner)).Delete(new(T), id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Exec("DELETE FROM "+r.link.JoinTable+" WHERE "+r.link.SelfCol+" = ?", id).Error
	})
}

func (r *taxonomyRepository[T]) FindByID(ctx context.Context, owner Owner, id uint) (*T, error) {
	item := new(T)
	if err := r.db.WithContext(ctx).Scopes(OwnedBy(r.table, owner)).First(item, id).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *taxonomyRepository[T]) FindByIDs(ctx context.Context, ids []uint) ([]T, error) {
	var items []T
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).Where(r.table+".id IN ?", ids).Order(r.table + ".id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *taxonomyRepository[T]) List(ctx context.Context, owner Owner, opts TaxonomyListOptions) ([]T, error) {
	q := r.db.WithContext(ctx).Scopes(OwnedBy(r.table, owner))
	if opts.AssignedOnly {
		q = q.Scopes(Linked(r.table, r.link))
	}
	if opts.Order == config.OrderInsertion {
		q = q.Order(r.table + ".id ASC")
	} else {
		q = q.Order(r.table + ".name DESC").Order(r.table + ".id DESC")
	}

	var items []T
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
