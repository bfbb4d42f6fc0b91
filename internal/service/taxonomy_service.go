package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "recipebox/internal/errors"
	"recipebox/internal/model"
	"recipebox/internal/repository"
)

// taxon is satisfied by *model.Tag and *model.Ingredient.
type taxon[T any] interface {
	*T
	Base() *model.Taxon
}

// TaxonomyService manages the caller's tags or ingredients.
type TaxonomyService[T any] interface {
	Create(ctx context.Context, owner repository.Owner, name string) (*T, error)
	Get(ctx context.Context, owner repository.Owner, id uint) (*T, error)
	Rename(ctx context.Context, owner repository.Owner, id uint, name string) (*T, error)
	Delete(ctx context.Context, owner repository.Owner, id uint) error
	List(ctx context.Context, owner repository.Owner, assignedOnly bool) ([]T, error)
}

type taxonomyService[T any, PT taxon[T]] struct {
	repo  repository.TaxonomyRepository[T]
	order string
}

// NewTaxonomyService builds a service over repo. order is the default listing
// order, config.OrderNameDesc or config.OrderInsertion.
func NewTaxonomyService[T any, PT taxon[T]](repo repository.TaxonomyRepository[T], order string) TaxonomyService[T] {
	return &taxonomyService[T, PT]{repo: repo, order: order}
}

// NewTagService builds the tag service.
func NewTagService(repo repository.TaxonomyRepository[model.Tag], order string) TaxonomyService[model.Tag] {
	return NewTaxonomyService[model.Tag](repo, order)
}

// NewIngredientService builds the ingredient service.
func NewIngredientService(repo repository.TaxonomyRepository[model.Ingredient], order string) TaxonomyService[model.Ingredient] {
	return NewTaxonomyService[model.Ingredient](repo, order)
}

func validateTaxonName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", apperrors.NewValidationError("name", "this field may not be blank")
	case utf8.RuneCountInString(name) > model.TaxonNameMaxLen:
		return "", apperrors.NewValidationError("name", fmt.Sprintf("ensure this field has no more than %d characters", model.TaxonNameMaxLen))
	}
	return name, nil
}

// Create stores a new row owned by owner.
func (s *taxonomyService[T, PT]) Create(ctx context.Context, owner repository.Owner, name string) (*T, error) {
	name, err := validateTaxonName(name)
	if err != nil {
		return nil, err
	}

	item := new(T)
	base := PT(item).Base()
	base.Name = name
	base.UserID = owner.UserID

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	return item, nil
}

func (s *taxonomyService[T, PT]) Get(ctx context.Context, owner repository.Owner, id uint) (*T, error) {
	item, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		return nil, translate(err)
	}
	return item, nil
}

func (s *taxonomyService[T, PT]) Rename(ctx context.Context, owner repository.Owner, id uint, name string) (*T, error) {
	name, err := validateTaxonName(name)
	if err != nil {
		return nil, err
	}

	item, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	PT(item).Base().Name = name

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	return item, nil
}

func (s *taxonomyService[T, PT]) Delete(ctx context.Context, owner repository.Owner, id uint) error {
	return translate(s.repo.Delete(ctx, owner, id))
}

func (s *taxonomyService[T, PT]) List(ctx context.Context, owner repository.Owner, assignedOnly bool) ([]T, error) {
	return s.repo.List(ctx, owner, repository.TaxonomyListOptions{
		AssignedOnly: assignedOnly,
		Order:        s.order,
	})
}
