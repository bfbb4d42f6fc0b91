package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"recipebox/internal/auth"
	"recipebox/internal/cache"
	apperrors "recipebox/internal/errors"
	"recipebox/internal/model"
	"recipebox/internal/repository"
	"recipebox/internal/storage"
)

const userCacheTTL = 5 * time.Minute

// ProfileUpdate carries the user fields to change. Nil fields are kept.
type ProfileUpdate struct {
	Email    *string
	Name     *string
	Password *string
}

// UserService is the account store: user creation, authentication and the
// caller's own profile.
type UserService interface {
	CreateUser(ctx context.Context, email, password, name string) (*model.User, error)
	CreateSuperuser(ctx context.Context, email, password, name string) (*model.User, error)
	// Authenticate returns nil without an error when the credentials do not
	// match an active user.
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	GetProfile(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error)
	DeleteAccount(ctx context.Context, id uint) error
}

type userService struct {
	repo    repository.UserRepository
	recipes repository.RecipeRepository
	images  storage.ImageStore
	cache   *cache.Client
	log     *zap.Logger
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, recipes repository.RecipeRepository, images storage.ImageStore, cache *cache.Client, log *zap.Logger) UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &userService{repo: repo, recipes: recipes, images: images, cache: cache, log: log}
}

// NormalizeEmail trims surrounding space and lowercases the domain part.
// The local part is case sensitive and left as given.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) CreateUser(ctx context.Context, email, password, name string) (*model.User, error) {
	return s.create(ctx, email, password, name, false)
}

func (s *userService) CreateSuperuser(ctx context.Context, email, password, name string) (*model.User, error) {
	return s.create(ctx, email, password, name, true)
}

func (s *userService) create(ctx context.Context, email, password, name string, superuser bool) (*model.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.ErrEmailRequired
	}

	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hashedPassword,
		IsActive:     true,
		IsStaff:      superuser,
		IsSuperuser:  superuser,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// ensureEmailFree fails with ErrEmailTaken when a user other than self owns email.
func (s *userService) ensureEmailFree(ctx context.Context, email string, self uint) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil && existing != nil && existing.ID != self {
		return apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check user existence: %w", err)
	}
	return nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, nil
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

// ActiveAccount adapts users to the token middleware: a token is honoured
// only while its user exists and is active.
func ActiveAccount(users UserService) auth.UserCheck {
	return func(ctx context.Context, userID uint) bool {
		user, err := users.GetProfile(ctx, userID)
		return err == nil && user.IsActive
	}
}

func (s *userService) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	if update.Email != nil {
		email := NormalizeEmail(*update.Email)
		if email == "" {
			return nil, apperrors.ErrEmailRequired
		}
		if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name", "this field may not be blank")
		}
		user.Name = name
	}
	if update.Password != nil && *update.Password != "" {
		hashedPassword, err := auth.HashPassword(*update.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hashedPassword
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// DeleteAccount removes the user and everything they own. Recipe images are
// removed from storage after the rows are gone.
func (s *userService) DeleteAccount(ctx context.Context, id uint) error {
	images, err := s.recipes.ImagesByOwner(ctx, repository.Owner{UserID: id})
	if err != nil {
		return fmt.Errorf("list recipe images: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	for _, key := range images {
		if err := s.images.Delete(ctx, key); err != nil {
			s.log.Warn("Failed to delete recipe image", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}
