package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"recipebox/internal/auth"
	apperrors "recipebox/internal/errors"
	"recipebox/internal/model"
	"recipebox/internal/repository"
)

func newUserService(repo *MockUserRepository, recipes *MockRecipeRepository, images *MockImageStore) UserService {
	return NewUserService(repo, recipes, images, nil, nil)
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "test@EXAMPLE.COM", want: "test@example.com"},
		{in: "Test.User@Example.Com", want: "Test.User@example.com"},
		{in: "  spaced@example.com ", want: "spaced@example.com"},
		{in: "no-at-sign", want: "no-at-sign"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEmail(tt.in))
		})
	}
}

func TestUserService_CreateUser(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		setupMock     func(*MockUserRepository)
		expectedEmail string
		expectedError error
	}{
		{
			name:  "successful creation normalizes email",
			email: "test@EXAMPLE.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedEmail: "test@example.com",
		},
		{
			name:          "empty email",
			email:         "",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrEmailRequired,
		},
		{
			name:  "email already taken",
			email: "existing@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{ID: 9, Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := newUserService(mockRepo, nil, nil)
			user, err := service.CreateUser(context.Background(), tt.email, "testpass123", "Test User")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedEmail, user.Email)
				assert.Equal(t, "Test User", user.Name)
				assert.NotEqual(t, "testpass123", user.PasswordHash)
				assert.True(t, auth.CheckPassword(user.PasswordHash, "testpass123"))
				assert.True(t, user.IsActive)
				assert.False(t, user.IsStaff)
				assert.False(t, user.IsSuperuser)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_CreateSuperuser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "admin@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	user, err := newUserService(mockRepo, nil, nil).CreateSuperuser(context.Background(), "admin@example.com", "adminpass", "")

	require.NoError(t, err)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsSuperuser)
	mockRepo.AssertExpectations(t)
}

func TestUserService_Authenticate(t *testing.T) {
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	tests := []struct {
		name      string
		password  string
		user      *model.User
		findErr   error
		wantUser  bool
		wantError bool
	}{
		{name: "matching password", password: "password123", user: &model.User{ID: 1, Email: "test@example.com", PasswordHash: hash, IsActive: true}, wantUser: true},
		{name: "wrong password", password: "password123x", user: &model.User{ID: 1, Email: "test@example.com", PasswordHash: hash, IsActive: true}},
		{name: "inactive user", password: "password123", user: &model.User{ID: 1, Email: "test@example.com", PasswordHash: hash, IsActive: false}},
		{name: "unknown email", password: "password123", findErr: gorm.ErrRecordNotFound},
		{name: "database failure", password: "password123", findErr: errors.New("connection refused"), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			if tt.user != nil {
				mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(tt.user, nil)
			} else {
				mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, tt.findErr)
			}

			user, err := newUserService(mockRepo, nil, nil).Authenticate(context.Background(), "test@EXAMPLE.com", tt.password)

			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantUser {
				assert.Equal(t, tt.user, user)
			} else {
				assert.Nil(t, user)
			}
		})
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	hash, err := auth.HashPassword("oldpass")
	require.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Email: "a@example.com", Name: "Old", PasswordHash: hash}, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	name, password := "New", "newpass"
	user, err := newUserService(mockRepo, nil, nil).UpdateProfile(context.Background(), 1, ProfileUpdate{Name: &name, Password: &password})

	require.NoError(t, err)
	assert.Equal(t, "New", user.Name)
	assert.Equal(t, "a@example.com", user.Email)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "newpass"))
	assert.False(t, auth.CheckPassword(user.PasswordHash, "oldpass"))
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateProfile_EmailTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Email: "a@example.com"}, nil)
	mockRepo.On("FindByEmail", mock.Anything, "b@example.com").Return(&model.User{ID: 2, Email: "b@example.com"}, nil)

	email := "b@example.com"
	_, err := newUserService(mockRepo, nil, nil).UpdateProfile(context.Background(), 1, ProfileUpdate{Email: &email})

	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(5)).Return(nil, gorm.ErrRecordNotFound)

	_, err := newUserService(mockRepo, nil, nil).GetProfile(context.Background(), 5)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserService_DeleteAccount(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRecipes := new(MockRecipeRepository)
	mockImages := new(MockImageStore)

	mockRecipes.On("ImagesByOwner", mock.Anything, repository.Owner{UserID: 3}).Return([]string{"uploads/recipe/a.png", "uploads/recipe/b.jpg"}, nil)
	mockRepo.On("Delete", mock.Anything, uint(3)).Return(nil)
	mockImages.On("Delete", mock.Anything, "uploads/recipe/a.png").Return(nil)
	mockImages.On("Delete", mock.Anything, "uploads/recipe/b.jpg").Return(errors.New("gone"))

	err := newUserService(mockRepo, mockRecipes, mockImages).DeleteAccount(context.Background(), 3)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockRecipes.AssertExpectations(t)
	mockImages.AssertExpectations(t)
}

func TestUserService_UpdateProfile_BlankName(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Email: "a@example.com", Name: "Old"}, nil)

	name := "   "
	_, err := newUserService(mockRepo, nil, nil).UpdateProfile(context.Background(), 1, ProfileUpdate{Name: &name})

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestActiveAccount(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, IsActive: true}, nil)
	mockRepo.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2, IsActive: false}, nil)
	mockRepo.On("FindByID", mock.Anything, uint(3)).Return(nil, gorm.ErrRecordNotFound)

	active := ActiveAccount(newUserService(mockRepo, nil, nil))

	assert.True(t, active(context.Background(), 1))
	assert.False(t, active(context.Background(), 2), "inactive user")
	assert.False(t, active(context.Background(), 3), "deleted user")
}
