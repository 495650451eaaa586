package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"absenceportal/internal/logger"
	"absenceportal/internal/model"
)

// MockUserStore mocks the UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByEmailAndRole(ctx context.Context, email string, role model.Role) (model.User, error) {
	args := m.Called(ctx, email, role)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) UpdateProfile(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) UpdateProfileImage(ctx context.Context, id uuid.UUID, image string) (model.User, error) {
	args := m.Called(ctx, id, image)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// MockTokenManager mocks the token.Manager interface
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) Generate(userID uuid.UUID, role model.Role) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) Parse(tokenString string) (uuid.UUID, model.Role, error) {
	args := m.Called(tokenString)
	return args.Get(0).(uuid.UUID), args.Get(1).(model.Role), args.Error(2)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAccountService_Login(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name      string
		email     string
		password  string
		role      model.Role
		mockSetup func(*MockUserStore, *MockTokenManager)
		wantErr   error
	}{
		{
			name:     "successful login",
			email:    "s100@example.com",
			password: "correct-horse",
			role:     model.RoleStudent,
			mockSetup: func(userStore *MockUserStore, tokens *MockTokenManager) {
				user := model.User{
					ID:           userID,
					Email:        "s100@example.com",
					Role:         model.RoleStudent,
					PasswordHash: hashPassword(t, "correct-horse"),
				}
				userStore.On("GetByEmailAndRole", mock.Anything, "s100@example.com", model.RoleStudent).Return(user, nil)
				tokens.On("Generate", userID, model.RoleStudent).Return("session-token", nil)
			},
		},
		{
			name:      "invalid role",
			email:     "s100@example.com",
			password:  "pw",
			role:      model.Role("admin"),
			mockSetup: func(userStore *MockUserStore, tokens *MockTokenManager) {},
			wantErr:   model.ErrInvalidRole,
		},
		{
			name:     "unknown account maps to invalid credentials",
			email:    "ghost@example.com",
			password: "pw",
			role:     model.RoleStudent,
			mockSetup: func(userStore *MockUserStore, tokens *MockTokenManager) {
				userStore.On("GetByEmailAndRole", mock.Anything, "ghost@example.com", model.RoleStudent).Return(model.User{}, model.ErrNotFound)
			},
			wantErr: model.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "s100@example.com",
			password: "wrong",
			role:     model.RoleStudent,
			mockSetup: func(userStore *MockUserStore, tokens *MockTokenManager) {
				user := model.User{
					ID:           userID,
					Email:        "s100@example.com",
					Role:         model.RoleStudent,
					PasswordHash: hashPassword(t, "correct-horse"),
				}
				userStore.On("GetByEmailAndRole", mock.Anything, "s100@example.com", model.RoleStudent).Return(user, nil)
			},
			wantErr: model.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userStore := &MockUserStore{}
			tokens := &MockTokenManager{}
			tt.mockSetup(userStore, tokens)

			service := NewAccount(userStore, tokens, logger.New(0))
			result, err := service.Login(context.Background(), tt.email, tt.password, tt.role)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.email, result.User.Email)
				assert.Equal(t, "session-token", result.Token)
			}
			userStore.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestAccountService_Login_LegacyPlaintextUpgrade(t *testing.T) {
	userID := uuid.New()
	user := model.User{
		ID:           userID,
		Email:        "legacy@example.com",
		Role:         model.RoleSupervisor,
		PasswordHash: "plaintext-pw",
	}

	userStore := &MockUserStore{}
	userStore.On("GetByEmailAndRole", mock.Anything, "legacy@example.com", model.RoleSupervisor).Return(user, nil)
	userStore.On("UpdatePassword", mock.Anything, userID, mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("plaintext-pw")) == nil
	})).Return(nil)

	tokens := &MockTokenManager{}
	tokens.On("Generate", userID, model.RoleSupervisor).Return("session-token", nil)

	service := NewAccount(userStore, tokens, logger.New(0))
	result, err := service.Login(context.Background(), "legacy@example.com", "plaintext-pw", model.RoleSupervisor)

	require.NoError(t, err)
	assert.Equal(t, "session-token", result.Token)
	userStore.AssertExpectations(t)
}

func TestAccountService_ChangePassword(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name      string
		current   string
		next      string
		mockSetup func(*MockUserStore)
		wantErr   bool
	}{
		{
			name:    "successful change",
			current: "old-pw",
			next:    "new-pw",
			mockSetup: func(userStore *MockUserStore) {
				user := model.User{ID: userID, PasswordHash: hashPassword(t, "old-pw")}
				userStore.On("GetByID", mock.Anything, userID).Return(user, nil)
				userStore.On("UpdatePassword", mock.Anything, userID, mock.MatchedBy(func(hash string) bool {
					return bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-pw")) == nil
				})).Return(nil)
			},
		},
		{
			name:      "empty new password",
			current:   "old-pw",
			next:      "",
			mockSetup: func(userStore *MockUserStore) {},
			wantErr:   true,
		},
		{
			name:    "wrong current password",
			current: "not-it",
			next:    "new-pw",
			mockSetup: func(userStore *MockUserStore) {
				user := model.User{ID: userID, PasswordHash: hashPassword(t, "old-pw")}
				userStore.On("GetByID", mock.Anything, userID).Return(user, nil)
			},
			wantErr: true,
		},
		{
			name:    "store error",
			current: "old-pw",
			next:    "new-pw",
			mockSetup: func(userStore *MockUserStore) {
				userStore.On("GetByID", mock.Anything, userID).Return(model.User{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userStore := &MockUserStore{}
			tt.mockSetup(userStore)

			service := NewAccount(userStore, &MockTokenManager{}, logger.New(0))
			err := service.ChangePassword(context.Background(), userID, tt.current, tt.next)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			userStore.AssertExpectations(t)
		})
	}
}

func TestAccountService_UpdateProfile_RequiresEmail(t *testing.T) {
	service := NewAccount(&MockUserStore{}, &MockTokenManager{}, logger.New(0))

	_, err := service.UpdateProfile(context.Background(), uuid.New(), model.ProfileUpdate{FirstName: "Youssef"})
	require.True(t, model.IsValidation(err))
}
