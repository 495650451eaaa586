package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"absenceportal/internal/logger"
	"absenceportal/internal/model"
	"absenceportal/internal/token"
)

// Account implements login, password and profile operations.
type Account struct {
	userStore model.UserStore
	tokens    token.Manager
	logger    *logger.Logger
}

func NewAccount(userStore model.UserStore, tokens token.Manager, logger *logger.Logger) *Account {
	return &Account{
		userStore: userStore,
		tokens:    tokens,
		logger:    logger,
	}
}

// LoginResult is the identity summary returned on successful login.
type LoginResult struct {
	User  model.User
	Token string
}

// Login authenticates an account by email, password and requested role.
func (s *Account) Login(ctx context.Context, email, password string, role model.Role) (LoginResult, error) {
	if !role.Valid() {
		return LoginResult{}, model.ErrInvalidRole
	}

	user, err := s.userStore.GetByEmailAndRole(ctx, email, role)
	if errors.Is(err, model.ErrNotFound) {
		return LoginResult{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := s.verifyPassword(ctx, user, password); err != nil {
		return LoginResult{}, err
	}

	sessionToken, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to issue session token: %w", err)
	}

	s.logger.Info("Account service: login", "user_id", user.ID, "role", user.Role)

	return LoginResult{User: user, Token: sessionToken}, nil
}

// verifyPassword checks the supplied password. Rows migrated from the legacy
// system may still hold a plaintext value; those are compared directly and
// rehashed on first successful login.
func (s *Account) verifyPassword(ctx context.Context, user model.User, password string) error {
	if len(user.PasswordHash) < 60 {
		if password != user.PasswordHash {
			return model.ErrInvalidCredentials
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.userStore.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
			s.logger.Error("Account service: failed to upgrade legacy password",
				"user_id", user.ID,
				"error", err.Error())
		}
		return nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.ErrInvalidCredentials
	}
	return nil
}

// GetUser returns a single account.
func (s *Account) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// UpdateProfile replaces the mutable profile fields of an account.
func (s *Account) UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (model.User, error) {
	if update.Email == "" {
		return model.User{}, model.NewValidationError("email", "must not be empty")
	}

	user, err := s.userStore.UpdateProfile(ctx, model.User{
		ID:          id,
		FirstName:   update.FirstName,
		LastName:    update.LastName,
		Email:       update.Email,
		PhoneNumber: update.PhoneNumber,
		Address:     update.Address,
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// UpdateProfileImage replaces an account's avatar reference.
func (s *Account) UpdateProfileImage(ctx context.Context, id uuid.UUID, image string) (model.User, error) {
	user, err := s.userStore.UpdateProfileImage(ctx, id, image)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update profile image: %w", err)
	}
	return user, nil
}

// ChangePassword verifies the current password and stores a hash of the new
// one.
func (s *Account) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	if next == "" {
		return model.NewValidationError("new_password", "must not be empty")
	}

	user, err := s.userStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	if err := s.verifyPassword(ctx, user, current); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userStore.UpdatePassword(ctx, id, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Account service: password changed", "user_id", id)
	return nil
}
