package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"absenceportal/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `user_id, email, first_name, last_name, role, phone_number, address, profile_image, password_hash`

func scanUser(row *sql.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Role,
		&user.PhoneNumber, &user.Address, &user.ProfileImage, &user.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByEmailAndRole(ctx context.Context, email string, role model.Role) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND role = $2`
	return scanUser(r.db.QueryRowContext(ctx, query, email, string(role)))
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `
		INSERT INTO users (user_id, email, first_name, last_name, role, phone_number, address, profile_image, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.FirstName, user.LastName, string(user.Role),
		user.PhoneNumber, user.Address, user.ProfileImage, user.PasswordHash,
	))
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user model.User) (model.User, error) {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, phone_number = $5, address = $6, updated_at = now()
		WHERE user_id = $1
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.PhoneNumber, user.Address,
	))
}

func (r *UserRepository) UpdateProfileImage(ctx context.Context, id uuid.UUID, image string) (model.User, error) {
	query := `
		UPDATE users
		SET profile_image = $2, updated_at = now()
		WHERE user_id = $1
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, id, image))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}
