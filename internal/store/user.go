package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `db:"id"`
	Email          string    `db:"email"`
	Name           string    `db:"name"`
	HashedPassword string    `db:"hashed_password"`
	CreatedAt      time.Time `db:"created_at"`
}

const sqlCheckIfEmailExists = `
SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`

func (s *Store) CheckIfEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, sqlCheckIfEmailExists, email)
	if err != nil {
		s.logger.Error(ctx, "failed to check if email exists", err)
		return false, fmt.Errorf("failed to check if email exists: %w", err)
	}
	return exists, nil
}

const sqlCreateUser = `
INSERT INTO users (email, name, hashed_password)
VALUES ($1, $2, $3)
RETURNING id, email, name, hashed_password, created_at`

func (s *Store) CreateUser(ctx context.Context, email, name, hashedPassword string) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, sqlCreateUser, email, name, hashedPassword)
	if err != nil {
		s.logger.Error(ctx, "failed to create user", err)
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

const sqlGetUserByEmail = `
SELECT id, email, name, hashed_password, created_at
FROM users
WHERE email = $1`

func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, sqlGetUserByEmail, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get user by email", err)
		return User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

const sqlGetUserByID = `
SELECT id, email, name, hashed_password, created_at
FROM users
WHERE id = $1`

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, sqlGetUserByID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get user by ID", err)
		return User{}, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}
