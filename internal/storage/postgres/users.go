package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/library-be/internal/models"
)

const userColumns = `id, username, email, roles, password_hash, created_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (username, email, roles, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.Username, user.Email, user.Roles, user.PasswordHash)
	return scanUser(row)
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return findUser(ctx, s.pool, username)
}

func findUser(ctx context.Context, q querier, username string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(q.QueryRow(ctx, query, username))
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Roles, &user.PasswordHash, &user.CreatedAt); err != nil {
		return models.User{}, translate(err)
	}
	return user, nil
}
