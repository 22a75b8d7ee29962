package db

import (
	"context"

	"github.com/google/uuid"
)

type CreateUserParams struct {
	Username       string
	Email          string
	HashedPassword string
}

func (q *Queries) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO users (uuid, username, email, hashed_password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, uuid, username, email, hashed_password, is_active, created_at
	`, uuid.NewString(), params.Username, params.Email, params.HashedPassword)

	var u User
	err := row.Scan(&u.ID, &u.UUID, &u.Username, &u.Email, &u.HashedPassword, &u.IsActive, &u.CreatedAt)
	return u, err
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, uuid, username, email, hashed_password, is_active, created_at
		FROM users
		WHERE username = $1
	`, username)

	var u User
	err := row.Scan(&u.ID, &u.UUID, &u.Username, &u.Email, &u.HashedPassword, &u.IsActive, &u.CreatedAt)
	return u, err
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, uuid, username, email, hashed_password, is_active, created_at
		FROM users
		WHERE email = $1
	`, email)

	var u User
	err := row.Scan(&u.ID, &u.UUID, &u.Username, &u.Email, &u.HashedPassword, &u.IsActive, &u.CreatedAt)
	return u, err
}

func (q *Queries) GetUserByUUID(ctx context.Context, userUUID string) (User, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, uuid, username, email, hashed_password, is_active, created_at
		FROM users
		WHERE uuid = $1
	`, userUUID)

	var u User
	err := row.Scan(&u.ID, &u.UUID, &u.Username, &u.Email, &u.HashedPassword, &u.IsActive, &u.CreatedAt)
	return u, err
}
