package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"quiz-backend/internal/model"
	"quiz-backend/pkg/apierror"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername loads the full record, password hash included.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, nickname, is_admin
		 FROM users WHERE username = $1`, strings.TrimSpace(username)).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Nickname, &u.IsAdmin)

	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, apierror.Database("find user by username", err)
	}
	return u, nil
}

// FindSafeByID never selects the password hash.
func (r *UserRepository) FindSafeByID(ctx context.Context, id int) (model.SafeUser, error) {
	var u model.SafeUser
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, nickname, is_admin FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Nickname, &u.IsAdmin)

	if errors.Is(err, sql.ErrNoRows) {
		return model.SafeUser{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.SafeUser{}, apierror.Database("find user by id", err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, rec model.UserRecord) (model.SafeUser, error) {
	var u model.SafeUser
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, nickname, is_admin)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, username, nickname, is_admin`,
		rec.Username, rec.PasswordHash, rec.Nickname, rec.IsAdmin).
		Scan(&u.ID, &u.Username, &u.Nickname, &u.IsAdmin)

	if pgErrorCode(err) == pgUniqueViolation {
		return model.SafeUser{}, model.ErrUserAlreadyExists
	}
	if err != nil {
		return model.SafeUser{}, apierror.Database("create user", err)
	}
	return u, nil
}

// Delete removes the user; comments and likes go with it through ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apierror.Database("delete user", err)
	}
	return requireAffected(res, model.ErrUserNotFound)
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, apierror.Database("count users", err)
	}
	return count, nil
}
