package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-backend/internal/model"
	"quiz-backend/pkg/apierror"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func TestUserRepositoryFindByUsername(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "nickname", "is_admin"}).
			AddRow(1, "alice", "$2a$04$hash", "Al", true))

	user, err := repo.FindByUsername(context.Background(), " alice ")
	require.NoError(t, err)
	assert.Equal(t, model.User{ID: 1, Username: "alice", PasswordHash: "$2a$04$hash", Nickname: "Al", IsAdmin: true}, user)
}

func TestUserRepositoryFindByUsernameNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestUserRepositoryFindSafeByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT id, username, nickname, is_admin FROM users WHERE id = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "nickname", "is_admin"}).
			AddRow(7, "bob", "Bobby", false))

	user, err := repo.FindSafeByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, model.SafeUser{ID: 7, Username: "bob", Nickname: "Bobby"}, user)
}

func TestUserRepositoryFindSafeByIDErrors(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "nickname", "is_admin"}))
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(9).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.FindSafeByID(context.Background(), 8)
	assert.ErrorIs(t, err, model.ErrUserNotFound)

	_, err = repo.FindSafeByID(context.Background(), 9)
	require.Error(t, err)
	assert.Equal(t, apierror.KindDatabase, apierror.KindOf(err))
}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("carol", "hash", "Caz", false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "nickname", "is_admin"}).
			AddRow(3, "carol", "Caz", false))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("carol", "hash", "Caz", false).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	rec := model.UserRecord{Username: "carol", PasswordHash: "hash", Nickname: "Caz"}

	user, err := repo.Create(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, 3, user.ID)

	_, err = repo.Create(context.Background(), rec)
	assert.ErrorIs(t, err, model.ErrUserAlreadyExists)
}

func TestUserRepositoryDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.ErrorIs(t, repo.Delete(context.Background(), 4), model.ErrUserNotFound)
}

func TestUserRepositoryCount(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
