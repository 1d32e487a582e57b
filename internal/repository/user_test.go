package repository

import (
	"context"
	"regexp"
	"testing"

	"aura/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "tester", Email: "tester@example.com", Password: "hash"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, user)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
			WithArgs("found@example.com", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).
				AddRow(7, "found", "found@example.com"))

		user, err := repo.GetByEmail(ctx, "found@example.com")
		assert.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, uint(7), user.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing is nil not error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
			WithArgs("absent@example.com", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		user, err := repo.GetByEmail(ctx, "absent@example.com")
		assert.NoError(t, err)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WithArgs(42, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.GetByID(ctx, 42)
	assert.Nil(t, user)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Search(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE \(username ILIKE \$1 OR display_name ILIKE \$2\)`).
		WithArgs("%cor%", "%cor%", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).
			AddRow(1, "corvid").
			AddRow(2, "cormorant"))

	users, err := repo.Search(ctx, "cor", 10, 0)
	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
