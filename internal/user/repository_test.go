package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

var userColumns = []string{
	"id", "email", "password_hash", "first_name", "last_name",
	"group_label", "role", "active", "created_at",
}

func TestCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectQuery(`INSERT INTO users.*`).
		WithArgs("Mario", "Rossi", "ATLA", "USER", "mario.rossi@sportslot.local", "hash").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "mario.rossi@sportslot.local", "hash", "Mario", "Rossi", "ATLA", "USER", true, time.Now()))

	u, err := repo.Create(context.Background(), "Mario", "Rossi", "ATLA", "USER", "mario.rossi@sportslot.local", "hash")
	assert.NoError(t, err)
	assert.Equal(t, 1, u.ID)
	assert.Equal(t, "Rossi", u.LastName)
	assert.Equal(t, "USER", u.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT .* FROM users WHERE LOWER\(email\) = LOWER\(\$1\) AND active = TRUE`).
		WithArgs("Mario.Rossi@sportslot.local").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "mario.rossi@sportslot.local", "hash", "Mario", "Rossi", "ATLA", "USER", true, time.Now()))

	u, err := repo.FindByEmail(context.Background(), "Mario.Rossi@sportslot.local")
	assert.NoError(t, err)
	assert.Equal(t, "mario.rossi@sportslot.local", u.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT .* FROM users.*`).
		WithArgs("ghost@sportslot.local").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err = repo.FindByEmail(context.Background(), "ghost@sportslot.local")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(3, "anna.bianchi@sportslot.local", "hash", "Anna", "Bianchi", "BETA", "ADMIN", true, time.Now()))

	u, err := repo.FindByID(context.Background(), 3)
	assert.NoError(t, err)
	assert.Equal(t, "ADMIN", u.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users.*`).
		WithArgs("mario.rossi@sportslot.local").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "mario.rossi@sportslot.local")
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role = \$1`).
		WithArgs("ADMIN").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountByRole(context.Background(), "ADMIN")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
