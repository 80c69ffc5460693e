package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordCols = []string{"id", "entity", "data", "created_at", "updated_at"}

func TestGetMissingReturnsNil(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, entity, data, created_at, updated_at FROM records WHERE entity = \? AND id = \?`).
		WithArgs("clientes", "x").
		WillReturnRows(sqlmock.NewRows(recordCols))

	rec, err := NewRecordRepo(db).Get(context.Background(), "clientes", "x")
	require.NoError(t, err)
	assert.Nil(t, rec)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListDecodeError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM records WHERE entity = \?`).
		WithArgs("clientes").
		WillReturnRows(sqlmock.NewRows(recordCols).AddRow("1", "clientes", "{bad", now, now))

	_, err = NewRecordRepo(db).List(context.Background(), "clientes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode record 1")
}

func TestUpdateNotFound(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE records SET data = \?`).
		WithArgs(`{"nome":"Ana"}`, "clientes", "9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewRecordRepo(db).Update(context.Background(), "clientes", "9", map[string]any{"nome": "Ana"})
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteManyRollsBack(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("disk full")
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM records WHERE entity = \? AND id IN \(\?,\?\)`).
		WithArgs("clientes", "a", "b").
		WillReturnError(boom)
	mock.ExpectRollback()

	n, err := NewRecordRepo(db).DeleteMany(context.Background(), "clientes", []string{"a", "b"})
	require.ErrorIs(t, err, boom)
	assert.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteManyCommits(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM records WHERE entity = \? AND id IN \(\?,\?,\?\)`).
		WithArgs("clientes", "a", "b", "c").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := NewRecordRepo(db).DeleteMany(context.Background(), "clientes", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteManyEmptyIsNoop(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	n, err := NewRecordRepo(db).DeleteMany(context.Background(), "clientes", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceRollsBack(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM user_permissions WHERE username = \?`).
		WithArgs("ana").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO user_permissions`).
		WithArgs("ana", "a:b:listar").
		WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	err = NewPermissionRepo(db).Replace(context.Background(), "ana", []string{"a:b:listar", "a:b:editar"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
