package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecTx_CommitsOnSuccess(t *testing.T) {
	// GIVEN: транзакция, в которой выполняется один запрос
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM items")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	store := NewStore(conn)

	// WHEN: функция завершается без ошибки
	err = store.ExecTx(context.Background(), func(q Querier) error {
		return q.DeleteItem(context.Background(), 7)
	})

	// THEN: транзакция зафиксирована
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecTx_RollsBackOnError(t *testing.T) {
	// GIVEN: функция, возвращающая ошибку
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	store := NewStore(conn)
	fnErr := errors.New("boom")

	// WHEN: ExecTx выполняется
	err = store.ExecTx(context.Background(), func(q Querier) error {
		return fnErr
	})

	// THEN: возвращается исходная ошибка, транзакция откатана
	require.ErrorIs(t, err, fnErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecTx_ReportsRollbackFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(errors.New("connection lost"))

	store := NewStore(conn)

	err = store.ExecTx(context.Background(), func(q Querier) error {
		return errors.New("boom")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tx err: boom")
	assert.Contains(t, err.Error(), "rb err: connection lost")
}

func TestExecTx_BeginFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	store := NewStore(conn)
	called := false

	err = store.ExecTx(context.Background(), func(q Querier) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called, "функция не должна вызываться без транзакции")
}
