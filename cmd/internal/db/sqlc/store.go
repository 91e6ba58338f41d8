package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Store объединяет сгенерированные запросы и выполнение транзакций
type Store interface {
	Querier
	ExecTx(ctx context.Context, fn func(q Querier) error) error
}

// SQLStore - реализация Store поверх *sql.DB
type SQLStore struct {
	*Queries
	db *sql.DB
}

// NewStore создает новый Store
func NewStore(db *sql.DB) Store {
	return &SQLStore{
		db:      db,
		Queries: New(db),
	}
}

// ExecTx выполняет функцию внутри транзакции.
// При ошибке fn транзакция откатывается, иначе фиксируется.
func (store *SQLStore) ExecTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	q := New(tx)
	err = fn(q)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}
