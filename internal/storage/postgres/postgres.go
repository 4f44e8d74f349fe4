// postgres предоставляет реализацию storage.Storage на базе PostgreSQL.
// Используется, когда кэш секций разделяется несколькими инстансами сервиса.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pribylovaa/go-audio-sections/internal/storage"
)

// Storage — кэш секций в PostgreSQL.
type Storage struct {
	db *pgxpool.Pool
}

// New создает и инициализирует пул соединений к PostgreSQL.
// Схема применяется отдельно миграциями из ./migrations.
func New(ctx context.Context, dbURL string) (*Storage, error) {
	const op = "storage.postgres.New"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// Close закрывает пул соединений.
// Должен вызываться при остановке приложения.
func (s *Storage) Close() {
	s.db.Close()
}

// InTx выполняет fn в транзакции READ COMMITTED: читатели видят
// либо кэш до коммита, либо после.
func (s *Storage) InTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	const op = "storage.postgres.InTx"

	err := pgx.BeginTxFunc(ctx, s.db, pgx.TxOptions{}, func(pgTx pgx.Tx) error {
		return fn(ctx, &tx{tx: pgTx})
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	return nil
}

// mapError переводит ошибки уникальности в storage.ErrConflict,
// сохраняя исходную ошибку в цепочке.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: %s", storage.ErrConflict, pgErr.ConstraintName)
	}

	return err
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.Storage = (*Storage)(nil)
